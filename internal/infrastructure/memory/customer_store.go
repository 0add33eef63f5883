package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/mycrm-api/internal/domain"
	"github.com/jhoicas/mycrm-api/internal/domain/entity"
	"github.com/jhoicas/mycrm-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerStore)(nil)

// CustomerStore implementación en memoria de CustomerRepository.
// El mutex solo protege el mapa; dos updates concurrentes del mismo ID terminan
// en "gana el último" (sin bloqueo por entidad).
type CustomerStore struct {
	mu     sync.Mutex
	items  map[int64]*entity.Customer
	nextID int64
	now    func() time.Time
}

// NewCustomerStore construye el store vacío.
func NewCustomerStore() *CustomerStore {
	return &CustomerStore{items: make(map[int64]*entity.Customer), nextID: 1, now: time.Now}
}

// NewSampleCustomerStore construye el store con los clientes de ejemplo (IDs 1..3).
func NewSampleCustomerStore() *CustomerStore {
	s := NewCustomerStore()
	for _, c := range sampleCustomers(s.now()) {
		s.items[c.ID] = c
		if c.ID >= s.nextID {
			s.nextID = c.ID + 1
		}
	}
	return s
}

func copyCustomer(c *entity.Customer) *entity.Customer {
	out := *c
	return &out
}

func (s *CustomerStore) sorted(keep func(*entity.Customer) bool) []*entity.Customer {
	list := make([]*entity.Customer, 0, len(s.items))
	for _, c := range s.items {
		if keep == nil || keep(c) {
			list = append(list, copyCustomer(c))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// List devuelve todos los clientes ordenados por ID.
func (s *CustomerStore) List(_ context.Context) ([]*entity.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sorted(nil), nil
}

// ListActive devuelve solo los clientes activos.
func (s *CustomerStore) ListActive(_ context.Context) ([]*entity.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sorted(func(c *entity.Customer) bool { return c.IsActive }), nil
}

// GetByID devuelve (nil, nil) si no existe.
func (s *CustomerStore) GetByID(_ context.Context, id int64) (*entity.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	return copyCustomer(c), nil
}

// FindByEmail búsqueda lineal, sin distinguir mayúsculas.
func (s *CustomerStore) FindByEmail(_ context.Context, email string) (*entity.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.sorted(nil) {
		if strings.EqualFold(c.Email, email) {
			return c, nil
		}
	}
	return nil, nil
}

// Create asigna ID y timestamps.
func (s *CustomerStore) Create(_ context.Context, customer *entity.Customer) (*entity.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := copyCustomer(customer)
	now := s.now()
	c.ID = s.nextID
	s.nextID++
	c.CreatedAt = &now
	c.UpdatedAt = &now
	s.items[c.ID] = c
	return copyCustomer(c), nil
}

// Update reemplaza el registro y refresca UpdatedAt; conserva CreatedAt.
func (s *CustomerStore) Update(_ context.Context, customer *entity.Customer) (*entity.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.items[customer.ID]
	if !ok {
		return nil, fmt.Errorf("actualizar cliente %d: %w", customer.ID, domain.ErrNotFound)
	}
	c := copyCustomer(customer)
	now := s.now()
	c.CreatedAt = current.CreatedAt
	c.UpdatedAt = &now
	s.items[c.ID] = c
	return copyCustomer(c), nil
}

// Delete elimina físicamente.
func (s *CustomerStore) Delete(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return false, nil
	}
	delete(s.items, id)
	return true, nil
}

// SoftDelete marca IsActive=false; true mientras el registro exista.
func (s *CustomerStore) SoftDelete(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.items[id]
	if !ok {
		return false, nil
	}
	now := s.now()
	c.IsActive = false
	c.UpdatedAt = &now
	return true, nil
}
