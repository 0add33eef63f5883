package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/jhoicas/mycrm-api/internal/domain"
	"github.com/jhoicas/mycrm-api/internal/domain/entity"
	"github.com/jhoicas/mycrm-api/internal/domain/repository"
)

var _ repository.RoleRepository = (*RoleStore)(nil)

// RoleStore roles en memoria; siempre se siembra con Administrator y Standard User.
type RoleStore struct {
	mu     sync.Mutex
	items  map[int]*entity.Role
	nextID int
}

// NewRoleStore construye el store con los dos roles del sistema.
func NewRoleStore() *RoleStore {
	s := &RoleStore{items: make(map[int]*entity.Role), nextID: 1}
	for _, r := range sampleRoles() {
		s.items[r.ID] = r
		if r.ID >= s.nextID {
			s.nextID = r.ID + 1
		}
	}
	return s
}

func copyRole(r *entity.Role) *entity.Role {
	out := *r
	return &out
}

func (s *RoleStore) List(_ context.Context) ([]*entity.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]*entity.Role, 0, len(s.items))
	for _, r := range s.items {
		list = append(list, copyRole(r))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (s *RoleStore) GetByID(_ context.Context, id int) (*entity.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	return copyRole(r), nil
}

func (s *RoleStore) FindByName(ctx context.Context, name string) (*entity.Role, error) {
	list, _ := s.List(ctx)
	for _, r := range list {
		if strings.EqualFold(r.Name, name) {
			return r, nil
		}
	}
	return nil, nil
}

func (s *RoleStore) Create(_ context.Context, role *entity.Role) (*entity.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := copyRole(role)
	r.ID = s.nextID
	s.nextID++
	s.items[r.ID] = r
	return copyRole(r), nil
}

func (s *RoleStore) Update(_ context.Context, role *entity.Role) (*entity.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[role.ID]; !ok {
		return nil, fmt.Errorf("actualizar rol %d: %w", role.ID, domain.ErrNotFound)
	}
	r := copyRole(role)
	s.items[r.ID] = r
	return copyRole(r), nil
}

func (s *RoleStore) Delete(_ context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return false, nil
	}
	delete(s.items, id)
	return true, nil
}
