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

var _ repository.UserRepository = (*UserStore)(nil)

// UserStore implementación en memoria de UserRepository.
type UserStore struct {
	mu     sync.Mutex
	items  map[int64]*entity.User
	nextID int64
	now    func() time.Time
}

// NewUserStore construye el store vacío.
func NewUserStore() *UserStore {
	return &UserStore{items: make(map[int64]*entity.User), nextID: 1, now: time.Now}
}

// NewSampleUserStore construye el store con admin/admin123 y user/user123.
// hash calcula el digest de las contraseñas de ejemplo (nunca se guardan en claro).
func NewSampleUserStore(hash func(string) (string, error)) (*UserStore, error) {
	s := NewUserStore()
	users, err := sampleUsers(s.now(), hash)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		s.items[u.ID] = u
		if u.ID >= s.nextID {
			s.nextID = u.ID + 1
		}
	}
	return s, nil
}

func copyUser(u *entity.User) *entity.User {
	out := *u
	return &out
}

func (s *UserStore) sorted() []*entity.User {
	list := make([]*entity.User, 0, len(s.items))
	for _, u := range s.items {
		list = append(list, copyUser(u))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

func (s *UserStore) List(_ context.Context) ([]*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sorted(), nil
}

func (s *UserStore) GetByID(_ context.Context, id int64) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	return copyUser(u), nil
}

// FindByUsername comparación exacta (los usernames distinguen mayúsculas).
func (s *UserStore) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.sorted() {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (s *UserStore) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.sorted() {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, nil
}

func (s *UserStore) Create(_ context.Context, user *entity.User) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := copyUser(user)
	now := s.now()
	u.ID = s.nextID
	s.nextID++
	u.CreatedAt = &now
	u.UpdatedAt = &now
	s.items[u.ID] = u
	return copyUser(u), nil
}

// Update reemplaza el registro; conserva CreatedAt y LastLoginAt.
func (s *UserStore) Update(_ context.Context, user *entity.User) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.items[user.ID]
	if !ok {
		return nil, fmt.Errorf("actualizar usuario %d: %w", user.ID, domain.ErrNotFound)
	}
	u := copyUser(user)
	now := s.now()
	u.CreatedAt = current.CreatedAt
	u.LastLoginAt = current.LastLoginAt
	u.UpdatedAt = &now
	s.items[u.ID] = u
	return copyUser(u), nil
}

func (s *UserStore) Delete(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return false, nil
	}
	delete(s.items, id)
	return true, nil
}

func (s *UserStore) TouchLastLogin(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.items[id]
	if !ok {
		return false, nil
	}
	now := s.now()
	u.LastLoginAt = &now
	return true, nil
}
