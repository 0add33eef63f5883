package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/mycrm-api/internal/domain"
	"github.com/jhoicas/mycrm-api/internal/domain/entity"
	"github.com/jhoicas/mycrm-api/internal/domain/repository"
)

var _ repository.EmailLogRepository = (*EmailLogStore)(nil)

// EmailLogStore registros de correo en memoria (comienza vacío).
type EmailLogStore struct {
	mu     sync.Mutex
	items  map[int64]*entity.EmailLog
	nextID int64
	now    func() time.Time
}

// NewEmailLogStore construye el store vacío.
func NewEmailLogStore() *EmailLogStore {
	return &EmailLogStore{items: make(map[int64]*entity.EmailLog), nextID: 1, now: time.Now}
}

func copyEmailLog(l *entity.EmailLog) *entity.EmailLog {
	out := *l
	return &out
}

func (s *EmailLogStore) filter(keep func(*entity.EmailLog) bool) []*entity.EmailLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]*entity.EmailLog, 0)
	for _, l := range s.items {
		if keep == nil || keep(l) {
			list = append(list, copyEmailLog(l))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

func (s *EmailLogStore) List(_ context.Context) ([]*entity.EmailLog, error) {
	return s.filter(nil), nil
}

func (s *EmailLogStore) ListByCustomer(_ context.Context, customerID int64) ([]*entity.EmailLog, error) {
	return s.filter(func(l *entity.EmailLog) bool { return l.CustomerID == customerID }), nil
}

func (s *EmailLogStore) ListByUser(_ context.Context, userID int64) ([]*entity.EmailLog, error) {
	return s.filter(func(l *entity.EmailLog) bool { return l.UserID == userID }), nil
}

func (s *EmailLogStore) ListSent(_ context.Context) ([]*entity.EmailLog, error) {
	return s.filter(func(l *entity.EmailLog) bool { return l.Sent }), nil
}

func (s *EmailLogStore) GetByID(_ context.Context, id int64) (*entity.EmailLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	return copyEmailLog(l), nil
}

// Create asigna ID y CreatedAt.
func (s *EmailLogStore) Create(_ context.Context, log *entity.EmailLog) (*entity.EmailLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := copyEmailLog(log)
	now := s.now()
	l.ID = s.nextID
	s.nextID++
	l.CreatedAt = &now
	s.items[l.ID] = l
	return copyEmailLog(l), nil
}

func (s *EmailLogStore) Update(_ context.Context, log *entity.EmailLog) (*entity.EmailLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.items[log.ID]
	if !ok {
		return nil, fmt.Errorf("actualizar email log %d: %w", log.ID, domain.ErrNotFound)
	}
	l := copyEmailLog(log)
	l.CreatedAt = current.CreatedAt
	s.items[l.ID] = l
	return copyEmailLog(l), nil
}

func (s *EmailLogStore) Delete(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return false, nil
	}
	delete(s.items, id)
	return true, nil
}
