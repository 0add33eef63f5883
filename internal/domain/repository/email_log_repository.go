package repository

import (
	"context"

	"github.com/jhoicas/mycrm-api/internal/domain/entity"
)

// EmailLogRepository puerto de persistencia para EmailLog (traza de auditoría, solo anexar).
type EmailLogRepository interface {
	List(ctx context.Context) ([]*entity.EmailLog, error)
	GetByID(ctx context.Context, id int64) (*entity.EmailLog, error)
	Create(ctx context.Context, log *entity.EmailLog) (*entity.EmailLog, error)
	Update(ctx context.Context, log *entity.EmailLog) (*entity.EmailLog, error)
	Delete(ctx context.Context, id int64) (bool, error)

	ListByCustomer(ctx context.Context, customerID int64) ([]*entity.EmailLog, error)
	ListByUser(ctx context.Context, userID int64) ([]*entity.EmailLog, error)
	ListSent(ctx context.Context) ([]*entity.EmailLog, error)
}
