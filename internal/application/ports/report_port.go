package ports

import (
	"context"
	"time"

	"github.com/jhoicas/mycrm-api/internal/domain/entity"
)

// EmailReportGenerator renderiza el reporte de auditoría de correos (PDF).
type EmailReportGenerator interface {
	GenerateEmailReport(ctx context.Context, logs []*entity.EmailLog, generatedAt time.Time) ([]byte, error)
}
