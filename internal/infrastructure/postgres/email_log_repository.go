package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/mycrm-api/internal/domain"
	"github.com/jhoicas/mycrm-api/internal/domain/entity"
	"github.com/jhoicas/mycrm-api/internal/domain/repository"
)

var _ repository.EmailLogRepository = (*EmailLogRepo)(nil)

const emailLogColumns = `email_log_id, customer_id, user_id, template_text, COALESCE(subject, ''),
	COALESCE(generated_email, ''), recipient_email, COALESCE(hipaa_compliance_check, ''),
	COALESCE(ai_compliance_check, ''), compliance_approved, email_sent, sent_date, created_date,
	COALESCE(status, ''), COALESCE(error_message, '')`

// EmailLogRepo traza de auditoría de correos sobre PostgreSQL.
type EmailLogRepo struct {
	q Querier
}

// NewEmailLogRepository construye el adaptador.
func NewEmailLogRepository(q Querier) *EmailLogRepo {
	return &EmailLogRepo{q: q}
}

func scanEmailLog(row pgx.Row) (*entity.EmailLog, error) {
	var l entity.EmailLog
	err := row.Scan(&l.ID, &l.CustomerID, &l.UserID, &l.TemplateText, &l.Subject, &l.GeneratedEmail,
		&l.RecipientEmail, &l.HIPAACheck, &l.AICheck, &l.ComplianceApproved, &l.Sent, &l.SentAt,
		&l.CreatedAt, &l.Status, &l.ErrorMessage)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *EmailLogRepo) list(ctx context.Context, where string, args ...any) ([]*entity.EmailLog, error) {
	rows, err := r.q.Query(ctx, `SELECT `+emailLogColumns+` FROM email_logs `+where+` ORDER BY email_log_id`, args...)
	if err != nil {
		return nil, fmt.Errorf("list email logs: %w", err)
	}
	defer rows.Close()
	var list []*entity.EmailLog
	for rows.Next() {
		l, err := scanEmailLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan email log: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

func (r *EmailLogRepo) List(ctx context.Context) ([]*entity.EmailLog, error) {
	return r.list(ctx, "")
}

func (r *EmailLogRepo) ListByCustomer(ctx context.Context, customerID int64) ([]*entity.EmailLog, error) {
	return r.list(ctx, "WHERE customer_id = $1", customerID)
}

func (r *EmailLogRepo) ListByUser(ctx context.Context, userID int64) ([]*entity.EmailLog, error) {
	return r.list(ctx, "WHERE user_id = $1", userID)
}

func (r *EmailLogRepo) ListSent(ctx context.Context) ([]*entity.EmailLog, error) {
	return r.list(ctx, "WHERE email_sent = TRUE")
}

func (r *EmailLogRepo) GetByID(ctx context.Context, id int64) (*entity.EmailLog, error) {
	l, err := scanEmailLog(r.q.QueryRow(ctx, `SELECT `+emailLogColumns+` FROM email_logs WHERE email_log_id = $1`, id))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get email log: %w", err)
	}
	return l, nil
}

// Create inserta el registro con los veredictos ya calculados y lo vuelve a leer.
func (r *EmailLogRepo) Create(ctx context.Context, log *entity.EmailLog) (*entity.EmailLog, error) {
	query := `
		INSERT INTO email_logs (customer_id, user_id, template_text, subject, generated_email, recipient_email,
			hipaa_compliance_check, ai_compliance_check, compliance_approved, email_sent, sent_date,
			status, error_message)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, NULLIF($7, ''), NULLIF($8, ''), $9, $10, $11,
			NULLIF($12, ''), NULLIF($13, ''))
		RETURNING email_log_id`
	var id int64
	err := r.q.QueryRow(ctx, query,
		log.CustomerID, log.UserID, log.TemplateText, log.Subject, log.GeneratedEmail, log.RecipientEmail,
		log.HIPAACheck, log.AICheck, log.ComplianceApproved, log.Sent, log.SentAt,
		log.Status, log.ErrorMessage,
	).Scan(&id)
	if err != nil {
		return nil, wrapWriteErr("insert email log", err)
	}
	return r.GetByID(ctx, id)
}

func (r *EmailLogRepo) Update(ctx context.Context, log *entity.EmailLog) (*entity.EmailLog, error) {
	query := `
		UPDATE email_logs SET subject = NULLIF($2, ''), generated_email = NULLIF($3, ''),
			hipaa_compliance_check = NULLIF($4, ''), ai_compliance_check = NULLIF($5, ''),
			compliance_approved = $6, email_sent = $7, sent_date = $8,
			status = NULLIF($9, ''), error_message = NULLIF($10, '')
		WHERE email_log_id = $1`
	tag, err := r.q.Exec(ctx, query,
		log.ID, log.Subject, log.GeneratedEmail, log.HIPAACheck, log.AICheck,
		log.ComplianceApproved, log.Sent, log.SentAt, log.Status, log.ErrorMessage,
	)
	if err != nil {
		return nil, wrapWriteErr("update email log", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("update email log %d: %w", log.ID, domain.ErrNotFound)
	}
	return r.GetByID(ctx, log.ID)
}

func (r *EmailLogRepo) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM email_logs WHERE email_log_id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete email log: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
