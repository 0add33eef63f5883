package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/mycrm-api/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isForeignKeyViolation 23503: el registro está referenciado (ej. cliente con correos).
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

// wrapWriteErr traduce errores de escritura: 23505 → domain.ErrDuplicate,
// 23503 → domain.ErrValidation.
func wrapWriteErr(op string, err error) error {
	switch {
	case isUniqueViolation(err):
		return fmt.Errorf("%s: %w", op, domain.ErrDuplicate)
	case isForeignKeyViolation(err):
		return fmt.Errorf("%s: registro referenciado por otros datos: %w", op, domain.ErrValidation)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// noRows indica que QueryRow no encontró registros.
func noRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
