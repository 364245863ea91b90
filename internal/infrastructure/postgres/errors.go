package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/produccion-api/internal/domain"
)

// Códigos SQLSTATE que se traducen a errores de dominio.
const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeCheckViolation       = "23514"
	codeLockNotAvailable     = "55P03"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeQueryCanceled        = "57014"
)

const constraintBatchUnique = "batches_date_sequence_product_key"

func pgErrorOf(err error) *pgconn.PgError {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr
	}
	return nil
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	pgErr := pgErrorOf(err)
	return pgErr != nil && pgErr.Code == codeUniqueViolation
}

func isContention(err error) bool {
	pgErr := pgErrorOf(err)
	if pgErr == nil {
		return false
	}
	switch pgErr.Code {
	case codeLockNotAvailable, codeSerializationFailure, codeDeadlockDetected, codeQueryCanceled:
		return true
	}
	return false
}

// mapError envuelve err con el error de dominio correspondiente; el error original se conserva.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if isContention(err) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreContention, err)
	}
	if isUniqueViolation(err) {
		if pgErrorOf(err).ConstraintName == constraintBatchUnique {
			return fmt.Errorf("%s: %w", op, domain.ErrDuplicateBatch)
		}
		return fmt.Errorf("%s: %w: %w", op, domain.ErrDuplicate, err)
	}
	if pgErr := pgErrorOf(err); pgErr != nil {
		switch pgErr.Code {
		case codeForeignKeyViolation:
			return fmt.Errorf("%s: %w: %w", op, domain.ErrNotFound, err)
		case codeCheckViolation:
			return fmt.Errorf("%s: %w: %w", op, domain.ErrIntegrity, err)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// commitError clasifica una falla de COMMIT: reintentable si es de concurrencia, integridad si no.
func commitError(err error) error {
	if isContention(err) {
		return fmt.Errorf("commit: %w: %w", domain.ErrStoreContention, err)
	}
	return fmt.Errorf("commit: %w: %w", domain.ErrIntegrity, err)
}

// acquireError traduce el vencimiento del tiempo de espera de conexión a contención.
func acquireError(ctx context.Context, err error) error {
	if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("adquirir conexión: %w: %w", domain.ErrStoreContention, err)
	}
	return fmt.Errorf("adquirir conexión: %w", err)
}
