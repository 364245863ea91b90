package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/produccion-api/internal/domain"
)

func TestMapError_CodigosSQLState(t *testing.T) {
	tests := []struct {
		name string
		err  *pgconn.PgError
		want error
	}{
		{"lock_timeout", &pgconn.PgError{Code: "55P03"}, domain.ErrStoreContention},
		{"serialización", &pgconn.PgError{Code: "40001"}, domain.ErrStoreContention},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, domain.ErrStoreContention},
		{"statement cancelado", &pgconn.PgError{Code: "57014"}, domain.ErrStoreContention},
		{"tanda repetida", &pgconn.PgError{Code: "23505", ConstraintName: constraintBatchUnique}, domain.ErrDuplicateBatch},
		{"nombre repetido", &pgconn.PgError{Code: "23505", ConstraintName: "materials_name_key"}, domain.ErrDuplicate},
		{"clave foránea", &pgconn.PgError{Code: "23503"}, domain.ErrNotFound},
		{"check", &pgconn.PgError{Code: "23514"}, domain.ErrIntegrity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mapError("op", fmt.Errorf("exec: %w", tt.err))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestMapError_DuplicadoDeTandaNoEsDuplicadoGenerico(t *testing.T) {
	err := mapError("insert batch", &pgconn.PgError{Code: "23505", ConstraintName: constraintBatchUnique})
	assert.ErrorIs(t, err, domain.ErrDuplicateBatch)
	assert.False(t, errors.Is(err, domain.ErrDuplicate))
}

func TestMapError_SinErrorYErroresNoPostgres(t *testing.T) {
	assert.NoError(t, mapError("op", nil))

	plain := errors.New("conexión cerrada")
	err := mapError("op", plain)
	assert.ErrorIs(t, err, plain)
	assert.False(t, errors.Is(err, domain.ErrStoreContention))
	assert.False(t, errors.Is(err, domain.ErrIntegrity))
}

func TestCommitError_ContencionOIntegridad(t *testing.T) {
	busy := commitError(&pgconn.PgError{Code: "40001"})
	assert.ErrorIs(t, busy, domain.ErrStoreContention)
	assert.False(t, errors.Is(busy, domain.ErrIntegrity))

	broken := commitError(&pgconn.PgError{Code: "23514"})
	assert.ErrorIs(t, broken, domain.ErrIntegrity)
	assert.False(t, errors.Is(broken, domain.ErrStoreContention))

	assert.ErrorIs(t, commitError(errors.New("unexpected EOF")), domain.ErrIntegrity)
}

func TestAcquireError_VencimientoDeEspera(t *testing.T) {
	err := acquireError(context.Background(), fmt.Errorf("acquire: %w", context.DeadlineExceeded))
	assert.ErrorIs(t, err, domain.ErrStoreContention)

	// Si el que canceló es el cliente, no se reporta como contención.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = acquireError(ctx, context.DeadlineExceeded)
	assert.False(t, errors.Is(err, domain.ErrStoreContention))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
