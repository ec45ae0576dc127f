package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventario-ledger/internal/domain"
)

func TestWrap_TraduceSQLState(t *testing.T) {
	cases := []struct {
		code string
		want error
	}{
		{codeSerializationFailure, domain.ErrConflict},
		{codeDeadlockDetected, domain.ErrConflict},
		{codeLockNotAvailable, domain.ErrConflict},
		{codeCheckViolation, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			err := wrap("update stock", &pgconn.PgError{Code: tc.code})
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestWrap_OtrosErroresSeConservan(t *testing.T) {
	base := errors.New("conexión cerrada")
	err := wrap("list movements", base)
	assert.ErrorIs(t, err, base)
	assert.NotErrorIs(t, err, domain.ErrInvalidInput)
	assert.NotErrorIs(t, err, domain.ErrConflict)
	assert.Nil(t, wrap("noop", nil))
}
