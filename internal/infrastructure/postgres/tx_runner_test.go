package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdrueda/slotstock-api/internal/domain"
)

// ──────────────────────────────────────────────────────────────────────────────
// Contrato de reintentos del runner de transacciones
//
// Los fallos de serialización (40001) y deadlocks (40P01) se reintentan en una
// tx nueva hasta txMaxRetries; todo lo demás sale en el primer intento. Estos
// tests ejercitan el bucle con callbacks sintéticos, sin base de datos.
// ──────────────────────────────────────────────────────────────────────────────

func serializationErr() error {
	return &pgconn.PgError{Code: "40001", Message: "could not serialize access due to concurrent update"}
}

func TestRunWithRetries_AgotaReintentosYDevuelveConflicto(t *testing.T) {
	calls := 0
	err := runWithRetries(context.Background(), func() error {
		calls++
		return serializationErr()
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)
	assert.Equal(t, txMaxRetries, calls, "debe intentar exactamente txMaxRetries veces")
}

func TestRunWithRetries_ExitoEnElSegundoIntento(t *testing.T) {
	calls := 0
	err := runWithRetries(context.Background(), func() error {
		calls++
		if calls == 1 {
			return serializationErr()
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls, "no debe seguir intentando tras un éxito")
}

func TestRunWithRetries_ErrorNoReintentableSaleDeInmediato(t *testing.T) {
	boom := errors.New("violación de foreign key")
	calls := 0
	err := runWithRetries(context.Background(), func() error {
		calls++
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, domain.ErrConcurrencyConflict)
	assert.Equal(t, 1, calls, "un error no reintentable no debe reintentarse")
}

func TestRunWithRetries_ErroresDeDominioNoSeReintentan(t *testing.T) {
	// Un fallo de negocio dentro del callback (p.ej. stock insuficiente)
	// debe llegar intacto al caller, sin envolverse en conflicto.
	calls := 0
	err := runWithRetries(context.Background(), func() error {
		calls++
		return domain.ErrInsufficientStock
	})

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 1, calls)
}

func TestRunWithRetries_ContextoCanceladoCortaElBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	err := runWithRetries(ctx, func() error {
		calls++
		cancel() // cancelar antes de la espera del reintento
		return serializationErr()
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls, "el backoff debe respetar la cancelación del contexto")
}

func TestIsSerializationFailure(t *testing.T) {
	assert.True(t, isSerializationFailure(&pgconn.PgError{Code: "40001"}))
	assert.True(t, isSerializationFailure(&pgconn.PgError{Code: "40P01"}), "un deadlock también es reintentable")

	wrapped := fmt.Errorf("exec movimiento: %w", &pgconn.PgError{Code: "40001"})
	assert.True(t, isSerializationFailure(wrapped), "debe detectar el código aunque venga envuelto")

	assert.False(t, isSerializationFailure(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isSerializationFailure(errors.New("conexión rechazada")))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, isUniqueViolation(errors.New("ERROR: duplicate key (SQLSTATE 23505)")))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "40001"}))
}
