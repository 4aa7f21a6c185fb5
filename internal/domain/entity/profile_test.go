package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdrueda/slotstock-api/internal/domain"
	"github.com/jdrueda/slotstock-api/internal/domain/entity"
)

func newProfile(status string) *entity.Profile {
	return &entity.Profile{
		ID:        "p-1",
		AccountID: "a-1",
		ProfileNo: 1,
		Status:    status,
	}
}

func TestTransitionTo_VentaYBloqueoDesdeAvailable(t *testing.T) {
	now := time.Now()

	p := newProfile(entity.ProfileAvailable)
	require.NoError(t, p.TransitionTo(entity.ProfileSold, now))
	assert.Equal(t, entity.ProfileSold, p.Status)
	assert.Equal(t, now, p.UpdatedAt)

	p = newProfile(entity.ProfileAvailable)
	require.NoError(t, p.TransitionTo(entity.ProfileBlocked, now))
	assert.Equal(t, entity.ProfileBlocked, p.Status)
}

func TestTransitionTo_AnulacionDevuelveADisponible(t *testing.T) {
	p := newProfile(entity.ProfileSold)

	require.NoError(t, p.TransitionTo(entity.ProfileAvailable, time.Now()))
	assert.Equal(t, entity.ProfileAvailable, p.Status)
}

func TestTransitionTo_SoldNoPuedeBloquearse(t *testing.T) {
	p := newProfile(entity.ProfileSold)

	err := p.TransitionTo(entity.ProfileBlocked, time.Now())
	assert.ErrorIs(t, err, domain.ErrProfileState)
	assert.Equal(t, entity.ProfileSold, p.Status, "el estado no debe cambiar en una transición inválida")
}

func TestTransitionTo_BlockedEsTerminal(t *testing.T) {
	p := newProfile(entity.ProfileBlocked)

	assert.ErrorIs(t, p.TransitionTo(entity.ProfileAvailable, time.Now()), domain.ErrProfileState)
	assert.ErrorIs(t, p.TransitionTo(entity.ProfileSold, time.Now()), domain.ErrProfileState)
}

func TestTransitionTo_EstadoDesconocido(t *testing.T) {
	p := newProfile("CORRUPTED")

	assert.ErrorIs(t, p.TransitionTo(entity.ProfileAvailable, time.Now()), domain.ErrProfileState)
}
