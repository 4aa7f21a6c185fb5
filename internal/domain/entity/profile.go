package entity

import (
	"time"

	"github.com/jdrueda/slotstock-api/internal/domain"
)

// Estados de un perfil (slot vendible de una cuenta).
const (
	ProfileAvailable = "AVAILABLE"
	ProfileSold      = "SOLD"
	ProfileBlocked   = "BLOCKED"
)

// Profile representa un perfil vendible de una cuenta de streaming.
// Máquina de estados: AVAILABLE → SOLD (venta), AVAILABLE → BLOCKED (reducción
// de perfiles o inactivación de la cuenta) y SOLD → AVAILABLE únicamente al
// anular una venta. BLOCKED es terminal: nunca vuelve a AVAILABLE automáticamente.
type Profile struct {
	ID        string
	AccountID string
	ProfileNo int // número secuencial dentro de la cuenta (1..N)
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// transiciones permitidas: estado actual → destinos válidos.
var profileTransitions = map[string]map[string]bool{
	ProfileAvailable: {ProfileSold: true, ProfileBlocked: true},
	ProfileSold:      {ProfileAvailable: true}, // solo vía anulación de venta
	ProfileBlocked:   {},
}

// TransitionTo cambia el estado del perfil validando la máquina de estados.
// Devuelve domain.ErrProfileState si la transición no está permitida.
func (p *Profile) TransitionTo(next string, now time.Time) error {
	allowed, ok := profileTransitions[p.Status]
	if !ok || !allowed[next] {
		return domain.ErrProfileState
	}
	p.Status = next
	p.UpdatedAt = now
	return nil
}
