package entity

import "time"

// Platform representa una plataforma de streaming del catálogo (Netflix, Disney+, etc.).
// El par (CompanyID, PlatformID) identifica la línea de costo en el kardex:
// el stock y el costo promedio se llevan por plataforma, no por cuenta individual.
type Platform struct {
	ID          string
	CompanyID   string
	Name        string
	MaxProfiles int // perfiles sugeridos por cuenta (informativo)
	Status      string // active, inactive
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
