package entity

import "time"

// Customer representa un cliente final al que se venden perfiles.
type Customer struct {
	ID        string
	CompanyID string
	Name      string
	TaxID     string // NIT o cédula
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
