package entity

import "time"

// Country país de operación; las oportunidades y reportes se filtran por él.
type Country struct {
	ID        string
	Name      string
	Code      string
	Region    string
	IsActive  bool
	CreatedAt time.Time
}
