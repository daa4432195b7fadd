// Package filters mantiene la selección de mes, año y país de cada sesión
// autenticada. La selección se pasa explícitamente a cada consulta de vista.
package filters

import (
	"time"

	"github.com/jhoicas/crm-pipeline-api/internal/application/dto"
)

// Filter selección vigente. No se valida el rango: un mes 13 simplemente
// produce vistas vacías.
type Filter struct {
	Month     int     `json:"month"`
	Year      int     `json:"year"`
	CountryID *string `json:"country_id,omitempty"`
}

// Default mes y año actuales, todos los países.
func Default(now time.Time) Filter {
	return Filter{Month: int(now.Month()), Year: now.Year()}
}

// Apply devuelve una copia con el parche aplicado.
func (f Filter) Apply(p dto.UpdateFilterRequest) Filter {
	out := f
	if p.Month != nil {
		out.Month = *p.Month
	}
	if p.Year != nil {
		out.Year = *p.Year
	}
	if p.ClearCountry {
		out.CountryID = nil
	} else if p.CountryID != nil {
		id := *p.CountryID
		if id == "" {
			out.CountryID = nil
		} else {
			out.CountryID = &id
		}
	}
	return out
}

// ToResponse convierte a DTO.
func (f Filter) ToResponse() dto.FilterResponse {
	return dto.FilterResponse{Month: f.Month, Year: f.Year, CountryID: f.CountryID}
}
