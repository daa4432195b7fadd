// Package analytics calcula las vistas derivadas (dashboard, forecast y
// entrega) a partir de las filas leídas del store. Los cálculos son funciones
// puras; los casos de uso solo leen en paralelo y delegan en ellas.
package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/crm-pipeline-api/internal/application/dto"
)

const unknownCountry = "Unknown"

var hundred = decimal.NewFromInt(100)

// percent devuelve num/den*100 redondeado a 2 decimales; 0 si den es 0.
func percent(num, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return num.Div(den).Mul(hundred).Round(2)
}

// ratio num/den redondeado a 2 decimales; 0 si den es 0.
func ratio(num decimal.Decimal, den int) decimal.Decimal {
	if den == 0 {
		return decimal.Zero
	}
	return num.Div(decimal.NewFromInt(int64(den))).Round(2)
}

// accumulator suma valores por nombre recordando el orden de aparición.
type accumulator struct {
	order  []string
	values map[string]decimal.Decimal
}

func newAccumulator() *accumulator {
	return &accumulator{values: make(map[string]decimal.Decimal)}
}

func (a *accumulator) add(name string, v decimal.Decimal) {
	cur, ok := a.values[name]
	if !ok {
		a.order = append(a.order, name)
		cur = decimal.Zero
	}
	a.values[name] = cur.Add(v)
}

// top devuelve los n mayores en orden descendente (empates: orden de aparición).
func (a *accumulator) top(n int) []dto.NamedValueDTO {
	out := make([]dto.NamedValueDTO, 0, len(a.order))
	for _, name := range a.order {
		out = append(out, dto.NamedValueDTO{Name: name, Value: a.values[name]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value.GreaterThan(out[j].Value) })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func countryName(name string) string {
	if name == "" {
		return unknownCountry
	}
	return name
}
