// Package pipeline contiene la lógica pura del tablero Kanban de oportunidades:
// agrupación por etapa, resolución del destino de un arrastre, la máquina de
// estados del gesto y el comando de movimiento con deshacer.
package pipeline

import (
	"github.com/jhoicas/crm-pipeline-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Column una columna del tablero: items en orden de lectura del store y suma de valores.
type Column struct {
	Stage entity.Stage
	Items []*entity.Opportunity
	Total decimal.Decimal
}

// Anomaly oportunidad excluida del tablero por tener una etapa no canónica.
type Anomaly struct {
	OpportunityID string
	Stage         string
}

// Board agrupación efímera Stage → Column; se reconstruye en cada lectura.
type Board struct {
	columns []*Column
	index   map[entity.Stage]*Column
	order   map[string]int // id → posición en el resultado del store
}

// GroupByStage agrupa las oportunidades por etapa. Siempre contiene las siete
// columnas (vacías y con total cero si no hay filas). Las filas con etapa no
// canónica no entran al tablero y se devuelven como anomalías.
func GroupByStage(opps []*entity.Opportunity) (*Board, []Anomaly) {
	b := newBoard()
	var anomalies []Anomaly
	for i, o := range opps {
		if o == nil {
			continue
		}
		col, ok := b.index[o.Stage]
		if !ok {
			anomalies = append(anomalies, Anomaly{OpportunityID: o.ID, Stage: string(o.Stage)})
			continue
		}
		b.order[o.ID] = i
		col.Items = append(col.Items, o)
		col.Total = col.Total.Add(o.DealValue)
	}
	return b, anomalies
}

func newBoard() *Board {
	stages := entity.Stages()
	b := &Board{
		columns: make([]*Column, 0, len(stages)),
		index:   make(map[entity.Stage]*Column, len(stages)),
		order:   make(map[string]int),
	}
	for _, s := range stages {
		col := &Column{Stage: s, Items: []*entity.Opportunity{}, Total: decimal.Zero}
		b.columns = append(b.columns, col)
		b.index[s] = col
	}
	return b
}

// Columns devuelve las columnas en orden de etapa.
func (b *Board) Columns() []*Column {
	return b.columns
}

// Column devuelve la columna de la etapa (nil si la etapa no es canónica).
func (b *Board) Column(stage entity.Stage) *Column {
	return b.index[stage]
}

// Find busca una oportunidad por ID en cualquier columna.
func (b *Board) Find(id string) (*entity.Opportunity, bool) {
	for _, col := range b.columns {
		for _, o := range col.Items {
			if o.ID == id {
				return o, true
			}
		}
	}
	return nil, false
}

// GrandTotal suma de los totales de todas las columnas.
func (b *Board) GrandTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, col := range b.columns {
		sum = sum.Add(col.Total)
	}
	return sum
}

// Len número de oportunidades en el tablero.
func (b *Board) Len() int {
	n := 0
	for _, col := range b.columns {
		n += len(col.Items)
	}
	return n
}

// ResolveTarget traduce el destino de un drop a una etapa:
// si targetID es una tarjeta, la etapa actual de esa tarjeta; si es la
// etiqueta de una columna, esa etapa. ok=false si no se reconoce.
func (b *Board) ResolveTarget(targetID string) (entity.Stage, bool) {
	if o, found := b.Find(targetID); found {
		return o.Stage, true
	}
	if s, valid := entity.ParseStage(targetID); valid {
		return s, true
	}
	return "", false
}

// remove quita la tarjeta de su columna y ajusta el total.
func (b *Board) remove(id string) (*entity.Opportunity, bool) {
	for _, col := range b.columns {
		for i, o := range col.Items {
			if o.ID != id {
				continue
			}
			col.Items = append(col.Items[:i], col.Items[i+1:]...)
			col.Total = col.Total.Sub(o.DealValue)
			return o, true
		}
	}
	return nil, false
}

// insert agrega la tarjeta a la columna respetando el orden original del store,
// de modo que el tablero optimista coincide con el que se obtendría al releer.
func (b *Board) insert(o *entity.Opportunity, stage entity.Stage) {
	col := b.index[stage]
	pos := len(col.Items)
	if rank, ok := b.order[o.ID]; ok {
		for i, it := range col.Items {
			if r, known := b.order[it.ID]; known && r > rank {
				pos = i
				break
			}
		}
	}
	col.Items = append(col.Items, nil)
	copy(col.Items[pos+1:], col.Items[pos:])
	col.Items[pos] = o
	col.Total = col.Total.Add(o.DealValue)
}
