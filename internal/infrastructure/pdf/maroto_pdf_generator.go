// Package pdf dibuja el reporte del pipeline comercial con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + país          │  Período + fecha          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  KPIs: Pipeline | Ponderado | Ganado | Win rate             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA ETAPAS: Etapa | Cantidad | Total                     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA ABIERTAS: Código | Cliente | Etapa | Prob. | Valor   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: generado el ...                                    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/crm-pipeline-api/internal/application/reports"
	"github.com/jhoicas/crm-pipeline-api/internal/domain/entity"
	"github.com/jhoicas/crm-pipeline-api/pkg/money"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWon     = &props.Color{Red: 22, Green: 128, Blue: 61}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa reports.PDFRenderer usando Maroto v2.
type MarotoPDFGenerator struct {
	author string
}

var _ reports.PDFRenderer = (*MarotoPDFGenerator)(nil)

// NewMarotoPDFGenerator construye el generador. author se escribe en los metadatos.
func NewMarotoPDFGenerator(author string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{author: author}
}

// RenderPipeline genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) RenderPipeline(_ context.Context, r reports.PipelineReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Pipeline Report", true).
		WithAuthor(g.author, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(kpiRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitle("Pipeline by stage"))
	m.AddRows(stageHeaderRow())
	m.AddRows(stageRows(r)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(sectionTitle("Open opportunities"))
	m.AddRows(openHeaderRow())
	if len(r.Open) == 0 {
		m.AddRows(row.New(7).Add(col.New(12).Add(
			text.New("No open opportunities for the selected filters.", props.Text{
				Size: 8, Color: colorGray, Top: 1, Align: align.Center,
			}),
		)))
	}
	m.AddRows(openRows(r.Open)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(r.GeneratedAt))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(r reports.PipelineReport) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New("PIPELINE REPORT", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(r.CountryLabel, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New(periodLabel(r.Month, r.Year), props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 2,
			}),
			text.New(fmt.Sprintf("%d opportunities", r.Summary.TotalOpportunities), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// kpiRow: cuatro indicadores en columnas iguales.
func kpiRow(r reports.PipelineReport) core.Row {
	kpi := func(label, value string, c *props.Color) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{Size: 7, Color: colorGray, Top: 1, Align: align.Center}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 12, Color: c, Top: 6, Align: align.Center}),
		)
	}
	s := r.Summary
	return row.New(16).Add(
		kpi("Total pipeline", money.Compact(s.TotalPipeline), colorPrimary),
		kpi("Weighted pipeline", money.Compact(s.WeightedPipeline), colorPrimary),
		kpi("Won revenue", money.Compact(s.WonRevenue), colorWon),
		kpi("Win rate", money.Percent(s.WinRate), colorPrimary),
	)
}

func sectionTitle(label string) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(label, props.Text{Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 2}),
	))
}

func headerCell(label string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(label, props.Text{
		Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 1, Left: 1, Right: 1,
	}))
}

func cell(value string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(value, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
}

func stageHeaderRow() core.Row {
	return row.New(7).Add(
		headerCell("Stage", 6, align.Left),
		headerCell("Count", 2, align.Center),
		headerCell("Total", 4, align.Right),
	)
}

func stageRows(r reports.PipelineReport) []core.Row {
	out := make([]core.Row, 0, len(r.Stages)+1)
	for _, s := range r.Stages {
		out = append(out, row.New(6).Add(
			cell(s.Stage, 6, align.Left),
			cell(strconv.Itoa(s.Count), 2, align.Center),
			cell(money.Full(s.Total), 4, align.Right),
		))
	}
	out = append(out, row.New(7).Add(
		col.New(6).Add(text.New("TOTAL", props.Text{Style: fontstyle.Bold, Size: 9, Top: 1, Left: 1})),
		col.New(2),
		col.New(4).Add(text.New(money.Full(r.GrandTotal), props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 1, Right: 1, Color: colorPrimary,
		})),
	))
	return out
}

func openHeaderRow() core.Row {
	return row.New(7).Add(
		headerCell("Code", 2, align.Left),
		headerCell("Customer", 4, align.Left),
		headerCell("Stage", 2, align.Left),
		headerCell("Prob.", 1, align.Center),
		headerCell("Value", 3, align.Right),
	)
}

func openRows(opps []*entity.Opportunity) []core.Row {
	out := make([]core.Row, 0, len(opps))
	for _, o := range opps {
		out = append(out, row.New(6).Add(
			cell(o.Code, 2, align.Left),
			cell(o.CustomerName, 4, align.Left),
			cell(string(o.Stage), 2, align.Left),
			cell(strconv.Itoa(o.Probability)+"%", 1, align.Center),
			cell(money.Full(o.DealValue), 3, align.Right),
		))
	}
	return out
}

func footerRow(at time.Time) core.Row {
	return row.New(6).Add(col.New(12).Add(
		text.New("Generated "+at.Format("2006-01-02 15:04 MST"), props.Text{
			Size: 6.5, Color: colorGray, Top: 1, Align: align.Right,
		}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

// periodLabel "March 2026"; mes fuera de rango se muestra numérico.
func periodLabel(month, year int) string {
	if month < 1 || month > 12 {
		return fmt.Sprintf("%02d/%d", month, year)
	}
	return fmt.Sprintf("%s %d", time.Month(month).String(), year)
}
