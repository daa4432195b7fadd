package reports

import (
	"bytes"
	"testing"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-pipeline-api/internal/application/dto"
	"github.com/jhoicas/crm-pipeline-api/internal/domain/entity"
)

func sampleForecast() dto.ForecastSummaryDTO {
	q1 := 1
	return dto.ForecastSummaryDTO{
		Year: 2026,
		Quarters: []dto.QuarterRowDTO{{
			Period: "Q1 2026", Year: 2026, Quarter: 1,
			ByArea: map[string]decimal.Decimal{"NOC": decimal.NewFromInt(500)},
			Total:  decimal.NewFromInt(500),
		}},
		BusinessAreas: []dto.NamedValueDTO{{Name: "NOC", Value: decimal.NewFromInt(500)}},
		ByCountry:     []dto.NamedValueDTO{{Name: "Colombia", Value: decimal.NewFromInt(500)}},
		TotalForecast: decimal.NewFromInt(500),
		YearOneTotal:  decimal.NewFromInt(500),
		Planned: []dto.ForecastResponse{{
			ID: "f1", BusinessArea: "NOC", Year: 2026, Quarter: &q1, ExpectedRevenue: decimal.NewFromInt(800),
		}},
		PlannedTotal: decimal.NewFromInt(800),
	}
}

func TestBuildForecastXML(t *testing.T) {
	out, err := BuildForecastXML(sampleForecast(), "Colombia")
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))
	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, "Forecast", root.Tag)
	assert.Equal(t, "2026", root.SelectAttrValue("year", ""))
	assert.Equal(t, "500.00", root.FindElement("Totals/Total").Text())
	assert.Equal(t, "800.00", root.FindElement("Totals/Planned").Text())

	area := root.FindElement("Quarters/Quarter/Area")
	require.NotNil(t, area)
	assert.Equal(t, "NOC", area.SelectAttrValue("name", ""))
	assert.Equal(t, "1", root.FindElement("PlannedForecasts/Planned").SelectAttrValue("q", ""))
}

func TestDigest_EstableYSensibleALosDatos(t *testing.T) {
	a, err := BuildForecastXML(sampleForecast(), "Colombia")
	require.NoError(t, err)
	b, err := BuildForecastXML(sampleForecast(), "Colombia")
	require.NoError(t, err)

	da, err := Digest(a)
	require.NoError(t, err)
	db, err := Digest(b)
	require.NoError(t, err)
	assert.Equal(t, da, db)
	assert.Len(t, da, 64)

	changed := sampleForecast()
	changed.TotalForecast = decimal.NewFromInt(501)
	c, err := BuildForecastXML(changed, "Colombia")
	require.NoError(t, err)
	dc, err := Digest(c)
	require.NoError(t, err)
	assert.NotEqual(t, da, dc)
}

func TestWriteOpportunitiesCSV_Windows1252(t *testing.T) {
	opps := []*entity.Opportunity{{
		Code:         "OPP-1",
		CustomerName: "Telefónica",
		CountryName:  "México",
		Stage:        entity.StageRFP,
		BusinessArea: entity.AreaFLM,
		DealValue:    decimal.NewFromInt(1000),
		Probability:  25,
	}}
	var buf bytes.Buffer
	require.NoError(t, WriteOpportunitiesCSV(&buf, opps))

	out := buf.Bytes()
	assert.True(t, bytes.HasPrefix(out, []byte("Code,Customer,Country,Stage")))
	// ó = 0xF3 y é = 0xE9 en Windows-1252, un solo byte cada uno.
	assert.True(t, bytes.Contains(out, []byte("Telef\xf3nica")))
	assert.True(t, bytes.Contains(out, []byte("M\xe9xico")))
	assert.True(t, bytes.Contains(out, []byte("1000.00,25,250.00")))
}

func TestOpenByValue(t *testing.T) {
	mk := func(id string, v int64, s entity.Stage) *entity.Opportunity {
		return &entity.Opportunity{ID: id, DealValue: decimal.NewFromInt(v), Stage: s}
	}
	opps := []*entity.Opportunity{
		mk("a", 10, entity.StageProspect),
		mk("b", 90, entity.StageWon),
		mk("c", 50, entity.StageProposal),
		mk("d", 70, entity.StageLost),
		mk("e", 30, entity.StageRFP),
	}
	got := openByValue(opps, 2)
	require.Len(t, got, 2)
	assert.Equal(t, "c", got[0].ID)
	assert.Equal(t, "e", got[1].ID)
}
