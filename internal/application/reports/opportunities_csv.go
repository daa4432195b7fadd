package reports

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/crm-pipeline-api/internal/domain/entity"
)

var csvHeader = []string{
	"Code", "Customer", "Country", "Stage", "Business Area",
	"Deal Value", "Probability", "Weighted Value", "Expected Closure", "Owner",
}

// WriteOpportunitiesCSV escribe el listado en Windows-1252 (lo que Excel
// espera al abrir un .csv). Los caracteres sin representación se sustituyen.
func WriteOpportunitiesCSV(w io.Writer, opps []*entity.Opportunity) error {
	enc := transform.NewWriter(w, encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder()))
	cw := csv.NewWriter(enc)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("reports: csv: %w", err)
	}
	for _, o := range opps {
		closure := ""
		if o.ExpectedClosureDate != nil {
			closure = o.ExpectedClosureDate.Format("2006-01-02")
		}
		rec := []string{
			o.Code,
			o.CustomerName,
			o.CountryName,
			string(o.Stage),
			string(o.BusinessArea),
			o.DealValue.StringFixed(2),
			strconv.Itoa(o.Probability),
			o.WeightedValue().StringFixed(2),
			closure,
			o.OwnerName,
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("reports: csv: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("reports: csv: %w", err)
	}
	return enc.Close()
}
