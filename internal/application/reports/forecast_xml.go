package reports

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/beevik/etree"
	"github.com/ucarion/c14n"

	"github.com/jhoicas/crm-pipeline-api/internal/application/dto"
)

// ForecastNamespace espacio de nombres del documento exportado.
const ForecastNamespace = "urn:crm-pipeline:forecast:1"

// BuildForecastXML serializa la proyección. El documento no incluye la hora
// de generación, así el digest solo cambia cuando cambian los datos.
func BuildForecastXML(s dto.ForecastSummaryDTO, countryLabel string) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("Forecast")
	root.CreateAttr("xmlns", ForecastNamespace)
	root.CreateAttr("year", strconv.Itoa(s.Year))
	root.CreateAttr("country", countryLabel)

	totals := root.CreateElement("Totals")
	totals.CreateElement("Total").SetText(s.TotalForecast.StringFixed(2))
	totals.CreateElement("YearOne").SetText(s.YearOneTotal.StringFixed(2))
	totals.CreateElement("YearTwo").SetText(s.YearTwoTotal.StringFixed(2))
	totals.CreateElement("YoYGrowth").SetText(s.YoYGrowth.StringFixed(2))
	totals.CreateElement("Planned").SetText(s.PlannedTotal.StringFixed(2))

	quarters := root.CreateElement("Quarters")
	for _, q := range s.Quarters {
		qe := quarters.CreateElement("Quarter")
		qe.CreateAttr("year", strconv.Itoa(q.Year))
		qe.CreateAttr("q", strconv.Itoa(q.Quarter))
		qe.CreateAttr("total", q.Total.StringFixed(2))
		for _, a := range s.BusinessAreas {
			v, ok := q.ByArea[a.Name]
			if !ok {
				continue
			}
			ae := qe.CreateElement("Area")
			ae.CreateAttr("name", a.Name)
			ae.SetText(v.StringFixed(2))
		}
	}

	areas := root.CreateElement("BusinessAreas")
	for _, a := range s.BusinessAreas {
		e := areas.CreateElement("Area")
		e.CreateAttr("name", a.Name)
		e.SetText(a.Value.StringFixed(2))
	}

	countries := root.CreateElement("Countries")
	for _, c := range s.ByCountry {
		e := countries.CreateElement("Country")
		e.CreateAttr("name", c.Name)
		e.SetText(c.Value.StringFixed(2))
	}

	planned := root.CreateElement("PlannedForecasts")
	for _, p := range s.Planned {
		e := planned.CreateElement("Planned")
		e.CreateAttr("id", p.ID)
		e.CreateAttr("area", p.BusinessArea)
		e.CreateAttr("year", strconv.Itoa(p.Year))
		if p.Quarter != nil {
			e.CreateAttr("q", strconv.Itoa(*p.Quarter))
		}
		e.SetText(p.ExpectedRevenue.StringFixed(2))
	}

	doc.Indent(2)
	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("reports: escribir xml: %w", err)
	}
	return buf.Bytes(), nil
}

// Digest SHA-256 (hex) de la forma canónica C14N del documento. Se usa como ETag.
// La declaración XML no forma parte de la forma canónica.
func Digest(doc []byte) (string, error) {
	doc = bytes.TrimSpace(doc)
	if bytes.HasPrefix(doc, []byte("<?xml")) {
		if i := bytes.Index(doc, []byte("?>")); i >= 0 {
			doc = doc[i+2:]
		}
	}
	dec := xml.NewDecoder(bytes.NewReader(bytes.TrimSpace(doc)))
	dec.Entity = map[string]string{}
	canonical, err := c14n.Canonicalize(dec)
	if err != nil {
		return "", fmt.Errorf("reports: canonicalizar xml: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}
