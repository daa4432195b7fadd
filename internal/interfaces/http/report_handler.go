package http

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/crm-pipeline-api/internal/application/filters"
	"github.com/jhoicas/crm-pipeline-api/internal/application/reports"
)

// ReportHandler descargas: PDF del pipeline, XML del forecast y CSV de oportunidades.
type ReportHandler struct {
	svc     *reports.Service
	filters *filters.Service
}

// NewReportHandler construye el handler.
func NewReportHandler(svc *reports.Service, fs *filters.Service) *ReportHandler {
	return &ReportHandler{svc: svc, filters: fs}
}

// PipelinePDF godoc
// @Summary      Reporte PDF del pipeline
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Router       /api/reports/pipeline.pdf [get]
func (h *ReportHandler) PipelinePDF(c *fiber.Ctx) error {
	f, err := sessionFilter(c, h.filters)
	if err != nil {
		return writeError(c, err)
	}
	pdf, err := h.svc.PipelinePDF(c.Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, attachment("pipeline", f, "pdf"))
	return c.Send(pdf)
}

// ForecastXML godoc
// @Summary      Forecast en XML
// @Description  El ETag es el SHA-256 del documento canónico (C14N); If-None-Match responde 304.
// @Tags         reports
// @Security     Bearer
// @Produce      application/xml
// @Success      200  {file}  binary
// @Success      304
// @Router       /api/reports/forecast.xml [get]
func (h *ReportHandler) ForecastXML(c *fiber.Ctx) error {
	f, err := sessionFilter(c, h.filters)
	if err != nil {
		return writeError(c, err)
	}
	doc, digest, err := h.svc.ForecastXML(c.Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	etag := `"` + digest + `"`
	c.Set(fiber.HeaderETag, etag)
	if matchesETag(c.Get(fiber.HeaderIfNoneMatch), etag) {
		return c.SendStatus(fiber.StatusNotModified)
	}
	c.Set(fiber.HeaderContentType, "application/xml; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, attachment("forecast", f, "xml"))
	return c.Send(doc)
}

// OpportunitiesCSV GET /api/reports/opportunities.csv (Windows-1252 para Excel).
func (h *ReportHandler) OpportunitiesCSV(c *fiber.Ctx) error {
	f, err := sessionFilter(c, h.filters)
	if err != nil {
		return writeError(c, err)
	}
	csv, err := h.svc.OpportunitiesCSV(c.Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=windows-1252")
	c.Set(fiber.HeaderContentDisposition, attachment("opportunities", f, "csv"))
	return c.Send(csv)
}

func attachment(name string, f filters.Filter, ext string) string {
	year, month := f.Year, f.Month
	if year == 0 {
		now := time.Now()
		year, month = now.Year(), int(now.Month())
	}
	return fmt.Sprintf(`attachment; filename="%s-%04d-%02d.%s"`, name, year, month, ext)
}

func matchesETag(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		candidate = strings.TrimPrefix(candidate, "W/")
		if candidate == "*" || candidate == etag {
			return true
		}
	}
	return false
}
