package http

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/crm-pipeline-api/internal/application/dto"
	"github.com/jhoicas/crm-pipeline-api/internal/application/filters"
	"github.com/jhoicas/crm-pipeline-api/internal/application/insights"
	"github.com/jhoicas/crm-pipeline-api/internal/domain"
)

// AIHandler análisis narrativo del pipeline con IA.
type AIHandler struct {
	uc      *insights.UseCase
	filters *filters.Service
}

// NewAIHandler construye el handler.
func NewAIHandler(uc *insights.UseCase, fs *filters.Service) *AIHandler {
	return &AIHandler{uc: uc, filters: fs}
}

// PipelineInsights godoc
// @Summary      Análisis del pipeline con IA
// @Description  Resume el pipeline del filtro activo (KPIs, etapas, top países y oportunidades)
//               y pide al modelo un resumen, riesgos y próximos pasos. question es opcional.
// @Tags         ai
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PipelineInsightsRequest  false  "question (opcional, máx. 500)"
// @Success      200   {object}  dto.PipelineInsightsDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      408   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/ai/pipeline-insights [post]
func (h *AIHandler) PipelineInsights(c *fiber.Ctx) error {
	var req dto.PipelineInsightsRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return invalidBody(c)
		}
	}
	f, err := sessionFilter(c, h.filters)
	if err != nil {
		return writeError(c, err)
	}

	result, err := h.uc.PipelineInsights(c.Context(), f, req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrStoreUnavailable):
			return writeError(c, err)
		case errors.Is(err, context.DeadlineExceeded) || isTimeout(err):
			return c.Status(fiber.StatusRequestTimeout).JSON(dto.ErrorResponse{
				Code: "TIMEOUT", Message: "el servicio de IA tardó demasiado; intenta de nuevo",
			})
		case strings.Contains(err.Error(), "API_KEY"):
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code: "AI_UNAVAILABLE", Message: "el servicio de IA no está configurado",
			})
		}
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
			Code: "AI_ERROR", Message: err.Error(),
		})
	}
	return c.JSON(result)
}

// isTimeout detecta timeouts reportados solo en el mensaje del proveedor.
func isTimeout(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "deadline exceeded") ||
		strings.Contains(msg, "cancelación")
}
