package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/crm-pipeline-api/internal/application/dto"
	"github.com/jhoicas/crm-pipeline-api/internal/application/filters"
	"github.com/jhoicas/crm-pipeline-api/internal/application/pipeline"
)

// PipelineHandler tablero por etapas y gestos de arrastre.
type PipelineHandler struct {
	board   *pipeline.BoardService
	filters *filters.Service
}

// NewPipelineHandler construye el handler.
func NewPipelineHandler(board *pipeline.BoardService, fs *filters.Service) *PipelineHandler {
	return &PipelineHandler{board: board, filters: fs}
}

// Board godoc
// @Summary      Tablero agrupado por etapa
// @Description  Siete columnas en orden fijo con el total de cada una. Los valores
//               de etapa desconocidos se devuelven en anomalies.
// @Tags         pipeline
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.BoardResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/pipeline/board [get]
func (h *PipelineHandler) Board(c *fiber.Ctx) error {
	f, err := sessionFilter(c, h.filters)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.board.GetBoard(c.Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DragStart registra la tarjeta activa (solo vista previa, no modifica nada).
// POST /api/pipeline/drag/start
func (h *PipelineHandler) DragStart(c *fiber.Ctx) error {
	var in dto.DragStartRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if in.OpportunityID == "" {
		return validationError(c, "opportunity_id es requerido")
	}
	f, err := sessionFilter(c, h.filters)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.board.DragStart(c.Context(), GetSessionID(c), f, in.OpportunityID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DragEnd godoc
// Los fallos responden con el status HTTP del código y el mismo DragResultResponse.
// @Summary      Soltar una tarjeta
// @Description  target_id puede ser el id de otra oportunidad (toma su etapa) o el nombre
//               de una etapa. Un destino no resoluble o la misma etapa devuelven status noop.
// @Tags         pipeline
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DragEndRequest  true  "opportunity_id, target_id"
// @Success      200   {object}  dto.DragResultResponse
// @Failure      404   {object}  dto.DragResultResponse
// @Failure      409   {object}  dto.DragResultResponse
// @Failure      503   {object}  dto.DragResultResponse
// @Router       /api/pipeline/drag/end [post]
func (h *PipelineHandler) DragEnd(c *fiber.Ctx) error {
	var in dto.DragEndRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if in.OpportunityID == "" {
		return validationError(c, "opportunity_id es requerido")
	}
	f, err := sessionFilter(c, h.filters)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.board.DragEnd(c.Context(), GetSessionID(c), GetUserID(c), f, in)
	if err != nil {
		return writeError(c, err)
	}
	if out.Status == dto.DragStatusFailure {
		return c.Status(dragFailureStatus(out.Code)).JSON(out)
	}
	return c.JSON(out)
}

func dragFailureStatus(code string) int {
	switch code {
	case pipeline.CodeNotFound:
		return fiber.StatusNotFound
	case pipeline.CodeValidation:
		return fiber.StatusBadRequest
	case pipeline.CodeInFlight:
		return fiber.StatusConflict
	case pipeline.CodeStoreUnavailable:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}
