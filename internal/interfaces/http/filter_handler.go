package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/crm-pipeline-api/internal/application/dto"
	"github.com/jhoicas/crm-pipeline-api/internal/application/filters"
)

// FilterHandler expone el contexto de filtros (mes, año, país) de la sesión.
type FilterHandler struct {
	svc *filters.Service
}

// NewFilterHandler construye el handler.
func NewFilterHandler(svc *filters.Service) *FilterHandler {
	return &FilterHandler{svc: svc}
}

// Get godoc
// @Summary      Filtro activo de la sesión
// @Tags         filters
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.FilterResponse
// @Router       /api/filters [get]
func (h *FilterHandler) Get(c *fiber.Ctx) error {
	f, err := h.svc.Get(c.Context(), GetSessionID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(f.ToResponse())
}

// Update godoc
// @Summary      Actualizar filtro (parcial)
// @Tags         filters
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateFilterRequest  true  "month, year, country_id, clear_country"
// @Success      200   {object}  dto.FilterResponse
// @Router       /api/filters [put]
func (h *FilterHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateFilterRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	f, err := h.svc.Update(c.Context(), GetSessionID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(f.ToResponse())
}

// Reset vuelve al filtro por defecto (mes y año actuales, sin país).
func (h *FilterHandler) Reset(c *fiber.Ctx) error {
	if err := h.svc.Reset(c.Context(), GetSessionID(c)); err != nil {
		return writeError(c, err)
	}
	f, err := h.svc.Get(c.Context(), GetSessionID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(f.ToResponse())
}

// sessionFilter carga el filtro de la sesión del token.
func sessionFilter(c *fiber.Ctx, svc *filters.Service) (filters.Filter, error) {
	return svc.Get(c.Context(), GetSessionID(c))
}
