package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/crm-pipeline-api/internal/application/usecase"
)

// CountryHandler lista los países activos.
type CountryHandler struct {
	uc *usecase.CountryUseCase
}

func NewCountryHandler(uc *usecase.CountryUseCase) *CountryHandler {
	return &CountryHandler{uc: uc}
}

// List GET /api/countries
func (h *CountryHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.ListActive(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
