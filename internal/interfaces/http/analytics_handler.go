package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/crm-pipeline-api/internal/application/analytics"
	"github.com/jhoicas/crm-pipeline-api/internal/application/dto"
	"github.com/jhoicas/crm-pipeline-api/internal/application/filters"
	"github.com/jhoicas/crm-pipeline-api/internal/application/usecase"
)

// AnalyticsHandler vistas derivadas (dashboard, forecast, delivery) y el alta
// de forecasts planificados y filas de delivery.
type AnalyticsHandler struct {
	views     *analytics.UseCase
	forecasts *usecase.ForecastUseCase
	delivery  *usecase.DeliveryUseCase
	filters   *filters.Service
}

// NewAnalyticsHandler construye el handler.
func NewAnalyticsHandler(
	views *analytics.UseCase,
	forecasts *usecase.ForecastUseCase,
	delivery *usecase.DeliveryUseCase,
	fs *filters.Service,
) *AnalyticsHandler {
	return &AnalyticsHandler{views: views, forecasts: forecasts, delivery: delivery, filters: fs}
}

// Dashboard godoc
// @Summary      KPIs del pipeline
// @Description  total, ponderado, win rate, pipeline por país (top 8), distribución por etapa
//               y top 5 oportunidades abiertas para el país del filtro.
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardSummaryDTO
// @Router       /api/dashboard/summary [get]
func (h *AnalyticsHandler) Dashboard(c *fiber.Ctx) error {
	f, err := sessionFilter(c, h.filters)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.views.Dashboard(c.Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Forecast godoc
// @Summary      Forecast trimestral a dos años
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ForecastSummaryDTO
// @Router       /api/forecast [get]
func (h *AnalyticsHandler) Forecast(c *fiber.Ctx) error {
	f, err := sessionFilter(c, h.filters)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.views.Forecast(c.Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delivery GET /api/delivery
func (h *AnalyticsHandler) Delivery(c *fiber.Ctx) error {
	f, err := sessionFilter(c, h.filters)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.views.Delivery(c.Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateForecast POST /api/forecasts
func (h *AnalyticsHandler) CreateForecast(c *fiber.Ctx) error {
	var in dto.CreateForecastRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.forecasts.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateForecast PATCH /api/forecasts/:id
func (h *AnalyticsHandler) UpdateForecast(c *fiber.Ctx) error {
	var in dto.UpdateForecastRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.forecasts.Update(c.Context(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateDelivery POST /api/delivery
func (h *AnalyticsHandler) CreateDelivery(c *fiber.Ctx) error {
	var in dto.CreateDeliveryRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.delivery.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateDelivery PATCH /api/delivery/:id
func (h *AnalyticsHandler) UpdateDelivery(c *fiber.Ctx) error {
	var in dto.UpdateDeliveryRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.delivery.Update(c.Context(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
