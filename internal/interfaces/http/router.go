package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/crm-pipeline-api/internal/application/analytics"
	"github.com/jhoicas/crm-pipeline-api/internal/application/auth"
	"github.com/jhoicas/crm-pipeline-api/internal/application/filters"
	"github.com/jhoicas/crm-pipeline-api/internal/application/insights"
	"github.com/jhoicas/crm-pipeline-api/internal/application/pipeline"
	"github.com/jhoicas/crm-pipeline-api/internal/application/reports"
	"github.com/jhoicas/crm-pipeline-api/internal/application/usecase"
	"github.com/jhoicas/crm-pipeline-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	Filters       *filters.Service
	CountryUC     *usecase.CountryUseCase
	OpportunityUC *usecase.OpportunityUseCase
	ForecastUC    *usecase.ForecastUseCase
	DeliveryUC    *usecase.DeliveryUseCase
	Board         *pipeline.BoardService
	Analytics     *analytics.UseCase
	Reports       *reports.Service
	Insights      *insights.UseCase // nil = IA deshabilitada
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token y cuenta activa)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), RequireActiveAccount(deps.AuthUC))
	managers := RequireRole(entity.RoleAdmin, entity.RoleManager)

	protected.Post("/auth/logout", authHandler.Logout)
	protected.Get("/auth/me", authHandler.Me)

	// Administración de cuentas
	admins := RequireRole(entity.RoleAdmin)
	userHandler := NewUserHandler(deps.AuthUC)
	protected.Get("/users", admins, userHandler.List)
	protected.Patch("/users/:id/status", admins, userHandler.UpdateStatus)

	filterHandler := NewFilterHandler(deps.Filters)
	protected.Get("/filters", filterHandler.Get)
	protected.Put("/filters", filterHandler.Update)
	protected.Delete("/filters", filterHandler.Reset)

	countryHandler := NewCountryHandler(deps.CountryUC)
	protected.Get("/countries", countryHandler.List)

	// Opportunities
	opps := protected.Group("/opportunities")
	oppHandler := NewOpportunityHandler(deps.OpportunityUC, deps.Filters)
	opps.Get("/", oppHandler.List)
	opps.Post("/", oppHandler.Create)
	opps.Get("/:id", oppHandler.GetByID)
	opps.Patch("/:id", oppHandler.Update)
	opps.Delete("/:id", managers, oppHandler.Delete)
	opps.Get("/:id/history", oppHandler.History)

	// Pipeline board
	pipe := protected.Group("/pipeline")
	pipeHandler := NewPipelineHandler(deps.Board, deps.Filters)
	pipe.Get("/board", pipeHandler.Board)
	pipe.Post("/drag/start", pipeHandler.DragStart)
	pipe.Post("/drag/end", pipeHandler.DragEnd)

	// Vistas derivadas
	views := NewAnalyticsHandler(deps.Analytics, deps.ForecastUC, deps.DeliveryUC, deps.Filters)
	protected.Get("/dashboard/summary", views.Dashboard)
	protected.Get("/forecast", views.Forecast)
	protected.Post("/forecasts", managers, views.CreateForecast)
	protected.Patch("/forecasts/:id", managers, views.UpdateForecast)
	protected.Get("/delivery", views.Delivery)
	protected.Post("/delivery", managers, views.CreateDelivery)
	protected.Patch("/delivery/:id", managers, views.UpdateDelivery)

	// Reports
	rep := protected.Group("/reports")
	repHandler := NewReportHandler(deps.Reports, deps.Filters)
	rep.Get("/pipeline.pdf", repHandler.PipelinePDF)
	rep.Get("/forecast.xml", repHandler.ForecastXML)
	rep.Get("/opportunities.csv", repHandler.OpportunitiesCSV)

	// IA
	if deps.Insights != nil {
		aiHandler := NewAIHandler(deps.Insights, deps.Filters)
		protected.Post("/ai/pipeline-insights", aiHandler.PipelineInsights)
	}
}
