package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/swaggo/swag"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/crm-pipeline-api/docs"
	"github.com/jhoicas/crm-pipeline-api/internal/application/analytics"
	"github.com/jhoicas/crm-pipeline-api/internal/application/auth"
	"github.com/jhoicas/crm-pipeline-api/internal/application/events"
	"github.com/jhoicas/crm-pipeline-api/internal/application/filters"
	"github.com/jhoicas/crm-pipeline-api/internal/application/insights"
	"github.com/jhoicas/crm-pipeline-api/internal/application/pipeline"
	"github.com/jhoicas/crm-pipeline-api/internal/application/ports"
	"github.com/jhoicas/crm-pipeline-api/internal/application/reports"
	"github.com/jhoicas/crm-pipeline-api/internal/application/usecase"
	infraai "github.com/jhoicas/crm-pipeline-api/internal/infrastructure/ai"
	infrapdf "github.com/jhoicas/crm-pipeline-api/internal/infrastructure/pdf"
	"github.com/jhoicas/crm-pipeline-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/crm-pipeline-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/crm-pipeline-api/internal/interfaces/http"
	"github.com/jhoicas/crm-pipeline-api/internal/interfaces/ws"
	"github.com/jhoicas/crm-pipeline-api/pkg/config"
	"github.com/jhoicas/crm-pipeline-api/pkg/jwt"
	"github.com/jhoicas/crm-pipeline-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	applied, err := postgres.Migrate(ctx, pool)
	if err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}
	if len(applied) > 0 {
		log.Info().Strs("migrations", applied).Msg("migraciones aplicadas")
	}

	// Estado por sesión, token en curso y bus: Redis si está configurado, si no en proceso.
	sessionTTL := time.Duration(cfg.JWT.Expiration) * time.Minute
	var (
		filterStore filters.Store
		guard       pipeline.InFlightGuard
		bus         interface {
			events.Publisher
			events.Subscriber
		}
		rdb *infraredis.Client
	)
	if cfg.Redis.Enabled() {
		rdb, err = infraredis.New(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		filterStore = infraredis.NewFilterStore(rdb, sessionTTL)
		guard = infraredis.NewInFlightGuard(rdb, cfg.Pipeline.InFlightTTL())
		bus = infraredis.NewEventBus(rdb)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("usando Redis para sesiones y eventos")
	} else {
		filterStore = filters.NewMemoryStore(sessionTTL)
		guard = pipeline.NewLocalGuard()
		bus = events.NewMemoryBus()
		log.Warn().Msg("REDIS_ADDR vacío: sesiones y eventos en memoria (una sola instancia)")
	}

	userRepo := postgres.NewUserRepository(pool)
	countryRepo := postgres.NewCountryRepository(pool)
	oppRepo := postgres.NewOpportunityRepository(pool)
	historyRepo := postgres.NewStageHistoryRepository(pool)
	forecastRepo := postgres.NewForecastRepository(pool)
	deliveryRepo := postgres.NewProjectDeliveryRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	filterSvc := filters.NewService(filterStore)
	boardSvc := pipeline.NewBoardService(oppRepo, txRunner, guard, bus, log)
	views := analytics.NewUseCase(oppRepo, forecastRepo, deliveryRepo)
	reportSvc := reports.NewService(oppRepo, countryRepo, views, infrapdf.NewMarotoPDFGenerator(cfg.App.Name))

	authUC := auth.NewAuthUseCase(userRepo, filterSvc, boardSvc, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	var insightsUC *insights.UseCase
	if llm := newLLM(ctx, cfg.AI, log); llm != nil {
		insightsUC = insights.NewUseCase(oppRepo, countryRepo, llm, time.Duration(cfg.AI.TimeoutSeconds)*time.Second)
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Get("/openapi.json", func(c *fiber.Ctx) error {
		doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.SendString(doc)
	})
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "CRM Pipeline API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		status := fiber.Map{"status": "ok", "service": cfg.App.Name}
		if err := pool.Ping(c.Context()); err != nil {
			status["status"], status["db"] = "degraded", err.Error()
		}
		if rdb != nil {
			if err := rdb.Ping(c.Context()); err != nil {
				status["status"], status["redis"] = "degraded", err.Error()
			}
		}
		if status["status"] != "ok" {
			return c.Status(fiber.StatusServiceUnavailable).JSON(status)
		}
		return c.JSON(status)
	})

	ucLog := log.Component("usecase")
	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		Filters:       filterSvc,
		CountryUC:     usecase.NewCountryUseCase(countryRepo),
		OpportunityUC: usecase.NewOpportunityUseCase(oppRepo, historyRepo, txRunner, guard, bus, ucLog),
		ForecastUC:    usecase.NewForecastUseCase(forecastRepo, bus, ucLog),
		DeliveryUC:    usecase.NewDeliveryUseCase(deliveryRepo, bus, ucLog),
		Board:         boardSvc,
		Analytics:     views,
		Reports:       reportSvc,
		Insights:      insightsUC,
		JWTSecret:     cfg.JWT.Secret,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.Listen(cfg.HTTP.Addr())
	})

	var eventsSrv *http.Server
	if cfg.Events.Addr != "" {
		hub := ws.NewHub(bus, func(token string) (string, error) {
			claims, err := jwt.Parse(cfg.JWT.Secret, token)
			if err != nil {
				return "", err
			}
			return claims.UserID, nil
		}, log, cfg.Events.AllowedOrigins)
		mux := http.NewServeMux()
		mux.Handle("/ws", hub)
		eventsSrv = &http.Server{Addr: cfg.Events.Addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

		g.Go(func() error {
			if err := hub.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			log.Info().Str("addr", cfg.Events.Addr).Msg("websocket de eventos escuchando")
			if err := eventsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("señal de apagado recibida, cerrando servidores...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("apagado del servidor HTTP")
		}
		if eventsSrv != nil {
			if err := eventsSrv.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("apagado del servidor de eventos")
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("servidor finalizado con error")
		os.Exit(1)
	}
	log.Info().Msg("aplicación detenida")
}

// newLLM elige el proveedor de IA. nil si no hay API key configurada.
func newLLM(ctx context.Context, cfg config.AIConfig, log *logger.Logger) ports.LLMService {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	switch cfg.Provider {
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			log.Warn().Msg("GEMINI_API_KEY vacío: análisis IA deshabilitado")
			return nil
		}
		svc, err := infraai.NewGeminiService(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Error().Err(err).Msg("cliente Gemini: análisis IA deshabilitado")
			return nil
		}
		return svc
	default:
		if cfg.AnthropicAPIKey == "" {
			log.Warn().Msg("ANTHROPIC_API_KEY vacío: análisis IA deshabilitado")
			return nil
		}
		return infraai.NewAnthropicService(cfg.AnthropicAPIKey, cfg.AnthropicModel, timeout)
	}
}
