// crmctl herramientas de operación: migraciones y datos de demostración.
//
// Uso:
//
//	crmctl migrate            aplica las migraciones pendientes
//	crmctl migrate --list     estado de cada migración
//	crmctl seed               países, usuario admin y oportunidades de ejemplo
//	crmctl user list          lista las cuentas
//	crmctl user status <email> <estado>
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/jhoicas/crm-pipeline-api/internal/infrastructure/postgres"
	"github.com/jhoicas/crm-pipeline-api/pkg/config"
	"github.com/jhoicas/crm-pipeline-api/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:           "crmctl",
	Short:         "Operación del CRM: migraciones, seed y cuentas",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd.AddCommand(migrateCmd, seedCmd, userCmd)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// env carga configuración, logger y pool para los subcomandos.
type env struct {
	cfg  *config.Config
	log  *logger.Logger
	pool *pgxpool.Pool
}

func openEnv(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "crmctl"})
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	return &env{cfg: cfg, log: log, pool: pool}, nil
}
