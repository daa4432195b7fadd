package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jhoicas/crm-pipeline-api/internal/infrastructure/postgres"
)

var migrateList bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Aplica las migraciones SQL pendientes",
	Long: `Aplica con goose, en orden de versión, las migraciones embebidas en el
binario que todavía no figuran en goose_db_version. Cada archivo corre en su
propia transacción. Con --list solo muestra el estado de cada una.`,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateList, "list", false, "solo listar el estado de las migraciones")
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer e.pool.Close()

	if migrateList {
		statuses, err := postgres.MigrationStatuses(cmd.Context(), e.pool)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "VERSION\tARCHIVO\tESTADO\tAPLICADA")
		for _, s := range statuses {
			state, at := "pendiente", "-"
			if s.Applied {
				state, at = "aplicada", s.AppliedAt.Format("2006-01-02 15:04")
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", s.Version, s.File, state, at)
		}
		return tw.Flush()
	}

	applied, err := postgres.Migrate(cmd.Context(), e.pool)
	if err != nil {
		return err
	}
	if len(applied) == 0 {
		e.log.Info().Msg("sin migraciones pendientes")
		return nil
	}
	e.log.Info().Strs("migrations", applied).Msg("migraciones aplicadas")
	return nil
}
