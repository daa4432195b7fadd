package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhoicas/crm-pipeline-api/internal/domain"
	"github.com/jhoicas/crm-pipeline-api/internal/domain/entity"
	"github.com/jhoicas/crm-pipeline-api/internal/infrastructure/postgres"
)

var (
	userListLimit  int
	userListOffset int
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Administración de cuentas",
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lista los usuarios (más recientes primero)",
	Args:  cobra.NoArgs,
	RunE:  runUserList,
}

var userStatusCmd = &cobra.Command{
	Use:   "status <email> <active|inactive|suspended>",
	Short: "Cambia el estado de una cuenta",
	Long: `Cambia el estado de una cuenta. Los tokens ya emitidos de una cuenta
no activa reciben 403 ACCOUNT_DISABLED en la siguiente petición.`,
	Args: cobra.ExactArgs(2),
	RunE: runUserStatus,
}

func init() {
	userListCmd.Flags().IntVar(&userListLimit, "limit", 50, "cantidad máxima de usuarios")
	userListCmd.Flags().IntVar(&userListOffset, "offset", 0, "desplazamiento")
	userCmd.AddCommand(userListCmd, userStatusCmd)
}

func runUserList(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer e.pool.Close()

	list, err := postgres.NewUserRepository(e.pool).List(userListLimit, userListOffset)
	if err != nil {
		return err
	}
	return writeUsers(cmd.OutOrStdout(), list)
}

func runUserStatus(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer e.pool.Close()

	u, err := setUserStatus(postgres.NewUserRepository(e.pool), args[0], args[1])
	if err != nil {
		return err
	}
	e.log.Info().Str("user_id", u.ID).Str("email", u.Email).Str("status", u.Status).Msg("estado de cuenta actualizado")
	return nil
}

type userAdminStore interface {
	GetByEmail(email string) (*entity.User, error)
	Update(user *entity.User) error
}

func setUserStatus(users userAdminStore, email, status string) (*entity.User, error) {
	if !entity.IsValidUserStatus(status) {
		return nil, fmt.Errorf("%w: estado %q (active, inactive o suspended)", domain.ErrInvalidInput, status)
	}
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := users.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, email)
	}
	if u.Status == status {
		return u, nil
	}
	u.Status = status
	u.UpdatedAt = time.Now()
	if err := users.Update(u); err != nil {
		return nil, err
	}
	return u, nil
}

func writeUsers(w io.Writer, list []*entity.User) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEMAIL\tROL\tESTADO\tCREADO")
	for _, u := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", u.ID, u.Email, u.Role, u.Status, u.CreatedAt.Format("2006-01-02"))
	}
	return tw.Flush()
}
