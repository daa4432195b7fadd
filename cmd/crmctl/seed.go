package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/crm-pipeline-api/internal/domain"
	"github.com/jhoicas/crm-pipeline-api/internal/domain/entity"
	"github.com/jhoicas/crm-pipeline-api/internal/infrastructure/postgres"
)

var (
	seedAdminEmail    string
	seedAdminPassword string
	seedOpportunities int
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Carga países, un administrador y oportunidades de ejemplo",
	Long: `Carga datos de demostración. Es idempotente: los países se actualizan por
código, el admin se omite si el email ya existe y las oportunidades con código
repetido se saltan.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedAdminEmail, "admin-email", "admin@crm.local", "email del administrador")
	seedCmd.Flags().StringVar(&seedAdminPassword, "admin-password", "", "password del administrador (obligatorio, mínimo 8)")
	seedCmd.Flags().IntVar(&seedOpportunities, "opportunities", 24, "cantidad de oportunidades de ejemplo")
}

var seedCountries = []entity.Country{
	{Name: "Colombia", Code: "CO", Region: "LATAM", IsActive: true},
	{Name: "Mexico", Code: "MX", Region: "LATAM", IsActive: true},
	{Name: "Peru", Code: "PE", Region: "LATAM", IsActive: true},
	{Name: "Chile", Code: "CL", Region: "LATAM", IsActive: true},
	{Name: "Spain", Code: "ES", Region: "EMEA", IsActive: true},
	{Name: "United Kingdom", Code: "GB", Region: "EMEA", IsActive: true},
}

var seedCustomers = []string{
	"Telefónica", "Claro", "Entel", "Vodafone", "Tigo", "Movistar", "WOM", "BT Group",
}

func runSeed(cmd *cobra.Command, _ []string) error {
	if len(seedAdminPassword) < 8 {
		return fmt.Errorf("--admin-password es obligatorio y debe tener al menos 8 caracteres")
	}
	ctx := cmd.Context()
	e, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer e.pool.Close()

	countryRepo := postgres.NewCountryRepository(e.pool)
	countryIDs := make([]string, 0, len(seedCountries))
	for i := range seedCountries {
		c := seedCountries[i]
		if err := countryRepo.Upsert(ctx, &c); err != nil {
			return fmt.Errorf("país %s: %w", c.Code, err)
		}
		countryIDs = append(countryIDs, c.ID)
	}
	e.log.Info().Int("countries", len(countryIDs)).Msg("países cargados")

	adminID, err := seedAdmin(postgres.NewUserRepository(e.pool))
	if err != nil {
		return err
	}

	oppRepo := postgres.NewOpportunityRepository(e.pool)
	stages := entity.Stages()
	areas := entity.BusinessAreas()
	now := time.Now().UTC()
	created, skipped := 0, 0
	for i := 0; i < seedOpportunities; i++ {
		closure := now.AddDate(0, (i%8)*2, 0)
		country := countryIDs[i%len(countryIDs)]
		stage := stages[i%len(stages)]
		o := &entity.Opportunity{
			ID:                  uuid.New().String(),
			Code:                fmt.Sprintf("OPP-%04d", i+1),
			CustomerName:        seedCustomers[i%len(seedCustomers)],
			DealValue:           decimal.NewFromInt(int64(50_000 + (i*37_500)%900_000)),
			Probability:         seedProbability(stage),
			Stage:               stage,
			BusinessArea:        areas[i%len(areas)],
			CountryID:           &country,
			OwnerID:             &adminID,
			ExpectedClosureDate: &closure,
			CreatedBy:           &adminID,
			CreatedAt:           now,
			UpdatedAt:           now,
		}
		if err := oppRepo.Create(ctx, o); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				skipped++
				continue
			}
			return fmt.Errorf("oportunidad %s: %w", o.Code, err)
		}
		created++
	}
	e.log.Info().Int("created", created).Int("skipped", skipped).Msg("oportunidades cargadas")
	return nil
}

type userStore interface {
	Create(user *entity.User) error
	GetByEmail(email string) (*entity.User, error)
}

// seedAdmin crea el administrador si no existe y devuelve su id.
func seedAdmin(users userStore) (string, error) {
	email := strings.ToLower(strings.TrimSpace(seedAdminEmail))
	existing, err := users.GetByEmail(email)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return existing.ID, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(seedAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	now := time.Now().UTC()
	u := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		FullName:     "Administrator",
		Role:         entity.RoleAdmin,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := users.Create(u); err != nil {
		return "", err
	}
	return u.ID, nil
}

func seedProbability(s entity.Stage) int {
	switch s {
	case entity.StageProspect:
		return 10
	case entity.StageQualified:
		return 25
	case entity.StageRFP:
		return 40
	case entity.StageProposal:
		return 55
	case entity.StageNegotiation:
		return 75
	case entity.StageWon:
		return 100
	default:
		return 0
	}
}
