package repository

import (
	"context"

	"github.com/jhoicas/crm-pipeline-api/internal/domain/entity"
)

// CountryRepository lectura del catálogo de países.
type CountryRepository interface {
	ListActive(ctx context.Context) ([]*entity.Country, error)
}
