package usecase

import (
	"context"

	"github.com/jhoicas/crm-pipeline-api/internal/application/dto"
	"github.com/jhoicas/crm-pipeline-api/internal/domain/repository"
)

// CountryUseCase catálogo de países para el selector de filtros.
type CountryUseCase struct {
	repo repository.CountryRepository
}

// NewCountryUseCase construye el caso de uso.
func NewCountryUseCase(repo repository.CountryRepository) *CountryUseCase {
	return &CountryUseCase{repo: repo}
}

// ListActive países activos ordenados por nombre.
func (uc *CountryUseCase) ListActive(ctx context.Context) ([]dto.CountryResponse, error) {
	list, err := uc.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CountryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, ToCountryResponse(c))
	}
	return out, nil
}
