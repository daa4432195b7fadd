package repository

import (
	"context"

	"github.com/jhoicas/crm-pipeline-api/internal/domain/entity"
)

// DeliveryQuery filtro por país; el mes/año se aplica en la vista.
type DeliveryQuery struct {
	CountryID *string
}

// ProjectDeliveryRepository puerto de persistencia para ProjectDelivery.
type ProjectDeliveryRepository interface {
	// List ordena por año y mes descendentes.
	List(ctx context.Context, q DeliveryQuery) ([]*entity.ProjectDelivery, error)
	GetByID(ctx context.Context, id string) (*entity.ProjectDelivery, error)
	Create(ctx context.Context, d *entity.ProjectDelivery) error
	Update(ctx context.Context, d *entity.ProjectDelivery) error
}
