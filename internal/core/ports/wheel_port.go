package ports

import (
	"context"

	"github.com/kpa-erp/kpa_forms_microservice/internal/core/domain"
)

type WheelSpecificationRepository interface {
	CreateWheelSpecification(ctx context.Context, spec *domain.WheelSpecification) (*domain.WheelSpecification, error)
	WheelSpecificationExists(ctx context.Context, formNumber string) (bool, error)
	ListWheelSpecifications(ctx context.Context, filter domain.WheelSpecificationFilter) ([]*domain.WheelSpecification, error)
}
