package services

import (
	"context"
	"fmt"

	"github.com/kpa-erp/kpa_forms_microservice/internal/core/domain"
	"github.com/kpa-erp/kpa_forms_microservice/internal/core/ports"

	"github.com/go-playground/validator/v10"
)

type WheelService struct {
	wheelRepo ports.WheelSpecificationRepository
	logger    ports.LoggerPort
	validate  *validator.Validate
}

func NewWheelService(
	wheelRepo ports.WheelSpecificationRepository,
	logger ports.LoggerPort,
	validate *validator.Validate,
) *WheelService {
	return &WheelService{
		wheelRepo: wheelRepo,
		logger:    logger,
		validate:  validate,
	}
}

// CreateWheelSpecification persists a new form with status "submitted".
// The existence pre-check gives a friendly duplicate error; the unique
// constraint on form_number is what actually guarantees uniqueness when
// two creates race, and the repository maps that violation to the same
// ErrDuplicateFormNumber.
func (s *WheelService) CreateWheelSpecification(ctx context.Context, spec *domain.WheelSpecification) (*domain.WheelSpecification, error) {
	if err := s.validate.Struct(spec); err != nil {
		s.logger.Error("Wheel specification validation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("validation error: %w", err)
	}

	exists, err := s.wheelRepo.WheelSpecificationExists(ctx, spec.FormNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateFormNumber
	}

	spec.Status = domain.StatusSubmitted

	createdSpec, err := s.wheelRepo.CreateWheelSpecification(ctx, spec)
	if err != nil {
		s.logger.Error("Failed to create wheel specification", map[string]interface{}{
			"error":       err.Error(),
			"form_number": spec.FormNumber,
		})
		return nil, err
	}

	s.logger.Info("Wheel specification created successfully", map[string]interface{}{
		"form_number":  createdSpec.FormNumber,
		"submitted_by": createdSpec.SubmittedBy,
	})

	return createdSpec, nil
}

func (s *WheelService) ListWheelSpecifications(ctx context.Context, filter domain.WheelSpecificationFilter) ([]*domain.WheelSpecification, error) {
	specs, err := s.wheelRepo.ListWheelSpecifications(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list wheel specifications", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	s.logger.Info("Retrieved wheel specifications", map[string]interface{}{
		"count":    len(specs),
		"filtered": !filter.Empty(),
	})

	return specs, nil
}
