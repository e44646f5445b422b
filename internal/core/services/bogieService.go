package services

import (
	"context"
	"fmt"

	"github.com/kpa-erp/kpa_forms_microservice/internal/core/domain"
	"github.com/kpa-erp/kpa_forms_microservice/internal/core/ports"

	"github.com/go-playground/validator/v10"
)

type BogieService struct {
	bogieRepo ports.BogieChecksheetRepository
	logger    ports.LoggerPort
	validate  *validator.Validate
}

func NewBogieService(
	bogieRepo ports.BogieChecksheetRepository,
	logger ports.LoggerPort,
	validate *validator.Validate,
) *BogieService {
	return &BogieService{
		bogieRepo: bogieRepo,
		logger:    logger,
		validate:  validate,
	}
}

// CreateBogieChecksheet persists a new checksheet with status "submitted".
// Same duplicate-check layering as wheel specifications: the pre-check is
// for the friendly error, the unique constraint is the safety net.
func (s *BogieService) CreateBogieChecksheet(ctx context.Context, sheet *domain.BogieChecksheet) (*domain.BogieChecksheet, error) {
	if sheet.BogieDetails.DeficitComponents == "" {
		sheet.BogieDetails.DeficitComponents = "None"
	}

	if err := s.validate.Struct(sheet); err != nil {
		s.logger.Error("Bogie checksheet validation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("validation error: %w", err)
	}

	exists, err := s.bogieRepo.BogieChecksheetExists(ctx, sheet.FormNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateFormNumber
	}

	sheet.Status = domain.StatusSubmitted

	createdSheet, err := s.bogieRepo.CreateBogieChecksheet(ctx, sheet)
	if err != nil {
		s.logger.Error("Failed to create bogie checksheet", map[string]interface{}{
			"error":       err.Error(),
			"form_number": sheet.FormNumber,
		})
		return nil, err
	}

	s.logger.Info("Bogie checksheet created successfully", map[string]interface{}{
		"form_number":   createdSheet.FormNumber,
		"inspection_by": createdSheet.InspectionBy,
		"bogie_no":      createdSheet.BogieDetails.BogieNo,
	})

	return createdSheet, nil
}

func (s *BogieService) ListBogieChecksheets(ctx context.Context, filter domain.BogieChecksheetFilter) ([]*domain.BogieChecksheet, error) {
	sheets, err := s.bogieRepo.ListBogieChecksheets(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list bogie checksheets", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	s.logger.Info("Retrieved bogie checksheets", map[string]interface{}{
		"count":    len(sheets),
		"filtered": !filter.Empty(),
	})

	return sheets, nil
}
