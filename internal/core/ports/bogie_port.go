package ports

import (
	"context"

	"github.com/kpa-erp/kpa_forms_microservice/internal/core/domain"
)

type BogieChecksheetRepository interface {
	CreateBogieChecksheet(ctx context.Context, sheet *domain.BogieChecksheet) (*domain.BogieChecksheet, error)
	BogieChecksheetExists(ctx context.Context, formNumber string) (bool, error)
	ListBogieChecksheets(ctx context.Context, filter domain.BogieChecksheetFilter) ([]*domain.BogieChecksheet, error)
}
