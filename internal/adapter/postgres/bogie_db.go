package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/kpa-erp/kpa_forms_microservice/internal/core/domain"

	"github.com/lib/pq"
)

type BogieRepository struct {
	db *sql.DB
}

func NewBogieRepository(db *sql.DB) *BogieRepository {
	return &BogieRepository{db: db}
}

const bogieColumns = `id, form_number, inspection_by, inspection_date,
	bogie_no, maker_year_built, incoming_div_and_date, deficit_components, date_of_ioh,
	bogie_frame_condition, bolster, bolster_suspension_bracket, lower_spring_seat, axle_guide,
	cylinder_body, piston_trunnion, adjusting_tube, plunger_spring,
	status, created_at, updated_at`

func (r *BogieRepository) CreateBogieChecksheet(ctx context.Context, sheet *domain.BogieChecksheet) (*domain.BogieChecksheet, error) {
	query := `INSERT INTO bogie_checksheets (form_number, inspection_by, inspection_date,
		bogie_no, maker_year_built, incoming_div_and_date, deficit_components, date_of_ioh,
		bogie_frame_condition, bolster, bolster_suspension_bracket, lower_spring_seat, axle_guide,
		cylinder_body, piston_trunnion, adjusting_tube, plunger_spring, status)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		sheet.FormNumber,
		sheet.InspectionBy,
		sheet.InspectionDate,
		sheet.BogieDetails.BogieNo,
		sheet.BogieDetails.MakerYearBuilt,
		sheet.BogieDetails.IncomingDivAndDate,
		sheet.BogieDetails.DeficitComponents,
		sheet.BogieDetails.DateOfIOH,
		sheet.BogieChecks.BogieFrameCondition,
		sheet.BogieChecks.Bolster,
		sheet.BogieChecks.BolsterSuspensionBracket,
		sheet.BogieChecks.LowerSpringSeat,
		sheet.BogieChecks.AxleGuide,
		sheet.BMBCChecks.CylinderBody,
		sheet.BMBCChecks.PistonTrunnion,
		sheet.BMBCChecks.AdjustingTube,
		sheet.BMBCChecks.PlungerSpring,
		sheet.Status,
	).Scan(
		&sheet.ID,
		&sheet.CreatedAt,
		&sheet.UpdatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505":
				return nil, domain.ErrDuplicateFormNumber
			case "23503":
				return nil, domain.ErrUserNotFound
			}
		}
		return nil, err
	}
	return sheet, nil
}

func (r *BogieRepository) BogieChecksheetExists(ctx context.Context, formNumber string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM bogie_checksheets WHERE form_number = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, formNumber).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *BogieRepository) ListBogieChecksheets(ctx context.Context, filter domain.BogieChecksheetFilter) ([]*domain.BogieChecksheet, error) {
	query := `SELECT ` + bogieColumns + ` FROM bogie_checksheets`

	var conditions []string
	var args []interface{}

	if filter.FormNumber != "" {
		args = append(args, "%"+filter.FormNumber+"%")
		conditions = append(conditions, fmt.Sprintf("form_number ILIKE $%d", len(args)))
	}
	if filter.InspectionBy != nil {
		args = append(args, *filter.InspectionBy)
		conditions = append(conditions, fmt.Sprintf("inspection_by = $%d", len(args)))
	}
	if filter.InspectionDate != nil {
		args = append(args, *filter.InspectionDate)
		conditions = append(conditions, fmt.Sprintf("inspection_date = $%d", len(args)))
	}
	if filter.BogieNo != "" {
		args = append(args, "%"+filter.BogieNo+"%")
		conditions = append(conditions, fmt.Sprintf("bogie_no ILIKE $%d", len(args)))
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sheets []*domain.BogieChecksheet
	for rows.Next() {
		sheet := &domain.BogieChecksheet{}
		err := rows.Scan(
			&sheet.ID,
			&sheet.FormNumber,
			&sheet.InspectionBy,
			&sheet.InspectionDate,
			&sheet.BogieDetails.BogieNo,
			&sheet.BogieDetails.MakerYearBuilt,
			&sheet.BogieDetails.IncomingDivAndDate,
			&sheet.BogieDetails.DeficitComponents,
			&sheet.BogieDetails.DateOfIOH,
			&sheet.BogieChecks.BogieFrameCondition,
			&sheet.BogieChecks.Bolster,
			&sheet.BogieChecks.BolsterSuspensionBracket,
			&sheet.BogieChecks.LowerSpringSeat,
			&sheet.BogieChecks.AxleGuide,
			&sheet.BMBCChecks.CylinderBody,
			&sheet.BMBCChecks.PistonTrunnion,
			&sheet.BMBCChecks.AdjustingTube,
			&sheet.BMBCChecks.PlungerSpring,
			&sheet.Status,
			&sheet.CreatedAt,
			&sheet.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		sheets = append(sheets, sheet)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return sheets, nil
}
