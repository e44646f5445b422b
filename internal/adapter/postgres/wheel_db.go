package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/kpa-erp/kpa_forms_microservice/internal/core/domain"

	"github.com/lib/pq"
)

type WheelRepository struct {
	db *sql.DB
}

func NewWheelRepository(db *sql.DB) *WheelRepository {
	return &WheelRepository{db: db}
}

const wheelColumns = `id, form_number, submitted_by, submitted_date,
	tread_diameter_new, last_shop_issue_size, condemning_dia, wheel_gauge,
	variation_same_axle, variation_same_bogie, variation_same_coach, wheel_profile,
	intermediate_wwp, bearing_seat_diameter, roller_bearing_outer_dia,
	roller_bearing_bore_dia, roller_bearing_width, axle_box_housing_bore_dia,
	wheel_disc_width, status, created_at, updated_at`

func (r *WheelRepository) CreateWheelSpecification(ctx context.Context, spec *domain.WheelSpecification) (*domain.WheelSpecification, error) {
	query := `INSERT INTO wheel_specifications (form_number, submitted_by, submitted_date,
		tread_diameter_new, last_shop_issue_size, condemning_dia, wheel_gauge,
		variation_same_axle, variation_same_bogie, variation_same_coach, wheel_profile,
		intermediate_wwp, bearing_seat_diameter, roller_bearing_outer_dia,
		roller_bearing_bore_dia, roller_bearing_width, axle_box_housing_bore_dia,
		wheel_disc_width, status)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		spec.FormNumber,
		spec.SubmittedBy,
		spec.SubmittedDate,
		spec.Fields.TreadDiameterNew,
		spec.Fields.LastShopIssueSize,
		spec.Fields.CondemningDia,
		spec.Fields.WheelGauge,
		spec.Fields.VariationSameAxle,
		spec.Fields.VariationSameBogie,
		spec.Fields.VariationSameCoach,
		spec.Fields.WheelProfile,
		spec.Fields.IntermediateWWP,
		spec.Fields.BearingSeatDiameter,
		spec.Fields.RollerBearingOuterDia,
		spec.Fields.RollerBearingBoreDia,
		spec.Fields.RollerBearingWidth,
		spec.Fields.AxleBoxHousingBoreDia,
		spec.Fields.WheelDiscWidth,
		spec.Status,
	).Scan(
		&spec.ID,
		&spec.CreatedAt,
		&spec.UpdatedAt,
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
	return spec, nil
}

func (r *WheelRepository) WheelSpecificationExists(ctx context.Context, formNumber string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM wheel_specifications WHERE form_number = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, formNumber).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *WheelRepository) ListWheelSpecifications(ctx context.Context, filter domain.WheelSpecificationFilter) ([]*domain.WheelSpecification, error) {
	query := `SELECT ` + wheelColumns + ` FROM wheel_specifications`

	var conditions []string
	var args []interface{}

	if filter.FormNumber != "" {
		args = append(args, "%"+filter.FormNumber+"%")
		conditions = append(conditions, fmt.Sprintf("form_number ILIKE $%d", len(args)))
	}
	if filter.SubmittedBy != nil {
		args = append(args, *filter.SubmittedBy)
		conditions = append(conditions, fmt.Sprintf("submitted_by = $%d", len(args)))
	}
	if filter.SubmittedDate != nil {
		args = append(args, *filter.SubmittedDate)
		conditions = append(conditions, fmt.Sprintf("submitted_date = $%d", len(args)))
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

	var specs []*domain.WheelSpecification
	for rows.Next() {
		spec := &domain.WheelSpecification{}
		err := rows.Scan(
			&spec.ID,
			&spec.FormNumber,
			&spec.SubmittedBy,
			&spec.SubmittedDate,
			&spec.Fields.TreadDiameterNew,
			&spec.Fields.LastShopIssueSize,
			&spec.Fields.CondemningDia,
			&spec.Fields.WheelGauge,
			&spec.Fields.VariationSameAxle,
			&spec.Fields.VariationSameBogie,
			&spec.Fields.VariationSameCoach,
			&spec.Fields.WheelProfile,
			&spec.Fields.IntermediateWWP,
			&spec.Fields.BearingSeatDiameter,
			&spec.Fields.RollerBearingOuterDia,
			&spec.Fields.RollerBearingBoreDia,
			&spec.Fields.RollerBearingWidth,
			&spec.Fields.AxleBoxHousingBoreDia,
			&spec.Fields.WheelDiscWidth,
			&spec.Status,
			&spec.CreatedAt,
			&spec.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return specs, nil
}
