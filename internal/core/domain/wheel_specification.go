package domain

import (
	"time"
)

// WheelSpecification is a wheel measurement form keyed by a human-assigned
// form number. Measurement values are opaque strings like "915 (900-1000)";
// no numeric parsing is done on them.
type WheelSpecification struct {
	ID            int64                    `json:"id"`
	FormNumber    string                   `json:"form_number" validate:"required,max=50"`
	SubmittedBy   int64                    `json:"submitted_by" validate:"required"`
	SubmittedDate time.Time                `json:"submitted_date" validate:"required"`
	Fields        WheelSpecificationFields `json:"fields"`
	Status        FormStatus               `json:"status"`
	CreatedAt     time.Time                `json:"created_at"`
	UpdatedAt     time.Time                `json:"updated_at"`
}

type WheelSpecificationFields struct {
	TreadDiameterNew      string `json:"tread_diameter_new" validate:"required,max=100"`
	LastShopIssueSize     string `json:"last_shop_issue_size" validate:"required,max=100"`
	CondemningDia         string `json:"condemning_dia" validate:"required,max=100"`
	WheelGauge            string `json:"wheel_gauge" validate:"required,max=100"`
	VariationSameAxle     string `json:"variation_same_axle" validate:"required,max=50"`
	VariationSameBogie    string `json:"variation_same_bogie" validate:"required,max=50"`
	VariationSameCoach    string `json:"variation_same_coach" validate:"required,max=50"`
	WheelProfile          string `json:"wheel_profile" validate:"required,max=100"`
	IntermediateWWP       string `json:"intermediate_wwp" validate:"required,max=100"`
	BearingSeatDiameter   string `json:"bearing_seat_diameter" validate:"required,max=100"`
	RollerBearingOuterDia string `json:"roller_bearing_outer_dia" validate:"required,max=100"`
	RollerBearingBoreDia  string `json:"roller_bearing_bore_dia" validate:"required,max=100"`
	RollerBearingWidth    string `json:"roller_bearing_width" validate:"required,max=100"`
	AxleBoxHousingBoreDia string `json:"axle_box_housing_bore_dia" validate:"required,max=100"`
	WheelDiscWidth        string `json:"wheel_disc_width" validate:"required,max=100"`
}

// WheelSpecificationFilter restricts a listing; nil/empty fields are skipped.
// FormNumber is a case-insensitive substring match, SubmittedDate an exact match.
type WheelSpecificationFilter struct {
	FormNumber    string
	SubmittedBy   *int64
	SubmittedDate *time.Time
}

func (f WheelSpecificationFilter) Empty() bool {
	return f.FormNumber == "" && f.SubmittedBy == nil && f.SubmittedDate == nil
}
