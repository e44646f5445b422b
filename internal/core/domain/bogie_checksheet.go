package domain

import (
	"time"
)

// BogieChecksheet is a bogie inspection form keyed by a human-assigned
// form number, grouping bogie details, bogie condition assessments and
// BMBC condition assessments.
type BogieChecksheet struct {
	ID             int64           `json:"id"`
	FormNumber     string          `json:"form_number" validate:"required,max=50"`
	InspectionBy   int64           `json:"inspection_by" validate:"required"`
	InspectionDate time.Time       `json:"inspection_date" validate:"required"`
	BogieDetails   BogieDetails    `json:"bogie_details"`
	BogieChecks    BogieConditions `json:"bogie_checksheet"`
	BMBCChecks     BMBCConditions  `json:"bmbc_checksheet"`
	Status         FormStatus      `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type BogieDetails struct {
	BogieNo            string    `json:"bogie_no" validate:"required,max=50"`
	MakerYearBuilt     string    `json:"maker_year_built" validate:"required,max=100"`
	IncomingDivAndDate string    `json:"incoming_div_and_date" validate:"required,max=200"`
	DeficitComponents  string    `json:"deficit_components"`
	DateOfIOH          time.Time `json:"date_of_ioh" validate:"required"`
}

// Condition values follow the documented vocabularies (Good/Fair/Poor/Damaged,
// plus Cracked for the suspension bracket and Worn for the axle guide) but are
// stored verbatim without server-side enforcement.
type BogieConditions struct {
	BogieFrameCondition      string `json:"bogie_frame_condition" validate:"required,max=50"`
	Bolster                  string `json:"bolster" validate:"required,max=50"`
	BolsterSuspensionBracket string `json:"bolster_suspension_bracket" validate:"required,max=50"`
	LowerSpringSeat          string `json:"lower_spring_seat" validate:"required,max=50"`
	AxleGuide                string `json:"axle_guide" validate:"required,max=50"`
}

// BMBC conditions use the upper-case vocabulary GOOD/FAIR/WORN OUT/DAMAGED,
// likewise stored verbatim.
type BMBCConditions struct {
	CylinderBody   string `json:"cylinder_body" validate:"required,max=50"`
	PistonTrunnion string `json:"piston_trunnion" validate:"required,max=50"`
	AdjustingTube  string `json:"adjusting_tube" validate:"required,max=50"`
	PlungerSpring  string `json:"plunger_spring" validate:"required,max=50"`
}

// BogieChecksheetFilter restricts a listing; FormNumber and BogieNo are
// case-insensitive substring matches, InspectionDate an exact match.
type BogieChecksheetFilter struct {
	FormNumber     string
	InspectionBy   *int64
	InspectionDate *time.Time
	BogieNo        string
}

func (f BogieChecksheetFilter) Empty() bool {
	return f.FormNumber == "" && f.InspectionBy == nil && f.InspectionDate == nil && f.BogieNo == ""
}
