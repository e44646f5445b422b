package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/kpa-erp/kpa_forms_microservice/internal/core/domain"
	"github.com/kpa-erp/kpa_forms_microservice/internal/core/ports"
	"github.com/kpa-erp/kpa_forms_microservice/internal/core/services"

	"github.com/gin-gonic/gin"
	"github.com/go-openapi/strfmt"
)

type BogieHandler struct {
	bogieService *services.BogieService
	userService  *services.UserService
	logger       ports.LoggerPort
	metrics      ports.MetricsPort
}

func NewBogieHandler(
	bogieService *services.BogieService,
	userService *services.UserService,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
) *BogieHandler {
	return &BogieHandler{
		bogieService: bogieService,
		userService:  userService,
		logger:       logger,
		metrics:      metrics,
	}
}

type BogieDetailsSchema struct {
	BogieNo            string      `json:"bogieNo" binding:"required,max=50" example:"BG1234"`
	MakerYearBuilt     string      `json:"makerYearBuilt" binding:"required" example:"RDSO/2018"`
	IncomingDivAndDate string      `json:"incomingDivAndDate" binding:"required" example:"NR / 2025-06-25"`
	DeficitComponents  string      `json:"deficitComponents" example:"None"`
	DateOfIOH          strfmt.Date `json:"dateOfIOH" binding:"required" example:"2025-07-01"`
}

// Condition values are recorded verbatim; the documented vocabularies
// (Good/Fair/Poor/Damaged and friends) are a client-side convention.
type BogieChecksheetSchema struct {
	BogieFrameCondition      string `json:"bogieFrameCondition" binding:"required" example:"Good"`
	Bolster                  string `json:"bolster" binding:"required" example:"Good"`
	BolsterSuspensionBracket string `json:"bolsterSuspensionBracket" binding:"required" example:"Cracked"`
	LowerSpringSeat          string `json:"lowerSpringSeat" binding:"required" example:"Worn"`
	AxleGuide                string `json:"axleGuide" binding:"required" example:"Worn"`
}

type BMBCChecksheetSchema struct {
	CylinderBody   string `json:"cylinderBody" binding:"required" example:"WORN OUT"`
	PistonTrunnion string `json:"pistonTrunnion" binding:"required" example:"GOOD"`
	AdjustingTube  string `json:"adjustingTube" binding:"required" example:"DAMAGED"`
	PlungerSpring  string `json:"plungerSpring" binding:"required" example:"GOOD"`
}

type BogieChecksheetRequest struct {
	FormNumber      string                `json:"formNumber" binding:"required,max=50" example:"BOGIE-2025-001"`
	InspectionBy    string                `json:"inspectionBy" binding:"required" example:"1"`
	InspectionDate  strfmt.Date           `json:"inspectionDate" binding:"required" example:"2025-07-03"`
	BogieDetails    BogieDetailsSchema    `json:"bogieDetails" binding:"required"`
	BogieChecksheet BogieChecksheetSchema `json:"bogieChecksheet" binding:"required"`
	BMBCChecksheet  BMBCChecksheetSchema  `json:"bmbcChecksheet" binding:"required"`
}

type BogieChecksheetResponse struct {
	FormNumber      string                 `json:"formNumber"`
	InspectionBy    string                 `json:"inspectionBy"`
	InspectionDate  strfmt.Date            `json:"inspectionDate"`
	Status          string                 `json:"status"`
	BogieDetails    *BogieDetailsSchema    `json:"bogieDetails,omitempty"`
	BogieChecksheet *BogieChecksheetSchema `json:"bogieChecksheet,omitempty"`
	BMBCChecksheet  *BMBCChecksheetSchema  `json:"bmbcChecksheet,omitempty"`
}

// CreateBogieChecksheet godoc
//
//	@Summary		Submit a bogie checksheet form
//	@Description	Creates a new bogie inspection checksheet with details, bogie and BMBC condition groups
//	@Tags			Bogie Checksheets
//	@Accept			json
//	@Produce		json
//	@Param			request	body		BogieChecksheetRequest	true	"Bogie checksheet form"
//	@Success		201		{object}	apiEnvelope
//	@Failure		400		{object}	apiEnvelope
//	@Failure		401		{object}	errorResponse
//	@Router			/api/forms/bogie-checksheet [post]
//	@Security		BearerAuth
func (h *BogieHandler) CreateBogieChecksheet(c *gin.Context) {
	start := time.Now()
	defer h.metrics.RecordMetrics(c, start)

	if _, ok := getAuthPayload(c, authorizationPayloadKey); !ok {
		newErrorResponse(c, http.StatusUnauthorized, "Authorization payload is missing")
		return
	}

	var req BogieChecksheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Bogie checksheet payload rejected", map[string]interface{}{
			"error": err.Error(),
		})
		newFormError(c, "Validation failed", bindingErrors(err))
		return
	}

	inspector, ok := h.resolveUserRef(c, "inspectionBy", req.InspectionBy)
	if !ok {
		return
	}

	checksheet := &domain.BogieChecksheet{
		FormNumber:     req.FormNumber,
		InspectionBy:   inspector.ID,
		InspectionDate: time.Time(req.InspectionDate),
		BogieDetails: domain.BogieDetails{
			BogieNo:            req.BogieDetails.BogieNo,
			MakerYearBuilt:     req.BogieDetails.MakerYearBuilt,
			IncomingDivAndDate: req.BogieDetails.IncomingDivAndDate,
			DeficitComponents:  req.BogieDetails.DeficitComponents,
			DateOfIOH:          time.Time(req.BogieDetails.DateOfIOH),
		},
		BogieChecks: domain.BogieConditions{
			BogieFrameCondition:      req.BogieChecksheet.BogieFrameCondition,
			Bolster:                  req.BogieChecksheet.Bolster,
			BolsterSuspensionBracket: req.BogieChecksheet.BolsterSuspensionBracket,
			LowerSpringSeat:          req.BogieChecksheet.LowerSpringSeat,
			AxleGuide:                req.BogieChecksheet.AxleGuide,
		},
		BMBCChecks: domain.BMBCConditions{
			CylinderBody:   req.BMBCChecksheet.CylinderBody,
			PistonTrunnion: req.BMBCChecksheet.PistonTrunnion,
			AdjustingTube:  req.BMBCChecksheet.AdjustingTube,
			PlungerSpring:  req.BMBCChecksheet.PlungerSpring,
		},
	}

	created, err := h.bogieService.CreateBogieChecksheet(c.Request.Context(), checksheet)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateFormNumber):
			newFormError(c, "Form number already exists", map[string][]string{
				"formNumber": {"This form number is already in use"},
			})
		case errors.Is(err, domain.ErrUserNotFound):
			newFormError(c, "Invalid user ID provided", map[string][]string{
				"inspectionBy": {"User not found"},
			})
		default:
			newFormError(c, fmt.Sprintf("Error creating bogie checksheet: %s", err), map[string][]string{
				"general": {err.Error()},
			})
		}
		return
	}

	c.JSON(http.StatusCreated, apiEnvelope{
		Success: true,
		Message: "Bogie checksheet submitted successfully.",
		Data: BogieChecksheetResponse{
			FormNumber:     created.FormNumber,
			InspectionBy:   strconv.FormatInt(created.InspectionBy, 10),
			InspectionDate: strfmt.Date(created.InspectionDate),
			Status:         created.Status.Display(),
		},
	})
}

// GetBogieChecksheets godoc
//
//	@Summary		List bogie checksheet forms
//	@Description	Returns bogie checksheets, optionally filtered by form number, inspector, date or bogie number
//	@Tags			Bogie Checksheets
//	@Produce		json
//	@Param			formNumber		query		string	false	"Filter by form number (substring match)"
//	@Param			inspectionBy	query		string	false	"Filter by inspecting user ID"
//	@Param			inspectionDate	query		string	false	"Filter by inspection date (YYYY-MM-DD)"
//	@Param			bogieNo			query		string	false	"Filter by bogie number (substring match)"
//	@Success		200				{object}	apiEnvelope
//	@Failure		400				{object}	apiEnvelope
//	@Failure		401				{object}	errorResponse
//	@Router			/api/forms/bogie-checksheets [get]
//	@Security		BearerAuth
func (h *BogieHandler) GetBogieChecksheets(c *gin.Context) {
	start := time.Now()
	defer h.metrics.RecordMetrics(c, start)

	if _, ok := getAuthPayload(c, authorizationPayloadKey); !ok {
		newErrorResponse(c, http.StatusUnauthorized, "Authorization payload is missing")
		return
	}

	var filter domain.BogieChecksheetFilter
	filter.FormNumber = c.Query("formNumber")
	filter.BogieNo = c.Query("bogieNo")

	if v := c.Query("inspectionBy"); v != "" {
		inspector, ok := h.resolveUserRef(c, "inspectionBy", v)
		if !ok {
			return
		}
		filter.InspectionBy = &inspector.ID
	}

	if v := c.Query("inspectionDate"); v != "" {
		date, err := time.Parse("2006-01-02", v)
		if err != nil {
			newFormError(c, "Invalid date format", map[string][]string{
				"inspectionDate": {"Expected YYYY-MM-DD"},
			})
			return
		}
		filter.InspectionDate = &date
	}

	checksheets, err := h.bogieService.ListBogieChecksheets(c.Request.Context(), filter)
	if err != nil {
		newFormError(c, fmt.Sprintf("Error fetching bogie checksheets: %s", err), map[string][]string{
			"general": {err.Error()},
		})
		return
	}

	data := make([]BogieChecksheetResponse, 0, len(checksheets))
	for _, cs := range checksheets {
		details := BogieDetailsSchema{
			BogieNo:            cs.BogieDetails.BogieNo,
			MakerYearBuilt:     cs.BogieDetails.MakerYearBuilt,
			IncomingDivAndDate: cs.BogieDetails.IncomingDivAndDate,
			DeficitComponents:  cs.BogieDetails.DeficitComponents,
			DateOfIOH:          strfmt.Date(cs.BogieDetails.DateOfIOH),
		}
		bogieChecks := BogieChecksheetSchema{
			BogieFrameCondition:      cs.BogieChecks.BogieFrameCondition,
			Bolster:                  cs.BogieChecks.Bolster,
			BolsterSuspensionBracket: cs.BogieChecks.BolsterSuspensionBracket,
			LowerSpringSeat:          cs.BogieChecks.LowerSpringSeat,
			AxleGuide:                cs.BogieChecks.AxleGuide,
		}
		bmbcChecks := BMBCChecksheetSchema{
			CylinderBody:   cs.BMBCChecks.CylinderBody,
			PistonTrunnion: cs.BMBCChecks.PistonTrunnion,
			AdjustingTube:  cs.BMBCChecks.AdjustingTube,
			PlungerSpring:  cs.BMBCChecks.PlungerSpring,
		}
		data = append(data, BogieChecksheetResponse{
			FormNumber:      cs.FormNumber,
			InspectionBy:    strconv.FormatInt(cs.InspectionBy, 10),
			InspectionDate:  strfmt.Date(cs.InspectionDate),
			Status:          cs.Status.Display(),
			BogieDetails:    &details,
			BogieChecksheet: &bogieChecks,
			BMBCChecksheet:  &bmbcChecks,
		})
	}

	message := "All bogie checksheet forms fetched successfully."
	if !filter.Empty() {
		message = "Filtered bogie checksheet forms fetched successfully."
	}

	c.JSON(http.StatusOK, apiEnvelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func (h *BogieHandler) resolveUserRef(c *gin.Context, field, ref string) (*domain.User, bool) {
	userID, err := strconv.ParseInt(ref, 10, 64)
	if err == nil {
		user, lookupErr := h.userService.GetUserByID(c.Request.Context(), userID)
		if lookupErr == nil {
			return user, true
		}
		if !errors.Is(lookupErr, domain.ErrUserNotFound) {
			newFormError(c, fmt.Sprintf("Error resolving user: %s", lookupErr), map[string][]string{
				"general": {lookupErr.Error()},
			})
			return nil, false
		}
	}

	newFormError(c, "Invalid user ID provided", map[string][]string{
		field: {"User not found"},
	})
	return nil, false
}
