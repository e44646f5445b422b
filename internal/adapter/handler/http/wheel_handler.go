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

type WheelHandler struct {
	wheelService *services.WheelService
	userService  *services.UserService
	logger       ports.LoggerPort
	metrics      ports.MetricsPort
}

func NewWheelHandler(
	wheelService *services.WheelService,
	userService *services.UserService,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
) *WheelHandler {
	return &WheelHandler{
		wheelService: wheelService,
		userService:  userService,
		logger:       logger,
		metrics:      metrics,
	}
}

// WheelSpecificationFieldsSchema carries the wheel measurement values.
// Values are free-form strings such as "915 (900-1000)".
type WheelSpecificationFieldsSchema struct {
	TreadDiameterNew      string `json:"treadDiameterNew" binding:"required" example:"915 (900-1000)"`
	LastShopIssueSize     string `json:"lastShopIssueSize" binding:"required" example:"837 (Min)"`
	CondemningDia         string `json:"condemningDia" binding:"required" example:"825 (800-900)"`
	WheelGauge            string `json:"wheelGauge" binding:"required" example:"1600 (+2,-1)"`
	VariationSameAxle     string `json:"variationSameAxle" binding:"required" example:"0.5"`
	VariationSameBogie    string `json:"variationSameBogie" binding:"required" example:"5"`
	VariationSameCoach    string `json:"variationSameCoach" binding:"required" example:"13"`
	WheelProfile          string `json:"wheelProfile" binding:"required" example:"29.4 Flange Thickness"`
	IntermediateWWP       string `json:"intermediateWWP" binding:"required" example:"20 TO 28"`
	BearingSeatDiameter   string `json:"bearingSeatDiameter" binding:"required" example:"130.043 TO 130.068"`
	RollerBearingOuterDia string `json:"rollerBearingOuterDia" binding:"required" example:"280 (+0.0/-0.035)"`
	RollerBearingBoreDia  string `json:"rollerBearingBoreDia" binding:"required" example:"130 (+0.0/-0.025)"`
	RollerBearingWidth    string `json:"rollerBearingWidth" binding:"required" example:"93 (+0/-0.250)"`
	AxleBoxHousingBoreDia string `json:"axleBoxHousingBoreDia" binding:"required" example:"280 (+0.030/+0.052)"`
	WheelDiscWidth        string `json:"wheelDiscWidth" binding:"required" example:"127 (+4/-0)"`
}

type WheelSpecificationRequest struct {
	FormNumber    string                         `json:"formNumber" binding:"required,max=50" example:"WHEEL-2025-001"`
	SubmittedBy   string                         `json:"submittedBy" binding:"required" example:"1"`
	SubmittedDate strfmt.Date                    `json:"submittedDate" binding:"required" example:"2025-07-03"`
	Fields        WheelSpecificationFieldsSchema `json:"fields" binding:"required"`
}

type WheelSpecificationResponse struct {
	FormNumber    string                          `json:"formNumber"`
	SubmittedBy   string                          `json:"submittedBy"`
	SubmittedDate strfmt.Date                     `json:"submittedDate"`
	Status        string                          `json:"status"`
	Fields        *WheelSpecificationFieldsSchema `json:"fields,omitempty"`
}

// CreateWheelSpecification godoc
//
//	@Summary		Submit a wheel specification form
//	@Description	Creates a new wheel specification form with the given measurement fields
//	@Tags			Wheel Specifications
//	@Accept			json
//	@Produce		json
//	@Param			request	body		WheelSpecificationRequest	true	"Wheel specification form"
//	@Success		201		{object}	apiEnvelope
//	@Failure		400		{object}	apiEnvelope
//	@Failure		401		{object}	errorResponse
//	@Router			/api/forms/wheel-specifications [post]
//	@Security		BearerAuth
func (h *WheelHandler) CreateWheelSpecification(c *gin.Context) {
	start := time.Now()
	defer h.metrics.RecordMetrics(c, start)

	if _, ok := getAuthPayload(c, authorizationPayloadKey); !ok {
		newErrorResponse(c, http.StatusUnauthorized, "Authorization payload is missing")
		return
	}

	var req WheelSpecificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Wheel specification payload rejected", map[string]interface{}{
			"error": err.Error(),
		})
		newFormError(c, "Validation failed", bindingErrors(err))
		return
	}

	submitter, ok := h.resolveUserRef(c, "submittedBy", req.SubmittedBy)
	if !ok {
		return
	}

	spec := &domain.WheelSpecification{
		FormNumber:    req.FormNumber,
		SubmittedBy:   submitter.ID,
		SubmittedDate: time.Time(req.SubmittedDate),
		Fields: domain.WheelSpecificationFields{
			TreadDiameterNew:      req.Fields.TreadDiameterNew,
			LastShopIssueSize:     req.Fields.LastShopIssueSize,
			CondemningDia:         req.Fields.CondemningDia,
			WheelGauge:            req.Fields.WheelGauge,
			VariationSameAxle:     req.Fields.VariationSameAxle,
			VariationSameBogie:    req.Fields.VariationSameBogie,
			VariationSameCoach:    req.Fields.VariationSameCoach,
			WheelProfile:          req.Fields.WheelProfile,
			IntermediateWWP:       req.Fields.IntermediateWWP,
			BearingSeatDiameter:   req.Fields.BearingSeatDiameter,
			RollerBearingOuterDia: req.Fields.RollerBearingOuterDia,
			RollerBearingBoreDia:  req.Fields.RollerBearingBoreDia,
			RollerBearingWidth:    req.Fields.RollerBearingWidth,
			AxleBoxHousingBoreDia: req.Fields.AxleBoxHousingBoreDia,
			WheelDiscWidth:        req.Fields.WheelDiscWidth,
		},
	}

	created, err := h.wheelService.CreateWheelSpecification(c.Request.Context(), spec)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateFormNumber):
			newFormError(c, "Form number already exists", map[string][]string{
				"formNumber": {"This form number is already in use"},
			})
		case errors.Is(err, domain.ErrUserNotFound):
			newFormError(c, "Invalid user ID provided", map[string][]string{
				"submittedBy": {"User not found"},
			})
		default:
			newFormError(c, fmt.Sprintf("Error creating wheel specification: %s", err), map[string][]string{
				"general": {err.Error()},
			})
		}
		return
	}

	c.JSON(http.StatusCreated, apiEnvelope{
		Success: true,
		Message: "Wheel specification submitted successfully.",
		Data: WheelSpecificationResponse{
			FormNumber:    created.FormNumber,
			SubmittedBy:   strconv.FormatInt(created.SubmittedBy, 10),
			SubmittedDate: strfmt.Date(created.SubmittedDate),
			Status:        created.Status.Display(),
		},
	})
}

// GetWheelSpecifications godoc
//
//	@Summary		List wheel specification forms
//	@Description	Returns wheel specification forms, optionally filtered by form number, submitter or date
//	@Tags			Wheel Specifications
//	@Produce		json
//	@Param			formNumber		query		string	false	"Filter by form number (substring match)"
//	@Param			submittedBy		query		string	false	"Filter by submitting user ID"
//	@Param			submittedDate	query		string	false	"Filter by submission date (YYYY-MM-DD)"
//	@Success		200				{object}	apiEnvelope
//	@Failure		400				{object}	apiEnvelope
//	@Failure		401				{object}	errorResponse
//	@Router			/api/forms/wheel-specifications [get]
//	@Security		BearerAuth
func (h *WheelHandler) GetWheelSpecifications(c *gin.Context) {
	start := time.Now()
	defer h.metrics.RecordMetrics(c, start)

	if _, ok := getAuthPayload(c, authorizationPayloadKey); !ok {
		newErrorResponse(c, http.StatusUnauthorized, "Authorization payload is missing")
		return
	}

	var filter domain.WheelSpecificationFilter
	filter.FormNumber = c.Query("formNumber")

	if v := c.Query("submittedBy"); v != "" {
		submitter, ok := h.resolveUserRef(c, "submittedBy", v)
		if !ok {
			return
		}
		filter.SubmittedBy = &submitter.ID
	}

	if v := c.Query("submittedDate"); v != "" {
		date, err := time.Parse("2006-01-02", v)
		if err != nil {
			newFormError(c, "Invalid date format", map[string][]string{
				"submittedDate": {"Expected YYYY-MM-DD"},
			})
			return
		}
		filter.SubmittedDate = &date
	}

	specs, err := h.wheelService.ListWheelSpecifications(c.Request.Context(), filter)
	if err != nil {
		newFormError(c, fmt.Sprintf("Error fetching wheel specifications: %s", err), map[string][]string{
			"general": {err.Error()},
		})
		return
	}

	data := make([]WheelSpecificationResponse, 0, len(specs))
	for _, spec := range specs {
		fields := WheelSpecificationFieldsSchema{
			TreadDiameterNew:      spec.Fields.TreadDiameterNew,
			LastShopIssueSize:     spec.Fields.LastShopIssueSize,
			CondemningDia:         spec.Fields.CondemningDia,
			WheelGauge:            spec.Fields.WheelGauge,
			VariationSameAxle:     spec.Fields.VariationSameAxle,
			VariationSameBogie:    spec.Fields.VariationSameBogie,
			VariationSameCoach:    spec.Fields.VariationSameCoach,
			WheelProfile:          spec.Fields.WheelProfile,
			IntermediateWWP:       spec.Fields.IntermediateWWP,
			BearingSeatDiameter:   spec.Fields.BearingSeatDiameter,
			RollerBearingOuterDia: spec.Fields.RollerBearingOuterDia,
			RollerBearingBoreDia:  spec.Fields.RollerBearingBoreDia,
			RollerBearingWidth:    spec.Fields.RollerBearingWidth,
			AxleBoxHousingBoreDia: spec.Fields.AxleBoxHousingBoreDia,
			WheelDiscWidth:        spec.Fields.WheelDiscWidth,
		}
		data = append(data, WheelSpecificationResponse{
			FormNumber:    spec.FormNumber,
			SubmittedBy:   strconv.FormatInt(spec.SubmittedBy, 10),
			SubmittedDate: strfmt.Date(spec.SubmittedDate),
			Status:        spec.Status.Display(),
			Fields:        &fields,
		})
	}

	message := "All wheel specification forms fetched successfully."
	if !filter.Empty() {
		message = "Filtered wheel specification forms fetched successfully."
	}

	c.JSON(http.StatusOK, apiEnvelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// resolveUserRef parses a user reference carried as a string ID and resolves
// it to an account. Both an unparsable reference and a missing account get
// the same invalid-user response.
func (h *WheelHandler) resolveUserRef(c *gin.Context, field, ref string) (*domain.User, bool) {
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
