package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kpa-erp/kpa_forms_microservice/internal/core/domain"
	"github.com/kpa-erp/kpa_forms_microservice/internal/core/services"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type noopLogger struct{}

func (noopLogger) Debug(message string, fields map[string]interface{}) {}

func (noopLogger) Info(message string, fields map[string]interface{}) {}

func (noopLogger) Warn(message string, fields map[string]interface{}) {}

func (noopLogger) Error(message string, fields map[string]interface{}) {}

type noopMetrics struct{}

func (noopMetrics) RecordMetrics(c *gin.Context, start time.Time) {}

// missCache never holds anything, so user lookups always hit the repository.
type missCache struct{}

func (missCache) Get(key string) ([]byte, error) { return nil, errors.New("cache miss") }

func (missCache) Set(key string, value []byte, expiration time.Duration) error { return nil }

func (missCache) Delete(key string) error { return nil }

type MockWheelRepository struct {
	mock.Mock
}

func (m *MockWheelRepository) CreateWheelSpecification(ctx context.Context, spec *domain.WheelSpecification) (*domain.WheelSpecification, error) {
	args := m.Called(ctx, spec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WheelSpecification), args.Error(1)
}

func (m *MockWheelRepository) WheelSpecificationExists(ctx context.Context, formNumber string) (bool, error) {
	args := m.Called(ctx, formNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockWheelRepository) ListWheelSpecifications(ctx context.Context, filter domain.WheelSpecificationFilter) ([]*domain.WheelSpecification, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.WheelSpecification), args.Error(1)
}

type MockBogieRepository struct {
	mock.Mock
}

func (m *MockBogieRepository) CreateBogieChecksheet(ctx context.Context, sheet *domain.BogieChecksheet) (*domain.BogieChecksheet, error) {
	args := m.Called(ctx, sheet)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BogieChecksheet), args.Error(1)
}

func (m *MockBogieRepository) BogieChecksheetExists(ctx context.Context, formNumber string) (bool, error) {
	args := m.Called(ctx, formNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockBogieRepository) ListBogieChecksheets(ctx context.Context, filter domain.BogieChecksheetFilter) ([]*domain.BogieChecksheet, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.BogieChecksheet), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByPhoneNumber(ctx context.Context, phoneNumber string) (*domain.User, error) {
	args := m.Called(ctx, phoneNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) ListUsers(ctx context.Context) ([]*domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, id int64, lastLogin time.Time) error {
	args := m.Called(ctx, id, lastLogin)
	return args.Error(0)
}

type formsTestEnv struct {
	wheelRepo    *MockWheelRepository
	bogieRepo    *MockBogieRepository
	userRepo     *MockUserRepository
	tokenService *JWTTokenService
	engine       *gin.Engine
	authHeader   string
}

func newFormsTestEnv(t *testing.T) *formsTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	wheelRepo := new(MockWheelRepository)
	bogieRepo := new(MockBogieRepository)
	userRepo := new(MockUserRepository)
	validate := validator.New()

	userService := services.NewUserService(userRepo, noopLogger{}, validate, missCache{})
	wheelService := services.NewWheelService(wheelRepo, noopLogger{}, validate)
	bogieService := services.NewBogieService(bogieRepo, noopLogger{}, validate)

	tokenService := NewJWTTokenService("test-secret", time.Hour, noopLogger{})
	wheelHandler := NewWheelHandler(wheelService, userService, noopLogger{}, noopMetrics{})
	bogieHandler := NewBogieHandler(bogieService, userService, noopLogger{}, noopMetrics{})

	engine := gin.New()
	forms := engine.Group("/api/forms")
	forms.Use(AuthMiddleware(tokenService))
	{
		forms.POST("/wheel-specifications", wheelHandler.CreateWheelSpecification)
		forms.GET("/wheel-specifications", wheelHandler.GetWheelSpecifications)
		forms.POST("/bogie-checksheet", bogieHandler.CreateBogieChecksheet)
		forms.GET("/bogie-checksheets", bogieHandler.GetBogieChecksheets)
	}

	token, err := tokenService.CreateToken(&domain.User{ID: 1, IsActive: true})
	assert.NoError(t, err)

	return &formsTestEnv{
		wheelRepo:    wheelRepo,
		bogieRepo:    bogieRepo,
		userRepo:     userRepo,
		tokenService: tokenService,
		engine:       engine,
		authHeader:   "Bearer " + token,
	}
}

func (e *formsTestEnv) do(method, target string, body any, authHeader string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	rr := httptest.NewRecorder()
	e.engine.ServeHTTP(rr, req)
	return rr
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope map[string]any
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope))
	return envelope
}

func validWheelRequest() map[string]any {
	return map[string]any{
		"formNumber":    "WHEEL-2025-001",
		"submittedBy":   "1",
		"submittedDate": "2025-07-03",
		"fields": map[string]any{
			"treadDiameterNew":      "915 (900-1000)",
			"lastShopIssueSize":     "837 (Min)",
			"condemningDia":         "825 (800-900)",
			"wheelGauge":            "1600 (+2,-1)",
			"variationSameAxle":     "0.5",
			"variationSameBogie":    "5",
			"variationSameCoach":    "13",
			"wheelProfile":          "29.4 Flange Thickness",
			"intermediateWWP":       "20 TO 28",
			"bearingSeatDiameter":   "130.043 TO 130.068",
			"rollerBearingOuterDia": "280 (+0.0/-0.035)",
			"rollerBearingBoreDia":  "130 (+0.0/-0.025)",
			"rollerBearingWidth":    "93 (+0/-0.250)",
			"axleBoxHousingBoreDia": "280 (+0.030/+0.052)",
			"wheelDiscWidth":        "127 (+4/-0)",
		},
	}
}

func TestWheelHandler_CreateWheelSpecification(t *testing.T) {
	submitter := &domain.User{ID: 1, PhoneNumber: "+919876543210", FirstName: "Asha", LastName: "Rao", IsActive: true}

	t.Run("should create a wheel specification", func(t *testing.T) {
		env := newFormsTestEnv(t)
		env.userRepo.On("GetUserByID", mock.Anything, int64(1)).Return(submitter, nil)
		env.wheelRepo.On("WheelSpecificationExists", mock.Anything, "WHEEL-2025-001").Return(false, nil).Once()
		env.wheelRepo.On("CreateWheelSpecification", mock.Anything, mock.AnythingOfType("*domain.WheelSpecification")).
			Return(&domain.WheelSpecification{
				FormNumber:    "WHEEL-2025-001",
				SubmittedBy:   1,
				SubmittedDate: time.Date(2025, 7, 3, 0, 0, 0, 0, time.UTC),
				Status:        domain.StatusSubmitted,
			}, nil).Once()

		rr := env.do("POST", "/api/forms/wheel-specifications", validWheelRequest(), env.authHeader)

		assert.Equal(t, http.StatusCreated, rr.Code)
		envelope := decodeEnvelope(t, rr)
		assert.Equal(t, true, envelope["success"])
		assert.Equal(t, "Wheel specification submitted successfully.", envelope["message"])

		data := envelope["data"].(map[string]any)
		assert.Equal(t, "WHEEL-2025-001", data["formNumber"])
		assert.Equal(t, "1", data["submittedBy"])
		assert.Equal(t, "Submitted", data["status"])

		env.wheelRepo.AssertExpectations(t)
	})

	t.Run("should reject a duplicate form number", func(t *testing.T) {
		env := newFormsTestEnv(t)
		env.userRepo.On("GetUserByID", mock.Anything, int64(1)).Return(submitter, nil)
		env.wheelRepo.On("WheelSpecificationExists", mock.Anything, "WHEEL-2025-001").Return(true, nil).Once()

		rr := env.do("POST", "/api/forms/wheel-specifications", validWheelRequest(), env.authHeader)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		envelope := decodeEnvelope(t, rr)
		assert.Equal(t, false, envelope["success"])
		assert.Equal(t, "Form number already exists", envelope["message"])

		errs := envelope["errors"].(map[string]any)
		assert.Contains(t, errs, "formNumber")
	})

	t.Run("should reject an unknown submitter", func(t *testing.T) {
		env := newFormsTestEnv(t)
		env.userRepo.On("GetUserByID", mock.Anything, int64(42)).Return(nil, domain.ErrUserNotFound)

		body := validWheelRequest()
		body["submittedBy"] = "42"
		rr := env.do("POST", "/api/forms/wheel-specifications", body, env.authHeader)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		envelope := decodeEnvelope(t, rr)
		assert.Equal(t, "Invalid user ID provided", envelope["message"])
		env.wheelRepo.AssertNotCalled(t, "CreateWheelSpecification", mock.Anything, mock.Anything)
	})

	t.Run("should reject a non-numeric submitter reference", func(t *testing.T) {
		env := newFormsTestEnv(t)

		body := validWheelRequest()
		body["submittedBy"] = "user_id_123"
		rr := env.do("POST", "/api/forms/wheel-specifications", body, env.authHeader)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		envelope := decodeEnvelope(t, rr)
		assert.Equal(t, "Invalid user ID provided", envelope["message"])
	})

	t.Run("should report missing fields per field", func(t *testing.T) {
		env := newFormsTestEnv(t)

		body := validWheelRequest()
		fields := body["fields"].(map[string]any)
		delete(fields, "treadDiameterNew")
		rr := env.do("POST", "/api/forms/wheel-specifications", body, env.authHeader)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		envelope := decodeEnvelope(t, rr)
		assert.Equal(t, "Validation failed", envelope["message"])

		errs := envelope["errors"].(map[string]any)
		assert.Contains(t, errs, "treadDiameterNew")
	})

	t.Run("should require authentication", func(t *testing.T) {
		env := newFormsTestEnv(t)

		rr := env.do("POST", "/api/forms/wheel-specifications", validWheelRequest(), "")

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestWheelHandler_GetWheelSpecifications(t *testing.T) {
	submitter := &domain.User{ID: 1, PhoneNumber: "+919876543210", FirstName: "Asha", LastName: "Rao", IsActive: true}

	storedSpec := &domain.WheelSpecification{
		ID:            10,
		FormNumber:    "WHEEL-2025-001",
		SubmittedBy:   1,
		SubmittedDate: time.Date(2025, 7, 3, 0, 0, 0, 0, time.UTC),
		Fields: domain.WheelSpecificationFields{
			TreadDiameterNew: "915 (900-1000)",
		},
		Status: domain.StatusSubmitted,
	}

	t.Run("should list all forms without filters", func(t *testing.T) {
		env := newFormsTestEnv(t)
		env.wheelRepo.On("ListWheelSpecifications", mock.Anything, domain.WheelSpecificationFilter{}).
			Return([]*domain.WheelSpecification{storedSpec}, nil).Once()

		rr := env.do("GET", "/api/forms/wheel-specifications", nil, env.authHeader)

		assert.Equal(t, http.StatusOK, rr.Code)
		envelope := decodeEnvelope(t, rr)
		assert.Equal(t, "All wheel specification forms fetched successfully.", envelope["message"])

		data := envelope["data"].([]any)
		assert.Len(t, data, 1)
		first := data[0].(map[string]any)
		assert.Equal(t, "WHEEL-2025-001", first["formNumber"])
		assert.Equal(t, "Submitted", first["status"])
		fields := first["fields"].(map[string]any)
		assert.Equal(t, "915 (900-1000)", fields["treadDiameterNew"])
	})

	t.Run("should report a filtered listing", func(t *testing.T) {
		env := newFormsTestEnv(t)
		env.wheelRepo.On("ListWheelSpecifications", mock.Anything, domain.WheelSpecificationFilter{FormNumber: "WHEEL"}).
			Return([]*domain.WheelSpecification{storedSpec}, nil).Once()

		rr := env.do("GET", "/api/forms/wheel-specifications?formNumber=WHEEL", nil, env.authHeader)

		assert.Equal(t, http.StatusOK, rr.Code)
		envelope := decodeEnvelope(t, rr)
		assert.Equal(t, "Filtered wheel specification forms fetched successfully.", envelope["message"])
	})

	t.Run("should resolve the submitter filter to a user", func(t *testing.T) {
		env := newFormsTestEnv(t)
		env.userRepo.On("GetUserByID", mock.Anything, int64(1)).Return(submitter, nil)
		submitterID := int64(1)
		env.wheelRepo.On("ListWheelSpecifications", mock.Anything, domain.WheelSpecificationFilter{SubmittedBy: &submitterID}).
			Return([]*domain.WheelSpecification{}, nil).Once()

		rr := env.do("GET", "/api/forms/wheel-specifications?submittedBy=1", nil, env.authHeader)

		assert.Equal(t, http.StatusOK, rr.Code)
		envelope := decodeEnvelope(t, rr)
		data := envelope["data"].([]any)
		assert.Empty(t, data)
	})

	t.Run("should reject an unknown submitter filter", func(t *testing.T) {
		env := newFormsTestEnv(t)
		env.userRepo.On("GetUserByID", mock.Anything, int64(42)).Return(nil, domain.ErrUserNotFound)

		rr := env.do("GET", "/api/forms/wheel-specifications?submittedBy=42", nil, env.authHeader)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		envelope := decodeEnvelope(t, rr)
		assert.Equal(t, "Invalid user ID provided", envelope["message"])
	})

	t.Run("should reject a malformed date filter", func(t *testing.T) {
		env := newFormsTestEnv(t)

		rr := env.do("GET", "/api/forms/wheel-specifications?submittedDate=03-07-2025", nil, env.authHeader)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		envelope := decodeEnvelope(t, rr)
		assert.Equal(t, "Invalid date format", envelope["message"])
	})
}
