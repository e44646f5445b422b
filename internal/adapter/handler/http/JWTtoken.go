package http

import (
	"time"

	"github.com/kpa-erp/kpa_forms_microservice/internal/core/domain"
	"github.com/kpa-erp/kpa_forms_microservice/internal/core/ports"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const refreshTokenDuration = 7 * 24 * time.Hour

type JWTTokenService struct {
	secretKey      []byte
	accessDuration time.Duration
	logger         ports.LoggerPort
}

func NewJWTTokenService(secretKey string, accessDuration time.Duration, logger ports.LoggerPort) *JWTTokenService {
	return &JWTTokenService{
		secretKey:      []byte(secretKey),
		accessDuration: accessDuration,
		logger:         logger,
	}
}

func (j *JWTTokenService) CreateToken(user *domain.User) (string, error) {
	return j.createToken(user, domain.TokenAccess, j.accessDuration)
}

func (j *JWTTokenService) CreateRefreshToken(user *domain.User) (string, error) {
	return j.createToken(user, domain.TokenRefresh, refreshTokenDuration)
}

func (j *JWTTokenService) createToken(user *domain.User, tokenType domain.TokenType, duration time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"jti":        uuid.NewString(),
		"user_id":    user.ID,
		"is_staff":   user.IsStaff,
		"token_type": string(tokenType),
		"iat":        now.Unix(),
		"exp":        now.Add(duration).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.secretKey)
	if err != nil {
		j.logger.Error("Failed to sign jwt", map[string]interface{}{
			"error":  err.Error(),
			"method": "createToken",
		})
		return "", err
	}
	return signed, nil
}

func (j *JWTTokenService) VerifyToken(token string) (*domain.TokenPayload, error) {
	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidToken
		}
		return j.secretKey, nil
	})
	if err != nil {
		j.logger.Warn("Failed to parse jwt", map[string]interface{}{
			"error":  err.Error(),
			"method": "VerifyToken",
		})
		return nil, domain.ErrInvalidToken
	}

	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrInvalidToken
	}

	jtiStr, ok := claims["jti"].(string)
	if !ok {
		return nil, domain.ErrInvalidToken
	}
	jti, err := uuid.Parse(jtiStr)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	userID, ok := claims["user_id"].(float64)
	if !ok {
		return nil, domain.ErrInvalidToken
	}

	isStaff, ok := claims["is_staff"].(bool)
	if !ok {
		return nil, domain.ErrInvalidToken
	}

	typeClaimed, ok := claims["token_type"].(string)
	if !ok {
		return nil, domain.ErrInvalidToken
	}
	tokenType := domain.TokenType(typeClaimed)
	if tokenType != domain.TokenAccess && tokenType != domain.TokenRefresh {
		j.logger.Warn("Invalid token type in token", map[string]interface{}{
			"token_type": typeClaimed,
			"method":     "VerifyToken",
		})
		return nil, domain.ErrInvalidToken
	}

	payload := &domain.TokenPayload{
		ID:      jti,
		UserID:  int64(userID),
		IsStaff: isStaff,
		Type:    tokenType,
	}

	return payload, nil
}
