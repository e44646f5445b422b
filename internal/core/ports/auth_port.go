package ports

import "github.com/kpa-erp/kpa_forms_microservice/internal/core/domain"

type TokenService interface {
	CreateToken(user *domain.User) (string, error)
	CreateRefreshToken(user *domain.User) (string, error)
	VerifyToken(token string) (*domain.TokenPayload, error)
}
