package domain

import (
	"github.com/google/uuid"
)

type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
)

type TokenPayload struct {
	ID      uuid.UUID
	UserID  int64
	IsStaff bool
	Type    TokenType
}
