package domain

import (
	"strings"
	"time"
)

// User is authenticated by phone number instead of email.
type User struct {
	ID           int64      `json:"id"`
	PhoneNumber  string     `json:"phone_number" validate:"required,min=9,max=17"`
	PasswordHash string     `json:"-"`
	FirstName    string     `json:"first_name" validate:"required"`
	LastName     string     `json:"last_name" validate:"required"`
	Email        *string    `json:"email,omitempty"`
	IsStaff      bool       `json:"is_staff"`
	IsActive     bool       `json:"is_active"`
	EmployeeID   *string    `json:"employee_id,omitempty"`
	Department   string     `json:"department,omitempty"`
	Position     string     `json:"position,omitempty"`
	DateJoined   time.Time  `json:"date_joined"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
