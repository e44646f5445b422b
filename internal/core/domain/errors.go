package domain

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrDuplicateFormNumber = errors.New("form number already exists")
	ErrInvalidCredentials  = errors.New("invalid phone number or password")
	ErrUserDisabled        = errors.New("user account is disabled")
	ErrPhoneNumberExists   = errors.New("user with this phone number already exists")
	ErrEmailExists         = errors.New("user with this email already exists")
	ErrInvalidPhoneNumber  = errors.New("invalid phone number format")
	ErrInvalidOldPassword  = errors.New("invalid old password")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrPermissionDenied    = errors.New("permission denied")
)
