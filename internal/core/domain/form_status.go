package domain

import "strings"

// FormStatus is stored lowercase; Display returns the capitalized form
// used in API responses.
type FormStatus string

const (
	StatusSaved     FormStatus = "saved"
	StatusSubmitted FormStatus = "submitted"
	StatusReviewed  FormStatus = "reviewed"
	StatusApproved  FormStatus = "approved"
	StatusRejected  FormStatus = "rejected"
)

func (s FormStatus) Display() string {
	if s == "" {
		return ""
	}
	str := string(s)
	return strings.ToUpper(str[:1]) + str[1:]
}
