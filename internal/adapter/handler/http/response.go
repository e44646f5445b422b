package http

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// apiEnvelope is the shared response shape of the forms endpoints: callers
// discriminate on the success flag, errors hold per-field message lists.
type apiEnvelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    interface{}         `json:"data,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func newErrorResponse(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, errorResponse{Detail: message})
}

func newFormError(c *gin.Context, message string, fieldErrors map[string][]string) {
	c.JSON(400, apiEnvelope{
		Success: false,
		Message: message,
		Errors:  fieldErrors,
	})
}

// bindingErrors flattens a binding failure into the per-field error map of
// the envelope. Field names are reported in the external camelCase form.
func bindingErrors(err error) map[string][]string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return map[string][]string{"general": {err.Error()}}
	}

	fieldErrors := make(map[string][]string, len(validationErrs))
	for _, fieldErr := range validationErrs {
		field := lowerFirst(fieldErr.Field())
		if fieldErr.Tag() == "required" {
			fieldErrors[field] = append(fieldErrors[field], "This field is required")
		} else {
			fieldErrors[field] = append(fieldErrors[field], fmt.Sprintf("Failed on the '%s' validation", fieldErr.Tag()))
		}
	}
	return fieldErrors
}

// lowerFirst turns an exported Go field name into its camelCase JSON key.
// A leading acronym is lowercased as a whole, leaving the capital that starts
// the next word (BMBCChecksheet -> bmbcChecksheet, FormNumber -> formNumber).
func lowerFirst(s string) string {
	run := 0
	for run < len(s) && s[run] >= 'A' && s[run] <= 'Z' {
		run++
	}
	if run == 0 {
		return s
	}
	if run > 1 && run < len(s) {
		run--
	}
	return strings.ToLower(s[:run]) + s[run:]
}
