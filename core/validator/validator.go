package validator

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"conference-badge-api/core/controller"
)

// Result collects field-level validation errors in the order they were found.
type Result struct {
	Errors []controller.ValidationError
}

func New() *Result {
	return &Result{}
}

func (r *Result) Add(field, message string) {
	r.Errors = append(r.Errors, controller.NewValidationError(field, message))
}

func (r *Result) HasError() bool {
	return len(r.Errors) > 0
}

func (r *Result) Required(field, value string) bool {
	if strings.TrimSpace(value) == "" {
		r.Add(field, fmt.Sprintf("%s is required", field))
		return false
	}
	return true
}

// MaxLength counts runes, not bytes.
func (r *Result) MaxLength(field, value string, max int) bool {
	if utf8.RuneCountInString(value) > max {
		r.Add(field, fmt.Sprintf("%s must be at most %d characters", field, max))
		return false
	}
	return true
}

func (r *Result) Email(field, value string) bool {
	if !IsEmail(value) {
		r.Add(field, fmt.Sprintf("%s must be a valid email address", field))
		return false
	}
	return true
}

func IsEmail(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" || strings.ContainsAny(value, " \t\r\n") {
		return false
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		return false
	}
	at := strings.LastIndex(value, "@")
	return at > 0 && strings.Contains(value[at+1:], ".")
}
