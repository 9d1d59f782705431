package validator

import (
	"strings"
	"testing"

	"github.com/matryer/is"
)

func TestIsEmail(t *testing.T) {
	is := is.New(t)

	is.True(IsEmail("john@example.com"))
	is.True(IsEmail("jane.doe+badge@conf.example.org"))
	is.True(!IsEmail(""))
	is.True(!IsEmail("john"))
	is.True(!IsEmail("john@localhost"))
	is.True(!IsEmail("John <john@example.com>"))
}

func TestResult(t *testing.T) {
	is := is.New(t)
	r := New()

	is.True(r.Required("fullName", "John Doe"))
	is.True(r.MaxLength("badgeName", strings.Repeat("é", 40), 40))
	is.True(!r.HasError())

	is.True(!r.Required("email", "  "))
	is.True(!r.MaxLength("badgeName", strings.Repeat("a", 41), 40))
	is.Equal(len(r.Errors), 2)
	is.Equal(r.Errors[0].Field, "email")
}
