package database

import (
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/matryer/is"
)

func TestIsUniqueViolation(t *testing.T) {
	is := is.New(t)

	is.True(IsUniqueViolation(&pq.Error{Code: "23505"}))
	is.True(IsUniqueViolation(fmt.Errorf("insert invite: %w", &pq.Error{Code: "23505"})))
	is.True(!IsUniqueViolation(&pq.Error{Code: "23503"}))
	is.True(!IsUniqueViolation(fmt.Errorf("connection refused")))
}

func TestConstraintViolations(t *testing.T) {
	is := is.New(t)

	is.True(IsForeignKeyViolation(fmt.Errorf("insert badge: %w", &pq.Error{Code: "23503"})))
	is.True(!IsForeignKeyViolation(&pq.Error{Code: "23514"}))
	is.True(IsCheckViolation(&pq.Error{Code: "23514"}))
	is.True(!IsCheckViolation(nil))
}
