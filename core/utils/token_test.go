package utils

import (
	"testing"
	"time"

	"github.com/matryer/is"
)

func TestTokenRoundTrip(t *testing.T) {
	is := is.New(t)

	token, err := GenerateToken("s3cret", "ops@example.com", "admin", time.Hour)
	is.NoErr(err)

	claims, err := ValidateAndParseToken("s3cret", token)
	is.NoErr(err)
	is.Equal(claims.Subject, "ops@example.com")
	is.Equal(claims.Role, "admin")

	_, err = ValidateAndParseToken("other", token)
	is.True(err != nil)
}

func TestExpiredTokenRejected(t *testing.T) {
	is := is.New(t)

	token, err := GenerateToken("s3cret", "ops@example.com", "admin", -time.Minute)
	is.NoErr(err)

	_, err = ValidateAndParseToken("s3cret", token)
	is.True(err != nil)
}
