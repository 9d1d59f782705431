package utils

import (
	"crypto/rand"
	"encoding/base64"
	"strconv"
	"strings"
	"time"

	"conference-badge-api/core/constants"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	alphanumeric      = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	lowerAlphanumeric = "0123456789abcdefghijklmnopqrstuvwxyz"
)

func GenerateID() string {
	id, err := gonanoid.Generate(alphanumeric, 7)
	if err != nil {
		return ""
	}
	return id
}

// GenerateRandomString generates a cryptographically secure random string
func GenerateRandomString(length int) string {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to nanoid if crypto/rand fails
		id, _ := gonanoid.Generate(alphanumeric, length)
		return id
	}
	return base64.RawURLEncoding.EncodeToString(bytes)[:length]
}

// Base36Millis renders t as base-36 unix milliseconds, the compact timestamp used in
// document identifiers, storage keys and invite names.
func Base36Millis(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 36)
}

// NewDocumentID returns an identifier like WAIVER-LZ3K9Q1C-7F2KD9.
func NewDocumentID(now time.Time) string {
	suffix, err := gonanoid.Generate(lowerAlphanumeric, 6)
	if err != nil {
		suffix = GenerateID()
	}
	return constants.DocumentIDPrefix + strings.ToUpper(Base36Millis(now)+"-"+suffix)
}

// ShortRandom returns n lower-case alphanumerics for storage key suffixes.
func ShortRandom(n int) string {
	id, err := gonanoid.Generate(lowerAlphanumeric, n)
	if err != nil {
		return strings.ToLower(GenerateID())
	}
	return id
}
