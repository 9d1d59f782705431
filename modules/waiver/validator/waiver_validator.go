package validator

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"conference-badge-api/core/utils"
	"conference-badge-api/core/validator"
	"conference-badge-api/modules/waiver/dto"
)

const (
	DateLayout          = "2006-01-02"
	maxNameLength       = 200
	maxFreeTextLength   = 2000
	maxListEntries      = 20
	maxVersionLength    = 32
	maxUserAgentLength  = 512
	maxSignatureDataLen = 2 << 20
)

var phonePattern = regexp.MustCompile(`^\+?[0-9 ()\-.]{7,20}$`)

// ValidateSubmitWaiver checks a waiver submission and reports every failing field.
func ValidateSubmitWaiver(req *dto.SubmitWaiverRequest, now time.Time) *validator.Result {
	result := validator.New()

	if result.Required("fullName", req.FullName) {
		result.MaxLength("fullName", req.FullName, maxNameLength)
	}
	if result.Required("email", req.Email) {
		result.Email("email", req.Email)
	}
	if result.Required("dateOfBirth", req.DateOfBirth) {
		dob, err := time.Parse(DateLayout, strings.TrimSpace(req.DateOfBirth))
		switch {
		case err != nil:
			result.Add("dateOfBirth", "dateOfBirth must be formatted as YYYY-MM-DD")
		case dob.After(now):
			result.Add("dateOfBirth", "dateOfBirth cannot be in the future")
		}
	}
	if result.Required("emergencyContact", req.EmergencyContact) {
		result.MaxLength("emergencyContact", req.EmergencyContact, maxNameLength)
	}
	if result.Required("emergencyPhone", req.EmergencyPhone) &&
		!phonePattern.MatchString(strings.TrimSpace(req.EmergencyPhone)) {
		result.Add("emergencyPhone", "emergencyPhone must be a valid phone number")
	}

	if result.Required("signatureImage", req.SignatureImage) {
		if len(req.SignatureImage) > maxSignatureDataLen {
			result.Add("signatureImage", "signatureImage is too large")
		} else if _, err := utils.DecodeImage(req.SignatureImage); err != nil {
			result.Add("signatureImage", "signatureImage must be a base64 encoded image")
		}
	}

	result.MaxLength("dietaryRestrictionsOther", req.DietaryRestrictionsOther, maxFreeTextLength)
	result.MaxLength("additionalNotes", req.AdditionalNotes, maxFreeTextLength)
	result.MaxLength("waiverVersion", req.WaiverVersion, maxVersionLength)
	if len(req.DietaryRestrictions) > maxListEntries {
		result.Add("dietaryRestrictions", "too many dietaryRestrictions entries")
	}
	if len(req.VolunteeringInterests) > maxListEntries {
		result.Add("volunteeringInterests", "too many volunteeringInterests entries")
	}
	if req.SignedAt != "" {
		if _, err := time.Parse(time.RFC3339, req.SignedAt); err != nil {
			result.Add("signedAt", "signedAt must be an RFC 3339 timestamp")
		}
	}

	return result
}

// TruncateUserAgent keeps stored user agents to a sane length. The result is always valid UTF-8
// and is never cut inside a rune.
func TruncateUserAgent(ua string) string {
	ua = strings.ToValidUTF8(ua, "")
	if len(ua) <= maxUserAgentLength {
		return ua
	}
	cut := maxUserAgentLength
	for cut > 0 && !utf8.RuneStart(ua[cut]) {
		cut--
	}
	return ua[:cut]
}
