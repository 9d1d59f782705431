package validator

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"conference-badge-api/core/constants"
	"conference-badge-api/core/utils"
	"conference-badge-api/core/validator"
	"conference-badge-api/modules/badge/dto"

	"github.com/google/uuid"
)

var platforms = map[string]bool{
	"twitter":   true,
	"x":         true,
	"linkedin":  true,
	"github":    true,
	"instagram": true,
	"mastodon":  true,
	"bluesky":   true,
	"telegram":  true,
	"website":   true,
	"other":     true,
}

var imageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
}

// ValidateCreateBadge checks a badge submission and reports every failing field.
func ValidateCreateBadge(req *dto.CreateBadgeRequest) *validator.Result {
	result := validator.New()

	result.Required("eventSlug", req.EventSlug)

	name := strings.TrimSpace(req.BadgeName)
	if result.Required("badgeName", name) {
		result.MaxLength("badgeName", name, constants.MaxBadgeNameLength)
	}
	if result.Required("email", req.Email) {
		result.Email("email", req.Email)
	}
	if req.WaiverID != "" {
		if _, err := uuid.Parse(req.WaiverID); err != nil {
			result.Add("waiverId", "waiverId must be a valid UUID")
		}
	}

	if len(req.SocialMediaHandles) > constants.MaxSocialMediaHandles {
		result.Add("socialMediaHandles", fmt.Sprintf("at most %d social media handles are allowed", constants.MaxSocialMediaHandles))
	} else {
		for i, h := range req.SocialMediaHandles {
			field := fmt.Sprintf("socialMediaHandles[%d]", i)
			if !platforms[strings.ToLower(strings.TrimSpace(h.Platform))] {
				result.Add(field+".platform", "platform is not supported")
			}
			if strings.TrimSpace(h.Handle) == "" {
				result.Add(field+".handle", "handle is required")
			} else if utf8.RuneCountInString(h.Handle) > constants.MaxSocialHandleLength {
				result.Add(field+".handle", fmt.Sprintf("handle must be at most %d characters", constants.MaxSocialHandleLength))
			}
		}
	}

	checkImage(result, "originalImage", req.OriginalImage)
	checkImage(result, "croppedImage", req.CroppedImage)

	return result
}

func checkImage(result *validator.Result, field, value string) {
	if value == "" {
		return
	}
	if !strings.HasPrefix(value, "data:") {
		result.Add(field, field+" must be a data URL")
		return
	}
	// base64 inflates by 4/3; reject oversized payloads before decoding them.
	if len(value) > constants.MaxBadgeImageBytes*4/3+1024 {
		result.Add(field, field+" must be at most 5MB")
		return
	}
	img, err := utils.DecodeImage(value)
	switch {
	case err != nil || !imageTypes[img.ContentType]:
		result.Add(field, field+" must be a PNG, JPEG or WebP image")
	case len(img.Data) > constants.MaxBadgeImageBytes:
		result.Add(field, field+" must be at most 5MB")
	}
}
