package service

import (
	"strings"
	"time"

	"conference-badge-api/core/constants"
	"conference-badge-api/core/utils"
)

// InviteName builds "<session prefix>-<event slug>-<base36 millis>", cutting the slug
// so the result fits the Bot API's name limit.
func InviteName(sessionID, eventSlug string, now time.Time) string {
	prefix := strings.Trim(truncate(sessionID, constants.InviteSessionPrefixLen), "-")
	suffix := utils.Base36Millis(now)

	room := constants.InviteNameMaxLength - len([]rune(prefix)) - len(suffix) - 2
	slugPart := strings.Trim(truncate(eventSlug, max(room, 0)), "-")
	if slugPart == "" {
		return truncate(prefix+"-"+suffix, constants.InviteNameMaxLength)
	}
	return prefix + "-" + slugPart + "-" + suffix
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
