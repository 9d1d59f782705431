package entity

import (
	"testing"
	"time"

	"github.com/matryer/is"
)

func TestIsReusable(t *testing.T) {
	is := is.New(t)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	used := now.Add(-time.Minute)

	is.True((&TelegramInvite{ExpiresAt: now.Add(time.Second)}).IsReusable(now))
	is.True(!(&TelegramInvite{ExpiresAt: now}).IsReusable(now))
	is.True(!(&TelegramInvite{ExpiresAt: now.Add(-time.Second)}).IsReusable(now))
	is.True(!(&TelegramInvite{ExpiresAt: now.Add(time.Hour), UsedAt: &used}).IsReusable(now))
	is.True(!(*TelegramInvite)(nil).IsReusable(now))
}
