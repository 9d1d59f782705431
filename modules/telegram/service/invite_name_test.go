package service

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/matryer/is"
)

func TestInviteName(t *testing.T) {
	is := is.New(t)
	now := time.UnixMilli(1700000000000)

	name := InviteName("3f2a9c1e-8b7d-4e21-9a55-0c4f7e2b1d90", "devconf-2025", now)
	is.Equal(name, "3f2a9c1e-devconf-2025-"+"loyw3v28")
	is.True(utf8.RuneCountInString(name) <= 32)
}

func TestInviteNameTruncatesLongSlug(t *testing.T) {
	is := is.New(t)
	now := time.UnixMilli(1700000000000)

	name := InviteName("session-abcdef", strings.Repeat("very-long-event-slug-", 4), now)
	is.Equal(name, "session-very-long-event-loyw3v28")
	is.Equal(utf8.RuneCountInString(name), 32)
}

func TestInviteNameDiffersOverTime(t *testing.T) {
	is := is.New(t)
	a := InviteName("sess", "devconf", time.UnixMilli(1700000000000))
	b := InviteName("sess", "devconf", time.UnixMilli(1700000000001))
	is.True(a != b)
}
