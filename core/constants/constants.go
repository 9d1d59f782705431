package constants

import "time"

// Request handling
const (
	DefaultRequestTimeout = 30 * time.Second
	ShutdownTimeout       = 10 * time.Second
)

// Database
const (
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
	DatabaseSSLMode         = "disable"
)

// Blob store buckets
const (
	BucketBadgeImages     = "badge-images"
	BucketWaiverDocuments = "waiver-documents"
)

// Redis keys
const (
	RedisKeyEventBySlug      = "event:slug:"
	RedisKeyInviteLockPrefix = "telegram:invite:lock:"
	EventCacheTTL            = 5 * time.Minute
)

// Telegram
const (
	InviteExpiry           = 24 * time.Hour
	InviteMemberLimit      = 1
	InviteNameMaxLength    = 32
	InviteSessionPrefixLen = 8
	BotRequestDelay        = 1 * time.Second
	BotHTTPTimeout         = 10 * time.Second
	InviteLockTTL          = 15 * time.Second
	InviteLockWait         = 3 * time.Second
	InviteLockPollInterval = 200 * time.Millisecond
	WebhookSecretHeader    = "X-Telegram-Bot-Api-Secret-Token"
)

// Waiver documents
const (
	DefaultWaiverVersion = "1.0"
	DocumentIDPrefix     = "WAIVER-"
	ImageLoadTimeout     = 5 * time.Second
	RenderTimeout        = 30 * time.Second
	SignedURLExpiry      = 24 * time.Hour
	MaxSignedURLExpiry   = 7 * 24 * time.Hour
	DocumentContentType  = "application/pdf"
)

// Email
const (
	AttachmentDownloadTimeout = 15 * time.Second
	MaxAttachmentBytes        = 10 << 20
)

// Sessions and badges
const (
	SessionTTL            = 24 * time.Hour
	MaxBadgeNameLength    = 40
	MaxSocialMediaHandles = 2
	MaxSocialHandleLength = 100
	MaxBadgeImageBytes    = 5 << 20
	BadgeStatusSubmitted  = "submitted"
)

// Background tasks
const (
	TaskWaiverDocumentCleanup = "waiver:document:cleanup"
	TaskMaxRetry              = 10
)

// Auth
const (
	RoleAdmin             = "admin"
	ContextKeyTokenData   = "token_data"
	AdminTokenTTL         = 12 * time.Hour
	MaxLoginAttempts      = 5
	LoginBlockDuration    = 15 * time.Minute
	RedisKeyLoginAttempts = "auth:login:"
)
