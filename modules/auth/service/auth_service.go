package service

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"conference-badge-api/core/cache"
	"conference-badge-api/core/config"
	"conference-badge-api/core/constants"
	"conference-badge-api/core/errors"
	"conference-badge-api/core/logger"
	"conference-badge-api/core/utils"
	"conference-badge-api/modules/auth/dto"

	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, *errors.AppError)
}

type authService struct {
	cfg   config.AuthConfig
	cache cache.Cache
	now   func() time.Time
}

// NewAuthService issues admin tokens for the configured operator account.
// With a nil cache failed attempts are not throttled.
func NewAuthService(cfg config.AuthConfig, c cache.Cache) AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = constants.AdminTokenTTL
	}
	if cfg.MaxLoginAttempts <= 0 {
		cfg.MaxLoginAttempts = constants.MaxLoginAttempts
	}
	return &authService{cfg: cfg, cache: c, now: time.Now}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, *errors.AppError) {
	if s.cfg.AdminEmail == "" || s.cfg.AdminPasswordHash == "" || s.cfg.JWTSecret == "" {
		return nil, errors.NewAppError(errors.ErrServiceUnavailable, "admin login is not configured", nil)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	loginKey := constants.RedisKeyLoginAttempts + email

	if s.cache != nil {
		attempts, err := s.cache.Count(ctx, loginKey)
		if err != nil {
			logger.Warn("AuthService:Login:CountAttempts:Error", "error", err)
		} else if attempts >= int64(s.cfg.MaxLoginAttempts) {
			// Keep the account locked while attempts continue.
			_, _ = s.cache.Incr(ctx, loginKey, constants.LoginBlockDuration)
			return nil, errors.NewAppError(errors.ErrUnauthorized, "too many failed attempts, try again later", nil)
		}
	}

	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(strings.ToLower(s.cfg.AdminEmail))) == 1
	passwordErr := bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminPasswordHash), []byte(req.Password))
	if !emailOK || passwordErr != nil {
		if s.cache != nil {
			if _, err := s.cache.Incr(ctx, loginKey, constants.LoginBlockDuration); err != nil {
				logger.Warn("AuthService:Login:IncrementAttempt:Error", "error", err)
			}
		}
		logger.Warn("AuthService:Login:InvalidCredentials", "email", email)
		return nil, errors.NewAppError(errors.ErrUnauthorized, "invalid email or password", nil)
	}

	token, err := utils.GenerateToken(s.cfg.JWTSecret, email, constants.RoleAdmin, s.cfg.TokenTTL)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to generate access token", err)
	}

	if s.cache != nil {
		if err := s.cache.Del(ctx, loginKey); err != nil {
			logger.Warn("AuthService:Login:ClearAttempts:Error", "error", err)
		}
	}

	logger.Info("AuthService:Login:Success", "email", email)
	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   s.now().UTC().Add(s.cfg.TokenTTL),
	}, nil
}
