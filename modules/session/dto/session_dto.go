package dto

import "time"

type CreateSessionRequest struct {
	Data map[string]any `json:"data"`
}

type SessionResponse struct {
	SessionID string         `json:"sessionId"`
	Data      map[string]any `json:"data"`
	ExpiresAt time.Time      `json:"expiresAt"`
	WaiverID  string         `json:"waiverId,omitempty"`
}
