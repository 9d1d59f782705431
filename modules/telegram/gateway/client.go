package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"conference-badge-api/core/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
)

// ErrNoToken is returned when a client is requested without a bot credential.
var ErrNoToken = errors.New("telegram bot token not configured")

// GatewayError wraps any transport or API-level failure of a Bot API call.
type GatewayError struct {
	Method      string
	Code        int
	Description string
	Err         error
}

func (e *GatewayError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("telegram %s failed (%d): %s", e.Method, e.Code, e.Description)
	}
	return fmt.Sprintf("telegram %s failed: %v", e.Method, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

type InviteLink struct {
	InviteLink         string `json:"invite_link"`
	Name               string `json:"name"`
	ExpireDate         int64  `json:"expire_date"`
	MemberLimit        int    `json:"member_limit"`
	CreatesJoinRequest bool   `json:"creates_join_request"`
	IsPrimary          bool   `json:"is_primary"`
	IsRevoked          bool   `json:"is_revoked"`
}

type ChatInfo struct {
	ID       int64  `json:"id"`
	Type     string `json:"type"`
	Title    string `json:"title,omitempty"`
	Username string `json:"username,omitempty"`
}

// Client is the Bot API surface used by invite issuance.
type Client interface {
	CreateInviteLink(ctx context.Context, chatID, name string, expireAt int64, memberLimit int, createsJoinRequest bool) (*InviteLink, error)
	GetChatInfo(ctx context.Context, chatID string) (*ChatInfo, error)
	TestConnection(ctx context.Context) bool
}

// BotClient serializes calls and holds every caller back for delay after each call completes.
type BotClient struct {
	api   *tgbotapi.BotAPI
	delay time.Duration

	slot    chan struct{}
	readyAt time.Time
}

func NewBotClient(token string, httpClient *http.Client, delay time.Duration) *BotClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &BotClient{
		// Built directly so construction does not call getMe.
		api: &tgbotapi.BotAPI{
			Token:  token,
			Client: httpClient,
			Buffer: 100,
		},
		delay: delay,
		slot:  make(chan struct{}, 1),
	}
}

func (b *BotClient) call(ctx context.Context, method string, params url.Values) (json.RawMessage, error) {
	select {
	case b.slot <- struct{}{}:
	case <-ctx.Done():
		return nil, &GatewayError{Method: method, Err: ctx.Err()}
	}
	defer func() { <-b.slot }()

	if wait := time.Until(b.readyAt); wait > 0 {
		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil, &GatewayError{Method: method, Err: ctx.Err()}
		}
	}

	resp, err := b.api.MakeRequest(method, params)
	b.readyAt = time.Now().Add(b.delay)

	if err != nil {
		logger.Error("BotClient:call:Error", "method", method, "error", err)
		return nil, &GatewayError{Method: method, Code: resp.ErrorCode, Description: resp.Description, Err: err}
	}
	if !resp.Ok {
		return nil, &GatewayError{Method: method, Code: resp.ErrorCode, Description: resp.Description}
	}
	return resp.Result, nil
}

func (b *BotClient) CreateInviteLink(ctx context.Context, chatID, name string, expireAt int64, memberLimit int, createsJoinRequest bool) (*InviteLink, error) {
	params := url.Values{}
	params.Set("chat_id", chatID)
	params.Set("name", name)
	params.Set("expire_date", strconv.FormatInt(expireAt, 10))
	if !createsJoinRequest && memberLimit > 0 {
		params.Set("member_limit", strconv.Itoa(memberLimit))
	}
	params.Set("creates_join_request", strconv.FormatBool(createsJoinRequest))

	result, err := b.call(ctx, "createChatInviteLink", params)
	if err != nil {
		return nil, err
	}

	var link InviteLink
	if err := json.Unmarshal(result, &link); err != nil {
		return nil, &GatewayError{Method: "createChatInviteLink", Err: err}
	}
	if link.InviteLink == "" {
		return nil, &GatewayError{Method: "createChatInviteLink", Err: errors.New("empty invite link in response")}
	}
	return &link, nil
}

func (b *BotClient) GetChatInfo(ctx context.Context, chatID string) (*ChatInfo, error) {
	params := url.Values{}
	params.Set("chat_id", chatID)

	result, err := b.call(ctx, "getChat", params)
	if err != nil {
		return nil, err
	}

	var chat tgbotapi.Chat
	if err := json.Unmarshal(result, &chat); err != nil {
		return nil, &GatewayError{Method: "getChat", Err: err}
	}
	return &ChatInfo{ID: chat.ID, Type: chat.Type, Title: chat.Title, Username: chat.UserName}, nil
}

// TestConnection never returns an error; any failure reports false.
func (b *BotClient) TestConnection(ctx context.Context) bool {
	result, err := b.call(ctx, "getMe", nil)
	if err != nil {
		logger.Warn("BotClient:TestConnection:Failed", "error", err)
		return false
	}
	var me tgbotapi.User
	if err := json.Unmarshal(result, &me); err != nil {
		return false
	}
	logger.Debug("BotClient:TestConnection:OK", "bot", me.UserName)
	return true
}

// Registry keeps one long-lived client per bot token so the throttle applies process-wide.
type Registry struct {
	mu         sync.Mutex
	clients    map[string]Client
	httpClient *http.Client
	delay      time.Duration
}

func NewRegistry(httpClient *http.Client, delay time.Duration) *Registry {
	return &Registry{
		clients:    make(map[string]Client),
		httpClient: httpClient,
		delay:      delay,
	}
}

func (r *Registry) For(token string) (Client, error) {
	if token == "" {
		return nil, ErrNoToken
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.clients[token]; ok {
		return c, nil
	}
	c := NewBotClient(token, r.httpClient, r.delay)
	r.clients[token] = c
	return c, nil
}
