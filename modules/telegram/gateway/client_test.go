package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matryer/is"
)

// rewriteTransport sends every request to the test server regardless of the Bot API host.
type rewriteTransport struct {
	target *url.URL
}

func (t rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	out.URL.Scheme = t.target.Scheme
	out.URL.Host = t.target.Host
	return http.DefaultTransport.RoundTrip(out)
}

type recordedCall struct {
	method string
	form   url.Values
	at     time.Time
}

type fakeBotAPI struct {
	mu    sync.Mutex
	calls []recordedCall
	reply map[string]string
}

func (f *fakeBotAPI) handler(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	parts := strings.Split(r.URL.Path, "/")
	method := parts[len(parts)-1]

	f.mu.Lock()
	f.calls = append(f.calls, recordedCall{method: method, form: r.PostForm, at: time.Now()})
	body, ok := f.reply[method]
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"ok":false,"error_code":404,"description":"Not Found"}`))
		return
	}
	_, _ = w.Write([]byte(body))
}

func newTestClient(t *testing.T, fake *fakeBotAPI, delay time.Duration) *BotClient {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(fake.handler))
	t.Cleanup(srv.Close)
	target, _ := url.Parse(srv.URL)
	return NewBotClient("123:abc", &http.Client{Transport: rewriteTransport{target: target}, Timeout: 2 * time.Second}, delay)
}

func TestCreateInviteLink(t *testing.T) {
	is := is.New(t)
	fake := &fakeBotAPI{reply: map[string]string{
		"createChatInviteLink": `{"ok":true,"result":{"invite_link":"https://t.me/+abc","name":"sess1234-devconf-k1","expire_date":1700086400,"member_limit":1}}`,
	}}
	client := newTestClient(t, fake, 0)

	link, err := client.CreateInviteLink(context.Background(), "-1001234567890", "sess1234-devconf-k1", 1700086400, 1, false)
	is.NoErr(err)
	is.Equal(link.InviteLink, "https://t.me/+abc")
	is.Equal(link.MemberLimit, 1)

	is.Equal(len(fake.calls), 1)
	form := fake.calls[0].form
	is.Equal(form.Get("chat_id"), "-1001234567890")
	is.Equal(form.Get("expire_date"), "1700086400")
	is.Equal(form.Get("member_limit"), "1")
	is.Equal(form.Get("creates_join_request"), "false")
}

func TestCreateInviteLinkNonOkEnvelope(t *testing.T) {
	is := is.New(t)
	fake := &fakeBotAPI{reply: map[string]string{
		"createChatInviteLink": `{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`,
	}}
	client := newTestClient(t, fake, 0)

	link, err := client.CreateInviteLink(context.Background(), "-1", "n", 1, 1, false)
	is.True(link == nil)

	var gwErr *GatewayError
	is.True(errors.As(err, &gwErr))
	is.Equal(gwErr.Method, "createChatInviteLink")
}

func TestGetChatInfo(t *testing.T) {
	is := is.New(t)
	fake := &fakeBotAPI{reply: map[string]string{
		"getChat": `{"ok":true,"result":{"id":-1001234567890,"type":"supergroup","title":"DevConf Attendees"}}`,
	}}
	client := newTestClient(t, fake, 0)

	info, err := client.GetChatInfo(context.Background(), "-1001234567890")
	is.NoErr(err)
	is.Equal(info.ID, int64(-1001234567890))
	is.Equal(info.Type, "supergroup")
	is.Equal(info.Title, "DevConf Attendees")
}

func TestTestConnection(t *testing.T) {
	is := is.New(t)

	ok := newTestClient(t, &fakeBotAPI{reply: map[string]string{
		"getMe": `{"ok":true,"result":{"id":42,"is_bot":true,"first_name":"Badge","username":"badge_bot"}}`,
	}}, 0)
	is.True(ok.TestConnection(context.Background()))

	failing := newTestClient(t, &fakeBotAPI{}, 0)
	is.True(!failing.TestConnection(context.Background()))

	unreachable := NewBotClient("123:abc", &http.Client{Transport: rewriteTransport{target: &url.URL{Scheme: "http", Host: "127.0.0.1:1"}}}, 0)
	is.True(!unreachable.TestConnection(context.Background()))
}

func TestCallsAreSpacedByDelay(t *testing.T) {
	is := is.New(t)
	fake := &fakeBotAPI{reply: map[string]string{
		"getMe": `{"ok":true,"result":{"id":42,"is_bot":true,"first_name":"Badge"}}`,
	}}
	delay := 80 * time.Millisecond
	client := newTestClient(t, fake, delay)

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			client.TestConnection(context.Background())
		}()
	}
	wg.Wait()

	is.Equal(len(fake.calls), 3)
	for i := 1; i < len(fake.calls); i++ {
		gap := fake.calls[i].at.Sub(fake.calls[i-1].at)
		is.True(gap >= delay-5*time.Millisecond) // calls must not overlap the post-call delay
	}
}

func TestThrottleWaitHonoursContext(t *testing.T) {
	is := is.New(t)
	fake := &fakeBotAPI{reply: map[string]string{
		"getMe": `{"ok":true,"result":{"id":42,"is_bot":true,"first_name":"Badge"}}`,
	}}
	client := newTestClient(t, fake, time.Hour)
	is.True(client.TestConnection(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := client.GetChatInfo(ctx, "-1")

	var gwErr *GatewayError
	is.True(errors.As(err, &gwErr))
	is.True(errors.Is(err, context.DeadlineExceeded))
	is.Equal(len(fake.calls), 1)
}

func TestRegistryReusesClientPerToken(t *testing.T) {
	is := is.New(t)
	reg := NewRegistry(nil, time.Second)

	_, err := reg.For("")
	is.True(errors.Is(err, ErrNoToken))

	a, err := reg.For("token-a")
	is.NoErr(err)
	again, _ := reg.For("token-a")
	b, _ := reg.For("token-b")
	is.True(a == again)
	is.True(a != b)
}
