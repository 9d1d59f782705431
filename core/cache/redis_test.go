package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/matryer/is"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCacheFromClient(client), mr
}

func TestJSONRoundTripAndMiss(t *testing.T) {
	is := is.New(t)
	c, _ := newTestCache(t)
	ctx := context.Background()

	type payload struct {
		Slug string `json:"slug"`
	}

	var got payload
	found, err := c.GetJSON(ctx, "event:slug:missing", &got)
	is.NoErr(err)
	is.True(!found)

	is.NoErr(c.SetJSON(ctx, "event:slug:devconf", payload{Slug: "devconf"}, time.Minute))
	found, err = c.GetJSON(ctx, "event:slug:devconf", &got)
	is.NoErr(err)
	is.True(found)
	is.Equal(got.Slug, "devconf")

	is.NoErr(c.Del(ctx, "event:slug:devconf"))
	found, err = c.GetJSON(ctx, "event:slug:devconf", &got)
	is.NoErr(err)
	is.True(!found)
}

func TestLockIsExclusiveAndOwnerReleased(t *testing.T) {
	is := is.New(t)
	c, mr := newTestCache(t)
	ctx := context.Background()

	token, ok, err := c.AcquireLock(ctx, "lock:session-1", time.Second)
	is.NoErr(err)
	is.True(ok)
	is.True(token != "")

	_, ok, err = c.AcquireLock(ctx, "lock:session-1", time.Second)
	is.NoErr(err)
	is.True(!ok) // held by the first owner

	is.NoErr(c.ReleaseLock(ctx, "lock:session-1", "someone-else"))
	is.True(mr.Exists("lock:session-1")) // foreign token does not release

	is.NoErr(c.ReleaseLock(ctx, "lock:session-1", token))
	is.True(!mr.Exists("lock:session-1"))
}

func TestLockExpires(t *testing.T) {
	is := is.New(t)
	c, mr := newTestCache(t)
	ctx := context.Background()

	_, ok, err := c.AcquireLock(ctx, "lock:session-2", time.Second)
	is.NoErr(err)
	is.True(ok)

	mr.FastForward(2 * time.Second)

	_, ok, err = c.AcquireLock(ctx, "lock:session-2", time.Second)
	is.NoErr(err)
	is.True(ok)
}

func TestCounter(t *testing.T) {
	is := is.New(t)
	c, mr := newTestCache(t)
	ctx := context.Background()

	n, err := c.Count(ctx, "auth:login:a")
	is.NoErr(err)
	is.Equal(n, int64(0))

	n, err = c.Incr(ctx, "auth:login:a", time.Minute)
	is.NoErr(err)
	is.Equal(n, int64(1))
	n, err = c.Incr(ctx, "auth:login:a", time.Minute)
	is.NoErr(err)
	is.Equal(n, int64(2))

	n, err = c.Count(ctx, "auth:login:a")
	is.NoErr(err)
	is.Equal(n, int64(2))

	mr.FastForward(2 * time.Minute)
	n, err = c.Count(ctx, "auth:login:a")
	is.NoErr(err)
	is.Equal(n, int64(0))
}
