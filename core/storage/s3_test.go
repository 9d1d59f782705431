package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/matryer/is"
)

func TestBuildPublicURL(t *testing.T) {
	is := is.New(t)
	public := map[string]bool{"badge-images": true}

	u, err := buildPublicURL("https://cdn.example.com", public, "badge-images", "badges/devconf/photo 1.png")
	is.NoErr(err)
	is.Equal(u, "https://cdn.example.com/badge-images/badges/devconf/photo%201.png")

	_, err = buildPublicURL("https://cdn.example.com", public, "waiver-documents", "waivers/a.pdf")
	is.True(errors.Is(err, ErrPublicURLUnavailable))

	_, err = buildPublicURL("", public, "badge-images", "a.png")
	is.True(errors.Is(err, ErrPublicURLUnavailable))
}

type fakeStore struct {
	publicURL string
	publicErr error
	signedURL string
	signedErr error
	expiry    time.Duration
}

func (f *fakeStore) Upload(context.Context, string, string, []byte, string) error { return nil }
func (f *fakeStore) Delete(context.Context, string, string) error                 { return nil }
func (f *fakeStore) PublicURL(string, string) (string, error)                     { return f.publicURL, f.publicErr }
func (f *fakeStore) SignedURL(_ context.Context, _, _ string, expiry time.Duration) (string, error) {
	f.expiry = expiry
	return f.signedURL, f.signedErr
}

func TestResolveURLPrefersPublic(t *testing.T) {
	is := is.New(t)
	store := &fakeStore{publicURL: "https://cdn/x.pdf", signedURL: "https://signed/x.pdf"}

	u, err := ResolveURL(context.Background(), store, "b", "x.pdf", time.Hour)
	is.NoErr(err)
	is.Equal(u, "https://cdn/x.pdf")
	is.Equal(store.expiry, time.Duration(0)) // signing never attempted
}

func TestResolveURLFallsBackToSigned(t *testing.T) {
	is := is.New(t)
	store := &fakeStore{publicErr: ErrPublicURLUnavailable, signedURL: "https://signed/x.pdf"}

	u, err := ResolveURL(context.Background(), store, "b", "x.pdf", 24*time.Hour)
	is.NoErr(err)
	is.Equal(u, "https://signed/x.pdf")
	is.Equal(store.expiry, 24*time.Hour)
}

func TestResolveURLFailsWhenBothFail(t *testing.T) {
	is := is.New(t)
	store := &fakeStore{publicErr: ErrPublicURLUnavailable, signedErr: errors.New("no credentials")}

	_, err := ResolveURL(context.Background(), store, "b", "x.pdf", time.Hour)
	is.True(err != nil)
}
