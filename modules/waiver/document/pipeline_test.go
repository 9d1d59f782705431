package document

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	appErrors "conference-badge-api/core/errors"
	"conference-badge-api/core/storage"

	"github.com/matryer/is"
)

type fakeRenderer struct {
	html string
	err  error
}

func (f *fakeRenderer) RenderPDF(_ context.Context, html string) ([]byte, error) {
	f.html = html
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.7 fake"), nil
}

type fakeStore struct {
	uploads   map[string][]byte
	uploadErr error
	public    bool
	signErr   error
	deleted   []string
	expiry    time.Duration
}

func (f *fakeStore) Upload(_ context.Context, bucket, key string, body []byte, _ string) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	if f.uploads == nil {
		f.uploads = map[string][]byte{}
	}
	f.uploads[bucket+"/"+key] = body
	return nil
}

func (f *fakeStore) PublicURL(bucket, key string) (string, error) {
	if !f.public {
		return "", storage.ErrPublicURLUnavailable
	}
	return "https://cdn.example.com/" + bucket + "/" + key, nil
}

func (f *fakeStore) SignedURL(_ context.Context, bucket, key string, expiry time.Duration) (string, error) {
	f.expiry = expiry
	if f.signErr != nil {
		return "", f.signErr
	}
	return "https://s3.example.com/" + bucket + "/" + key + "?X-Amz-Signature=abc", nil
}

func (f *fakeStore) Delete(_ context.Context, _, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func TestStoragePath(t *testing.T) {
	is := is.New(t)
	now := time.UnixMilli(1700000000000)

	is.True(regexp.MustCompile(`^waivers/1700000000000-jose-alvarez-[0-9a-z]{6}\.pdf$`).MatchString(StoragePath("José Álvarez", now)))
	is.True(strings.HasPrefix(StoragePath("../../etc/passwd", now), "waivers/1700000000000-etc-passwd-"))
	is.True(strings.HasPrefix(StoragePath("", now), "waivers/1700000000000-participant-"))
	is.True(StoragePath("John Doe", now) != StoragePath("John Doe", now))
}

func TestGenerateUsesSignedURLWhenBucketIsPrivate(t *testing.T) {
	is := is.New(t)
	r := &fakeRenderer{}
	store := &fakeStore{}
	p := NewPipeline(r, store, "waiver-documents", 0)

	res, appErr := p.Generate(context.Background(), sample())
	is.True(appErr == nil)
	is.True(strings.Contains(res.URL, "X-Amz-Signature"))
	is.Equal(store.expiry, 24*time.Hour)
	is.True(strings.HasPrefix(res.Path, "waivers/"))
	is.Equal(len(store.uploads), 1)
	is.True(strings.Contains(r.html, "John Doe"))
	is.True(!res.GeneratedAt.IsZero())
}

func TestGeneratePrefersPublicURL(t *testing.T) {
	is := is.New(t)
	store := &fakeStore{public: true}
	p := NewPipeline(&fakeRenderer{}, store, "waiver-documents", 0)

	res, appErr := p.Generate(context.Background(), sample())
	is.True(appErr == nil)
	is.True(strings.HasPrefix(res.URL, "https://cdn.example.com/waiver-documents/waivers/"))
}

func TestGenerateAssignsDocumentID(t *testing.T) {
	is := is.New(t)
	r := &fakeRenderer{}
	p := NewPipeline(r, &fakeStore{}, "waiver-documents", 0)
	data := sample()
	data.DocumentID = ""

	res, appErr := p.Generate(context.Background(), data)
	is.True(appErr == nil)
	is.True(regexp.MustCompile(`^WAIVER-[0-9A-Z]+-[0-9A-Z]{6}$`).MatchString(res.DocumentID))
	is.True(strings.Contains(r.html, res.DocumentID))
}

func TestGenerateFailures(t *testing.T) {
	cases := map[string]struct {
		renderer *fakeRenderer
		store    *fakeStore
	}{
		"render fails":       {&fakeRenderer{err: errors.New("chrome crashed")}, &fakeStore{}},
		"upload fails":       {&fakeRenderer{}, &fakeStore{uploadErr: errors.New("access denied")}},
		"both url resolvers": {&fakeRenderer{}, &fakeStore{signErr: errors.New("no credentials")}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			is := is.New(t)
			p := NewPipeline(tc.renderer, tc.store, "waiver-documents", 0)

			res, appErr := p.Generate(context.Background(), sample())
			is.True(res == nil)
			is.Equal(appErr.Code, appErrors.ErrPDFGeneration)
		})
	}
}

func TestSignedURLClampsExpiry(t *testing.T) {
	is := is.New(t)
	store := &fakeStore{}
	p := NewPipeline(&fakeRenderer{}, store, "waiver-documents", 0)

	_, appErr := p.SignedURL(context.Background(), "waivers/a.pdf", 30*24*time.Hour)
	is.True(appErr == nil)
	is.Equal(store.expiry, 7*24*time.Hour)

	_, appErr = p.SignedURL(context.Background(), "", time.Hour)
	is.Equal(appErr.Code, appErrors.ErrNotFound)
}
