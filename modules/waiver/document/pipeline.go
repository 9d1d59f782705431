package document

import (
	"context"
	"fmt"
	"strings"
	"time"

	"conference-badge-api/core/constants"
	"conference-badge-api/core/errors"
	"conference-badge-api/core/logger"
	"conference-badge-api/core/storage"
	"conference-badge-api/core/utils"
	"conference-badge-api/modules/waiver/renderer"

	"github.com/gosimple/slug"
)

type Result struct {
	DocumentID  string
	URL         string
	Path        string
	GeneratedAt time.Time
}

// Pipeline renders, stores and resolves a URL for waiver documents.
type Pipeline interface {
	Generate(ctx context.Context, data Data) (*Result, *errors.AppError)
	SignedURL(ctx context.Context, path string, expiry time.Duration) (string, *errors.AppError)
	Remove(ctx context.Context, path string) error
}

type pipeline struct {
	renderer     renderer.Renderer
	store        storage.BlobStore
	bucket       string
	signedExpiry time.Duration
	now          func() time.Time
}

func NewPipeline(r renderer.Renderer, store storage.BlobStore, bucket string, signedExpiry time.Duration) Pipeline {
	if signedExpiry <= 0 {
		signedExpiry = constants.SignedURLExpiry
	}
	return &pipeline{renderer: r, store: store, bucket: bucket, signedExpiry: signedExpiry, now: time.Now}
}

// StoragePath builds waivers/<unix millis>-<sanitized name>-<random>.pdf.
func StoragePath(fullName string, now time.Time) string {
	name := slug.Make(fullName)
	if len(name) > 48 {
		name = strings.Trim(name[:48], "-")
	}
	if name == "" {
		name = "participant"
	}
	return fmt.Sprintf("waivers/%d-%s-%s.pdf", now.UnixMilli(), name, utils.ShortRandom(6))
}

func (p *pipeline) Generate(ctx context.Context, data Data) (*Result, *errors.AppError) {
	now := p.now()
	if data.DocumentID == "" {
		data.DocumentID = utils.NewDocumentID(now)
	}
	if data.SignedAt.IsZero() {
		data.SignedAt = now
	}

	html, err := RenderHTML(data)
	if err != nil {
		logger.Error("WaiverPipeline:Generate:TemplateError", "document_id", data.DocumentID, "error", err)
		return nil, errors.NewAppError(errors.ErrPDFGeneration, "failed to build waiver document", err)
	}

	pdf, err := p.renderer.RenderPDF(ctx, html)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrPDFGeneration, "failed to render waiver document", err)
	}

	path := StoragePath(data.FullName, now)
	if err := p.store.Upload(ctx, p.bucket, path, pdf, constants.DocumentContentType); err != nil {
		return nil, errors.NewAppError(errors.ErrPDFGeneration, "failed to store waiver document", err)
	}

	url, err := storage.ResolveURL(ctx, p.store, p.bucket, path, p.signedExpiry)
	if err != nil {
		logger.Error("WaiverPipeline:Generate:URLResolutionFailed", "path", path, "error", err)
		return nil, errors.NewAppError(errors.ErrPDFGeneration, "failed to resolve waiver document url", err)
	}

	logger.Info("WaiverPipeline:Generate:Success", "document_id", data.DocumentID, "path", path, "bytes", len(pdf))
	return &Result{
		DocumentID:  data.DocumentID,
		URL:         url,
		Path:        path,
		GeneratedAt: p.now(),
	}, nil
}

func (p *pipeline) SignedURL(ctx context.Context, path string, expiry time.Duration) (string, *errors.AppError) {
	if path == "" {
		return "", errors.NewAppError(errors.ErrNotFound, "waiver has no stored document", nil)
	}
	if expiry <= 0 {
		expiry = p.signedExpiry
	}
	if expiry > constants.MaxSignedURLExpiry {
		expiry = constants.MaxSignedURLExpiry
	}
	url, err := p.store.SignedURL(ctx, p.bucket, path, expiry)
	if err != nil {
		return "", errors.NewAppError(errors.ErrInternalServer, "failed to sign document url", err)
	}
	return url, nil
}

func (p *pipeline) Remove(ctx context.Context, path string) error {
	return p.store.Delete(ctx, p.bucket, path)
}
