package renderer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"conference-badge-api/core/constants"
	"conference-badge-api/core/logger"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// Renderer turns a self-contained HTML document into PDF bytes.
type Renderer interface {
	RenderPDF(ctx context.Context, html string) ([]byte, error)
}

type Options struct {
	ExecPath         string
	RenderTimeout    time.Duration
	ImageLoadTimeout time.Duration
}

// imagesLoaded is truthy once every <img> has finished loading or failed.
const imagesLoaded = `Array.from(document.images).every(img => img.complete)`

type ChromeRenderer struct {
	allocCtx    context.Context
	cancelAlloc context.CancelFunc
	opts        Options
}

func NewChromeRenderer(opts Options) *ChromeRenderer {
	if opts.RenderTimeout <= 0 {
		opts.RenderTimeout = constants.RenderTimeout
	}
	if opts.ImageLoadTimeout <= 0 {
		opts.ImageLoadTimeout = constants.ImageLoadTimeout
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
	)
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}
	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)

	return &ChromeRenderer{allocCtx: allocCtx, cancelAlloc: cancel, opts: opts}
}

func (r *ChromeRenderer) RenderPDF(ctx context.Context, html string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	browserCtx, cancelBrowser := chromedp.NewContext(r.allocCtx)
	defer cancelBrowser()
	stop := context.AfterFunc(ctx, cancelBrowser)
	defer stop()

	taskCtx, cancelTimeout := context.WithTimeout(browserCtx, r.opts.RenderTimeout)
	defer cancelTimeout()

	var pdf []byte
	err := chromedp.Run(taskCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var ready bool
			err := chromedp.Poll(imagesLoaded, &ready, chromedp.WithPollingTimeout(r.opts.ImageLoadTimeout)).Do(ctx)
			if errors.Is(err, chromedp.ErrPollingTimeout) {
				logger.Warn("ChromeRenderer:RenderPDF:ImageWaitTimedOut", "timeout", r.opts.ImageLoadTimeout)
				return nil
			}
			return err
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.5).
				WithPaperHeight(11).
				WithMarginTop(0.5).
				WithMarginBottom(0.5).
				WithMarginLeft(0.5).
				WithMarginRight(0.5).
				Do(ctx)
			pdf = buf
			return err
		}),
	)
	if err != nil {
		logger.Error("ChromeRenderer:RenderPDF:Error", "error", err, "elapsed", time.Since(start))
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	if len(pdf) == 0 {
		return nil, errors.New("render pdf: empty output")
	}

	logger.Info("ChromeRenderer:RenderPDF:Success", "bytes", len(pdf), "elapsed", time.Since(start))
	return pdf, nil
}

func (r *ChromeRenderer) Close() {
	r.cancelAlloc()
}
