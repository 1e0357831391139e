package printing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/nepalmeatshop/backend/internal/domain/printing"
)

// FailoverRenderer adapts the PDF backends to the domain renderer port.
// It renders with the primary backend and retries on the fallback when
// the primary errors out in a way a different backend could survive.
type FailoverRenderer struct {
	primary  PDFRenderer
	fallback PDFRenderer
	logger   *zap.Logger
}

// NewFailoverRenderer creates a renderer chain. The fallback may be nil
// when only one backend is installed on the host.
func NewFailoverRenderer(primary, fallback PDFRenderer, logger *zap.Logger) (*FailoverRenderer, error) {
	if primary == nil {
		return nil, errors.New("primary renderer is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FailoverRenderer{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}, nil
}

// Name identifies the backend chain for logs
func (r *FailoverRenderer) Name() string {
	if r.fallback == nil {
		return r.primary.Name()
	}
	return r.primary.Name() + "+" + r.fallback.Name()
}

// RenderPDF renders the given HTML into PDF bytes
func (r *FailoverRenderer) RenderPDF(ctx context.Context, html string, opts printing.RenderOptions) ([]byte, error) {
	if strings.TrimSpace(html) == "" {
		return nil, printing.ErrEmptyDocument
	}

	req := &RenderRequest{
		HTML:        html,
		PaperSize:   opts.PaperSize,
		Orientation: opts.Orientation,
		Margins:     opts.Margins,
	}

	result, err := r.primary.Render(ctx, req)
	if err == nil {
		return result.PDFData, nil
	}

	if r.fallback == nil || !shouldFailover(err) {
		return nil, mapRenderError(err)
	}

	r.logger.Warn("primary renderer failed, retrying on fallback",
		zap.String("primary", r.primary.Name()),
		zap.String("fallback", r.fallback.Name()),
		zap.Error(err))

	result, fallbackErr := r.fallback.Render(ctx, req)
	if fallbackErr != nil {
		return nil, mapRenderError(fallbackErr)
	}
	return result.PDFData, nil
}

// Close shuts down both backends
func (r *FailoverRenderer) Close() error {
	err := r.primary.Close()
	if r.fallback != nil {
		if fallbackErr := r.fallback.Close(); err == nil {
			err = fallbackErr
		}
	}
	return err
}

// shouldFailover reports whether a second backend could do better.
// Input errors fail identically everywhere, and a timeout has already
// consumed the caller's render budget.
func shouldFailover(err error) bool {
	var renderErr *RenderError
	if errors.As(err, &renderErr) {
		switch renderErr.Code {
		case ErrCodeInvalidHTML, ErrCodeInvalidPaperSize, ErrCodeRenderTimeout:
			return false
		}
	}
	return true
}

// mapRenderError translates backend errors into the domain sentinels
// the application layer branches on
func mapRenderError(err error) error {
	var renderErr *RenderError
	if !errors.As(err, &renderErr) {
		return err
	}
	switch renderErr.Code {
	case ErrCodeRenderTimeout:
		return fmt.Errorf("%w: %s", printing.ErrRenderTimeout, renderErr.Message)
	case ErrCodeBinaryNotFound:
		return fmt.Errorf("%w: %s", printing.ErrRendererUnavailable, renderErr.Message)
	default:
		return err
	}
}

// Ensure FailoverRenderer implements the domain renderer port
var _ printing.Renderer = (*FailoverRenderer)(nil)
