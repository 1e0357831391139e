package printing

import (
	"context"
	"errors"
)

// Renderer errors
var (
	// ErrRendererUnavailable indicates no rendering backend could be reached
	ErrRendererUnavailable = errors.New("printing: renderer unavailable")

	// ErrRenderTimeout indicates the rendering backend did not finish in time
	ErrRenderTimeout = errors.New("printing: render timed out")

	// ErrEmptyDocument indicates there was no HTML to render
	ErrEmptyDocument = errors.New("printing: empty document")
)

// RenderOptions carries the page setup for a single render
type RenderOptions struct {
	PaperSize   PaperSize
	Orientation Orientation
	Margins     Margins
}

// RenderOptionsFromTemplate builds render options from a template's page setup
func RenderOptionsFromTemplate(t *PrintTemplate) RenderOptions {
	return RenderOptions{
		PaperSize:   t.PaperSize,
		Orientation: t.Orientation,
		Margins:     t.Margins,
	}
}

// Renderer converts rendered HTML into a PDF document.
// Implementations live in the infrastructure layer.
type Renderer interface {
	// RenderPDF renders the given HTML into PDF bytes
	RenderPDF(ctx context.Context, html string, opts RenderOptions) ([]byte, error)

	// Name identifies the rendering backend for logs
	Name() string
}
