// Package printing provides infrastructure implementations for PDF generation
// and print job rendering.
//
// This package contains:
// - PDFRenderer interface for rendering HTML to PDF
// - ChromedpRenderer implementation using headless Chrome
// - WkhtmltopdfRenderer implementation using the wkhtmltopdf command-line tool
// - FailoverRenderer combining a primary and a fallback renderer
// - TemplateEngine for rendering invoice and receipt HTML from templates
// - PDFStorage interface for storing and managing generated PDF files
// - FileSystemStorage implementation for local file system storage
//
// Example usage:
//
//	renderer, err := NewChromedpRenderer(&ChromedpConfig{
//	    DefaultTimeout: 30 * time.Second,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer renderer.Close()
//
//	result, err := renderer.Render(ctx, &RenderRequest{
//	    HTML:        "<html>...</html>",
//	    PaperSize:   printing.PaperSizeA4,
//	    Orientation: printing.OrientationPortrait,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("Generated PDF: %d bytes\n", len(result.PDFData))
package printing
