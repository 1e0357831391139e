package printing

import (
	"embed"
	"fmt"

	"github.com/nepalmeatshop/backend/internal/domain/printing"
)

//go:embed templates/*.html
var templateFS embed.FS

// DefaultTemplate represents a default print template configuration
type DefaultTemplate struct {
	DocType     printing.DocType
	Name        string
	Description string
	PaperSize   printing.PaperSize
	Orientation printing.Orientation
	Margins     printing.Margins
	FilePath    string // Path within embed.FS
	IsDefault   bool   // Whether this is the default for its doc type
}

// GetDefaultTemplates returns all default template configurations
func GetDefaultTemplates() []DefaultTemplate {
	return []DefaultTemplate{
		// =============================================================================
		// INVOICE templates
		// =============================================================================
		{
			DocType:     printing.DocTypeInvoice,
			Name:        "Tax Invoice - A4",
			Description: "Standard A4 tax invoice with shop header, bilingual line items, 13% VAT breakdown and amount in words",
			PaperSize:   printing.PaperSizeA4,
			Orientation: printing.OrientationPortrait,
			Margins:     printing.DefaultMargins(),
			FilePath:    "templates/invoice_a4.html",
			IsDefault:   true,
		},
		{
			DocType:     printing.DocTypeInvoice,
			Name:        "Tax Invoice - A5",
			Description: "Compact A5 tax invoice for orders with few line items",
			PaperSize:   printing.PaperSizeA5,
			Orientation: printing.OrientationPortrait,
			Margins:     printing.DefaultMargins(),
			FilePath:    "templates/invoice_a5.html",
			IsDefault:   false,
		},

		// =============================================================================
		// RECEIPT templates
		// =============================================================================
		{
			DocType:     printing.DocTypeReceipt,
			Name:        "Receipt - 80mm",
			Description: "80mm thermal slip for the counter printer",
			PaperSize:   printing.PaperSizeReceipt80MM,
			Orientation: printing.OrientationPortrait,
			Margins:     printing.ReceiptMargins(),
			FilePath:    "templates/receipt_80mm.html",
			IsDefault:   true,
		},
		{
			DocType:     printing.DocTypeReceipt,
			Name:        "Receipt - A5",
			Description: "A5 receipt for customers who want a full-page copy",
			PaperSize:   printing.PaperSizeA5,
			Orientation: printing.OrientationPortrait,
			Margins:     printing.DefaultMargins(),
			FilePath:    "templates/receipt_a5.html",
			IsDefault:   false,
		},
	}
}

// LoadTemplateContent loads the HTML content for a default template
func LoadTemplateContent(filePath string) (string, error) {
	content, err := templateFS.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read template file %s: %w", filePath, err)
	}
	return string(content), nil
}

// GetDefaultTemplateByDocTypeAndPaperSize finds a default template configuration
func GetDefaultTemplateByDocTypeAndPaperSize(docType printing.DocType, paperSize printing.PaperSize) *DefaultTemplate {
	templates := GetDefaultTemplates()
	for _, t := range templates {
		if t.DocType == docType && t.PaperSize == paperSize {
			return &t
		}
	}
	return nil
}

// GetDefaultTemplateForDocType finds the default template for a document type
func GetDefaultTemplateForDocType(docType printing.DocType) *DefaultTemplate {
	templates := GetDefaultTemplates()
	for _, t := range templates {
		if t.DocType == docType && t.IsDefault {
			return &t
		}
	}
	return nil
}

// GetTemplatesByDocType returns all templates for a document type
func GetTemplatesByDocType(docType printing.DocType) []DefaultTemplate {
	templates := GetDefaultTemplates()
	var result []DefaultTemplate
	for _, t := range templates {
		if t.DocType == docType {
			result = append(result, t)
		}
	}
	return result
}
