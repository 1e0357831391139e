package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// Common allowed sort fields for entities with base fields
// These are the common fields present in most entities

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// UserSortFields contains allowed sort fields for users
var UserSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"username":      true,
	"email":         true,
	"full_name":     true,
	"status":        true,
	"is_admin":      true,
	"last_login_at": true,
}

// CategorySortFields contains allowed sort fields for categories
var CategorySortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"sort_order": true,
	"status":     true,
}

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"updated_at":       true,
	"name":             true,
	"name_nepali":      true,
	"category_id":      true,
	"meat_type":        true,
	"preparation_type": true,
	"price_per_kg":     true,
	"stock_kg":         true,
	"butchered_at":     true,
	"featured":         true,
	"status":           true,
}

// OrderSortFields contains allowed sort fields for orders
var OrderSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"order_number":    true,
	"user_id":         true,
	"status":          true,
	"payment_method":  true,
	"payment_status":  true,
	"subtotal":        true,
	"delivery_charge": true,
	"total_amount":    true,
	"confirmed_at":    true,
	"delivered_at":    true,
	"cancelled_at":    true,
}

// DeliveryAreaSortFields contains allowed sort fields for delivery areas
var DeliveryAreaSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"updated_at":       true,
	"name":             true,
	"charge":           true,
	"min_order_amount": true,
	"estimated_hours":  true,
	"active":           true,
}

// ReviewSortFields contains allowed sort fields for product reviews
var ReviewSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"product_id": true,
	"user_id":    true,
	"rating":     true,
	"status":     true,
}

// GatewaySortFields contains allowed sort fields for payment gateways
var GatewaySortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"method":     true,
	"name":       true,
	"enabled":    true,
	"sort_order": true,
}

// InvoiceSortFields contains allowed sort fields for invoices
var InvoiceSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"invoice_number": true,
	"order_number":   true,
	"customer_name":  true,
	"total":          true,
	"is_paid":        true,
	"invoice_date":   true,
}

// ProductAttachmentSortFields contains allowed sort fields for product attachments
var ProductAttachmentSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"product_id":   true,
	"type":         true,
	"status":       true,
	"file_name":    true,
	"file_size":    true,
	"content_type": true,
	"sort_order":   true,
}

// StockTransactionSortFields contains allowed sort fields for stock transactions
var StockTransactionSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"product_id": true,
	"delta_kg":   true,
	"result_kg":  true,
	"reason":     true,
}

// PrintTemplateSortFields contains allowed sort fields for print templates
var PrintTemplateSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"name":          true,
	"document_type": true,
	"is_default":    true,
	"status":        true,
}

// PrintJobSortFields contains allowed sort fields for print jobs
var PrintJobSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"document_type":   true,
	"document_number": true,
	"status":          true,
	"rendered_at":     true,
}

// NotificationLogSortFields contains allowed sort fields for notification logs
var NotificationLogSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"recipient":  true,
	"channel":    true,
	"status":     true,
	"sent_at":    true,
}

// NotificationTemplateSortFields contains allowed sort fields for notification templates
var NotificationTemplateSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"channel":    true,
	"event_key":  true,
	"active":     true,
}

// ImportHistorySortFields contains allowed sort fields for import history records
var ImportHistorySortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"file_name":    true,
	"status":       true,
	"total_rows":   true,
	"success_rows": true,
	"error_rows":   true,
	"completed_at": true,
}
