// Package billing provides domain models for customer invoicing.
//
// This package implements the invoicing bounded context, which is responsible for:
//   - Issuing an invoice from a placed order, snapshotting its line items
//   - Applying VAT at the statutory rate at issue time
//   - Tracking the invoice lifecycle (issued, paid, void) and PDF render state
//
// Key Aggregates:
//   - Invoice: INV-numbered document with line snapshot, VAT breakdown and NPR totals
//
// The billing domain integrates with:
//   - Order domain: As the source of invoice line items and totals
//   - Printing infrastructure: For rendering invoice PDFs
package billing
