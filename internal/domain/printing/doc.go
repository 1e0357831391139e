// Package printing contains the document rendering bounded context.
// It manages the HTML templates and render jobs behind invoice PDFs
// and packing slips produced by the back office.
package printing
