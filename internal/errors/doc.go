// Package errors provides unified error handling for the service.
// It implements structured error types with machine-readable codes and
// HTTP status mapping so handlers can translate any failure into a
// consistent JSON error envelope.
package errors
