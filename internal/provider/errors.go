// Package provider holds what the third-party mail clients share: the failure taxonomy
// and the placeholder data substituted when a provider cannot answer.
package provider

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Category is the normalized failure class of a provider call.
type Category string

const (
	// CategoryUnavailable covers transport failures and missing credentials.
	CategoryUnavailable Category = "unavailable"

	// CategoryTimeout indicates the call exceeded the configured provider timeout.
	CategoryTimeout Category = "timeout"

	// CategoryBadStatus indicates a non-2xx response.
	CategoryBadStatus Category = "bad_status"

	// CategoryMalformed indicates a 2xx response without the expected payload.
	CategoryMalformed Category = "malformed_response"
)

// Error wraps a provider failure with its category.
type Error struct {
	Category Category
	Provider string
	Message  string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("provider %s [%s]: %s: %v", e.Provider, e.Category, e.Message, e.Err)
	}
	return fmt.Sprintf("provider %s [%s]: %s", e.Provider, e.Category, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a categorized provider error.
func NewError(category Category, providerName, message string, err error) *Error {
	return &Error{Category: category, Provider: providerName, Message: message, Err: err}
}

// TransportError classifies an error returned by the HTTP client before any response was read.
func TransportError(providerName string, err error) *Error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return NewError(CategoryTimeout, providerName, "request timed out", err)
	}
	return NewError(CategoryUnavailable, providerName, "request failed", err)
}

// CategoryOf extracts the category from err, or "" when err is not a provider error.
func CategoryOf(err error) Category {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Category
	}
	return ""
}
