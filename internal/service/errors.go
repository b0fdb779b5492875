package service

import (
	"errors"
	"fmt"
)

var (
	ErrIDRequired        = errors.New("id is required")
	ErrStateRequired     = errors.New("state is required")
	ErrMailIDRequired    = errors.New("mail_id is required")
	ErrNotFound          = errors.New("not found")
	ErrEntityNotFound    = errors.New("business entity not found")
	ErrUnsupportedState  = errors.New("unsupported state")
	ErrAddressInactive   = errors.New("registered agent address is inactive")
	ErrInvalidTransition = errors.New("invalid document status transition")
	ErrDuplicateDelivery = errors.New("mail notification already processed")
	ErrNoScanResult      = errors.New("scanner returned no result")
)

// UnsupportedStateError reports a state with no seeded registered-agent address.
// State holds the normalized full name, or "" when the input is not a U.S. state at all.
type UnsupportedStateError struct {
	Input string
	State string
}

func (e *UnsupportedStateError) Error() string {
	if e.State == "" {
		return fmt.Sprintf("unsupported state %q", e.Input)
	}
	return fmt.Sprintf("unsupported state %q (%s): no registered agent address", e.Input, e.State)
}

// Is makes errors.Is(err, ErrUnsupportedState) hold.
func (e *UnsupportedStateError) Is(target error) bool {
	return target == ErrUnsupportedState
}
