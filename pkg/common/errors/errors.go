package errors

import (
	"errors"
	"fmt"
)

// Common error types used across the sentinel library

var (
	// ErrStoreUnavailable indicates the shared state store could not serve a
	// decision (connection failure, timeout, or script execution error)
	ErrStoreUnavailable = errors.New("shared state store unavailable")

	// ErrInvalidQuota indicates a quota with a non-positive limit or window
	ErrInvalidQuota = errors.New("invalid quota")

	// ErrUnknownStrategy indicates an unrecognized strategy name
	ErrUnknownStrategy = errors.New("unknown strategy")

	// ErrUnknownPolicy indicates an unrecognized failure policy
	ErrUnknownPolicy = errors.New("unknown failure policy")

	// ErrInvalidConfiguration indicates invalid configuration parameters
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// IsUnavailable returns true if the error indicates the shared store could
// not serve a decision; callers recover via the configured failure policy
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}

// IsConfig returns true if the error indicates startup-time misconfiguration,
// which is fatal and must prevent the service from accepting traffic
func IsConfig(err error) bool {
	return errors.Is(err, ErrInvalidConfiguration) ||
		errors.Is(err, ErrInvalidQuota) ||
		errors.Is(err, ErrUnknownStrategy) ||
		errors.Is(err, ErrUnknownPolicy)
}

// StoreError wraps a failed shared-store operation with the operation name.
// Every StoreError matches ErrStoreUnavailable under errors.Is; the cause
// remains reachable through Unwrap.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return "store error in " + e.Op + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func (e *StoreError) Is(target error) bool {
	return target == ErrStoreUnavailable
}

// ValidationError provides detailed information about a configuration
// validation failure.
type ValidationError struct {
	Module string
	Field  string
	Value  interface{}
	Reason string
	Hint   string
}

// NewValidationError creates a ValidationError without a hint.
func NewValidationError(module, field string, value interface{}, reason string) *ValidationError {
	return &ValidationError{
		Module: module,
		Field:  field,
		Value:  value,
		Reason: reason,
	}
}

// WithHint returns a copy of the error with a remediation hint attached.
func (e *ValidationError) WithHint(hint string) *ValidationError {
	clone := *e
	clone.Hint = hint
	return &clone
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("%s: invalid %s=%v (%s)", e.Module, e.Field, e.Value, e.Reason)
	if e.Hint != "" {
		msg += " - " + e.Hint
	}
	return msg
}

// Unwrap makes every ValidationError match ErrInvalidConfiguration.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidConfiguration
}
