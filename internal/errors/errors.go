// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrNoHolding         = errors.New("no holding for asset")
	ErrUnknownAsset      = errors.New("unknown asset")
	ErrSessionEnded      = errors.New("session has ended")
	ErrSessionRunning    = errors.New("session already running")
	ErrConfigInvalid     = errors.New("invalid configuration")
	ErrDataNotFound      = errors.New("data not found")
	ErrDatabaseError     = errors.New("database error")
	ErrInputValidation   = errors.New("input validation failed")
)

// TradeError represents a rejected or failed trade.
type TradeError struct {
	Asset  string
	Side   string
	Reason string
	Err    error
}

func (e *TradeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("trade error [%s %s]: %s: %v", e.Side, e.Asset, e.Reason, e.Err)
	}
	return fmt.Sprintf("trade error [%s %s]: %s", e.Side, e.Asset, e.Reason)
}

func (e *TradeError) Unwrap() error {
	return e.Err
}

// NewTradeError creates a new TradeError.
func NewTradeError(asset, side, reason string, err error) *TradeError {
	return &TradeError{
		Asset:  asset,
		Side:   side,
		Reason: reason,
		Err:    err,
	}
}

// AdvisoryError represents a failure while requesting coach advice.
// Callers are expected to fall back to canned responses rather than
// surface this to the user.
type AdvisoryError struct {
	Coach     string
	Operation string
	Err       error
}

func (e *AdvisoryError) Error() string {
	return fmt.Sprintf("advisory error [%s] %s: %v", e.Coach, e.Operation, e.Err)
}

func (e *AdvisoryError) Unwrap() error {
	return e.Err
}

// NewAdvisoryError creates a new AdvisoryError.
func NewAdvisoryError(coach, operation string, err error) *AdvisoryError {
	return &AdvisoryError{
		Coach:     coach,
		Operation: operation,
		Err:       err,
	}
}

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
