package bridge

import (
	"errors"
	"fmt"
)

// Code is a stable, machine-readable classification of a bridge error.
// Input codes are never retried; transport codes may be retried for
// read-only calls; MonitoringTimeout means observation stopped, not that
// the transfer failed.
type Code string

const (
	CodeInvalidRoute          Code = "invalid_route"
	CodeInvalidAmount         Code = "invalid_amount"
	CodeInvalidQuote          Code = "invalid_quote"
	CodeInvalidAddress        Code = "invalid_address_format"
	CodeQuoteExpired          Code = "quote_expired"
	CodeNoProviderForRoute    Code = "no_provider_for_route"
	CodeProviderUnavailable   Code = "quote_provider_unavailable"
	CodeInsufficientLiquidity Code = "insufficient_liquidity"
	CodeExecutionFailed       Code = "execution_failed"
	CodeMonitoringTimeout     Code = "bridge_monitoring_timeout"
)

// Error carries enough context (quote id, provider, step) to be logged and
// displayed without the caller inspecting engine internals.
type Error struct {
	Code     Code
	Message  string
	QuoteID  string
	Provider Provider
	Step     int
	Cause    error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Provider != "" {
		msg = fmt.Sprintf("%s [provider=%s]", msg, e.Provider)
	}
	if e.QuoteID != "" {
		msg = fmt.Sprintf("%s [quote=%s]", msg, e.QuoteID)
	}
	if e.Cause == nil {
		return msg
	}
	return fmt.Sprintf("%s: %v", msg, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// NewError creates a typed bridge error.
func NewError(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps a cause with a bridge code and message.
func WrapError(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// CodeOf extracts the bridge code from an error chain, or CodeExecutionFailed
// when the error is not a typed bridge error.
func CodeOf(err error) Code {
	var target *Error
	if errors.As(err, &target) {
		return target.Code
	}
	return CodeExecutionFailed
}

// IsCode reports whether the error chain carries the given code.
func IsCode(err error, code Code) bool {
	var target *Error
	return errors.As(err, &target) && target.Code == code
}
