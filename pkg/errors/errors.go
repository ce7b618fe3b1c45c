package errors

import (
	"errors"
	"fmt"
)

// Domain error types for business logic

var (
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput indicates invalid input parameters
	ErrInvalidInput = errors.New("invalid input")

	// ErrInternal indicates an internal server error
	ErrInternal = errors.New("internal error")

	// ErrUnavailable indicates a service is unavailable
	ErrUnavailable = errors.New("service unavailable")
)

// Data source errors

var (
	// ErrSourceUnavailable indicates an external data source API is unavailable
	ErrSourceUnavailable = errors.New("data source unavailable")

	// ErrMissingCredentials indicates a data source API key is not configured
	ErrMissingCredentials = errors.New("data source credentials missing")

	// ErrInvalidSymbol indicates an unknown or malformed stock symbol
	ErrInvalidSymbol = errors.New("invalid stock symbol")

	// ErrRateLimitExceeded indicates API rate limit exceeded
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// ErrEmptyPayload indicates a source returned no usable items
	ErrEmptyPayload = errors.New("empty payload")
)

// Analysis errors

var (
	// ErrNoStockEntity indicates no stock could be extracted from the query
	ErrNoStockEntity = errors.New("no stock entity in query")

	// ErrInsufficientData indicates not enough candles for indicator computation
	ErrInsufficientData = errors.New("insufficient data for analysis")
)

// Helper functions

// Is checks if err is or wraps target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target type
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

func New(message string) error {
	return errors.New(message)
}

func Newf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
