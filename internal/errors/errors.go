// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrEmptyChain       = errors.New("option chain is empty")
	ErrNoLegs           = errors.New("strategy has no legs")
	ErrBothLegsAbsent   = errors.New("both call and put legs absent")
	ErrDataNotFound     = errors.New("data not found")
	ErrDatabaseError    = errors.New("database error")
	ErrConfigInvalid    = errors.New("invalid configuration")
	ErrTemplateNotFound = errors.New("strategy template not found")
)

// InvalidInputError represents a validation failure on a calculation input.
type InvalidInputError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s (%v): %s", e.Field, e.Value, e.Message)
}

// NewInvalidInputError creates a new InvalidInputError.
func NewInvalidInputError(field string, value interface{}, message string) *InvalidInputError {
	return &InvalidInputError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// MissingMarketDataError represents an absent market input that the
// caller can supply and retry.
type MissingMarketDataError struct {
	Field  string
	Symbol string
}

func (e *MissingMarketDataError) Error() string {
	return fmt.Sprintf("missing market data: %s for %s", e.Field, e.Symbol)
}

// NewMissingMarketDataError creates a new MissingMarketDataError.
func NewMissingMarketDataError(field, symbol string) *MissingMarketDataError {
	return &MissingMarketDataError{
		Field:  field,
		Symbol: symbol,
	}
}

// CalculationError represents a numerical failure inside an engine.
type CalculationError struct {
	Engine    string
	Operation string
	Err       error
}

func (e *CalculationError) Error() string {
	return fmt.Sprintf("calculation error [%s] %s: %v", e.Engine, e.Operation, e.Err)
}

func (e *CalculationError) Unwrap() error {
	return e.Err
}

// NewCalculationError creates a new CalculationError.
func NewCalculationError(engine, operation string, err error) *CalculationError {
	return &CalculationError{
		Engine:    engine,
		Operation: operation,
		Err:       err,
	}
}

// StoreError represents an error from the persistence layer.
type StoreError struct {
	Operation string
	Key       string
	Err       error
}

func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("store error [%s] %s: %v", e.Operation, e.Key, e.Err)
	}
	return fmt.Sprintf("store error [%s] %s", e.Operation, e.Key)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError.
func NewStoreError(operation, key string, err error) *StoreError {
	return &StoreError{
		Operation: operation,
		Key:       key,
		Err:       err,
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
