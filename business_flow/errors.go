// Package businessflow contains the use cases behind the HTTP API: estimation, layout planning and pricing
package businessflow

import (
	"errors"
	"fmt"

	"github.com/theunseenchapter/constructai-sub000/estimation"
	"github.com/theunseenchapter/constructai-sub000/pricing"
)

// Business flow error constants
var (
	// Estimation errors
	ErrInvalidProjectSpec = errors.New("invalid project specification")
	ErrEstimateNotFound   = errors.New("estimate not found")
	ErrInvalidEstimateID  = errors.New("invalid estimate id")
	ErrPersistenceOff     = errors.New("estimate persistence is not enabled")
	ErrUnsupportedFormat  = errors.New("unsupported export format")

	// Pricing errors
	ErrMaterialNotFound    = errors.New("material not found")
	ErrInvalidPrice        = errors.New("invalid price")
	ErrMaterialCodeMissing = errors.New("material code is required")
	ErrRefreshInProgress   = errors.New("price refresh already in progress")
	ErrFeedUnavailable     = errors.New("price feed unavailable")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

// joinErr wraps a flow sentinel around the underlying cause so both match with errors.Is
func joinErr(sentinel, cause error) error {
	if cause == nil {
		return sentinel
	}
	return fmt.Errorf("%w: %w", sentinel, cause)
}

func IsInvalidProjectSpec(err error) bool {
	return errors.Is(err, ErrInvalidProjectSpec) || errors.Is(err, estimation.ErrInvalidInput)
}

func IsEstimateNotFound(err error) bool {
	return errors.Is(err, ErrEstimateNotFound)
}

func IsInvalidEstimateID(err error) bool {
	return errors.Is(err, ErrInvalidEstimateID)
}

func IsPersistenceOff(err error) bool {
	return errors.Is(err, ErrPersistenceOff)
}

func IsUnsupportedFormat(err error) bool {
	return errors.Is(err, ErrUnsupportedFormat)
}

func IsMaterialNotFound(err error) bool {
	return errors.Is(err, ErrMaterialNotFound) || errors.Is(err, pricing.ErrRateNotFound)
}

func IsInvalidPrice(err error) bool {
	return errors.Is(err, ErrInvalidPrice) || errors.Is(err, pricing.ErrInvalidPrice)
}

func IsMaterialCodeMissing(err error) bool {
	return errors.Is(err, ErrMaterialCodeMissing)
}

func IsRefreshInProgress(err error) bool {
	return errors.Is(err, ErrRefreshInProgress)
}

func IsFeedUnavailable(err error) bool {
	return errors.Is(err, ErrFeedUnavailable) || errors.Is(err, pricing.ErrFeedUnavailable)
}
