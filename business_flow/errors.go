// Package businessflow contains the core business logic and use cases for the referral and order pipelines
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// User-related errors
	ErrUserNotFound      = errors.New("user not found")
	ErrAccountInactive   = errors.New("account is inactive")
	ErrNotAmbassador     = errors.New("user does not hold the ambassador role")
	ErrIncorrectPassword = errors.New("incorrect password")

	// Product-related errors
	ErrProductNotFound   = errors.New("product not found or inactive")
	ErrProductIDRequired = errors.New("product ID is required")

	// Referral link errors
	ErrReferralCodeNotFound = errors.New("referral code not found")
	ErrCodeSpaceExhausted   = errors.New("referral code generation exhausted all attempts")

	// Order errors
	ErrInvalidQuantity   = errors.New("quantity must be at least 1")
	ErrInsufficientStock = errors.New("insufficient stock for requested quantity")

	// Filter errors
	ErrInvalidPage     = errors.New("page must be at least 1")
	ErrInvalidPageSize = errors.New("page size must be between 1 and 100")
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

func IsUserNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}

func IsAccountInactive(err error) bool {
	return errors.Is(err, ErrAccountInactive)
}

func IsNotAmbassador(err error) bool {
	return errors.Is(err, ErrNotAmbassador)
}

func IsIncorrectPassword(err error) bool {
	return errors.Is(err, ErrIncorrectPassword)
}

func IsProductNotFound(err error) bool {
	return errors.Is(err, ErrProductNotFound)
}

func IsProductIDRequired(err error) bool {
	return errors.Is(err, ErrProductIDRequired)
}

func IsReferralCodeNotFound(err error) bool {
	return errors.Is(err, ErrReferralCodeNotFound)
}

func IsCodeSpaceExhausted(err error) bool {
	return errors.Is(err, ErrCodeSpaceExhausted)
}

func IsInvalidQuantity(err error) bool {
	return errors.Is(err, ErrInvalidQuantity)
}

func IsInsufficientStock(err error) bool {
	return errors.Is(err, ErrInsufficientStock)
}

func IsInvalidPage(err error) bool {
	return errors.Is(err, ErrInvalidPage)
}

func IsInvalidPageSize(err error) bool {
	return errors.Is(err, ErrInvalidPageSize)
}
