package marketplace

import (
	"errors"

	"quantum-energy-backend/internal/application/balances"
)

var (
	ErrInsufficientBalance = balances.ErrInsufficientBalance
	ErrInvalidPrincipal    = balances.ErrInvalidPrincipal
	ErrInvalidListing      = errors.New("Invalid listing")
	ErrExpiredListing      = errors.New("Listing expired")
	ErrNotAuthorized       = errors.New("Not authorized")
	ErrInvalidAmount       = errors.New("Amount must be positive")
	ErrInvalidPrice        = errors.New("Price must not be negative")
	ErrInvalidDuration     = errors.New("Duration must be positive")
	ErrInvalidQuantity     = errors.New("Quantity must not be negative")
	ErrInvalidAsset        = errors.New("Unknown asset class")
)

// IsRejection reports whether err is a business rule rejection rather than
// an infrastructure failure.
func IsRejection(err error) bool {
	for _, e := range []error{
		ErrInsufficientBalance, ErrInvalidPrincipal, ErrInvalidListing, ErrExpiredListing,
		ErrNotAuthorized, ErrInvalidAmount, ErrInvalidPrice, ErrInvalidDuration, ErrInvalidQuantity, ErrInvalidAsset,
	} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
