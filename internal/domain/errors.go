package domain

import "errors"

var (
	// ErrFetchFailed is returned when a catalog request fails for any reason:
	// transport error, non-success status, or a malformed payload.
	ErrFetchFailed = errors.New("catalog fetch failed")

	// ErrNotFound is returned when a barcode lookup misses.
	ErrNotFound = errors.New("product not found")

	// ErrStorageUnavailable is returned when the cart storage cannot be read
	// or written. Callers treat it as non-fatal.
	ErrStorageUnavailable = errors.New("cart storage unavailable")

	// ErrInvalidRequest is returned when request parameters are invalid.
	ErrInvalidRequest = errors.New("invalid request parameters")
)
