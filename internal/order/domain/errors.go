package domain

import "errors"

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrInvalidOrder  = errors.New("invalid order id")
	ErrInvalidBuyer  = errors.New("invalid buyer id")

	// ErrRenewalTargetMissing aborts the batch: a renewal line points at a
	// sale that does not exist.
	ErrRenewalTargetMissing = errors.New("renewed sale not found")
)
