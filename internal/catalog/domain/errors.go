package domain

import "errors"

var (
	// ErrCatalogRead wraps any snapshot lookup failure; nothing is persisted.
	ErrCatalogRead = errors.New("catalog read failed")
	// ErrPriceNotFound aborts the whole checkout batch: a cart line points at
	// a price id absent from the snapshot.
	ErrPriceNotFound = errors.New("price not found")
	// ErrCartNotFound is returned when the cart id resolves to nothing.
	ErrCartNotFound = errors.New("cart not found")
)
