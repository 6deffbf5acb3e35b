package domain

import (
	"context"
	"errors"
)

// Provider fetches the current store-currency exchange rate from the outside
// world (bank scraping, rate APIs). It is an external collaborator.
type Provider interface {
	FetchRate(ctx context.Context) (float64, error)
}

// Service hands out the exchange rate applied at checkout. Implementations
// cache provider results under a declared TTL and fall back to the configured
// default rate when neither the provider nor the cache can answer, so a rate
// is always available.
type Service interface {
	CurrentRate(ctx context.Context) float64
}

var ErrRateUnavailable = errors.New("exchange rate unavailable")
