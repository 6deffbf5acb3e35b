package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/slotlinelabs/slotline/internal/clock"
	"github.com/slotlinelabs/slotline/internal/config"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubProvider struct {
	rate  float64
	err   error
	calls int
}

func (p *stubProvider) FetchRate(context.Context) (float64, error) {
	p.calls++
	return p.rate, p.err
}

func newTestService(t *testing.T, provider *stubProvider) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := config.Config{}
	cfg.Exchange.DefaultRate = 103
	cfg.Exchange.CacheTTL = time.Hour

	svc := New(ServiceParam{
		Log:      zap.NewNop(),
		Redis:    rdb,
		Provider: provider,
		Clock:    clock.Fixed(time.Date(2026, time.August, 30, 12, 0, 0, 0, time.UTC)),
		Config:   cfg,
	}).(*Service)
	return svc, mr
}

func TestCurrentRateFetchesAndCaches(t *testing.T) {
	provider := &stubProvider{rate: 108.5}
	svc, mr := newTestService(t, provider)
	ctx := context.Background()

	require.Equal(t, 108.5, svc.CurrentRate(ctx))
	require.Equal(t, 1, provider.calls)

	// Second read is served from the cache.
	require.Equal(t, 108.5, svc.CurrentRate(ctx))
	require.Equal(t, 1, provider.calls)

	ttl := mr.TTL(cacheKey)
	require.Equal(t, time.Hour, ttl)
}

func TestCurrentRateRefetchesAfterTTL(t *testing.T) {
	provider := &stubProvider{rate: 108.5}
	svc, mr := newTestService(t, provider)
	ctx := context.Background()

	svc.CurrentRate(ctx)
	mr.FastForward(2 * time.Hour)

	provider.rate = 110
	require.Equal(t, float64(110), svc.CurrentRate(ctx))
	require.Equal(t, 2, provider.calls)
}

func TestCurrentRateFallsBackToDefault(t *testing.T) {
	provider := &stubProvider{err: errors.New("bank is down")}
	svc, _ := newTestService(t, provider)

	require.Equal(t, float64(103), svc.CurrentRate(context.Background()))
}

func TestCurrentRateWithoutProvider(t *testing.T) {
	svc, _ := newTestService(t, nil)
	svc.provider = nil

	require.Equal(t, float64(103), svc.CurrentRate(context.Background()))
}
