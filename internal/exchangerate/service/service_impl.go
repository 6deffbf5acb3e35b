package service

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/slotlinelabs/slotline/internal/clock"
	"github.com/slotlinelabs/slotline/internal/config"
	exchangeratedomain "github.com/slotlinelabs/slotline/internal/exchangerate/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const cacheKey = "slotline:exchange_rate"

type Service struct {
	log      *zap.Logger
	rdb      *redis.Client
	provider exchangeratedomain.Provider
	clock    clock.Clock

	ttl         time.Duration
	defaultRate float64
}

type ServiceParam struct {
	fx.In

	Log      *zap.Logger
	Redis    *redis.Client
	Provider exchangeratedomain.Provider `optional:"true"`
	Clock    clock.Clock
	Config   config.Config
}

func New(p ServiceParam) exchangeratedomain.Service {
	ttl := p.Config.Exchange.CacheTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Service{
		log:         p.Log.Named("exchangerate.service"),
		rdb:         p.Redis,
		provider:    p.Provider,
		clock:       p.Clock,
		ttl:         ttl,
		defaultRate: p.Config.Exchange.DefaultRate,
	}
}

// CurrentRate returns the cached rate when it is still fresh, refreshes it
// from the provider otherwise, and degrades to the configured default rate
// when both are unavailable. It never fails: checkout math always has a rate.
func (s *Service) CurrentRate(ctx context.Context) float64 {
	if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
		if rate, perr := strconv.ParseFloat(cached, 64); perr == nil && rate > 0 {
			return rate
		}
	} else if err != redis.Nil {
		s.log.Warn("rate cache read failed", zap.Error(err))
	}

	if s.provider != nil {
		rate, err := s.provider.FetchRate(ctx)
		if err == nil && rate > 0 {
			s.store(ctx, rate)
			return rate
		}
		if err != nil {
			s.log.Warn("rate provider fetch failed", zap.Error(err))
		}
	}

	return s.defaultRate
}

func (s *Service) store(ctx context.Context, rate float64) {
	fetchedAt := s.clock.Now(ctx)
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, cacheKey, strconv.FormatFloat(rate, 'f', -1, 64), s.ttl)
	pipe.Set(ctx, cacheKey+":fetched_at", fetchedAt.Format(time.RFC3339), s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		s.log.Warn("rate cache write failed", zap.Error(err))
	}
}
