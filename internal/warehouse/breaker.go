package warehouse

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sony/gobreaker/v2"
)

// ErrBreakerOpen is returned while the breaker rejects calls without reaching
// the warehouse.
var ErrBreakerOpen = gobreaker.ErrOpenState

var breakerState = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "warehouse_breaker_state",
		Help: "Circuit breaker state for the warehouse collaborator (0=closed, 1=half-open, 2=open)",
	},
	[]string{"name"},
)

// BreakerConfig tunes the warehouse circuit breaker.
type BreakerConfig struct {
	Name string

	// MaxRequests is the number of probe requests allowed while half-open.
	MaxRequests uint32

	// Interval clears the failure counts periodically while closed.
	Interval time.Duration

	// Timeout is how long the breaker stays open before probing again.
	Timeout time.Duration

	// FailureRatio trips the breaker once at least MinRequests calls have
	// been observed.
	FailureRatio float64
	MinRequests  uint32
}

// DefaultBreakerConfig returns the standard breaker tuning.
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:         name,
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      30 * time.Second,
		FailureRatio: 0.5,
		MinRequests:  5,
	}
}

// Breaker wraps a Warehouse with a circuit breaker, so a down warehouse sheds
// queries immediately instead of making every request wait out a connection
// failure.
type Breaker struct {
	inner   Warehouse
	breaker *gobreaker.CircuitBreaker[[]map[string]any]
}

// NewBreaker wraps the given warehouse. State transitions are logged and
// exported as a gauge.
func NewBreaker(inner Warehouse, cfg BreakerConfig, logger *slog.Logger) *Breaker {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("warehouse breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
			breakerState.WithLabelValues(name).Set(stateValue(to))
		},
	}

	breakerState.WithLabelValues(cfg.Name).Set(stateValue(gobreaker.StateClosed))

	return &Breaker{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker[[]map[string]any](settings),
	}
}

// Query forwards to the wrapped warehouse while the breaker allows it. When
// open, it fails fast with ErrBreakerOpen.
func (b *Breaker) Query(ctx context.Context, query string) ([]map[string]any, error) {
	return b.breaker.Execute(func() ([]map[string]any, error) {
		return b.inner.Query(ctx, query)
	})
}

// State returns the breaker's current state.
func (b *Breaker) State() gobreaker.State {
	return b.breaker.State()
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
