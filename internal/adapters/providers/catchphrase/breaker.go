package catchphrase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/yurift/drift/internal/domain/entities"
	"github.com/yurift/drift/internal/domain/providers"
	"github.com/yurift/drift/internal/infrastructure/observability"
)

const breakerName = "catchphrase"

// BreakerSettings tunes when the breaker opens and how long it stays open
type BreakerSettings struct {
	// MinRequests is the sample size before the failure ratio is considered
	MinRequests uint32
	// FailureRatio opens the breaker once reached
	FailureRatio float64
	// Interval resets the closed-state counts
	Interval time.Duration
	// OpenTimeout is how long the breaker stays open before probing again
	OpenTimeout time.Duration
	// HalfOpenRequests is the number of probes allowed while half-open
	HalfOpenRequests uint32
}

// DefaultBreakerSettings opens after half of at least 5 calls fail and probes
// again after 30 seconds.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MinRequests:      5,
		FailureRatio:     0.5,
		Interval:         time.Minute,
		OpenTimeout:      30 * time.Second,
		HalfOpenRequests: 1,
	}
}

// BreakerProvider wraps a CatchphraseProvider with a circuit breaker. While
// the breaker is open calls fail immediately with gobreaker.ErrOpenState and
// the pipeline falls back to the default phrase.
type BreakerProvider struct {
	next    providers.CatchphraseProvider
	cb      *gobreaker.CircuitBreaker[[]string]
	metrics *observability.Metrics
}

var _ providers.CatchphraseProvider = (*BreakerProvider)(nil)

// NewBreakerProvider creates a breaker around next
func NewBreakerProvider(next providers.CatchphraseProvider, settings BreakerSettings, metrics *observability.Metrics) *BreakerProvider {
	bp := &BreakerProvider{next: next, metrics: metrics}

	bp.cb = gobreaker.NewCircuitBreaker[[]string](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: settings.HalfOpenRequests,
		Interval:    settings.Interval,
		Timeout:     settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < settings.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			if ratio >= settings.FailureRatio {
				log.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_ratio", ratio).Msg("opening catchphrase circuit")
				return true
			}
			return false
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Info().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
			observability.RecordBreakerTransition(context.Background(), bp.metrics, name, from.String(), to.String())
		},
		// a caller giving up is not a backend failure
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return bp
}

// GenerateCatchphrases forwards to the wrapped provider through the breaker
func (b *BreakerProvider) GenerateCatchphrases(ctx context.Context, facilities []entities.ScoredFacility, taste entities.TasteVector) ([]string, error) {
	return b.cb.Execute(func() ([]string, error) {
		return b.next.GenerateCatchphrases(ctx, facilities, taste)
	})
}

// State reports the breaker state (closed, half-open, open)
func (b *BreakerProvider) State() string {
	return b.cb.State().String()
}
