package resilience

import (
	"log/slog"
	"time"

	"github.com/go-faster/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sony/gobreaker"
)

// Options tune a Breaker. Zero values fall back to defaults.
type Options struct {
	FailureRatio float64
	MinRequests  uint32
	Interval     time.Duration
	OpenTimeout  time.Duration
	// IsFailure decides which errors count against the breaker. Errors it
	// rejects are still returned to the caller.
	IsFailure func(error) bool
}

// Breaker guards calls to a remote dependency. It never retries.
type Breaker struct {
	cb   *gobreaker.CircuitBreaker
	name string
}

// NewBreaker creates a breaker publishing its state to the given gauge.
func NewBreaker(name string, opts Options, state *prometheus.GaugeVec, logger *slog.Logger) *Breaker {
	if opts.FailureRatio <= 0 {
		opts.FailureRatio = 0.6
	}
	if opts.MinRequests == 0 {
		opts.MinRequests = 5
	}
	if opts.Interval <= 0 {
		opts.Interval = 15 * time.Second
	}
	if opts.OpenTimeout <= 0 {
		opts.OpenTimeout = 30 * time.Second
	}
	isFailure := opts.IsFailure
	if isFailure == nil {
		isFailure = func(err error) bool { return err != nil }
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    opts.Interval,
		Timeout:     opts.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= opts.MinRequests && ratio >= opts.FailureRatio
		},
		IsSuccessful: func(err error) bool {
			return !isFailure(err)
		},
		OnStateChange: func(cbName string, from, to gobreaker.State) {
			if state != nil {
				state.WithLabelValues(cbName).Set(stateValue(to))
			}
			if logger != nil {
				logger.Warn("circuit breaker state changed",
					slog.String("circuit", cbName),
					slog.String("from", from.String()),
					slog.String("to", to.String()),
				)
			}
		},
	})
	if state != nil {
		state.WithLabelValues(name).Set(stateValue(gobreaker.StateClosed))
	}
	return &Breaker{cb: cb, name: name}
}

// Execute runs fn unless the breaker is open. Errors returned by fn pass
// through unchanged.
func (b *Breaker) Execute(fn func() (any, error)) (any, error) {
	result, err := b.cb.Execute(fn)
	if IsOpen(err) {
		return nil, errors.Wrapf(err, "circuit %s", b.name)
	}
	return result, err
}

// State reports the current breaker state.
func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}

// IsOpen reports whether err was produced by a breaker rejecting the call.
func IsOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateOpen:
		return 1
	case gobreaker.StateHalfOpen:
		return 2
	default:
		return 0
	}
}
