package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/felixgeelhaar/hireflow/internal/interviews/domain"
	"github.com/sony/gobreaker/v2"
)

// Failure kinds recorded on the interview when link creation fails.
const (
	FailureTimeout     = "timeout"
	FailureCircuitOpen = "circuit_open"
	FailureNoProvider  = "no_provider"
	FailureProvider    = "provider_error"
)

// ErrNoProvider is returned when no provider is registered for a platform.
var ErrNoProvider = errors.New("no meeting link provider for platform")

// LinkProvisionerConfig configures timeouts and circuit breakers.
type LinkProvisionerConfig struct {
	Timeout time.Duration

	// FailureThreshold is the number of consecutive failures that opens the breaker.
	FailureThreshold uint32

	// OpenPeriod is how long the breaker stays open before probing.
	OpenPeriod time.Duration

	// MaxRequests is the number of probes allowed while half-open.
	MaxRequests uint32
}

// DefaultLinkProvisionerConfig returns the production defaults.
func DefaultLinkProvisionerConfig() LinkProvisionerConfig {
	return LinkProvisionerConfig{
		Timeout:          10 * time.Second,
		FailureThreshold: 5,
		OpenPeriod:       30 * time.Second,
		MaxRequests:      1,
	}
}

// LinkProvisioner creates meeting links with a timeout and one circuit
// breaker per platform.
type LinkProvisioner struct {
	providers map[domain.MeetingPlatform]MeetingLinkProvider
	breakers  map[domain.MeetingPlatform]*gobreaker.CircuitBreaker[string]
	mu        sync.Mutex
	config    LinkProvisionerConfig
	logger    *slog.Logger
}

// NewLinkProvisioner creates a provisioner over the given providers.
func NewLinkProvisioner(config LinkProvisionerConfig, logger *slog.Logger, providers ...MeetingLinkProvider) *LinkProvisioner {
	if logger == nil {
		logger = slog.Default()
	}
	p := &LinkProvisioner{
		providers: make(map[domain.MeetingPlatform]MeetingLinkProvider, len(providers)),
		breakers:  make(map[domain.MeetingPlatform]*gobreaker.CircuitBreaker[string]),
		config:    config,
		logger:    logger,
	}
	for _, provider := range providers {
		p.providers[provider.Platform()] = provider
	}
	return p
}

func (p *LinkProvisioner) breaker(platform domain.MeetingPlatform) *gobreaker.CircuitBreaker[string] {
	p.mu.Lock()
	defer p.mu.Unlock()

	if breaker, ok := p.breakers[platform]; ok {
		return breaker
	}

	settings := gobreaker.Settings{
		Name:        string(platform),
		MaxRequests: p.config.MaxRequests,
		Timeout:     p.config.OpenPeriod,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= p.config.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			p.logger.Info("meeting link breaker state changed",
				"platform", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}
	breaker := gobreaker.NewCircuitBreaker[string](settings)
	p.breakers[platform] = breaker
	return breaker
}

// Provision creates a link. On failure it returns the failure kind alongside
// the error so callers can record it on the interview.
func (p *LinkProvisioner) Provision(ctx context.Context, platform domain.MeetingPlatform, req MeetingRequest) (string, string, error) {
	provider, ok := p.providers[platform]
	if !ok {
		return "", FailureNoProvider, ErrNoProvider
	}

	if p.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.config.Timeout)
		defer cancel()
	}

	link, err := p.breaker(platform).Execute(func() (string, error) {
		return provider.CreateMeeting(ctx, req)
	})
	switch {
	case err == nil:
		return link, "", nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "", FailureCircuitOpen, err
	case errors.Is(err, context.DeadlineExceeded):
		return "", FailureTimeout, err
	default:
		return "", FailureProvider, err
	}
}

// BreakerState returns the breaker state for a platform, "closed" when unused.
func (p *LinkProvisioner) BreakerState(platform domain.MeetingPlatform) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if breaker, ok := p.breakers[platform]; ok {
		return breaker.State().String()
	}
	return gobreaker.StateClosed.String()
}
