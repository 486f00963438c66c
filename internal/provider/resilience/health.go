package resilience

import (
	"time"

	"github.com/sony/gobreaker/v2"
)

// Health is a point-in-time view of an upstream as seen through a Client.
type Health struct {
	Name          string
	CircuitState  gobreaker.State
	Counts        gobreaker.Counts
	LastSuccessAt *time.Time
	LastFailureAt *time.Time
	LastError     string
}

// IsHealthy reports whether the breaker is closed.
func (h Health) IsHealthy() bool {
	return h.CircuitState == gobreaker.StateClosed
}

// IsDegraded reports whether the breaker is half-open.
func (h Health) IsDegraded() bool {
	return h.CircuitState == gobreaker.StateHalfOpen
}

// IsUnhealthy reports whether the breaker is open.
func (h Health) IsUnhealthy() bool {
	return h.CircuitState == gobreaker.StateOpen
}

// Health reports the client's breaker state and last call outcomes.
func (c *Client) Health() Health {
	c.mu.RLock()
	defer c.mu.RUnlock()

	h := Health{
		Name:         c.config.Name,
		CircuitState: c.circuitBreaker.State(),
		Counts:       c.circuitBreaker.Counts(),
		LastError:    c.lastError,
	}
	if !c.lastSuccessAt.IsZero() {
		t := c.lastSuccessAt
		h.LastSuccessAt = &t
	}
	if !c.lastFailureAt.IsZero() {
		t := c.lastFailureAt
		h.LastFailureAt = &t
	}
	return h
}
