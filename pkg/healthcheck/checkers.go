package healthcheck

import (
	"context"
	"time"
)

// Pinger is anything with a connectivity probe
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingChecker reports an optional dependency by pinging it. The service can
// answer without it, so a failed ping degrades rather than fails.
type PingChecker struct {
	target Pinger
}

// NewPingChecker creates a ping-based checker
func NewPingChecker(target Pinger) *PingChecker {
	return &PingChecker{target: target}
}

// Check performs the ping
func (p *PingChecker) Check(ctx context.Context) Check {
	start := time.Now()
	check := Check{LastChecked: start}

	err := p.target.Ping(ctx)
	check.Duration = time.Since(start)

	if err != nil {
		check.Status = StatusDegraded
		check.Message = err.Error()
		return check
	}

	check.Status = StatusHealthy
	return check
}

// Circuit breaker states as reported by StateFunc
const (
	CircuitClosed   = "closed"
	CircuitHalfOpen = "half-open"
	CircuitOpen     = "open"
)

// CircuitChecker reports the state of a circuit breaker guarding an upstream.
// An open breaker is unhealthy; half-open is degraded.
type CircuitChecker struct {
	state func() string
}

// NewCircuitChecker creates a checker reading the breaker state from state
func NewCircuitChecker(state func() string) *CircuitChecker {
	return &CircuitChecker{state: state}
}

// Check reads the breaker state
func (c *CircuitChecker) Check(ctx context.Context) Check {
	start := time.Now()
	state := c.state()

	check := Check{
		LastChecked: start,
		Metadata:    map[string]interface{}{"circuit": state},
	}

	switch state {
	case CircuitOpen:
		check.Status = StatusUnhealthy
		check.Message = "Circuit breaker is open"
	case CircuitHalfOpen:
		check.Status = StatusDegraded
		check.Message = "Circuit breaker is probing"
	default:
		check.Status = StatusHealthy
	}

	check.Duration = time.Since(start)
	return check
}

// CustomChecker allows for custom health check logic
type CustomChecker struct {
	check func(ctx context.Context) (Status, string, interface{})
}

// NewCustomChecker creates a new custom checker
func NewCustomChecker(check func(ctx context.Context) (Status, string, interface{})) *CustomChecker {
	return &CustomChecker{check: check}
}

// Check performs custom health check
func (c *CustomChecker) Check(ctx context.Context) Check {
	start := time.Now()

	status, message, metadata := c.check(ctx)

	return Check{
		Status:      status,
		Message:     message,
		Metadata:    metadata,
		LastChecked: start,
		Duration:    time.Since(start),
	}
}
