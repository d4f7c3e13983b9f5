// Package backoff defines retry policies and backoff strategies for
// best-effort delivery paths.
package backoff

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// Policy defines a retry strategy.
type Policy struct {
	MaxRetries   int           `json:"max_retries"`
	InitialDelay time.Duration `json:"initial_delay"`
	MaxDelay     time.Duration `json:"max_delay"`
	Strategy     Type          `json:"strategy"`
	JitterFactor float64       `json:"jitter_factor"` // 0.0-1.0
}

// Type identifies the backoff strategy.
type Type string

const (
	Fixed       Type = "fixed"       // Same delay each time
	Linear      Type = "linear"      // Delay increases linearly
	Exponential Type = "exponential" // Delay doubles each time
)

// DefaultPolicy returns a sensible default retry policy.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries:   3,
		InitialDelay: 1 * time.Second,
		MaxDelay:     30 * time.Second,
		Strategy:     Exponential,
		JitterFactor: 0.25,
	}
}

// NoRetryPolicy returns a policy that never retries.
func NoRetryPolicy() Policy {
	return Policy{
		MaxRetries:   0,
		InitialDelay: 0,
		MaxDelay:     0,
	}
}

// CalculateDelay calculates the delay for a given attempt.
func (p *Policy) CalculateDelay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}

	var delay time.Duration

	switch p.Strategy {
	case Fixed:
		delay = p.InitialDelay
	case Linear:
		delay = p.InitialDelay * time.Duration(attempt)
	case Exponential:
		delay = p.InitialDelay * time.Duration(math.Pow(2, float64(attempt-1)))
	default:
		delay = p.InitialDelay
	}

	if delay > p.MaxDelay {
		delay = p.MaxDelay
	}

	if p.JitterFactor > 0 {
		jitter := float64(delay) * p.JitterFactor * (rand.Float64()*2 - 1) // -jitter to +jitter
		delay = time.Duration(float64(delay) + jitter)
		if delay < 0 {
			delay = 0
		}
	}

	return delay
}

// Func is a function that can be retried.
type Func func(ctx context.Context, attempt int) error

// Executor provides retry execution functionality.
type Executor struct {
	policy Policy
}

// NewExecutor creates a new retry executor with the given policy.
func NewExecutor(policy Policy) *Executor {
	return &Executor{policy: policy}
}

// Execute runs the function with retries according to the policy. The last
// error is returned when every attempt fails; context cancellation stops
// the loop immediately.
func (e *Executor) Execute(ctx context.Context, fn Func) error {
	var lastErr error

	for attempt := 0; attempt <= e.policy.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := fn(ctx, attempt)
		if err == nil {
			return nil
		}

		lastErr = err

		if attempt >= e.policy.MaxRetries {
			break
		}

		delay := e.policy.CalculateDelay(attempt + 1)
		if delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
	}

	return lastErr
}
