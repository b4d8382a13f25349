package volcengine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// ErrPollAttemptsExhausted is returned when a task is still running after MaxAttempts polls.
var ErrPollAttemptsExhausted = errors.New("volcengine: task still pending after max attempts")

var errStillPending = errors.New("volcengine: task pending")

const (
	defaultPollInterval    = 2 * time.Second
	defaultPollMaxInterval = 15 * time.Second
	defaultPollAttempts    = 60
)

// ResultGetter is the subset of Client used by Poller.
type ResultGetter interface {
	GetResult(ctx context.Context, taskID string) (PollResult, error)
}

// Poller re-polls a task with bounded exponential backoff. The Client itself
// never retries; Poller is the caller-side policy used by the CLI.
type Poller struct {
	Getter      ResultGetter
	Interval    time.Duration
	MaxInterval time.Duration
	MaxAttempts int
	// OnStatus, when set, observes every non-error poll.
	OnStatus func(attempt int, res PollResult)
}

// schedule returns the delay policy: Interval doubling up to MaxInterval with
// no jitter, stopping after MaxAttempts polls.
func (p Poller) schedule() (*backoff.ExponentialBackOff, int) {
	interval := p.Interval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	maxInterval := p.MaxInterval
	if maxInterval <= 0 {
		maxInterval = defaultPollMaxInterval
	}
	if maxInterval < interval {
		maxInterval = interval
	}
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = defaultPollAttempts
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = interval
	exp.MaxInterval = maxInterval
	exp.Multiplier = 2
	exp.RandomizationFactor = 0
	exp.MaxElapsedTime = 0
	exp.Reset()
	return exp, attempts
}

// Wait polls until the task is terminal, an error occurs, attempts run out or ctx ends.
// Upstream errors are returned as-is without further polling.
func (p Poller) Wait(ctx context.Context, taskID string) (PollResult, error) {
	if p.Getter == nil {
		return PollResult{}, errors.New("volcengine: poller has no result getter")
	}
	exp, attempts := p.schedule()
	policy := backoff.WithContext(backoff.WithMaxRetries(exp, uint64(attempts-1)), ctx)

	attempt := 0
	var last PollResult
	res, err := backoff.RetryWithData(func() (PollResult, error) {
		attempt++
		res, err := p.Getter.GetResult(ctx, taskID)
		if err != nil {
			return last, backoff.Permanent(err)
		}
		last = res
		if p.OnStatus != nil {
			p.OnStatus(attempt, res)
		}
		if !res.Terminal() {
			return res, errStillPending
		}
		return res, nil
	}, policy)
	switch {
	case err == nil:
		return res, nil
	case errors.Is(err, errStillPending):
		return last, fmt.Errorf("%w: %d attempts, last status %q", ErrPollAttemptsExhausted, attempts, last.Status)
	default:
		return last, err
	}
}
