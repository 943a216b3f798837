package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/venkatramks/legal-ai-frontend/config"
	"github.com/venkatramks/legal-ai-frontend/model"
)

// CheckOutcome is one tick's result from a status check.
type CheckOutcome[T any] struct {
	State   string // model.JobPending, JobDone, JobError
	Payload T      // set when State is JobDone
	Message string // backend-reported detail, used for errors and progress
}

// CheckFunc queries a job's status once. A NetworkError return is treated as
// a soft failure and retried; a NotFoundError means the server-side artifact
// is gone and stops the poller; any other error is fatal.
type CheckFunc[T any] func(ctx context.Context) (CheckOutcome[T], error)

// Poller drives a single asynchronous backend job to a terminal state by
// checking its status at a fixed interval under a bounded attempt budget.
// Ticks are strictly sequential: tick N+1 is never issued before tick N's
// response has been processed.
type Poller[T any] struct {
	targetID    string
	kind        string
	interval    time.Duration
	maxAttempts int
	check       CheckFunc[T]
	onProgress  func(string)
}

func NewPoller[T any](targetID, kind string, cfg *config.PollerConfig, check CheckFunc[T]) *Poller[T] {
	return &Poller[T]{
		targetID:    targetID,
		kind:        kind,
		interval:    cfg.Interval(),
		maxAttempts: cfg.MaxAttempts,
		check:       check,
	}
}

// SetProgressFunc registers a callback that receives a human-readable progress
// line on every tick. It is never invoked after Run returns.
func (p *Poller[T]) SetProgressFunc(fn func(string)) {
	p.onProgress = fn
}

// Run polls until the job reaches a terminal state, the attempt budget is
// exhausted, or ctx is cancelled. Exactly one outcome is returned; after
// cancellation no further status checks are issued and no progress is
// reported, even if an in-flight response arrives later.
func (p *Poller[T]) Run(ctx context.Context) (T, error) {
	var zero T

	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		outcome, err := p.check(ctx)
		if ctx.Err() != nil {
			// Cancelled while the check was in flight; discard whatever came back.
			return zero, ctx.Err()
		}

		if err != nil {
			var netErr *NetworkError
			if errors.As(err, &netErr) {
				// Soft retry: the attempt is consumed so repeated transport
				// failures time out instead of hanging forever.
				p.progress(attempt, "status check failed, retrying")
			} else {
				return zero, err
			}
		} else {
			switch outcome.State {
			case model.JobDone:
				p.progress(attempt, "done")
				return outcome.Payload, nil
			case model.JobError:
				msg := outcome.Message
				if msg == "" {
					msg = fmt.Sprintf("%s job %s failed", p.kind, p.targetID)
				}
				return zero, &ProcessingError{Message: msg}
			default:
				p.progress(attempt, "still pending")
			}
		}

		if attempt == p.maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(p.interval):
		}
	}

	return zero, &TimeoutError{TargetID: p.targetID, Attempts: p.maxAttempts}
}

func (p *Poller[T]) progress(attempt int, detail string) {
	if p.onProgress == nil {
		return
	}
	p.onProgress(fmt.Sprintf("%s job %s: attempt %d/%d, %s", p.kind, p.targetID, attempt, p.maxAttempts, detail))
}
