package push

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

const defaultConcurrency = 8

// Target is one delivery candidate: a user and their parsed endpoint. The
// caller resolves and validates stored blobs before building targets, so
// every Result means a delivery was actually attempted.
type Target struct {
	UserID   string
	Endpoint *Endpoint
}

// Result is the delivery outcome for a single target. Err is nil on success;
// Gone marks endpoints the push service reported dead.
type Result struct {
	UserID string
	Err    error
	Gone   bool
}

// Dispatcher fans a payload out to a set of targets with bounded concurrency.
//
// Delivery is best effort per target: a push service failure is recorded in
// that target's Result and never aborts the round or touches the other
// targets. Dispatch itself has no error return.
type Dispatcher struct {
	sender      Sender
	logger      *slog.Logger
	concurrency int
}

// NewDispatcher creates a dispatcher over the given sender.
func NewDispatcher(sender Sender, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Dispatcher{
		sender:      sender,
		logger:      logger,
		concurrency: defaultConcurrency,
	}
}

// Dispatch sends the payload to every target and returns one Result per
// target, in no particular order.
func (d *Dispatcher) Dispatch(ctx context.Context, targets []Target, payload Payload) []Result {
	if len(targets) == 0 {
		return nil
	}

	results := make([]Result, len(targets))
	sem := make(chan struct{}, d.concurrency)
	var wg sync.WaitGroup

	for i, target := range targets {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = d.deliver(ctx, target, payload)
		}()
	}
	wg.Wait()

	sent := 0
	for _, r := range results {
		if r.Err == nil {
			sent++
		}
	}
	d.logger.Info("push round complete",
		"targets", len(targets),
		"sent", sent,
		"failed", len(targets)-sent,
	)

	return results
}

func (d *Dispatcher) deliver(ctx context.Context, target Target, payload Payload) Result {
	res := Result{UserID: target.UserID}

	err := d.sender.Send(ctx, target.Endpoint, payload)
	if err != nil {
		res.Err = err
		if errors.Is(err, ErrEndpointGone) {
			// The subscription is dead on the push service side. We only log;
			// the stored endpoint stays until the user re-registers over it.
			res.Gone = true
			d.logger.Info("push endpoint gone", "user_id", target.UserID)
		} else {
			d.logger.Warn("push delivery failed", "user_id", target.UserID, "error", err)
		}
		return res
	}

	d.logger.Debug("push delivered", "user_id", target.UserID)
	return res
}
