// Package notifications tells webhooks about finished exports.
package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ziadkadry99/menu-studio/internal/export"
)

// Options configure a Dispatcher.
type Options struct {
	Webhooks     []string
	FailuresOnly bool
	Timeout      time.Duration
	// Next receives every run before the webhooks do. May be nil.
	Next   export.Recorder
	Client *http.Client
	Logger zerolog.Logger
}

// Dispatcher is an export.Recorder that forwards runs to Next and then
// POSTs a Notification to each webhook.
type Dispatcher struct {
	hooks        []string
	failuresOnly bool
	next         export.Recorder
	client       *http.Client
	logger       zerolog.Logger
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(opts Options) *Dispatcher {
	client := opts.Client
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Dispatcher{
		hooks:        opts.Webhooks,
		failuresOnly: opts.FailuresOnly,
		next:         opts.Next,
		client:       client,
		logger:       opts.Logger,
	}
}

// RecordExport implements export.Recorder.
func (d *Dispatcher) RecordExport(ctx context.Context, run export.Run) error {
	var nextErr error
	if d.next != nil {
		nextErr = d.next.RecordExport(ctx, run)
	}
	if d.failuresOnly && run.Status != export.StatusFailed {
		return nextErr
	}
	return errors.Join(nextErr, d.Dispatch(ctx, FromRun(run)))
}

// Dispatch sends n to every webhook concurrently. A failing webhook does
// not stop the others; all failures are returned joined.
func (d *Dispatcher) Dispatch(ctx context.Context, n Notification) error {
	if len(d.hooks) == 0 {
		return nil
	}
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshalling notification: %w", err)
	}

	errs := make([]error, len(d.hooks))
	var g errgroup.Group
	for i, hook := range d.hooks {
		g.Go(func() error {
			if err := d.SendWebhook(ctx, hook, payload); err != nil {
				errs[i] = fmt.Errorf("webhook %s: %w", hook, err)
				return nil
			}
			d.logger.Debug().Str("webhook", hook).Str("event", string(n.Event)).Msg("notification delivered")
			return nil
		})
	}
	g.Wait()
	return errors.Join(errs...)
}

// SendWebhook POSTs payload to the given URL.
func (d *Dispatcher) SendWebhook(ctx context.Context, url string, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
