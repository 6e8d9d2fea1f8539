package api

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
)

// ProgressEvent is one server-pushed progress update for a job.
// Progress is the raw server value: an intermediate percentage, 100 on
// completion, or -1 on failure.
type ProgressEvent struct {
	Progress float64 `json:"progress"`
}

// Subscription is a one-way push channel of progress events for a single job.
// Events is closed when the stream ends, is cancelled, or errors; after that,
// Err reports the transport error, if any.
type Subscription struct {
	events chan ProgressEvent
	cancel context.CancelFunc

	once sync.Once

	mu  sync.Mutex
	err error
}

// Events returns the channel of inbound progress events.
func (s *Subscription) Events() <-chan ProgressEvent {
	return s.events
}

// Close tears down the stream connection. It is synchronous and idempotent:
// closing an already-closed subscription is a no-op.
func (s *Subscription) Close() {
	s.once.Do(s.cancel)
}

// Err returns the transport error that ended the stream, or nil for a clean
// close or explicit cancellation.
func (s *Subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Subscription) setErr(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

// Subscribe opens the progress stream for jobID. The returned subscription
// must be closed by the caller; opening a stream for a new job while a prior
// one is live requires closing the prior one first.
func (c *Client) Subscribe(ctx context.Context, jobID string) (*Subscription, error) {
	ctx, cancel := context.WithCancel(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/progress/"+url.PathEscape(jobID), nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("api: creating stream request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.http.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("api: opening stream: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_ = resp.Body.Close()
		cancel()
		return nil, &APIError{StatusCode: resp.StatusCode}
	}

	sub := &Subscription{
		events: make(chan ProgressEvent),
		cancel: cancel,
	}

	go func() {
		defer close(sub.events)
		defer func() { _ = resp.Body.Close() }()

		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			data, ok := strings.CutPrefix(scanner.Text(), "data:")
			if !ok {
				continue // comments, blank keep-alive lines
			}

			var ev ProgressEvent
			if err := json.Unmarshal([]byte(strings.TrimSpace(data)), &ev); err != nil {
				continue // malformed event payloads are skipped
			}

			select {
			case sub.events <- ev:
			case <-ctx.Done():
				return
			}
		}

		if err := scanner.Err(); err != nil && ctx.Err() == nil {
			sub.setErr(fmt.Errorf("api: stream broken: %w", err))
		}
	}()

	return sub, nil
}
