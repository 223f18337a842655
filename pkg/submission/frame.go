package submission

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// FrameTransport issues a GET with the record as query parameters and does
// not read the response. It reports success once Delay has passed without a
// connection-level error. The request itself keeps running in the
// background, bounded by the client timeout; Wait blocks until it ends.
type FrameTransport struct {
	endpoint string
	client   *http.Client
	delay    time.Duration

	wg sync.WaitGroup
}

func NewFrameTransport(endpoint string, client *http.Client, delay time.Duration) *FrameTransport {
	if client == nil {
		client = defaultClient()
	}
	if delay <= 0 {
		delay = DefaultFrameDelay
	}
	return &FrameTransport{endpoint: endpoint, client: client, delay: delay}
}

func (t *FrameTransport) Name() string { return "frame" }

func (t *FrameTransport) Deliver(ctx context.Context, rec Record) Result {
	req, err := http.NewRequestWithContext(context.WithoutCancel(ctx), http.MethodGet, t.endpoint, nil)
	if err != nil {
		return Failure(fmt.Errorf("build request: %w", err))
	}
	req.URL.RawQuery = rec.Values().Encode()

	// buffered: the goroutine never blocks on a caller that stopped listening
	failed := make(chan error, 1)
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		resp, err := t.client.Do(req)
		if err != nil {
			failed <- err
			return
		}
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		resp.Body.Close()
	}()

	timer := time.NewTimer(t.delay)
	defer timer.Stop()

	select {
	case err := <-failed:
		return Failure(err)
	case <-timer.C:
		return Success(SuccessNotice)
	case <-ctx.Done():
		return Failure(ctx.Err())
	}
}

// Wait blocks until every background request has finished.
func (t *FrameTransport) Wait() {
	t.wg.Wait()
}
