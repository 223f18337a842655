package submission

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DirectTransport POSTs the record form-encoded to the endpoint.
type DirectTransport struct {
	endpoint string
	client   *http.Client
}

func NewDirectTransport(endpoint string, client *http.Client) *DirectTransport {
	if client == nil {
		client = defaultClient()
	}
	return &DirectTransport{endpoint: endpoint, client: client}
}

func (t *DirectTransport) Name() string { return "direct" }

func (t *DirectTransport) Deliver(ctx context.Context, rec Record) Result {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, strings.NewReader(rec.Values().Encode()))
	if err != nil {
		return Failure(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return Failure(err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode == http.StatusOK || resp.StatusCode == OpaqueStatus {
		return Success(SuccessNotice)
	}
	return Failure(fmt.Errorf("unexpected status %d", resp.StatusCode))
}
