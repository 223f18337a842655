package submission

import (
	"context"
	"errors"
	"net/http"
	"time"
)

const (
	// DefaultTimeout bounds every transport that waits on a response.
	DefaultTimeout = 15 * time.Second
	// DefaultFrameDelay is how long the frame transport waits before it
	// assumes delivery.
	DefaultFrameDelay = 2 * time.Second

	// OpaqueStatus stands for a response whose status could not be read.
	// The direct transport counts it as delivered.
	OpaqueStatus = 0

	SuccessNotice = "Thank you for your message! We will get back to you soon."
	MailtoNotice  = "Your email client has been opened with your message. Please press send to complete your submission."
)

// Transport is one way of getting a Record to the intake endpoint.
type Transport interface {
	Name() string
	Deliver(ctx context.Context, rec Record) Result
}

// Result is the outcome of one Deliver call: Success(notice) or Failure(reason).
type Result struct {
	notice string
	err    error
}

func Success(notice string) Result { return Result{notice: notice} }

func Failure(reason error) Result {
	if reason == nil {
		reason = errors.New("unknown failure")
	}
	return Result{err: reason}
}

func (r Result) OK() bool       { return r.err == nil }
func (r Result) Notice() string { return r.notice }
func (r Result) Err() error     { return r.err }

func defaultClient() *http.Client {
	return &http.Client{Timeout: DefaultTimeout}
}
