package submission

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultContactEmail = "metalstreetmedia@gmail.com"
	DefaultBusyLabel    = "Submitting..."
)

// Receipt describes a delivered submission.
type Receipt struct {
	Record    Record
	Transport string
	Notice    string
	Attempts  int
}

// Pipeline delivers records through an ordered list of transports.
// It is safe for concurrent use; only one Submit runs at a time.
type Pipeline struct {
	transports   []Transport
	contactEmail string
	busyLabel    string
	feedback     Feedback
	logger       *zap.Logger
	now          func() time.Time

	inFlight atomic.Bool
}

type Option func(*Pipeline)

func WithLogger(l *zap.Logger) Option       { return func(p *Pipeline) { p.logger = l } }
func WithFeedback(f Feedback) Option        { return func(p *Pipeline) { p.feedback = f } }
func WithClock(now func() time.Time) Option { return func(p *Pipeline) { p.now = now } }
func WithContactEmail(addr string) Option   { return func(p *Pipeline) { p.contactEmail = addr } }
func WithBusyLabel(label string) Option     { return func(p *Pipeline) { p.busyLabel = label } }

func New(transports []Transport, opts ...Option) *Pipeline {
	p := &Pipeline{
		transports:   transports,
		contactEmail: DefaultContactEmail,
		busyLabel:    DefaultBusyLabel,
		feedback:     NopFeedback{},
		logger:       zap.NewNop(),
		now:          time.Now,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// NewDefault builds the standard chain against endpoint: direct POST, then
// hidden-frame GET, then a mailto handoff to the contact address.
func NewDefault(endpoint string, client *http.Client, opener Opener, opts ...Option) *Pipeline {
	p := New(nil, opts...)
	p.transports = []Transport{
		NewDirectTransport(endpoint, client),
		NewFrameTransport(endpoint, client, DefaultFrameDelay),
		NewMailtoTransport(p.contactEmail, opener),
	}
	return p
}

// Submit validates and assembles f, then tries each transport in order until
// one succeeds. It returns ErrSubmissionInFlight if another Submit is running,
// a *ValidationError if f was rejected, or an *AllTransportsFailedError.
func (p *Pipeline) Submit(ctx context.Context, f Form) (*Receipt, error) {
	if !p.inFlight.CompareAndSwap(false, true) {
		return nil, ErrSubmissionInFlight
	}
	defer p.inFlight.Store(false)

	rec, err := Assemble(f, p.now())
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			p.feedback.ShowInvalid(verr)
		}
		p.logger.Debug("submission rejected", zap.Error(err))
		return nil, err
	}

	p.feedback.Busy(p.busyLabel)
	defer p.feedback.Idle()

	var attempts []*TransportError
	for _, t := range p.transports {
		start := time.Now()
		res := t.Deliver(ctx, rec)
		if res.OK() {
			receipt := Receipt{
				Record:    rec,
				Transport: t.Name(),
				Notice:    res.Notice(),
				Attempts:  len(attempts) + 1,
			}
			p.logger.Info("submission delivered",
				zap.String("transport", t.Name()),
				zap.Int("attempts", receipt.Attempts),
				zap.Duration("latency", time.Since(start)),
			)
			p.feedback.ShowSuccess(receipt)
			p.feedback.ResetForm()
			return &receipt, nil
		}

		terr := &TransportError{Transport: t.Name(), Err: res.Err()}
		attempts = append(attempts, terr)
		p.logger.Warn("transport failed, trying next",
			zap.String("transport", t.Name()),
			zap.Duration("latency", time.Since(start)),
			zap.Error(res.Err()),
		)
	}

	failure := &AllTransportsFailedError{Attempts: attempts, ContactEmail: p.contactEmail}
	p.logger.Error("all transports failed", zap.Int("attempts", len(attempts)))
	p.feedback.ShowFailure(failure)
	return nil, failure
}

// InFlight reports whether a Submit is running.
func (p *Pipeline) InFlight() bool { return p.inFlight.Load() }

// Wait blocks until background work started by transports (the frame
// transport's request) has finished.
func (p *Pipeline) Wait() {
	for _, t := range p.transports {
		if w, ok := t.(interface{ Wait() }); ok {
			w.Wait()
		}
	}
}
