package telemetry

import (
	"context"

	"github.com/newrelic/go-agent/v3/newrelic"
)

// Span is a provider independent handle on a unit of work. Finish must be
// called for the span to be recorded.
type Span interface {
	Finish()
	SetLabel(key string, value any)
	NoticeError(err error)
}

// StartSpan starts a child span when ctx carries a transaction, or a new
// transaction through the context Client otherwise.
func StartSpan(ctx context.Context, name string) (context.Context, Span) {
	tx := newrelic.FromContext(ctx)
	if tx == nil {
		return FromContext(ctx).StartSpan(ctx, name)
	}

	return ctx, &nrSegmentSpan{Transaction: tx, Segment: tx.StartSegment(name)}
}

type nrTransactionSpan struct{ *newrelic.Transaction }

func (s *nrTransactionSpan) Finish() { s.Transaction.End() }
func (s *nrTransactionSpan) SetLabel(key string, value any) {
	s.Transaction.AddAttribute(key, value)
}

type nrSegmentSpan struct {
	*newrelic.Transaction
	*newrelic.Segment
}

func (s *nrSegmentSpan) Finish() { s.Segment.End() }
func (s *nrSegmentSpan) SetLabel(key string, value any) {
	s.Transaction.AddAttribute(key, value)
}

var (
	_ Span = (*nrTransactionSpan)(nil)
	_ Span = (*nrSegmentSpan)(nil)
)
