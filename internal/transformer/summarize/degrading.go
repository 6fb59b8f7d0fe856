package summarize

import (
	"context"
	"errors"
	"fmt"

	"folio/internal/metrics"

	log "github.com/sirupsen/logrus"
)

// TruncateLength is how many runes of the body the fallback summary keeps.
const TruncateLength = 250

// Truncate is the fallback summary: the first TruncateLength runes of body followed by "...".
// The ellipsis is appended even when nothing was cut.
func Truncate(body string) string {
	r := []rune(body)
	if len(r) > TruncateLength {
		r = r[:TruncateLength]
	}
	return string(r) + "..."
}

// Degrading wraps a Summarizer so that it never fails: errors, panics and empty output
// all turn into Truncate(body).
type Degrading struct {
	next    Summarizer
	metrics *metrics.Metrics
}

func NewDegrading(next Summarizer, m *metrics.Metrics) *Degrading {
	return &Degrading{next: next, metrics: m}
}

// Summarize always returns a nil error.
func (d *Degrading) Summarize(ctx context.Context, body, query string, maxSentences int) (string, error) {
	summary, err := d.try(ctx, body, query, maxSentences)
	if err == nil && summary != "" {
		return summary, nil
	}
	if err == nil {
		err = ErrEmptyText
	}

	entry := log.WithError(err).WithField("query", query)
	if errors.Is(err, ErrEmptyText) || errors.Is(err, ErrNoSentences) || errors.Is(err, ErrNotAvailable) {
		entry.Debug("summary unavailable, using truncated body")
	} else {
		entry.Warn("summarizer failed, using truncated body")
	}
	d.metrics.SummaryDegraded()
	return Truncate(body), nil
}

func (d *Degrading) try(ctx context.Context, body, query string, maxSentences int) (summary string, err error) {
	if d.next == nil {
		return "", ErrNotAvailable
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("summarizer panic: %v", r)
		}
	}()
	return d.next.Summarize(ctx, body, query, maxSentences)
}
