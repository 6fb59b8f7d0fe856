// Package summarize builds short query-focused summaries of content bodies.
package summarize

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// DefaultSentences is used when a caller passes a non-positive sentence count.
const DefaultSentences = 3

var (
	ErrEmptyText    = errors.New("no text to summarize")
	ErrNoSentences  = errors.New("no sentences found")
	ErrNotAvailable = errors.New("summarizer not configured")
)

// Summarizer condenses body into at most maxSentences sentences, favouring those relevant to query.
type Summarizer interface {
	Summarize(ctx context.Context, body, query string, maxSentences int) (string, error)
}

// Extractive picks whole sentences from the body. Sentences sharing vocabulary with the query
// outrank sentences that are merely frequent; the chosen ones keep their original order.
type Extractive struct {
	mu        sync.Mutex
	tokenizer *sentences.DefaultSentenceTokenizer
}

func NewExtractive() (*Extractive, error) {
	tok, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, fmt.Errorf("load sentence tokenizer: %w", err)
	}
	return &Extractive{tokenizer: tok}, nil
}

func (e *Extractive) Summarize(ctx context.Context, body, query string, maxSentences int) (string, error) {
	if maxSentences <= 0 {
		maxSentences = DefaultSentences
	}
	text := PlainText(body)
	if text == "" {
		return "", ErrEmptyText
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	sents := e.split(text)
	if len(sents) == 0 {
		return "", ErrNoSentences
	}
	if len(sents) <= maxSentences {
		return strings.Join(sents, " "), nil
	}

	scores := scoreSentences(sents, terms(query))
	order := make([]int, len(sents))
	for i := range order {
		order[i] = i
	}
	// Stable sort keeps the earlier sentence ahead on equal scores.
	sort.SliceStable(order, func(a, b int) bool { return scores[order[a]] > scores[order[b]] })

	picked := order[:maxSentences]
	sort.Ints(picked)
	out := make([]string, len(picked))
	for i, idx := range picked {
		out[i] = sents[idx]
	}
	return strings.Join(out, " "), nil
}

func (e *Extractive) split(text string) []string {
	e.mu.Lock()
	tokens := e.tokenizer.Tokenize(text)
	e.mu.Unlock()

	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if s := strings.TrimSpace(t.Text); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// scoreSentences averages each sentence's normalized term frequency across the document and adds
// one point per query term the sentence mentions, so any query overlap outranks frequency alone.
func scoreSentences(sents []string, queryTerms []string) []float64 {
	sentTerms := make([][]string, len(sents))
	freq := map[string]int{}
	maxFreq := 0
	for i, s := range sents {
		sentTerms[i] = terms(s)
		for _, t := range sentTerms[i] {
			freq[t]++
			if freq[t] > maxFreq {
				maxFreq = freq[t]
			}
		}
	}

	scores := make([]float64, len(sents))
	for i, ts := range sentTerms {
		if len(ts) == 0 {
			continue
		}
		var sum float64
		for _, t := range ts {
			sum += float64(freq[t]) / float64(maxFreq)
		}
		scores[i] = sum/float64(len(ts)) + float64(queryOverlap(ts, queryTerms))
	}
	return scores
}

func queryOverlap(sentTerms, queryTerms []string) int {
	n := 0
	seen := map[string]bool{}
	for _, q := range queryTerms {
		if seen[q] {
			continue
		}
		for _, t := range sentTerms {
			if related(t, q) {
				seen[q] = true
				n++
				break
			}
		}
	}
	return n
}
