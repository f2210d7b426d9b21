// Package pipeline sequences the deterministic preprocessing steps around
// the LLM call: normalize, extract temporal hints, fuzzy-correct vocabulary,
// prompt the model, parse its raw output and validate the result.
package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/relato-labs/incident-cli/internal/model"
	"github.com/relato-labs/incident-cli/internal/textproc"
	"github.com/relato-labs/incident-cli/internal/validate"
)

const defaultTimeout = 60 * time.Second

// CompletionClient is the LLM boundary: one prompt in, raw model text out.
// Implementations must honor context cancellation.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Extractor runs the full extraction pipeline. It holds no mutable state
// besides the read-only vocabulary, so a single Extractor serves concurrent
// requests.
type Extractor struct {
	llm      CompletionClient
	vocab    *textproc.Vocabulary
	temporal *textproc.TemporalExtractor
	timeout  time.Duration
}

// Option configures the extractor.
type Option func(*Extractor)

// WithReferenceDate fixes the date against which relative expressions like
// "ontem" are resolved. Defaults to the wall clock at construction.
func WithReferenceDate(ref time.Time) Option {
	return func(e *Extractor) {
		e.temporal = textproc.NewTemporalExtractor(ref)
	}
}

// WithTimeout bounds each LLM call.
func WithTimeout(d time.Duration) Option {
	return func(e *Extractor) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// New creates an extraction pipeline over the given completion client and
// vocabulary.
func New(llm CompletionClient, vocab *textproc.Vocabulary, opts ...Option) *Extractor {
	e := &Extractor{
		llm:      llm,
		vocab:    vocab,
		temporal: textproc.NewTemporalExtractor(time.Now()),
		timeout:  defaultTimeout,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Extract turns a free-form report into a validated Incident. The extra
// argument is optional caller-supplied context appended to the hint block of
// the prompt; pass "" when there is none.
//
// The LLM is called exactly once: a single well-formed call is the contract,
// and the endpoint is assumed idempotent enough that retrying belongs to the
// caller. No lock is held across the call and cancelling ctx cancels the
// in-flight request.
func (e *Extractor) Extract(ctx context.Context, text, extra string) (*model.Incident, error) {
	cleaned := textproc.Normalize(text)
	annotated, hints := e.temporal.Extract(cleaned)
	corrected := textproc.Correct(annotated, e.vocab)

	zap.L().Debug("preprocessed report",
		zap.String("text", corrected),
		zap.Int("hints", len(hints)),
	)

	prompt := buildPrompt(corrected, hints, extra)

	cctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	raw, err := e.llm.Complete(cctx, prompt)
	if err != nil {
		return nil, eris.Wrapf(ErrLLMUnavailable, "complete: %v", err)
	}

	var decoded any
	obj := cleanJSON(raw)
	if obj == "" || json.Unmarshal([]byte(obj), &decoded) != nil {
		return nil, eris.Wrapf(ErrLLMOutputMalformed, "no json object in %d bytes of model output", len(raw))
	}

	incident, err := validate.Incident(decoded, hints, text)
	if err != nil {
		return nil, err
	}

	zap.L().Debug("incident extracted",
		zap.Bool("time_invalid", incident.TimeIsInvalid()),
	)

	return incident, nil
}
