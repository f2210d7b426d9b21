package main

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/relato-labs/incident-cli/internal/pipeline"
	"github.com/relato-labs/incident-cli/internal/textproc"
	"github.com/relato-labs/incident-cli/pkg/claude"
	"github.com/relato-labs/incident-cli/pkg/ollama"
)

// initExtractor wires the configured LLM provider and vocabulary into an
// extraction pipeline.
func initExtractor() (*pipeline.Extractor, error) {
	vocab, err := textproc.LoadVocabulary(cfg.Vocabulary.Path)
	if err != nil {
		return nil, eris.Wrap(err, "load vocabulary")
	}

	llm, err := initLLM()
	if err != nil {
		return nil, err
	}

	ref, err := cfg.Pipeline.ReferenceDateOrNow()
	if err != nil {
		return nil, err
	}

	zap.L().Info("pipeline initialized",
		zap.String("provider", cfg.LLM.Provider),
		zap.Int("vocabulary_terms", vocab.Len()),
		zap.Time("reference_date", ref),
	)

	return pipeline.New(llm, vocab,
		pipeline.WithReferenceDate(ref),
		pipeline.WithTimeout(cfg.LLM.Timeout()),
	), nil
}

func initLLM() (pipeline.CompletionClient, error) {
	switch cfg.LLM.Provider {
	case "", "ollama":
		return ollama.NewClient(
			ollama.WithBaseURL(cfg.Ollama.BaseURL),
			ollama.WithModel(cfg.Ollama.Model),
		), nil
	case "claude":
		if cfg.Anthropic.Key == "" {
			return nil, eris.New("anthropic.key is required for the claude provider")
		}
		return claude.NewClient(cfg.Anthropic.Key,
			claude.WithModel(cfg.Anthropic.Model),
			claude.WithMaxTokens(cfg.Anthropic.MaxTokens),
		), nil
	default:
		return nil, eris.Errorf("unknown llm provider %q", cfg.LLM.Provider)
	}
}
