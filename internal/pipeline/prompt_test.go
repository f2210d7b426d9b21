package pipeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/relato-labs/incident-cli/internal/textproc"
)

func TestCleanJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain object", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"surrounding prose", `aqui esta: {"a": 1} pronto`, `{"a": 1}`},
		{"nested braces", `{"a": {"b": 2}}`, `{"a": {"b": 2}}`},
		{"no object", "nada aqui", "nada aqui"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanJSON(tt.input))
		})
	}
}

func TestHintBlock_Empty(t *testing.T) {
	assert.Empty(t, hintBlock(nil, ""))
}

func TestHintBlock_Hints(t *testing.T) {
	hints := []textproc.TemporalHint{
		{Span: "ontem", Kind: textproc.HintRelativeDate, Canonical: "2026-02-22", Valid: true},
		{Span: "73h", Kind: textproc.HintTime, Canonical: "73:00", Valid: false},
	}

	block := hintBlock(hints, "")

	assert.Contains(t, block, "data resolvida: 2026-02-22")
	assert.Contains(t, block, "valor impossível")
	assert.Contains(t, block, `"73h"`)
}

func TestHintBlock_ExtraOnly(t *testing.T) {
	block := hintBlock(nil, "turno da noite")

	assert.Contains(t, block, "Contexto adicional: turno da noite")
}

func TestBuildPrompt_EmbedsText(t *testing.T) {
	prompt := buildPrompt("houve um incendio em 2026-02-22", nil, "")

	assert.Contains(t, prompt, "houve um incendio em 2026-02-22")
	assert.Contains(t, prompt, "occurred_at")
	assert.True(t, strings.Contains(prompt, "INVALID"))
}
