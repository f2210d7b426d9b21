package pipeline

import (
	"fmt"
	"strings"

	"github.com/relato-labs/incident-cli/internal/textproc"
)

const promptTemplate = `Você é um assistente de extração de dados estruturados a partir de QUALQUER relato de incidente.

Regras obrigatórias:
- Extraia qualquer informação possível, mesmo que parcial.
- Não invente dados.
- Use null apenas se o campo realmente não puder ser inferido.
- Se o texto mencionar uma hora ou data impossível, preencha occurred_at como "INVALID".

Responda somente com um objeto JSON com estes campos:
- "occurred_at": data e hora do ocorrido no formato YYYY-MM-DD HH:MM, ou null
- "location": cidade, local público ou referência espacial mencionada, ou null
- "incident_type": descrição resumida do que aconteceu, ou null
- "impact": consequência do incidente ou sistemas afetados, ou null

%s

Texto:
"""
%s
"""
`

// buildPrompt assembles the extraction prompt from the preprocessed text,
// the temporal hints and optional caller-supplied context. Hints are passed
// to the model so it receives disambiguated dates instead of re-deriving
// them.
func buildPrompt(cleaned string, hints []textproc.TemporalHint, extra string) string {
	return fmt.Sprintf(promptTemplate, hintBlock(hints, extra), cleaned)
}

// hintBlock renders the pre-extracted information section, or an empty
// string when there is nothing to report.
func hintBlock(hints []textproc.TemporalHint, extra string) string {
	if len(hints) == 0 && extra == "" {
		return ""
	}

	lines := []string{"Informações pré-extraídas pelo sistema:"}
	for _, h := range hints {
		if h.Valid {
			lines = append(lines, fmt.Sprintf("- %s: %s (no texto: %q)", hintLabel(h.Kind), h.Canonical, h.Span))
		} else {
			lines = append(lines, fmt.Sprintf("- %s: valor impossível no texto (%q)", hintLabel(h.Kind), h.Span))
		}
	}

	if extra != "" {
		lines = append(lines, "", "Contexto adicional: "+extra)
	}

	return strings.Join(lines, "\n")
}

func hintLabel(kind textproc.HintKind) string {
	switch kind {
	case textproc.HintRelativeDate, textproc.HintWeekday:
		return "data resolvida"
	case textproc.HintTime:
		return "horário normalizado"
	case textproc.HintWrittenDate, textproc.HintNumericDate:
		return "data normalizada"
	default:
		return string(kind)
	}
}
