package pipeline

import "github.com/rotisserie/eris"

var (
	// ErrLLMUnavailable means the completion endpoint could not be reached
	// or did not answer before the timeout. Surfaced as-is; retries, if any,
	// belong to the caller.
	ErrLLMUnavailable = eris.New("llm unavailable")

	// ErrLLMOutputMalformed means no well-formed JSON object could be
	// extracted from the model response.
	ErrLLMOutputMalformed = eris.New("llm output malformed")
)
