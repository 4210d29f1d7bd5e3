// Package pipeline makes the cross-stage coordination contract explicit:
// trigger event decoding, artifact key derivation, correlation ids, the
// per-run state machine, and the uniform stage response every Lambda
// returns regardless of outcome.
package pipeline

import (
	"encoding/json"

	"github.com/rs/zerolog/log"
)

// Outcome classifies a stage result per the error taxonomy. Stages never
// propagate raw collaborator errors past their boundary; every failure is
// folded into one of these kinds.
type Outcome string

const (
	// OutcomeOK is a successful stage run.
	OutcomeOK Outcome = "ok"
	// OutcomeBadInput is a malformed input: unsupported media kind,
	// missing transcript list, absent questions list. Not retried.
	OutcomeBadInput Outcome = "bad_input"
	// OutcomeCollaborator is a storage/transcribe/model/catalog failure.
	// No internal retry; at-least-once redelivery is the retry mechanism.
	OutcomeCollaborator Outcome = "collaborator_failure"
	// OutcomeParser is the hard parser failure: zero pairs extracted.
	OutcomeParser Outcome = "parser_failure"
)

// Response is the uniform {statusCode, body} result every stage returns,
// success or failure. The body is a small JSON document.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

type responseBody struct {
	Outcome Outcome `json:"outcome"`
	Message string  `json:"message"`
}

// OK builds a 200 response.
func OK(message string) Response {
	return buildResponse(200, OutcomeOK, message)
}

// BadInput builds a 400 response for malformed input.
func BadInput(message string) Response {
	return buildResponse(400, OutcomeBadInput, message)
}

// CollaboratorFailure builds a 500 response wrapping an external failure.
// The underlying error message is surfaced uninterpreted.
func CollaboratorFailure(message string, err error) Response {
	log.Error().Err(err).Msg(message)
	return buildResponse(500, OutcomeCollaborator, message+": "+err.Error())
}

// ParserFailure builds a 500 response for the hard zero-pairs parser error.
func ParserFailure(err error) Response {
	log.Error().Err(err).Msg("Completion could not be parsed")
	return buildResponse(500, OutcomeParser, err.Error())
}

func buildResponse(status int, outcome Outcome, message string) Response {
	b, err := json.Marshal(responseBody{Outcome: outcome, Message: message})
	if err != nil {
		// responseBody marshaling cannot fail for string fields
		b = []byte(`{"outcome":"collaborator_failure","message":"response encoding failed"}`)
	}
	return Response{StatusCode: status, Body: string(b)}
}
