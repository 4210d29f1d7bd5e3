// Package httpapi builds the API Gateway responses shared by the query
// Lambdas: the status envelope for deck export polling and plain JSON
// payloads for catalog reads.
package httpapi

import (
	"encoding/json"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog/log"
)

// Statuses of the export envelope. "processing" is deliberately not an
// error: pollers receive it with HTTP 200 and retry later.
const (
	StatusComplete   = "complete"
	StatusProcessing = "processing"
	StatusError      = "error"
)

// Envelope is the response body for deck export.
type Envelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    string `json:"data,omitempty"`
}

// Complete wraps rendered deck data in a 200 "complete" envelope.
func Complete(message, data string) (events.APIGatewayV2HTTPResponse, error) {
	return respond(200, Envelope{Status: StatusComplete, Message: message, Data: data})
}

// Processing signals a not-yet-available artifact with HTTP 200.
func Processing(message string) (events.APIGatewayV2HTTPResponse, error) {
	return respond(200, Envelope{Status: StatusProcessing, Message: message})
}

// Error wraps a failure in the envelope with the given HTTP status.
func Error(statusCode int, message string) (events.APIGatewayV2HTTPResponse, error) {
	return respond(statusCode, Envelope{Status: StatusError, Message: message})
}

// JSON marshals any payload as a JSON response body.
func JSON(statusCode int, v any) (events.APIGatewayV2HTTPResponse, error) {
	return respond(statusCode, v)
}

func respond(statusCode int, v any) (events.APIGatewayV2HTTPResponse, error) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode API response")
		return events.APIGatewayV2HTTPResponse{
			StatusCode: 500,
			Body:       `{"status":"error","message":"response encoding failed"}`,
			Headers:    map[string]string{"Content-Type": "application/json"},
		}, nil
	}
	return events.APIGatewayV2HTTPResponse{
		StatusCode: statusCode,
		Body:       string(b),
		Headers:    map[string]string{"Content-Type": "application/json"},
	}, nil
}
