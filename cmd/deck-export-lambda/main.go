// Package main provides the Lambda entry point for deck export.
//
// API Gateway endpoint: given ?deck_name=<name>, locates the deck's
// generation-result artifact by its deterministic key and renders the
// questions as tab-delimited answer/question lines. An absent artifact is
// a "processing" response with HTTP 200 — the front end polls this
// endpoint while the pipeline is still running.
//
// Memory: 128 MB
// Timeout: 10 seconds
package main

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog/log"

	"github.com/mpark/ankimozzi/internal/artifact"
	"github.com/mpark/ankimozzi/internal/deck"
	"github.com/mpark/ankimozzi/internal/httpapi"
	"github.com/mpark/ankimozzi/internal/lambdaboot"
	"github.com/mpark/ankimozzi/internal/logging"
	"github.com/mpark/ankimozzi/internal/metrics"
	"github.com/mpark/ankimozzi/internal/pipeline"
)

// Collaborator clients initialized at cold start.
var (
	artifacts     *artifact.Store
	resultsBucket string
)

func init() {
	initStart := time.Now()
	logging.Init()

	awsClients := lambdaboot.InitAWS()
	artifacts = lambdaboot.InitArtifacts(awsClients.Config)
	resultsBucket = lambdaboot.RequireBucket("RESULTS_BUCKET_NAME")

	lambdaboot.StartupLog("deck-export-lambda", initStart).
		S3Bucket("results", resultsBucket).
		Log()
}

func main() {
	lambda.Start(handler)
}

func handler(ctx context.Context, request events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	rec := metrics.ForStage("export")
	defer rec.Flush()
	requestStart := time.Now()

	deckName := request.QueryStringParameters["deck_name"]
	if deckName == "" {
		return httpapi.Error(400, "'deck_name' is missing in the query parameters.")
	}
	rec.Property("deckName", deckName)

	ref := pipeline.ObjectRef{Bucket: resultsBucket, Key: deck.ResultKey(deckName)}
	log.Debug().Str("deckName", deckName).Str("key", ref.Key).Msg("Export requested")

	var result deck.GenerationResult
	if _, err := artifacts.GetJSON(ctx, ref, &result); err != nil {
		if errors.Is(err, artifact.ErrNotFound) {
			rec.Count("Processing")
			return httpapi.Processing("File not yet available. Please try again.")
		}
		rec.Count("ExportFailure")
		log.Error().Err(err).Str("deckName", deckName).Msg("Failed to read generation result")
		return httpapi.Error(500, "An unexpected error occurred: "+err.Error())
	}

	if len(result.Questions) == 0 {
		rec.Count("InvalidResult")
		return httpapi.Error(400, "JSON data does not contain a valid 'questions' list.")
	}

	rec.Count("Exports")
	rec.Latency("ExportLatencyMs", requestStart)
	log.Info().Str("deckName", deckName).Int("questions", len(result.Questions)).Msg("Deck exported")
	return httpapi.Complete("File is ready.", deck.RenderTSV(result.Questions))
}
