// Package main provides the Lambda entry point for the normalization stage.
//
// Triggered by S3 ObjectCreated events on the transcripts bucket. Extracts
// the plain text from the Transcribe output document and writes it as a
// .txt artifact to the processed-text bucket under the same key with the
// extension swapped — the naming convention the generation stage's trigger
// depends on.
//
// Memory: 128 MB
// Timeout: 30 seconds
package main

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog/log"

	"github.com/mpark/ankimozzi/internal/artifact"
	"github.com/mpark/ankimozzi/internal/deck"
	"github.com/mpark/ankimozzi/internal/lambdaboot"
	"github.com/mpark/ankimozzi/internal/logging"
	"github.com/mpark/ankimozzi/internal/metrics"
	"github.com/mpark/ankimozzi/internal/pipeline"
	"github.com/mpark/ankimozzi/internal/transcript"
)

var coldStart = true

// Collaborator clients initialized at cold start.
var (
	artifacts       *artifact.Store
	runs            *pipeline.RunStore
	processedBucket string
)

func init() {
	initStart := time.Now()
	logging.Init()

	awsClients := lambdaboot.InitAWS()
	artifacts = lambdaboot.InitArtifacts(awsClients.Config)
	processedBucket = lambdaboot.RequireBucket("PROCESSED_TEXT_BUCKET_NAME")
	runs = lambdaboot.InitRunStore(awsClients.Config, "CATALOG_TABLE_NAME")

	lambdaboot.StartupLog("normalize-lambda", initStart).
		S3Bucket("processedText", processedBucket).
		Feature("runTracking", runs != nil).
		Log()
}

func main() {
	lambda.Start(handler)
}

func handler(ctx context.Context, event events.S3Event) (pipeline.Response, error) {
	if coldStart {
		coldStart = false
		log.Info().Str("function", "normalize-lambda").Msg("Cold start — first invocation")
	}
	stageStart := time.Now()
	rec := metrics.ForStage("normalize")
	defer rec.Flush()

	refs, err := pipeline.DecodeS3Event(event)
	if err != nil {
		return pipeline.BadInput(err.Error()), nil
	}
	source := refs[0]

	// Transcribe writes a sibling .temp object while the job runs; only
	// the final .json document is a transcript.
	if !strings.HasSuffix(source.Key, ".json") {
		log.Debug().Str("key", source.Key).Msg("Skipping non-transcript object")
		return pipeline.OK("skipped non-transcript object"), nil
	}
	log.Info().Str("bucket", source.Bucket).Str("key", source.Key).Msg("Transcript received")
	rec.Property("key", source.Key)

	raw, correlationID, err := artifacts.Get(ctx, source)
	if err != nil {
		return pipeline.CollaboratorFailure("failed to read transcript", err), nil
	}
	// Transcribe cannot attach metadata, so the id is usually re-derived here.
	if correlationID == "" {
		correlationID = pipeline.DeriveCorrelationID(pipeline.RunKeyFromArtifact(source.Key))
	}

	text, err := transcript.ExtractText(raw)
	if err != nil {
		if errors.Is(err, transcript.ErrNoTranscripts) {
			rec.Count("EmptyTranscripts")
			return pipeline.BadInput(err.Error()), nil
		}
		return pipeline.BadInput("malformed transcription document: " + err.Error()), nil
	}

	target := pipeline.ObjectRef{
		Bucket: processedBucket,
		Key:    deck.SwapExt(source.Key, ".json", ".txt"),
	}
	if err := artifacts.PutText(ctx, target, text, correlationID); err != nil {
		return pipeline.CollaboratorFailure("failed to write normalized text", err), nil
	}
	runs.MarkBestEffort(ctx, correlationID, pipeline.StateNormalized, target.Key)

	rec.Count("TextsNormalized")
	rec.Metric("TextBytes", float64(len(text)), metrics.UnitBytes)
	rec.Latency("StageLatencyMs", stageStart)
	return pipeline.OK("normalized text written to " + target.String()), nil
}
