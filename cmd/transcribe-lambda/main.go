// Package main provides the Lambda entry point for the transcription stage.
//
// Triggered by S3 ObjectCreated events on the media intake bucket. For each
// uploaded media asset it validates the media kind, verifies the object
// exists, and starts an Amazon Transcribe job whose output JSON lands in
// the transcripts bucket — where the next stage's trigger picks it up.
//
// Memory: 128 MB
// Timeout: 30 seconds
package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog/log"

	"github.com/mpark/ankimozzi/internal/artifact"
	"github.com/mpark/ankimozzi/internal/lambdaboot"
	"github.com/mpark/ankimozzi/internal/logging"
	"github.com/mpark/ankimozzi/internal/metrics"
	"github.com/mpark/ankimozzi/internal/pipeline"
	"github.com/mpark/ankimozzi/internal/transcription"
)

var coldStart = true

// Collaborator clients initialized at cold start.
var (
	artifacts         *artifact.Store
	submitter         *transcription.Submitter
	runs              *pipeline.RunStore
	transcriptsBucket string
)

func init() {
	initStart := time.Now()
	logging.Init()

	awsClients := lambdaboot.InitAWS()
	artifacts = lambdaboot.InitArtifacts(awsClients.Config)
	transcriptsBucket = lambdaboot.RequireBucket("TRANSCRIPTS_BUCKET_NAME")
	submitter = transcription.NewSubmitter(lambdaboot.InitTranscribe(awsClients.Config), transcriptsBucket)
	runs = lambdaboot.InitRunStore(awsClients.Config, "CATALOG_TABLE_NAME")

	lambdaboot.StartupLog("transcribe-lambda", initStart).
		S3Bucket("transcripts", transcriptsBucket).
		Feature("runTracking", runs != nil).
		Log()
}

func main() {
	lambda.Start(handler)
}

func handler(ctx context.Context, event events.S3Event) (pipeline.Response, error) {
	if coldStart {
		coldStart = false
		log.Info().Str("function", "transcribe-lambda").Msg("Cold start — first invocation")
	}
	stageStart := time.Now()
	rec := metrics.ForStage("transcribe")
	defer rec.Flush()

	refs, err := pipeline.DecodeS3Event(event)
	if err != nil {
		return pipeline.BadInput(err.Error()), nil
	}
	media := refs[0]
	log.Info().Str("bucket", media.Bucket).Str("key", media.Key).Msg("Media upload received")
	rec.Property("key", media.Key)

	if _, err := transcription.MediaFormat(media.Key); err != nil {
		rec.Count("UnsupportedMedia")
		return pipeline.BadInput(err.Error()), nil
	}

	if err := artifacts.Exists(ctx, media); err != nil {
		if errors.Is(err, artifact.ErrNotFound) {
			return pipeline.BadInput(fmt.Sprintf("media object not found: %s", media)), nil
		}
		return pipeline.CollaboratorFailure("failed to check media object", err), nil
	}

	correlationID := pipeline.DeriveCorrelationID(transcription.JobName(media.Key))
	runs.MarkBestEffort(ctx, correlationID, pipeline.StateUploaded, media.Key)

	jobName, err := submitter.Submit(ctx, media)
	if err != nil {
		rec.Count("SubmitFailure")
		return pipeline.CollaboratorFailure("failed to start transcription job", err), nil
	}
	runs.MarkBestEffort(ctx, correlationID, pipeline.StateTranscribed, media.Key)

	rec.Count("JobsStarted")
	rec.Latency("StageLatencyMs", stageStart)
	log.Info().Str("jobName", jobName).Str("correlationId", correlationID).Msg("Transcription job started")
	return pipeline.OK("transcription job started: " + jobName), nil
}
