// Package main provides the Lambda entry point for the generation stage.
//
// Triggered by S3 ObjectCreated events on the processed-text bucket. Sends
// the normalized text to the generative model wrapped in the fixed
// 20-question prompt, parses the free-text completion into a
// GenerationResult, and writes it as a JSON artifact to the results
// bucket. The write is an idempotent overwrite: a redelivered trigger
// regenerates and replaces, never appends.
//
// Memory: 256 MB
// Timeout: 5 minutes (model inference dominates)
package main

import (
	"context"
	"path"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog/log"

	"github.com/mpark/ankimozzi/internal/artifact"
	"github.com/mpark/ankimozzi/internal/deck"
	"github.com/mpark/ankimozzi/internal/genmodel"
	"github.com/mpark/ankimozzi/internal/lambdaboot"
	"github.com/mpark/ankimozzi/internal/logging"
	"github.com/mpark/ankimozzi/internal/metrics"
	"github.com/mpark/ankimozzi/internal/parser"
	"github.com/mpark/ankimozzi/internal/pipeline"
)

var coldStart = true

// Collaborator clients initialized at cold start.
var (
	artifacts     *artifact.Store
	provider      genmodel.Provider
	runs          *pipeline.RunStore
	resultsBucket string
)

func init() {
	initStart := time.Now()
	logging.Init()

	awsClients := lambdaboot.InitAWS()
	artifacts = lambdaboot.InitArtifacts(awsClients.Config)
	resultsBucket = lambdaboot.RequireBucket("RESULTS_BUCKET_NAME")
	provider = lambdaboot.InitProvider(awsClients.Config, awsClients.SSM)
	runs = lambdaboot.InitRunStore(awsClients.Config, "CATALOG_TABLE_NAME")

	startup := lambdaboot.StartupLog("generate-lambda", initStart).
		S3Bucket("results", resultsBucket).
		Config("modelProvider", provider.Name()).
		Feature("runTracking", runs != nil)
	if provider.Name() == "gemini" {
		startup = startup.SSMParam("geminiApiKey", lambdaboot.GeminiKeyParam())
	}
	startup.Log()
}

func main() {
	lambda.Start(handler)
}

func handler(ctx context.Context, event events.S3Event) (pipeline.Response, error) {
	if coldStart {
		coldStart = false
		log.Info().Str("function", "generate-lambda").Msg("Cold start — first invocation")
	}
	stageStart := time.Now()
	rec := metrics.ForStage("generate")
	defer rec.Flush()

	refs, err := pipeline.DecodeS3Event(event)
	if err != nil {
		return pipeline.BadInput(err.Error()), nil
	}
	source := refs[0]
	log.Info().Str("bucket", source.Bucket).Str("key", source.Key).Msg("Normalized text received")
	rec.Property("key", source.Key)

	raw, correlationID, err := artifacts.Get(ctx, source)
	if err != nil {
		return pipeline.CollaboratorFailure("failed to read normalized text", err), nil
	}
	if correlationID == "" {
		correlationID = pipeline.DeriveCorrelationID(pipeline.RunKeyFromArtifact(source.Key))
	}
	text := string(raw)
	log.Debug().Int("textLength", len(text)).Str("correlationId", correlationID).Msg("Prompting model")

	modelStart := time.Now()
	completion, err := provider.Complete(ctx, genmodel.BuildPrompt(text))
	if err != nil {
		rec.Count("ModelFailure")
		return pipeline.CollaboratorFailure("model invocation failed", err), nil
	}
	rec.Latency("ModelLatencyMs", modelStart)

	parsed, err := parser.Parse(completion)
	if err != nil {
		rec.Count("ParserFailure")
		return pipeline.ParserFailure(err), nil
	}
	if parsed.Category == "" {
		// Soft failure: the result is still written, but the catalog stage
		// will not be able to partition it.
		log.Warn().Str("key", source.Key).Msg("Completion carried no category line")
		rec.Count("MissingCategory")
	}

	result := deck.GenerationResult{
		Category:      parsed.Category,
		FileName:      path.Base(source.Key),
		Questions:     parsed.Questions,
		CorrelationID: correlationID,
	}
	target := pipeline.ObjectRef{
		Bucket: resultsBucket,
		Key:    deck.SwapExt(source.Key, ".txt", ".json"),
	}
	if err := artifacts.PutJSON(ctx, target, result, correlationID); err != nil {
		return pipeline.CollaboratorFailure("failed to write generation result", err), nil
	}
	runs.MarkBestEffort(ctx, correlationID, pipeline.StateGenerated, target.Key)

	rec.Count("ResultsGenerated")
	rec.Metric("QuestionCount", float64(len(parsed.Questions)), metrics.UnitCount)
	rec.Latency("StageLatencyMs", stageStart)
	log.Info().
		Str("category", parsed.Category).
		Int("questions", len(parsed.Questions)).
		Str("key", target.Key).
		Msg("Generation result written")
	return pipeline.OK("generation result written to " + target.String()), nil
}
