// Package main provides the Lambda entry point for the catalog stage.
//
// Triggered by S3 ObjectCreated events on the results bucket. Reads the
// GenerationResult artifact and appends one catalog entry per question,
// each with a fresh unique id and write timestamp, then fires the
// downstream batch workflow. Delivery is at-least-once: a redelivered
// event inserts duplicate entries with distinct ids, by design.
//
// Memory: 128 MB
// Timeout: 1 minute
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog/log"

	"github.com/mpark/ankimozzi/internal/artifact"
	"github.com/mpark/ankimozzi/internal/catalog"
	"github.com/mpark/ankimozzi/internal/deck"
	"github.com/mpark/ankimozzi/internal/lambdaboot"
	"github.com/mpark/ankimozzi/internal/logging"
	"github.com/mpark/ankimozzi/internal/metrics"
	"github.com/mpark/ankimozzi/internal/pipeline"
	"github.com/mpark/ankimozzi/internal/workflow"
)

var coldStart = true

// Collaborator clients initialized at cold start.
var (
	artifacts   *artifact.Store
	entries     catalog.Catalog
	runs        *pipeline.RunStore
	trigger     workflow.Trigger
	triggerMode workflow.Mode
)

func init() {
	initStart := time.Now()
	logging.Init()

	awsClients := lambdaboot.InitAWS()
	artifacts = lambdaboot.InitArtifacts(awsClients.Config)
	dynamoCatalog := lambdaboot.InitCatalog(awsClients.Config, "CATALOG_TABLE_NAME")
	entries = dynamoCatalog
	runs = pipeline.NewRunStore(dynamoCatalog.Client(), os.Getenv("CATALOG_TABLE_NAME"))
	trigger = lambdaboot.InitWorkflowTrigger(awsClients.Config)
	triggerMode = workflow.ModeFromEnv(os.Getenv("WORKFLOW_TRIGGER_MODE"))

	startup := lambdaboot.StartupLog("catalog-lambda", initStart).
		DynamoTable("catalog", os.Getenv("CATALOG_TABLE_NAME")).
		Config("triggerMode", string(triggerMode)).
		Feature("workflowTrigger", trigger != nil)
	if arn := os.Getenv("WORKFLOW_STATE_MACHINE_ARN"); arn != "" {
		startup = startup.StateMachine("batch", arn)
	}
	if bus := os.Getenv("WORKFLOW_EVENT_BUS"); bus != "" {
		startup = startup.EventBus("batch", bus)
	}
	startup.Log()
}

func main() {
	lambda.Start(handler)
}

func handler(ctx context.Context, event events.S3Event) (pipeline.Response, error) {
	if coldStart {
		coldStart = false
		log.Info().Str("function", "catalog-lambda").Msg("Cold start — first invocation")
	}
	stageStart := time.Now()
	rec := metrics.ForStage("catalog")
	defer rec.Flush()

	refs, err := pipeline.DecodeS3Event(event)
	if err != nil {
		return pipeline.BadInput(err.Error()), nil
	}
	source := refs[0]
	log.Info().Str("bucket", source.Bucket).Str("key", source.Key).Msg("Generation result received")
	rec.Property("key", source.Key)

	var result deck.GenerationResult
	correlationID, err := artifacts.GetJSON(ctx, source, &result)
	if err != nil {
		return pipeline.CollaboratorFailure("failed to read generation result", err), nil
	}
	if correlationID == "" {
		correlationID = result.CorrelationID
	}

	if len(result.Questions) == 0 {
		rec.Count("EmptyResults")
		return pipeline.BadInput("generation result contains no questions"), nil
	}
	if result.Category == "" {
		// Uncategorized results are rejected here rather than stored under
		// an empty partition key.
		rec.Count("MissingCategory")
		return pipeline.BadInput("generation result has no category; not cataloged"), nil
	}

	url := source.URL()
	title := deck.Title(source.Key)
	written := 0
	for _, qa := range result.Questions {
		entry, err := entries.PutEntry(ctx, result.Category, qa.Question, url)
		if err != nil {
			rec.Count("WriteFailure")
			return pipeline.CollaboratorFailure(
				fmt.Sprintf("failed to write catalog entry %d of %d", written+1, len(result.Questions)), err), nil
		}
		written++

		if trigger != nil && triggerMode == workflow.ModePerEntry {
			startWorkflow(ctx, rec, workflow.StartInput{
				Category:      result.Category,
				Question:      qa.Question,
				EntryID:       entry.ID,
				CorrelationID: correlationID,
			})
		}
	}

	if trigger != nil && triggerMode == workflow.ModePerResult {
		startWorkflow(ctx, rec, workflow.StartInput{
			Category:      result.Category,
			Question:      title,
			CorrelationID: correlationID,
		})
	}

	runs.MarkBestEffort(ctx, correlationID, pipeline.StateCataloged, source.Key)

	rec.Metric("EntriesWritten", float64(written), metrics.UnitCount)
	rec.Latency("StageLatencyMs", stageStart)
	log.Info().
		Str("category", result.Category).
		Int("entries", written).
		Str("correlationId", correlationID).
		Msg("Catalog entries written")
	return pipeline.OK(fmt.Sprintf("cataloged %d entries for category %s", written, result.Category)), nil
}

// startWorkflow fires the batch trigger; failures are logged but do not
// fail the stage — the catalog write already happened and the downstream
// workflow is debounced.
func startWorkflow(ctx context.Context, rec *metrics.Recorder, input workflow.StartInput) {
	if err := trigger.Start(ctx, input); err != nil {
		rec.Count("TriggerFailure")
		log.Error().Err(err).Str("category", input.Category).Msg("Failed to start batch workflow")
	}
}
