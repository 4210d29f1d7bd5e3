// Package lambdaboot provides shared Lambda cold-start bootstrap logic.
//
// Every stage needs some subset of: AWS config, S3, DynamoDB, Transcribe,
// a model provider, the workflow trigger, and startup logging. This package
// extracts the common init patterns so each stage's init() is a short
// composition of helpers. Collaborator clients are created once per process
// and reused across invocations; they are stateless handles with no
// teardown.
package lambdaboot

import (
	"context"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sfn"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	awstranscribe "github.com/aws/aws-sdk-go-v2/service/transcribe"
	"github.com/rs/zerolog/log"

	"github.com/mpark/ankimozzi/internal/artifact"
	"github.com/mpark/ankimozzi/internal/catalog"
	"github.com/mpark/ankimozzi/internal/genmodel"
	"github.com/mpark/ankimozzi/internal/logging"
	"github.com/mpark/ankimozzi/internal/pipeline"
	"github.com/mpark/ankimozzi/internal/workflow"
)

// AWSClients holds the core AWS SDK clients used across stages.
type AWSClients struct {
	Config aws.Config
	SSM    *ssm.Client
}

// InitAWS loads the default AWS config and returns it along with common clients.
func InitAWS() AWSClients {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load AWS config")
	}
	log.Debug().Str("region", cfg.Region).Msg("AWS config loaded")
	return AWSClients{
		Config: cfg,
		SSM:    ssm.NewFromConfig(cfg),
	}
}

// InitArtifacts creates the shared S3-backed artifact store.
func InitArtifacts(cfg aws.Config) *artifact.Store {
	return artifact.NewStore(s3.NewFromConfig(cfg))
}

// InitPresigner creates the presigned-URL issuer for browser uploads.
func InitPresigner(cfg aws.Config) *artifact.Presigner {
	return artifact.NewPresigner(s3.NewPresignClient(s3.NewFromConfig(cfg)))
}

// RequireBucket reads a bucket name from the given environment variable.
// Fatals if the env var is empty.
func RequireBucket(bucketEnvVar string) string {
	bucket := os.Getenv(bucketEnvVar)
	if bucket == "" {
		log.Fatal().Str("envVar", bucketEnvVar).Msg("Bucket environment variable is required")
	}
	return bucket
}

// InitCatalog creates the DynamoDB catalog from the given config and table
// name environment variable. Fatals if the env var is empty.
func InitCatalog(cfg aws.Config, tableEnvVar string) *catalog.DynamoCatalog {
	tableName := os.Getenv(tableEnvVar)
	if tableName == "" {
		log.Fatal().Str("envVar", tableEnvVar).Msg("DynamoDB table environment variable is required")
	}
	return catalog.NewDynamoCatalog(dynamodb.NewFromConfig(cfg), tableName)
}

// InitRunStore creates the run-state store sharing the catalog table.
// Returns nil (with a warning) when the table is not configured; run
// tracking is optional and stages tolerate a nil store.
func InitRunStore(cfg aws.Config, tableEnvVar string) *pipeline.RunStore {
	tableName := os.Getenv(tableEnvVar)
	if tableName == "" {
		log.Warn().Str("envVar", tableEnvVar).Msg("Run-state table not set — run tracking disabled")
		return nil
	}
	return pipeline.NewRunStore(dynamodb.NewFromConfig(cfg), tableName)
}

// InitTranscribe creates the Amazon Transcribe client.
func InitTranscribe(cfg aws.Config) *awstranscribe.Client {
	return awstranscribe.NewFromConfig(cfg)
}

// InitProvider selects and constructs the generative-model provider.
// MODEL_PROVIDER=gemini uses the Gemini API (key from GEMINI_API_KEY or
// SSM); anything else uses Bedrock with BEDROCK_MODEL_ID.
func InitProvider(cfg aws.Config, ssmClient *ssm.Client) genmodel.Provider {
	if os.Getenv("MODEL_PROVIDER") == "gemini" {
		LoadGeminiKey(ssmClient)
		provider, err := genmodel.NewGeminiProvider(context.Background(), os.Getenv("GEMINI_API_KEY"), os.Getenv("GEMINI_MODEL"))
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create Gemini provider")
		}
		return provider
	}
	return genmodel.NewBedrockProvider(bedrockruntime.NewFromConfig(cfg), os.Getenv("BEDROCK_MODEL_ID"))
}

// InitWorkflowTrigger constructs the downstream batch workflow trigger.
// WORKFLOW_STATE_MACHINE_ARN selects Step Functions; otherwise
// WORKFLOW_EVENT_BUS selects EventBridge. Returns nil (with a warning)
// when neither is configured — the catalog stage then skips triggering.
func InitWorkflowTrigger(cfg aws.Config) workflow.Trigger {
	if arn := os.Getenv("WORKFLOW_STATE_MACHINE_ARN"); arn != "" {
		return workflow.NewSFNTrigger(sfn.NewFromConfig(cfg), arn)
	}
	if bus := os.Getenv("WORKFLOW_EVENT_BUS"); bus != "" {
		return workflow.NewEventBridgeTrigger(eventbridge.NewFromConfig(cfg), bus)
	}
	log.Warn().Msg("No workflow trigger configured — batch workflow disabled")
	return nil
}

// GeminiKeyParam returns the SSM parameter path holding the Gemini API
// key, overridable via SSM_API_KEY_PARAM.
func GeminiKeyParam() string {
	return logging.EnvOrDefault("SSM_API_KEY_PARAM", "/ankimozzi/prod/gemini-api-key")
}

// LoadGeminiKey fetches the Gemini API key from SSM Parameter Store if not
// already set via GEMINI_API_KEY env var. Fatals on error.
func LoadGeminiKey(ssmClient *ssm.Client) {
	if os.Getenv("GEMINI_API_KEY") != "" {
		return
	}
	paramName := GeminiKeyParam()
	ssmStart := time.Now()
	result, err := ssmClient.GetParameter(context.Background(), &ssm.GetParameterInput{
		Name:           &paramName,
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		log.Fatal().Err(err).Str("param", paramName).Msg("Failed to read API key from SSM")
	}
	os.Setenv("GEMINI_API_KEY", *result.Parameter.Value)
	log.Debug().Str("param", paramName).Dur("elapsed", time.Since(ssmStart)).Msg("Gemini API key loaded from SSM")
}

// StartupLog is a convenience wrapper for the startup logger.
func StartupLog(name string, initStart time.Time) *logging.StartupLogger {
	return logging.NewStartupLogger(name).InitDuration(time.Since(initStart))
}
