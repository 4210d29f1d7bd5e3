// Package workflow fires the downstream batch workflow after catalog
// writes. The source system started a Glue workflow once per entry; here
// the trigger target is a Step Functions state machine or an EventBridge
// bus, and the fan-out is configurable.
package workflow

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	ebtypes "github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/aws/aws-sdk-go-v2/service/sfn"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Mode controls trigger fan-out.
type Mode string

const (
	// ModePerEntry fires once per catalog entry — faithful to the source
	// system, where the downstream workflow is debounced.
	ModePerEntry Mode = "entry"
	// ModePerResult fires once per generation result.
	ModePerResult Mode = "result"
)

// ModeFromEnv parses WORKFLOW_TRIGGER_MODE; anything but "result" means
// per-entry.
func ModeFromEnv(v string) Mode {
	if v == string(ModePerResult) {
		return ModePerResult
	}
	return ModePerEntry
}

// StartInput is the payload handed to the downstream workflow.
type StartInput struct {
	Category      string `json:"category"`
	Question      string `json:"question"`
	EntryID       string `json:"entryId,omitempty"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Trigger starts one downstream batch workflow run.
type Trigger interface {
	Start(ctx context.Context, input StartInput) error
	Name() string
}

// SFNTrigger starts a Step Functions state machine execution.
type SFNTrigger struct {
	client          *sfn.Client
	stateMachineARN string
}

var _ Trigger = (*SFNTrigger)(nil)

// NewSFNTrigger creates a trigger for the given state machine.
func NewSFNTrigger(client *sfn.Client, stateMachineARN string) *SFNTrigger {
	return &SFNTrigger{client: client, stateMachineARN: stateMachineARN}
}

// Name implements Trigger.
func (t *SFNTrigger) Name() string { return "stepfunctions" }

// Start implements Trigger. The execution name is unique per call so
// repeated fan-out never collides with Step Functions' name dedup window.
func (t *SFNTrigger) Start(ctx context.Context, input StartInput) error {
	payload, err := json.Marshal(input)
	if err != nil {
		return fmt.Errorf("encode workflow input: %w", err)
	}
	executionName := executionName(input)
	_, err = t.client.StartExecution(ctx, &sfn.StartExecutionInput{
		StateMachineArn: aws.String(t.stateMachineARN),
		Input:           aws.String(string(payload)),
		Name:            aws.String(executionName),
	})
	if err != nil {
		return fmt.Errorf("start workflow execution %s: %w", executionName, err)
	}
	log.Info().Str("execution", executionName).Str("category", input.Category).Msg("Batch workflow started")
	return nil
}

func executionName(input StartInput) string {
	if input.EntryID != "" {
		return "catalog-" + input.EntryID
	}
	return "catalog-" + uuid.NewString()
}

// EventBridgeTrigger publishes a workflow-start event to a bus, for
// deployments where the batch workflow is rule-driven.
type EventBridgeTrigger struct {
	client  *eventbridge.Client
	busName string
}

var _ Trigger = (*EventBridgeTrigger)(nil)

// NewEventBridgeTrigger creates a trigger publishing to busName.
func NewEventBridgeTrigger(client *eventbridge.Client, busName string) *EventBridgeTrigger {
	return &EventBridgeTrigger{client: client, busName: busName}
}

// Name implements Trigger.
func (t *EventBridgeTrigger) Name() string { return "eventbridge" }

// Start implements Trigger.
func (t *EventBridgeTrigger) Start(ctx context.Context, input StartInput) error {
	detail, err := json.Marshal(input)
	if err != nil {
		return fmt.Errorf("encode workflow event: %w", err)
	}
	result, err := t.client.PutEvents(ctx, &eventbridge.PutEventsInput{
		Entries: []ebtypes.PutEventsRequestEntry{{
			EventBusName: aws.String(t.busName),
			Source:       aws.String("ankimozzi.catalog"),
			DetailType:   aws.String("BatchWorkflowStart"),
			Detail:       aws.String(string(detail)),
		}},
	})
	if err != nil {
		return fmt.Errorf("put workflow event: %w", err)
	}
	if result.FailedEntryCount > 0 {
		return fmt.Errorf("put workflow event: %d entries failed", result.FailedEntryCount)
	}
	log.Info().Str("bus", t.busName).Str("category", input.Category).Msg("Batch workflow event published")
	return nil
}
