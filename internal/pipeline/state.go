package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog/log"
)

// State is one step of the per-run workflow state machine. Transitions are
// driven by artifact-creation events; the persisted record replaces
// guessing a run's progress from key suffixes alone.
type State string

const (
	StateUploaded    State = "uploaded"
	StateTranscribed State = "transcribed"
	StateNormalized  State = "normalized"
	StateGenerated   State = "generated"
	StateCataloged   State = "cataloged"
)

// StateOrder lists the workflow states in pipeline order.
var StateOrder = []State{StateUploaded, StateTranscribed, StateNormalized, StateGenerated, StateCataloged}

// Follows reports whether next is the direct successor of prev.
func Follows(prev, next State) bool {
	for i, s := range StateOrder[:len(StateOrder)-1] {
		if s == prev {
			return StateOrder[i+1] == next
		}
	}
	return false
}

const runPKPrefix = "RUN#"

// runRecord is the DynamoDB item for one run's current state. It shares
// the catalog table; RUN# partition keys cannot collide with category
// names because categories are single words from the model.
type runRecord struct {
	PK        string `dynamodbav:"category"`
	SK        string `dynamodbav:"id"`
	State     string `dynamodbav:"state"`
	SourceKey string `dynamodbav:"source_key"`
	UpdatedAt int64  `dynamodbav:"timestamp"`
}

// dynamoAPI is the subset of the DynamoDB client the RunStore needs.
type dynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// RunStore persists run state transitions. Writes are best-effort: stages
// log and continue when a state write fails, since run tracking must never
// fail the pipeline itself.
type RunStore struct {
	client    dynamoAPI
	tableName string
}

// NewRunStore creates a RunStore backed by the given table.
func NewRunStore(client dynamoAPI, tableName string) *RunStore {
	return &RunStore{client: client, tableName: tableName}
}

// Mark records that the run identified by correlationID has reached state.
// Full-item replacement: the record holds only the latest state. At-least-
// once triggers can redeliver a stale stage event after later stages have
// already run; a transition to anything but the direct successor of the
// current state is skipped so the record never moves backwards.
func (s *RunStore) Mark(ctx context.Context, correlationID string, state State, sourceKey string) error {
	current, err := s.currentState(ctx, correlationID)
	if err != nil {
		return err
	}
	if current != "" && !Follows(current, state) {
		log.Debug().
			Str("correlationId", correlationID).
			Str("current", string(current)).
			Str("state", string(state)).
			Msg("Skipping out-of-order run state transition")
		return nil
	}

	rec := runRecord{
		PK:        runPKPrefix + correlationID,
		SK:        "state",
		State:     string(state),
		SourceKey: sourceKey,
		UpdatedAt: time.Now().Unix(),
	}
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshal run record: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &s.tableName,
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("PutItem run %s: %w", correlationID, err)
	}
	log.Debug().Str("correlationId", correlationID).Str("state", string(state)).Str("sourceKey", sourceKey).Msg("Run state advanced")
	return nil
}

// currentState reads the run's persisted state, "" when no record exists.
func (s *RunStore) currentState(ctx context.Context, correlationID string) (State, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"category": &types.AttributeValueMemberS{Value: runPKPrefix + correlationID},
			"id":       &types.AttributeValueMemberS{Value: "state"},
		},
	})
	if err != nil {
		return "", fmt.Errorf("GetItem run %s: %w", correlationID, err)
	}
	if result.Item == nil {
		return "", nil
	}
	var rec runRecord
	if err := attributevalue.UnmarshalMap(result.Item, &rec); err != nil {
		return "", fmt.Errorf("unmarshal run record: %w", err)
	}
	return State(rec.State), nil
}

// MarkBestEffort is Mark with the failure downgraded to a warning.
// Nil receivers are tolerated so stages can run with tracking disabled.
func (s *RunStore) MarkBestEffort(ctx context.Context, correlationID string, state State, sourceKey string) {
	if s == nil || correlationID == "" {
		return
	}
	if err := s.Mark(ctx, correlationID, state, sourceKey); err != nil {
		log.Warn().Err(err).Str("correlationId", correlationID).Str("state", string(state)).Msg("Run state write failed")
	}
}
