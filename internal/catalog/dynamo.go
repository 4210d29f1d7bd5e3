package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// runPKPrefix marks run-state records sharing the catalog table (see
// internal/pipeline). Reads skip these partitions.
const runPKPrefix = "RUN#"

// DynamoCatalog implements Catalog on a DynamoDB table with partition key
// "category" (S) and sort key "id" (S).
type DynamoCatalog struct {
	client    *dynamodb.Client
	tableName string
}

// Compile-time interface check.
var _ Catalog = (*DynamoCatalog)(nil)

// NewDynamoCatalog creates a DynamoCatalog for the given table.
// The client should be initialized from the shared AWS config.
func NewDynamoCatalog(client *dynamodb.Client, tableName string) *DynamoCatalog {
	return &DynamoCatalog{client: client, tableName: tableName}
}

// Client exposes the underlying DynamoDB client so stages can share it
// (e.g. the run-state store writes to the same table).
func (c *DynamoCatalog) Client() *dynamodb.Client {
	return c.client
}

// PutEntry implements Catalog.
func (c *DynamoCatalog) PutEntry(ctx context.Context, category, question, url string) (Entry, error) {
	if category == "" {
		return Entry{}, ErrEmptyCategory
	}

	entry := Entry{
		Category:  category,
		ID:        uuid.NewString(),
		Question:  question,
		URL:       url,
		Timestamp: time.Now().Unix(),
	}

	item, err := attributevalue.MarshalMap(entry)
	if err != nil {
		return Entry{}, fmt.Errorf("marshal entry: %w", err)
	}

	_, err = c.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &c.tableName,
		Item:      item,
	})
	if err != nil {
		return Entry{}, fmt.Errorf("PutItem category=%s id=%s: %w", category, entry.ID, err)
	}

	log.Info().
		Str("category", category).
		Str("id", entry.ID).
		Str("question", question).
		Msg("Catalog entry written")
	return entry, nil
}

// Categories implements Catalog. Full scan projected to the category
// attribute, deduplicated at read time and sorted for a stable API.
func (c *DynamoCatalog) Categories(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})

	input := &dynamodb.ScanInput{
		TableName:            &c.tableName,
		ProjectionExpression: aws.String("category"),
	}
	for {
		result, err := c.client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("Scan categories: %w", err)
		}
		for _, item := range result.Items {
			var row struct {
				Category string `dynamodbav:"category"`
			}
			if err := attributevalue.UnmarshalMap(item, &row); err != nil {
				return nil, fmt.Errorf("unmarshal category: %w", err)
			}
			if row.Category == "" || strings.HasPrefix(row.Category, runPKPrefix) {
				continue
			}
			seen[row.Category] = struct{}{}
		}
		if result.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}

	categories := make([]string, 0, len(seen))
	for category := range seen {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	return categories, nil
}

// EntriesByCategory implements Catalog.
func (c *DynamoCatalog) EntriesByCategory(ctx context.Context, category string) ([]QuestionRef, error) {
	refs := []QuestionRef{}

	input := &dynamodb.QueryInput{
		TableName:              &c.tableName,
		KeyConditionExpression: aws.String("category = :category"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":category": &types.AttributeValueMemberS{Value: category},
		},
	}
	for {
		result, err := c.client.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("Query category=%s: %w", category, err)
		}
		for _, item := range result.Items {
			var entry Entry
			if err := attributevalue.UnmarshalMap(item, &entry); err != nil {
				return nil, fmt.Errorf("unmarshal entry: %w", err)
			}
			refs = append(refs, QuestionRef{Question: entry.Question, URL: entry.URL})
		}
		if result.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}
	return refs, nil
}
