// Package artifact reads and writes the pipeline's persisted byte blobs
// (transcripts, normalized text, generation results) in S3, carrying the
// correlation id as object user metadata across stages.
package artifact

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog/log"

	"github.com/mpark/ankimozzi/internal/pipeline"
)

// ErrNotFound is returned when the requested artifact key does not exist.
// The export endpoint maps it to the "processing" outcome rather than an
// error, so polling callers keep retrying.
var ErrNotFound = errors.New("artifact not found")

// Store wraps an S3 client for artifact access. Safe for concurrent use.
type Store struct {
	client *s3.Client
}

// NewStore creates a Store from the shared S3 client.
func NewStore(client *s3.Client) *Store {
	return &Store{client: client}
}

// Get fetches an artifact and returns its bytes plus the correlation id
// from its metadata ("" when absent).
func (s *Store) Get(ctx context.Context, ref pipeline.ObjectRef) ([]byte, string, error) {
	log.Debug().Str("bucket", ref.Bucket).Str("key", ref.Key).Msg("Reading artifact from S3")
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &ref.Bucket,
		Key:    &ref.Key,
	})
	if err != nil {
		if isNotFound(err) {
			return nil, "", fmt.Errorf("%w: %s", ErrNotFound, ref)
		}
		return nil, "", fmt.Errorf("S3 GetObject %s: %w", ref, err)
	}
	defer result.Body.Close()

	body, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read artifact body %s: %w", ref, err)
	}
	return body, pipeline.CorrelationFromMetadata(result.Metadata), nil
}

// GetJSON fetches an artifact and unmarshals it into out. Returns the
// correlation id alongside.
func (s *Store) GetJSON(ctx context.Context, ref pipeline.ObjectRef, out any) (string, error) {
	body, correlationID, err := s.Get(ctx, ref)
	if err != nil {
		return "", err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return correlationID, fmt.Errorf("decode artifact JSON %s: %w", ref, err)
	}
	return correlationID, nil
}

// PutText writes a plain-text artifact with the correlation id attached.
func (s *Store) PutText(ctx context.Context, ref pipeline.ObjectRef, body string, correlationID string) error {
	return s.put(ctx, ref, []byte(body), "text/plain", correlationID)
}

// PutJSON serializes v and writes it as an application/json artifact.
// Same key, same content on retry: an idempotent overwrite, never an append.
func (s *Store) PutJSON(ctx context.Context, ref pipeline.ObjectRef, v any, correlationID string) error {
	body, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("encode artifact JSON %s: %w", ref, err)
	}
	return s.put(ctx, ref, body, "application/json", correlationID)
}

// Exists checks that the object is present, returning ErrNotFound when not.
func (s *Store) Exists(ctx context.Context, ref pipeline.ObjectRef) error {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: &ref.Bucket,
		Key:    &ref.Key,
	})
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, ref)
		}
		return fmt.Errorf("S3 HeadObject %s: %w", ref, err)
	}
	return nil
}

func (s *Store) put(ctx context.Context, ref pipeline.ObjectRef, body []byte, contentType, correlationID string) error {
	input := &s3.PutObjectInput{
		Bucket:      &ref.Bucket,
		Key:         &ref.Key,
		Body:        bytes.NewReader(body),
		ContentType: &contentType,
	}
	if correlationID != "" {
		input.Metadata = map[string]string{pipeline.CorrelationMetadataKey: correlationID}
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("S3 PutObject %s: %w", ref, err)
	}
	log.Info().Str("bucket", ref.Bucket).Str("key", ref.Key).Int("size", len(body)).Str("correlationId", correlationID).Msg("Artifact written")
	return nil
}

func isNotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	var notFound *types.NotFound
	return errors.As(err, &noSuchKey) || errors.As(err, &notFound)
}
