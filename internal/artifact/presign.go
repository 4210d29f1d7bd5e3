package artifact

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/mpark/ankimozzi/internal/pipeline"
)

// Presigner issues presigned PutObject URLs so the front end can upload
// media straight to the intake bucket without routing bytes through a
// Lambda.
type Presigner struct {
	client *s3.PresignClient
}

// NewPresigner wraps the S3 presign client.
func NewPresigner(client *s3.PresignClient) *Presigner {
	return &Presigner{client: client}
}

// UploadURL presigns a PutObject for the media object with the correlation
// id attached as signed metadata; the uploader must send the matching
// x-amz-meta header for the signature to validate.
func (p *Presigner) UploadURL(ctx context.Context, ref pipeline.ObjectRef, contentType, correlationID string, expires time.Duration) (string, error) {
	input := &s3.PutObjectInput{
		Bucket:      &ref.Bucket,
		Key:         &ref.Key,
		ContentType: &contentType,
	}
	if correlationID != "" {
		input.Metadata = map[string]string{pipeline.CorrelationMetadataKey: correlationID}
	}
	req, err := p.client.PresignPutObject(ctx, input, s3.WithPresignExpires(expires))
	if err != nil {
		return "", fmt.Errorf("presign upload %s: %w", ref, err)
	}
	return req.URL, nil
}
