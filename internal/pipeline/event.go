package pipeline

import (
	"fmt"
	"net/url"

	"github.com/aws/aws-lambda-go/events"
)

// ObjectRef identifies one artifact by container and key.
type ObjectRef struct {
	Bucket string
	Key    string
}

// URL returns the public-style S3 URL of the object, matching the reference
// URL format stored on catalog entries.
func (r ObjectRef) URL() string {
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", r.Bucket, r.Key)
}

// String implements fmt.Stringer as the s3:// URI.
func (r ObjectRef) String() string {
	return fmt.Sprintf("s3://%s/%s", r.Bucket, r.Key)
}

// DecodeS3Event extracts the object references from an S3 trigger event.
// Keys arrive percent-encoded (spaces as "+") and are decoded before use.
// An event with no records is a malformed input.
func DecodeS3Event(event events.S3Event) ([]ObjectRef, error) {
	if len(event.Records) == 0 {
		return nil, fmt.Errorf("S3 event contains no records")
	}
	refs := make([]ObjectRef, 0, len(event.Records))
	for _, record := range event.Records {
		key, err := url.QueryUnescape(record.S3.Object.Key)
		if err != nil {
			return nil, fmt.Errorf("decode object key %q: %w", record.S3.Object.Key, err)
		}
		refs = append(refs, ObjectRef{
			Bucket: record.S3.Bucket.Name,
			Key:    key,
		})
	}
	return refs, nil
}
