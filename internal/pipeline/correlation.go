package pipeline

import (
	"strings"

	"github.com/google/uuid"
)

// CorrelationMetadataKey is the S3 user-metadata key carrying the
// correlation id on every artifact. S3 exposes user metadata with the
// x-amz-meta- prefix on the wire; the SDK strips it.
const CorrelationMetadataKey = "ankimozzi-correlation"

// correlationNamespace is the UUIDv5 namespace for derived correlation ids.
var correlationNamespace = uuid.MustParse("9f2c1e0a-57d4-4f6b-8a34-6d1c20f4b7e3")

// DeriveCorrelationID maps a run key (the transcription job name) to a
// stable correlation id. Deterministic on purpose: Amazon Transcribe writes
// the transcript artifact itself and cannot attach metadata, so the
// normalize stage re-derives the same id from the artifact key, and a
// retried upload maps to the same run.
func DeriveCorrelationID(runKey string) string {
	return uuid.NewSHA1(correlationNamespace, []byte(runKey)).String()
}

// RunKeyFromArtifact recovers the run key from an intermediate artifact
// key by dropping the directory and the final extension:
// "transcribe-lecture.mp4.json" → "transcribe-lecture.mp4".
func RunKeyFromArtifact(key string) string {
	base := key
	if i := strings.LastIndex(base, "/"); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	return base
}

// CorrelationFromMetadata extracts the correlation id from S3 object user
// metadata, tolerating both the stripped and the raw x-amz-meta- form.
// Returns "" when the object carries none (e.g. the transcript artifact,
// which Amazon Transcribe writes on our behalf).
func CorrelationFromMetadata(metadata map[string]string) string {
	for k, v := range metadata {
		name := strings.ToLower(k)
		name = strings.TrimPrefix(name, "x-amz-meta-")
		if name == CorrelationMetadataKey {
			return v
		}
	}
	return ""
}
