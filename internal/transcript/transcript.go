// Package transcript models the Amazon Transcribe output document and
// extracts the plain text the generation stage consumes.
package transcript

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoTranscripts is returned when the document carries an empty or absent
// transcript list. Malformed input, not retried.
var ErrNoTranscripts = errors.New("no transcripts found in the transcription document")

// Document is the subset of the Transcribe job output we consume.
// The wire format is fixed by Amazon Transcribe.
type Document struct {
	JobName string  `json:"jobName"`
	Results Results `json:"results"`
}

// Results holds the transcript segments.
type Results struct {
	Transcripts []Segment `json:"transcripts"`
}

// Segment is one transcript chunk.
type Segment struct {
	Transcript string `json:"transcript"`
}

// ExtractText parses a raw Transcribe output document and joins all
// transcript segments with single spaces into one normalized text.
func ExtractText(raw []byte) (string, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return "", fmt.Errorf("decode transcription document: %w", err)
	}
	if len(doc.Results.Transcripts) == 0 {
		return "", ErrNoTranscripts
	}
	parts := make([]string, 0, len(doc.Results.Transcripts))
	for _, seg := range doc.Results.Transcripts {
		parts = append(parts, seg.Transcript)
	}
	return strings.Join(parts, " "), nil
}
