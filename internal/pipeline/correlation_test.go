package pipeline

import (
	"testing"

	"github.com/google/uuid"
)

func TestDeriveCorrelationID_Deterministic(t *testing.T) {
	a := DeriveCorrelationID("transcribe-lecture1.mp4")
	b := DeriveCorrelationID("transcribe-lecture1.mp4")
	if a != b {
		t.Errorf("same run key produced %q and %q", a, b)
	}
	if _, err := uuid.Parse(a); err != nil {
		t.Errorf("derived id %q is not a UUID: %v", a, err)
	}
}

func TestDeriveCorrelationID_DistinctRuns(t *testing.T) {
	a := DeriveCorrelationID("transcribe-lecture1.mp4")
	b := DeriveCorrelationID("transcribe-lecture2.mp4")
	if a == b {
		t.Error("distinct run keys produced the same correlation id")
	}
}

func TestRunKeyFromArtifact(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"transcribe-lecture1.mp4.json", "transcribe-lecture1.mp4"},
		{"transcribe-lecture1.mp4.txt", "transcribe-lecture1.mp4"},
		{"texts/transcribe-lecture1.mp4.txt", "transcribe-lecture1.mp4"},
		{"noext", "noext"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := RunKeyFromArtifact(tt.key); got != tt.want {
				t.Errorf("RunKeyFromArtifact(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestStagesDeriveSameID(t *testing.T) {
	// The transcript and the normalized text artifacts of one run must map
	// back to the same correlation id even though Transcribe strips metadata.
	jobName := "transcribe-lecture1.mp4"
	fromUpload := DeriveCorrelationID(jobName)
	fromTranscript := DeriveCorrelationID(RunKeyFromArtifact("transcribe-lecture1.mp4.json"))
	fromText := DeriveCorrelationID(RunKeyFromArtifact("transcribe-lecture1.mp4.txt"))

	if fromUpload != fromTranscript || fromUpload != fromText {
		t.Errorf("ids diverged: upload=%s transcript=%s text=%s", fromUpload, fromTranscript, fromText)
	}
}

func TestCorrelationFromMetadata(t *testing.T) {
	tests := []struct {
		name     string
		metadata map[string]string
		want     string
	}{
		{"stripped form", map[string]string{"ankimozzi-correlation": "id-1"}, "id-1"},
		{"raw wire form", map[string]string{"x-amz-meta-ankimozzi-correlation": "id-2"}, "id-2"},
		{"mixed case", map[string]string{"Ankimozzi-Correlation": "id-3"}, "id-3"},
		{"absent", map[string]string{"content-type": "video/mp4"}, ""},
		{"nil map", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CorrelationFromMetadata(tt.metadata); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
