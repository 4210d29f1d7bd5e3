package pipeline

import (
	"testing"

	"github.com/aws/aws-lambda-go/events"
)

func s3Event(entries ...[2]string) events.S3Event {
	var event events.S3Event
	for _, e := range entries {
		event.Records = append(event.Records, events.S3EventRecord{
			S3: events.S3Entity{
				Bucket: events.S3Bucket{Name: e[0]},
				Object: events.S3Object{Key: e[1]},
			},
		})
	}
	return event
}

func TestDecodeS3Event(t *testing.T) {
	refs, err := DecodeS3Event(s3Event([2]string{"media-bucket", "lecture1.mp4"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(refs) != 1 {
		t.Fatalf("got %d refs, want 1", len(refs))
	}
	if refs[0].Bucket != "media-bucket" || refs[0].Key != "lecture1.mp4" {
		t.Errorf("ref = %+v", refs[0])
	}
}

func TestDecodeS3Event_PercentDecoding(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"my+lecture.mp4", "my lecture.mp4"},
		{"my%20lecture.mp4", "my lecture.mp4"},
		{"a%26b.mp4", "a&b.mp4"},
		{"plain.mp4", "plain.mp4"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			refs, err := DecodeS3Event(s3Event([2]string{"b", tt.raw}))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if refs[0].Key != tt.want {
				t.Errorf("key = %q, want %q", refs[0].Key, tt.want)
			}
		})
	}
}

func TestDecodeS3Event_NoRecords(t *testing.T) {
	if _, err := DecodeS3Event(events.S3Event{}); err == nil {
		t.Error("expected error for event with no records")
	}
}

func TestDecodeS3Event_MultipleRecords(t *testing.T) {
	refs, err := DecodeS3Event(s3Event(
		[2]string{"b", "one.mp4"},
		[2]string{"b", "two.mp4"},
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("got %d refs, want 2", len(refs))
	}
	if refs[0].Key != "one.mp4" || refs[1].Key != "two.mp4" {
		t.Errorf("refs = %+v", refs)
	}
}

func TestObjectRef_URL(t *testing.T) {
	ref := ObjectRef{Bucket: "results-bucket", Key: "transcribe-lecture1.mp4.json"}
	want := "https://results-bucket.s3.amazonaws.com/transcribe-lecture1.mp4.json"
	if got := ref.URL(); got != want {
		t.Errorf("URL() = %q, want %q", got, want)
	}
}

func TestObjectRef_String(t *testing.T) {
	ref := ObjectRef{Bucket: "media-bucket", Key: "lecture1.mp4"}
	if got := ref.String(); got != "s3://media-bucket/lecture1.mp4" {
		t.Errorf("String() = %q", got)
	}
}
