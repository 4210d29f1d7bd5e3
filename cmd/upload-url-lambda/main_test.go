package main

import (
	"errors"
	"testing"

	"github.com/mpark/ankimozzi/internal/transcription"
)

func TestParseRequest(t *testing.T) {
	tests := []struct {
		name            string
		body            string
		wantFileName    string
		wantContentType string
		wantError       string
	}{
		{
			name:            "mp4 upload",
			body:            `{"fileName": "lecture1.mp4"}`,
			wantFileName:    "lecture1.mp4",
			wantContentType: "video/mp4",
		},
		{
			name:            "audio upload",
			body:            `{"fileName": "talk.mp3"}`,
			wantFileName:    "talk.mp3",
			wantContentType: "audio/mpeg",
		},
		{
			name:      "empty body",
			body:      "",
			wantError: "File name is required",
		},
		{
			name:      "missing fileName",
			body:      `{}`,
			wantError: "File name is required",
		},
		{
			name:      "malformed JSON",
			body:      `{"fileName":`,
			wantError: "invalid request body",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fileName, contentType, err := parseRequest(tt.body)
			if tt.wantError != "" {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.wantError)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if fileName != tt.wantFileName {
				t.Errorf("fileName = %q, want %q", fileName, tt.wantFileName)
			}
			if contentType != tt.wantContentType {
				t.Errorf("contentType = %q, want %q", contentType, tt.wantContentType)
			}
		})
	}
}

func TestParseRequest_UnsupportedFormat(t *testing.T) {
	_, _, err := parseRequest(`{"fileName": "slides.pdf"}`)
	if !errors.Is(err, transcription.ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
}
