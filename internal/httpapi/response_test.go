package httpapi

import (
	"encoding/json"
	"testing"
)

func TestComplete(t *testing.T) {
	resp, err := Complete("File is ready.", "answer\tquestion\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if resp.Headers["Content-Type"] != "application/json" {
		t.Errorf("Content-Type = %q", resp.Headers["Content-Type"])
	}

	var env Envelope
	if err := json.Unmarshal([]byte(resp.Body), &env); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if env.Status != StatusComplete {
		t.Errorf("status = %q, want %q", env.Status, StatusComplete)
	}
	if env.Data != "answer\tquestion\n" {
		t.Errorf("data = %q", env.Data)
	}
}

func TestProcessing_IsNotAnError(t *testing.T) {
	resp, err := Processing("File not yet available. Please try again.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("status = %d, want 200 — processing is not an error", resp.StatusCode)
	}

	var env Envelope
	if err := json.Unmarshal([]byte(resp.Body), &env); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if env.Status != StatusProcessing {
		t.Errorf("status = %q, want %q", env.Status, StatusProcessing)
	}
	if env.Data != "" {
		t.Errorf("data should be empty, got %q", env.Data)
	}
}

func TestProcessing_OmitsDataField(t *testing.T) {
	resp, _ := Processing("waiting")
	var raw map[string]any
	if err := json.Unmarshal([]byte(resp.Body), &raw); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if _, present := raw["data"]; present {
		t.Error("empty data field should be omitted from the envelope")
	}
}

func TestError(t *testing.T) {
	resp, err := Error(400, "'deck_name' is missing in the query parameters.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}

	var env Envelope
	if err := json.Unmarshal([]byte(resp.Body), &env); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if env.Status != StatusError {
		t.Errorf("status = %q, want %q", env.Status, StatusError)
	}
}

func TestJSON(t *testing.T) {
	resp, err := JSON(200, []string{"physics", "chemistry"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if resp.Body != `["physics","chemistry"]` {
		t.Errorf("body = %q", resp.Body)
	}
}

func TestJSON_EmptyList(t *testing.T) {
	resp, err := JSON(200, []string{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Body != `[]` {
		t.Errorf("body = %q, want []", resp.Body)
	}
}
