package catalog

import (
	"encoding/json"
	"testing"
)

func TestEntry_JSONShape(t *testing.T) {
	entry := Entry{
		Category:  "physics",
		ID:        "11111111-2222-3333-4444-555555555555",
		Question:  "transcribe-lecture1.mp4",
		URL:       "https://results-bucket.s3.amazonaws.com/transcribe-lecture1.mp4.json",
		Timestamp: 1700000000,
	}
	b, err := json.Marshal(entry)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, field := range []string{"category", "id", "question", "url", "timestamp"} {
		if _, ok := raw[field]; !ok {
			t.Errorf("missing field %q in %s", field, b)
		}
	}
}

func TestCategoryDecks_JSONShape(t *testing.T) {
	decks := CategoryDecks{
		Category: "physics",
		QuestionList: []QuestionRef{
			{Question: "transcribe-lecture1.mp4", URL: "https://b.s3.amazonaws.com/k"},
		},
	}
	b, err := json.Marshal([]CategoryDecks{decks})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `[{"category":"physics","question_list":[{"question":"transcribe-lecture1.mp4","url":"https://b.s3.amazonaws.com/k"}]}]`
	if string(b) != want {
		t.Errorf("got %s\nwant %s", b, want)
	}
}

func TestCategoryDecks_EmptyListNotNull(t *testing.T) {
	// An unknown category returns an empty question_list, not null.
	b, err := json.Marshal(CategoryDecks{Category: "unknown", QuestionList: []QuestionRef{}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"category":"unknown","question_list":[]}` {
		t.Errorf("got %s", b)
	}
}
