// Package deck defines the flashcard domain types shared by the generation,
// catalog, and export stages, plus the deterministic naming conventions that
// bind a user-facing deck name to its generation-result artifact.
package deck

import (
	"path"
	"strings"
)

// QuestionAnswer is a single flashcard. Question and Answer are non-empty
// after parsing; embedded line breaks are collapsed to spaces at render time.
type QuestionAnswer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// GenerationResult is the parsed output of one model completion, persisted
// as a JSON artifact in the results bucket — one per source text artifact,
// overwritten (not appended) on retry.
//
// Category is empty when the completion had no "Category:" line. Callers
// must treat that as a soft failure: the catalog cannot partition an
// uncategorized deck.
type GenerationResult struct {
	Category      string           `json:"category"`
	FileName      string           `json:"file_name"`
	Questions     []QuestionAnswer `json:"questions"`
	CorrelationID string           `json:"correlation_id,omitempty"`
}

// ResultKey returns the results-bucket key for a deck name. The convention
// matches the transcription job naming: media "<deck>.mp4" produces the
// transcript "transcribe-<deck>.mp4.json", which normalizes to
// "transcribe-<deck>.mp4.txt" and generates "transcribe-<deck>.mp4.json".
func ResultKey(deckName string) string {
	return "transcribe-" + deckName + ".mp4.json"
}

// DeckName extracts the human-chosen deck name back out of a result key.
// Returns "" if the key does not follow the ResultKey convention.
func DeckName(resultKey string) string {
	base := path.Base(resultKey)
	name, ok := strings.CutPrefix(base, "transcribe-")
	if !ok {
		return ""
	}
	name, ok = strings.CutSuffix(name, ".mp4.json")
	if !ok {
		return ""
	}
	return name
}

// SwapExt derives the next stage's artifact key from the previous one by
// swapping the extension, e.g. SwapExt("a/b.json", ".json", ".txt").
// This is the only linkage between pipeline stages; the correlation id in
// artifact metadata exists because of that (see internal/pipeline).
func SwapExt(key, from, to string) string {
	if strings.HasSuffix(key, from) {
		return strings.TrimSuffix(key, from) + to
	}
	return key + to
}

// Title returns the file title for a key: the base name without its final
// extension. Used as the catalog entry's question field for a deck.
func Title(key string) string {
	base := path.Base(key)
	if i := strings.LastIndex(base, "."); i > 0 {
		return base[:i]
	}
	return base
}
