// Package catalog provides the durable partitioned store of flashcard
// entries, keyed by topic category. Entries are append-only: the writer
// never updates or deletes, and duplicate trigger delivery produces
// duplicate rows with distinct ids.
package catalog

import (
	"context"
	"errors"
)

// ErrEmptyCategory is returned when a write arrives without a category.
// Uncategorized results are rejected upstream rather than stored under an
// empty partition key.
var ErrEmptyCategory = errors.New("catalog entry requires a non-empty category")

// Entry is one catalog row. Category is the partition key (shared by many
// entries); ID is the unique sort key minted at write time.
type Entry struct {
	Category  string `json:"category" dynamodbav:"category"`
	ID        string `json:"id" dynamodbav:"id"`
	Question  string `json:"question" dynamodbav:"question"`
	URL       string `json:"url" dynamodbav:"url"`
	Timestamp int64  `json:"timestamp" dynamodbav:"timestamp"`
}

// QuestionRef is the read-side projection of an entry for deck listings.
type QuestionRef struct {
	Question string `json:"question"`
	URL      string `json:"url"`
}

// CategoryDecks is the one-element envelope the category lookup returns.
type CategoryDecks struct {
	Category     string        `json:"category"`
	QuestionList []QuestionRef `json:"question_list"`
}

// Catalog is the durable entry store. Each method is safe for concurrent
// use. Read methods return empty slices, not errors, on an empty catalog.
type Catalog interface {
	// PutEntry mints a fresh id and timestamp and appends one entry.
	// Storage failures are surfaced uninterpreted; no retry is attempted.
	PutEntry(ctx context.Context, category, question, url string) (Entry, error)

	// Categories lists the distinct categories currently present.
	Categories(ctx context.Context) ([]string, error)

	// EntriesByCategory lists all entries for one category, projected to
	// question/url pairs in storage order.
	EntriesByCategory(ctx context.Context, category string) ([]QuestionRef, error)
}
