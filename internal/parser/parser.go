// Package parser turns the raw free-text completion of the generative model
// into structured flashcards. The completion is semi-formatted at best: the
// prompt asks for one "Category:" line and numbered "Q:"/"A:" pairs, but
// models interleave blank lines, renumber, repeat the category, truncate
// mid-answer, or echo the "Assistant:" cue. The scanner below is the
// contract for what survives.
package parser

import (
	"errors"
	"strings"
	"unicode"

	"github.com/mpark/ankimozzi/internal/deck"
)

// ErrNoQuestions is returned when a completion yields zero complete
// question/answer pairs. This is a hard failure: the model output could not
// be understood at all, and retrying the whole generation is the only fix.
var ErrNoQuestions = errors.New("completion contains no complete question/answer pairs")

const categoryPrefix = "category:"

// Result is the parsed form of one completion.
//
// Category is empty when no "Category:" line was found — a soft failure the
// caller must handle (the catalog cannot partition an empty category).
type Result struct {
	Category  string
	Questions []deck.QuestionAnswer
}

// Parse scans a completion line by line and extracts the category and the
// ordered question/answer pairs.
//
// State machine, per trimmed line:
//   - "Category: X" (case-insensitive prefix): category = X. A later
//     occurrence overwrites an earlier one — last wins.
//   - a line starting with a digit and containing "Q:" opens a new pair;
//     a pending complete pair is flushed first.
//   - a line starting with "A:" closes the open pair.
//   - anything else is formatting noise and is ignored.
//
// A question with no following answer is dropped, never flushed. That is
// deliberately lossy: a truncated completion loses its final dangling
// question rather than producing a half card.
func Parse(completion string) (Result, error) {
	var (
		res             Result
		currentQuestion string
		currentAnswer   string
	)

	for _, line := range strings.Split(completion, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case hasCategoryPrefix(line):
			res.Category = strings.TrimSpace(line[len(categoryPrefix):])

		case startsWithDigit(line) && strings.Contains(line, "Q:"):
			if currentQuestion != "" && currentAnswer != "" {
				res.Questions = append(res.Questions, deck.QuestionAnswer{
					Question: currentQuestion,
					Answer:   currentAnswer,
				})
			}
			_, rest, _ := strings.Cut(line, "Q:")
			currentQuestion = strings.TrimSpace(rest)
			currentAnswer = ""

		case strings.HasPrefix(line, "A:"):
			currentAnswer = strings.TrimSpace(line[len("A:"):])
		}
	}

	if currentQuestion != "" && currentAnswer != "" {
		res.Questions = append(res.Questions, deck.QuestionAnswer{
			Question: currentQuestion,
			Answer:   currentAnswer,
		})
	}

	if len(res.Questions) == 0 {
		return Result{}, ErrNoQuestions
	}
	return res, nil
}

func hasCategoryPrefix(line string) bool {
	return len(line) >= len(categoryPrefix) &&
		strings.EqualFold(line[:len(categoryPrefix)], categoryPrefix)
}

func startsWithDigit(line string) bool {
	if line == "" {
		return false
	}
	return unicode.IsDigit(rune(line[0]))
}
