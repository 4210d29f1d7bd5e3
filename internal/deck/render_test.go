package deck

import (
	"strings"
	"testing"
)

func TestRenderTSV(t *testing.T) {
	questions := []QuestionAnswer{
		{Question: "What is mass?", Answer: "A measure of inertia"},
		{Question: "What is force?", Answer: "Mass times acceleration"},
	}

	got := RenderTSV(questions)
	want := "A measure of inertia\tWhat is mass?\nMass times acceleration\tWhat is force?\n"
	if got != want {
		t.Errorf("RenderTSV = %q, want %q", got, want)
	}
}

func TestRenderTSV_Empty(t *testing.T) {
	if got := RenderTSV(nil); got != "" {
		t.Errorf("RenderTSV(nil) = %q, want empty", got)
	}
}

func TestRenderTSV_CollapsesNewlines(t *testing.T) {
	questions := []QuestionAnswer{
		{Question: "Line one\nline two", Answer: "First\r\nsecond"},
	}

	got := RenderTSV(questions)
	want := "First second\tLine one line two\n"
	if got != want {
		t.Errorf("RenderTSV = %q, want %q", got, want)
	}
}

func TestRenderTSV_RecordShape(t *testing.T) {
	questions := []QuestionAnswer{
		{Question: "q1", Answer: "a1"},
		{Question: "q2", Answer: "a2"},
		{Question: "q3", Answer: "a3"},
	}

	out := RenderTSV(questions)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != len(questions) {
		t.Fatalf("got %d lines, want %d", len(lines), len(questions))
	}
	for i, line := range lines {
		answer, question, ok := strings.Cut(line, "\t")
		if !ok {
			t.Fatalf("line %d has no tab: %q", i, line)
		}
		if answer != questions[i].Answer || question != questions[i].Question {
			t.Errorf("line %d = %q/%q, want %q/%q", i, answer, question, questions[i].Answer, questions[i].Question)
		}
	}
}

func TestRenderTSV_Deterministic(t *testing.T) {
	questions := []QuestionAnswer{
		{Question: "q", Answer: "a"},
		{Question: "q2", Answer: "a2"},
	}
	first := RenderTSV(questions)
	second := RenderTSV(questions)
	if first != second {
		t.Error("RenderTSV is not deterministic for identical input")
	}
}
