package deck

import "strings"

// RenderTSV renders the questions of a GenerationResult as the Anki import
// format: one record per line, answer first, a single horizontal tab, then
// the question. Embedded newlines inside either field are collapsed to
// spaces so the line structure survives.
//
// Rendering is deterministic: the same result always yields byte-identical
// output, which keeps the export endpoint idempotent for polling clients.
func RenderTSV(questions []QuestionAnswer) string {
	var b strings.Builder
	for _, qa := range questions {
		b.WriteString(collapseNewlines(qa.Answer))
		b.WriteByte('\t')
		b.WriteString(collapseNewlines(qa.Question))
		b.WriteByte('\n')
	}
	return b.String()
}

func collapseNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}
