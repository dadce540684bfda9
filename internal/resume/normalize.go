// Package resume recovers candidate identity fields (name, email, phone)
// from raw decoded resume text. The text arrives with no layout metadata:
// line breaks may be arbitrary and adjacent styled runs are sometimes
// concatenated without whitespace by the upstream decoder. Everything in
// this package is a pure function over the input string.
package resume

import "strings"

// maxWords bounds the position-sensitive heuristics to the head of the
// document. Names never appear deep in a resume, and scanning further only
// produces false positives.
const maxWords = 30

// Normalized is the cleaned view of raw resume text.
type Normalized struct {
	// Lines are the trimmed, non-empty lines in document order.
	Lines []string
	// Words are the first maxWords whitespace-delimited tokens of the
	// whole text.
	Words []string
}

// Normalize splits raw text into trimmed lines and a capped word stream.
// It never fails; empty input yields an empty result.
func Normalize(raw string) Normalized {
	var n Normalized

	for _, line := range strings.Split(raw, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			n.Lines = append(n.Lines, trimmed)
		}
	}

	words := strings.Fields(raw)
	if len(words) > maxWords {
		words = words[:maxWords]
	}
	n.Words = words

	return n
}
