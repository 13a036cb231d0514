// Package script is the bidirectional reader and writer for the lesson
// mini-language: a line-oriented format of speaker turns ("Ann: Hi"),
// callout blocks and freeform canvas blocks, optionally followed by a
// rich-text explanation after a "---" delimiter line.
//
// Parse and Serialize are exact inverses over documents that satisfy the
// block invariants: Parse(Serialize(doc, expl)) reproduces doc structurally
// (ids are freshly generated on every parse).
package script

import (
	"strings"

	"github.com/dgallion1/lessonscript/internal/lesson"
)

// newlineMark stands in for real newlines inside serialized block content,
// so an in-content blank line is not misread as a block boundary on the next
// parse. U+E000 is private-use and does not occur in authored text.
const newlineMark = "\uE000"

// Options tune parsing for non-standard inputs.
type Options struct {
	// Permissive turns leading unlabeled text into an implicit segment
	// instead of discarding it. Used for single-block documents.
	Permissive bool
	// DefaultSpeaker is the label given to the implicit segment. Defaults
	// to "Narrator".
	DefaultSpeaker string
}

// Parse converts mini-language text into a document plus the opaque
// explanation string found after the "---" delimiter, if any.
func Parse(text string) (*lesson.Document, string) {
	return ParseWith(text, Options{})
}

// ParseWith is Parse with explicit options.
func ParseWith(text string, opts Options) (*lesson.Document, string) {
	if opts.DefaultSpeaker == "" {
		opts.DefaultSpeaker = "Narrator"
	}
	body, explanation := splitExplanation(text)

	doc := &lesson.Document{}
	for _, seg := range extractSegments(body, opts.Permissive, opts.DefaultSpeaker) {
		if b, ok := classify(seg); ok {
			doc.Blocks = append(doc.Blocks, b)
		}
	}
	return doc, explanation
}

func decodeNewlines(s string) string {
	return strings.ReplaceAll(s, newlineMark, "\n")
}

func encodeNewlines(s string) string {
	return strings.ReplaceAll(s, "\n", newlineMark)
}
