package script

import (
	"encoding/json"
	"strings"

	"github.com/dgallion1/lessonscript/internal/lesson"
)

// Serialize renders a document back to mini-language text, the exact inverse
// of Parse. Blocks are joined with a blank line; newlines inside content are
// encoded so they survive the round trip. A non-blank explanation is appended
// after a line containing exactly three hyphens.
func Serialize(doc *lesson.Document, explanation string) string {
	parts := make([]string, 0, len(doc.Blocks))
	for i := range doc.Blocks {
		parts = append(parts, serializeBlock(doc.Blocks[i]))
	}
	out := strings.Join(parts, "\n\n")

	if strings.TrimSpace(explanation) != "" {
		if out != "" {
			out += "\n\n"
		}
		out += ExplanationDelimiter + "\n" + explanation
	}
	return out
}

func serializeBlock(b lesson.Block) string {
	switch b.Kind {
	case lesson.KindCallout:
		icon := b.CalloutIcon
		if icon == "" {
			icon = lesson.DefaultCalloutIcon
		}
		title := b.CalloutTitle
		if title == "" {
			title = lesson.DefaultCalloutTitle
		}
		return b.Speaker + ": [CALLOUT:" + encodeNewlines(icon) + ":" + encodeNewlines(title) + "]: " + encodeNewlines(b.Content)
	case lesson.KindFreeform:
		return lesson.FreeformSpeaker + ": " + freeformSentinel + freeformBody(b)
	default:
		return b.Speaker + ": " + encodeNewlines(b.Content)
	}
}

// freeformBody prefers the canonical content text, which is kept in sync
// with the payload and also preserves undecodable payloads verbatim.
func freeformBody(b lesson.Block) string {
	if b.Content != "" {
		return encodeNewlines(b.Content)
	}
	if b.Payload != nil {
		if data, err := json.Marshal(b.Payload); err == nil {
			return string(data)
		}
	}
	return "{}"
}
