package script

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/dgallion1/lessonscript/internal/lesson"
)

// Sentinel prefixes that reclassify a segment's kind.
const (
	freeformSentinel = "[FREEFORM_CANVAS]:"
)

// Callout sentinel: "[CALLOUT:icon:title]: body". Icon and title are each
// optional; the title may contain colons but no "]". A sentinel that fails
// this pattern degrades the segment to a plain message rather than erroring.
var calloutRe = regexp.MustCompile(`(?s)^\[CALLOUT(?::([^:\]\n]*))?(?::([^\]\n]*))?\]: ?(.*)$`)

// classify maps a raw segment to a typed block. The returned ok is false for
// segments that never become blocks (empty speaker on a non-freeform
// segment).
func classify(seg Segment) (lesson.Block, bool) {
	if m := calloutRe.FindStringSubmatch(seg.Content); m != nil {
		if seg.Speaker == "" {
			return lesson.Block{}, false
		}
		icon, title := m[1], m[2]
		if icon == "" {
			icon = lesson.DefaultCalloutIcon
		}
		if title == "" {
			title = lesson.DefaultCalloutTitle
		}
		return lesson.Block{
			ID:           lesson.NewID(),
			Kind:         lesson.KindCallout,
			Speaker:      seg.Speaker,
			Content:      decodeNewlines(strings.TrimSpace(m[3])),
			CalloutTitle: decodeNewlines(title),
			CalloutIcon:  decodeNewlines(icon),
		}, true
	}

	if seg.Speaker == lesson.FreeformSpeaker || strings.HasPrefix(seg.Content, freeformSentinel) {
		raw := strings.TrimSpace(strings.TrimPrefix(seg.Content, freeformSentinel))
		b := lesson.Block{
			ID:      lesson.NewID(),
			Kind:    lesson.KindFreeform,
			Speaker: lesson.FreeformSpeaker,
			Content: decodeNewlines(raw),
		}
		// Decode failure is non-fatal: the block stays freeform with a nil
		// payload and the raw text preserved as content.
		var payload any
		if b.Content != "" && json.Unmarshal([]byte(b.Content), &payload) == nil && payload != nil {
			b.Payload = payload
			if canon, err := json.Marshal(payload); err == nil {
				b.Content = string(canon)
			}
		}
		return b, true
	}

	if seg.Speaker == "" {
		return lesson.Block{}, false
	}
	return lesson.Block{
		ID:      lesson.NewID(),
		Kind:    lesson.KindMessage,
		Speaker: seg.Speaker,
		Content: decodeNewlines(seg.Content),
	}, true
}
