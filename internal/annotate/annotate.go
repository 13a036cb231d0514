// Package annotate maps a host-reported selection inside one block's content
// to a persistent anchor. The locator only normalizes the selection and
// resolves the owning block's index; storage and later re-rendering of
// highlighted ranges belong to an external collaborator. Anchors are plain
// offsets and are not rebased when the block's content is edited afterwards.
package annotate

import (
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/lessonscript/internal/lesson"
)

// Selection is the host's abstraction of a text selection: offsets into the
// block's rendered content plus the selected text itself.
type Selection struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

// Anchor identifies an annotated sub-range of a block's content for external
// persistent storage.
type Anchor struct {
	BlockIndex int    `json:"blockIndex"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
	Text       string `json:"text"`
}

// Locate resolves a selection inside the block with the given id to an
// anchor. Selections that are empty, whitespace-only, or shorter than two
// characters are rejected, as are unknown block ids. Reversed offsets are
// normalized.
func Locate(doc *lesson.Document, blockID string, sel Selection) (Anchor, bool) {
	if strings.TrimSpace(sel.Text) == "" || utf8.RuneCountInString(sel.Text) < 2 {
		return Anchor{}, false
	}
	idx := doc.IndexOf(blockID)
	if idx < 0 {
		return Anchor{}, false
	}
	start, end := sel.Start, sel.End
	if end < start {
		start, end = end, start
	}
	if start < 0 {
		start = 0
	}
	if end < start {
		end = start
	}
	return Anchor{
		BlockIndex: idx,
		Start:      start,
		End:        end,
		Text:       sel.Text,
	}, true
}
