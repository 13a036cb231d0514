package editor

import "github.com/dgallion1/lessonscript/internal/script"

// Reconcile merges an externally supplied text snapshot into the live
// document. The reconciled document reflects the external text exactly;
// block ids are preserved wherever the block at the same index is
// structurally unchanged, so untouched blocks keep their identity for
// downstream consumers. Adoption is positional, not content-addressed:
// inserting or deleting a block shifts identity for everything after it.
//
// Text the controller itself produced is skipped, so a mutation echoed back
// by the host is not re-interpreted as an external change. Returns true when
// a reconciliation actually happened.
func (c *Controller) Reconcile(text string) bool {
	if text == c.lastEmitted {
		return false
	}

	fresh, explanation := script.ParseWith(text, c.parseOpts)
	for i := range fresh.Blocks {
		if i < len(c.doc.Blocks) && c.doc.Blocks[i].Equal(fresh.Blocks[i]) {
			fresh.Blocks[i].ID = c.doc.Blocks[i].ID
		}
	}

	c.doc = fresh
	c.explanation = explanation
	c.lastEmitted = text
	return true
}
