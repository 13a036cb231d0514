package editor

import (
	"testing"

	"github.com/dgallion1/lessonscript/internal/lesson"
)

func TestReconcile_AdoptsIDsForUnchangedBlocks(t *testing.T) {
	c := newTestController("Ann: one\n\nKaran: two\n\nAnn: three")
	ids := make([]string, 3)
	for i, b := range c.Document().Blocks {
		ids[i] = b.ID
	}

	// External edit changes only the middle block.
	if !c.Reconcile("Ann: one\n\nKaran: CHANGED\n\nAnn: three") {
		t.Fatal("expected reconcile to happen")
	}
	blocks := c.Document().Blocks
	if len(blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(blocks))
	}
	if blocks[0].ID != ids[0] {
		t.Errorf("expected block 0 to keep its id")
	}
	if blocks[1].ID == ids[1] {
		t.Errorf("expected changed block to get a fresh id")
	}
	if blocks[2].ID != ids[2] {
		t.Errorf("expected block 2 to keep its id")
	}
	if blocks[1].Content != "CHANGED" {
		t.Errorf("expected reconciled content, got %q", blocks[1].Content)
	}
}

func TestReconcile_PositionalShift(t *testing.T) {
	c := newTestController("Ann: one\n\nAnn: two")
	secondID := c.Document().Blocks[1].ID

	// Prepending a block shifts everything; adoption is positional, so the
	// old second block's identity is not carried to its new index.
	c.Reconcile("New: zero\n\nAnn: one\n\nAnn: two")
	blocks := c.Document().Blocks
	if len(blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(blocks))
	}
	for i, b := range blocks {
		if b.ID == secondID {
			t.Errorf("expected no block to inherit the shifted id, found it at index %d", i)
		}
	}
}

func TestReconcile_SelfEchoSkipped(t *testing.T) {
	c := newTestController("Ann: one")
	id := c.Document().Blocks[0].ID

	c.EditBlock(id, Patch{Content: strptr("two")})
	echoed := c.Text()

	if c.Reconcile(echoed) {
		t.Error("expected echo of our own emission to be skipped")
	}
	if c.Document().Blocks[0].ID != id {
		t.Error("expected document untouched by echoed text")
	}
}

func TestReconcile_KeepsHistory(t *testing.T) {
	c := newTestController("Ann: one")
	id := c.Document().Blocks[0].ID
	c.EditBlock(id, Patch{Content: strptr("two")})

	c.Reconcile("Ann: external")
	if c.UndoDepth() != 1 {
		t.Errorf("expected undo stack preserved across reconcile, got depth %d", c.UndoDepth())
	}

	// Undo still restores the pre-edit snapshot.
	c.Undo()
	if got := c.Document().Blocks[0].Content; got != "one" {
		t.Errorf("expected undo to restore %q, got %q", "one", got)
	}
}

func TestReconcile_ReplacesExplanation(t *testing.T) {
	c := newTestController("Ann: one\n\n---\nold notes")
	c.Reconcile("Ann: one\n\n---\nnew notes")
	if c.Explanation() != "new notes" {
		t.Errorf("expected explanation replaced, got %q", c.Explanation())
	}
}

func TestReconcile_FreshDocument(t *testing.T) {
	c := newTestController("")
	if !c.Reconcile("Ann: hello") {
		t.Fatal("expected reconcile to happen")
	}
	if c.Document().Len() != 1 {
		t.Fatalf("expected 1 block, got %d", c.Document().Len())
	}
	if c.Document().Blocks[0].Kind != lesson.KindMessage {
		t.Errorf("expected message block, got %q", c.Document().Blocks[0].Kind)
	}
}
