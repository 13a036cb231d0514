package editor

import (
	"fmt"
	"testing"

	"github.com/dgallion1/lessonscript/internal/lesson"
)

func newTestController(text string) *Controller {
	return NewController(text, nil)
}

func strptr(s string) *string { return &s }

func TestInsertAt_ClampsIndices(t *testing.T) {
	c := newTestController("Ann: one\n\nAnn: two")

	// -2 clamps to the top.
	c.InsertAt(-2, lesson.Block{Kind: lesson.KindMessage, Speaker: "X", Content: "top"})
	if c.Document().Blocks[0].Content != "top" {
		t.Errorf("expected insert at top, got %+v", c.Document().Blocks)
	}

	// Far past the end clamps to append.
	c.InsertAt(99, lesson.Block{Kind: lesson.KindMessage, Speaker: "X", Content: "bottom"})
	blocks := c.Document().Blocks
	if blocks[len(blocks)-1].Content != "bottom" {
		t.Errorf("expected insert at bottom, got %+v", blocks)
	}
	if len(blocks) != 4 {
		t.Errorf("expected 4 blocks, got %d", len(blocks))
	}
}

func TestInsertAt_AssignsID(t *testing.T) {
	c := newTestController("")
	c.InsertAt(-1, lesson.Block{Kind: lesson.KindMessage, Speaker: "Ann", Content: "hi"})
	if c.Document().Blocks[0].ID == "" {
		t.Error("expected a generated id for the inserted block")
	}
}

func TestInsertAt_DiscardsCallerSuppliedID(t *testing.T) {
	c := newTestController("Ann: one")
	existing := c.Document().Blocks[0].ID

	// Reusing an existing id must not produce duplicates.
	c.InsertAt(-1, lesson.Block{ID: existing, Kind: lesson.KindMessage, Speaker: "Karan", Content: "dup"})

	seen := make(map[string]int)
	for _, b := range c.Document().Blocks {
		seen[b.ID]++
	}
	if seen[existing] != 1 {
		t.Fatalf("expected exactly one block with the original id, got %d", seen[existing])
	}
	inserted := c.Document().Blocks[0]
	if inserted.ID == existing || inserted.ID == "" {
		t.Errorf("expected a fresh id for the inserted block, got %q", inserted.ID)
	}

	// Id-addressed operations still resolve to the original block.
	c.DeleteBlock(existing)
	if c.Document().Len() != 1 {
		t.Fatalf("expected 1 block after delete, got %d", c.Document().Len())
	}
	if c.Document().Blocks[0].Content != "dup" {
		t.Errorf("expected the original block deleted, got %+v", c.Document().Blocks)
	}
}

func TestEditBlock_MergesPatch(t *testing.T) {
	c := newTestController("Guide: [CALLOUT:🔥:Old]: body")
	id := c.Document().Blocks[0].ID

	c.EditBlock(id, Patch{
		Content:      strptr("new body"),
		CalloutTitle: strptr("New"),
	})
	b := c.Document().Blocks[0]
	if b.Content != "new body" {
		t.Errorf("expected content replaced, got %q", b.Content)
	}
	if b.CalloutTitle != "New" {
		t.Errorf("expected title replaced, got %q", b.CalloutTitle)
	}
	if b.CalloutIcon != "🔥" {
		t.Errorf("expected icon untouched, got %q", b.CalloutIcon)
	}
}

func TestEditBlock_UnknownIDIsNoop(t *testing.T) {
	c := newTestController("Ann: hi")
	before := c.Text()
	c.EditBlock("missing", Patch{Content: strptr("x")})
	if c.Text() != before {
		t.Error("expected unknown id edit to be a no-op")
	}
	if c.UndoDepth() != 0 {
		t.Errorf("expected no undo snapshot for a no-op, got depth %d", c.UndoDepth())
	}
}

func TestEditBlock_PayloadRewritesContent(t *testing.T) {
	c := newTestController(`Canvas: [FREEFORM_CANVAS]:{"a":1}`)
	id := c.Document().Blocks[0].ID

	c.EditBlock(id, Patch{Payload: map[string]any{"b": float64(2)}, PayloadSet: true})
	b := c.Document().Blocks[0]
	if b.Content != `{"b":2}` {
		t.Errorf("expected canonical content from payload, got %q", b.Content)
	}

	// Patching freeform content re-decodes the payload.
	c.EditBlock(id, Patch{Content: strptr(`{"c":3}`)})
	b = c.Document().Blocks[0]
	m, ok := b.Payload.(map[string]any)
	if !ok || m["c"] != float64(3) {
		t.Errorf("expected payload re-decoded from content, got %v", b.Payload)
	}
}

func TestEditBlock_PayloadIgnoredForMessages(t *testing.T) {
	c := newTestController("Ann: hi")
	id := c.Document().Blocks[0].ID
	c.EditBlock(id, Patch{Payload: map[string]any{"x": 1}, PayloadSet: true})
	b := c.Document().Blocks[0]
	if b.Content != "hi" || b.Payload != nil {
		t.Errorf("expected payload patch ignored on a message, got %+v", b)
	}
}

func TestDeleteBlock(t *testing.T) {
	c := newTestController("Ann: one\n\nAnn: two")
	id := c.Document().Blocks[0].ID
	c.DeleteBlock(id)
	if c.Document().Len() != 1 {
		t.Fatalf("expected 1 block after delete, got %d", c.Document().Len())
	}
	if c.Document().Blocks[0].Content != "two" {
		t.Errorf("deleted the wrong block: %+v", c.Document().Blocks)
	}

	before := c.Text()
	c.DeleteBlock("missing")
	if c.Text() != before {
		t.Error("expected unknown id delete to be a no-op")
	}
}

func TestMoveBlock(t *testing.T) {
	c := newTestController("Ann: one\n\nAnn: two\n\nAnn: three")
	first := c.Document().Blocks[0].ID
	last := c.Document().Blocks[2].ID

	// Off-end moves are no-ops.
	c.MoveBlock(first, MoveUp)
	if c.Document().Blocks[0].ID != first {
		t.Error("expected move up at the top to be a no-op")
	}
	if c.UndoDepth() != 0 {
		t.Errorf("expected no undo snapshot for a no-op move, got depth %d", c.UndoDepth())
	}
	c.MoveBlock(last, MoveDown)
	if c.Document().Blocks[2].ID != last {
		t.Error("expected move down at the bottom to be a no-op")
	}

	c.MoveBlock(first, MoveDown)
	if c.Document().Blocks[1].ID != first {
		t.Errorf("expected first block moved to index 1, got %+v", c.Document().Blocks)
	}
}

func TestConvertKind_Symmetry(t *testing.T) {
	c := newTestController("Ann: important point")
	id := c.Document().Blocks[0].ID
	c.SetSpeaker("Ann")

	c.ConvertKind(id, lesson.KindCallout)
	b := c.Document().Blocks[0]
	if b.Kind != lesson.KindCallout {
		t.Fatalf("expected callout, got %q", b.Kind)
	}
	if b.Content != "important point" {
		t.Errorf("expected content preserved, got %q", b.Content)
	}
	if b.CalloutTitle != lesson.DefaultCalloutTitle || b.CalloutIcon != lesson.DefaultCalloutIcon {
		t.Errorf("expected default title and icon, got %q %q", b.CalloutTitle, b.CalloutIcon)
	}

	c.ConvertKind(id, lesson.KindMessage)
	b = c.Document().Blocks[0]
	if b.Kind != lesson.KindMessage {
		t.Fatalf("expected message, got %q", b.Kind)
	}
	if b.Content != "important point" {
		t.Errorf("expected content preserved, got %q", b.Content)
	}
	if b.Speaker != "Ann" {
		t.Errorf("expected speaker restored, got %q", b.Speaker)
	}
	if b.CalloutTitle != "" || b.CalloutIcon != "" {
		t.Errorf("expected title and icon cleared, got %q %q", b.CalloutTitle, b.CalloutIcon)
	}
}

func TestConvertKind_FreeformRejected(t *testing.T) {
	c := newTestController(`Canvas: [FREEFORM_CANVAS]:{"a":1}`)
	id := c.Document().Blocks[0].ID
	c.ConvertKind(id, lesson.KindMessage)
	if c.Document().Blocks[0].Kind != lesson.KindFreeform {
		t.Error("expected freeform block to stay freeform")
	}
	if c.UndoDepth() != 0 {
		t.Errorf("expected no undo snapshot, got depth %d", c.UndoDepth())
	}
}

func TestUndoRedo_Inverse(t *testing.T) {
	c := newTestController("Ann: one")
	id := c.Document().Blocks[0].ID

	c.EditBlock(id, Patch{Content: strptr("two")})
	c.EditBlock(id, Patch{Content: strptr("three")})

	c.Undo()
	if got := c.Document().Blocks[0].Content; got != "two" {
		t.Errorf("expected undo to restore %q, got %q", "two", got)
	}
	c.Undo()
	if got := c.Document().Blocks[0].Content; got != "one" {
		t.Errorf("expected undo to restore %q, got %q", "one", got)
	}
	c.Redo()
	if got := c.Document().Blocks[0].Content; got != "two" {
		t.Errorf("expected redo to reapply %q, got %q", "two", got)
	}
	c.Redo()
	if got := c.Document().Blocks[0].Content; got != "three" {
		t.Errorf("expected redo to reapply %q, got %q", "three", got)
	}
	// Nothing left to redo.
	c.Redo()
	if got := c.Document().Blocks[0].Content; got != "three" {
		t.Errorf("expected empty redo to be a no-op, got %q", got)
	}
}

func TestUndo_EmptyStackIsNoop(t *testing.T) {
	c := newTestController("Ann: one")
	c.Undo()
	if got := c.Document().Blocks[0].Content; got != "one" {
		t.Errorf("expected document unchanged, got %q", got)
	}
}

func TestMutationClearsRedo(t *testing.T) {
	c := newTestController("Ann: one")
	id := c.Document().Blocks[0].ID

	c.EditBlock(id, Patch{Content: strptr("two")})
	c.Undo()
	if c.RedoDepth() != 1 {
		t.Fatalf("expected redo depth 1, got %d", c.RedoDepth())
	}
	c.EditBlock(id, Patch{Content: strptr("fork")})
	if c.RedoDepth() != 0 {
		t.Errorf("expected mutation to clear redo stack, got depth %d", c.RedoDepth())
	}
}

func TestUndo_HistoryCap(t *testing.T) {
	c := newTestController("Ann: v0")
	id := c.Document().Blocks[0].ID

	// 25 edits, but only the newest 20 snapshots survive.
	for i := 1; i <= 25; i++ {
		c.EditBlock(id, Patch{Content: strptr(fmt.Sprintf("v%d", i))})
	}
	if c.UndoDepth() != maxHistory {
		t.Fatalf("expected undo depth %d, got %d", maxHistory, c.UndoDepth())
	}

	for i := 0; i < maxHistory; i++ {
		c.Undo()
	}
	// Oldest surviving snapshot is v5, not v0.
	if got := c.Document().Blocks[0].Content; got != "v5" {
		t.Errorf("expected oldest restorable state v5, got %q", got)
	}
	c.Undo()
	if got := c.Document().Blocks[0].Content; got != "v5" {
		t.Errorf("expected exhausted undo to be a no-op, got %q", got)
	}
}

func TestNotify_CarriesCanonicalText(t *testing.T) {
	var emitted []string
	c := NewController("Ann: one", func(text string) {
		emitted = append(emitted, text)
	})
	id := c.Document().Blocks[0].ID

	c.EditBlock(id, Patch{Content: strptr("two")})
	if len(emitted) != 1 {
		t.Fatalf("expected 1 emission, got %d", len(emitted))
	}
	if emitted[0] != "Ann: two" {
		t.Errorf("expected emitted text %q, got %q", "Ann: two", emitted[0])
	}

	// No-ops do not emit.
	c.EditBlock("missing", Patch{Content: strptr("x")})
	if len(emitted) != 1 {
		t.Errorf("expected no emission for a no-op, got %d", len(emitted))
	}
}
