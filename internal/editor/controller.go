// Package editor owns the editable lesson document for the duration of an
// authoring session. All mutations go through the Controller; no other
// component mutates the document directly. Operations are synchronous and
// total: invalid indices are clamped and unknown ids are no-ops, never
// errors.
package editor

import (
	"encoding/json"

	"github.com/dgallion1/lessonscript/internal/lesson"
	"github.com/dgallion1/lessonscript/internal/script"
)

// maxHistory caps the undo and redo stacks. The oldest snapshot is evicted
// first once the cap is reached.
const maxHistory = 20

// Direction selects the neighbor a block swaps with.
type Direction int

const (
	MoveUp   Direction = -1
	MoveDown Direction = 1
)

// NotifyFunc receives the new canonical text after every successful
// mutation.
type NotifyFunc func(text string)

// Patch carries the fields an EditBlock call merges into a block. Nil
// pointer fields are left untouched. PayloadSet distinguishes "replace the
// payload with nil" from "don't touch the payload".
type Patch struct {
	Content      *string
	CalloutTitle *string
	CalloutIcon  *string
	Payload      any
	PayloadSet   bool
}

// Controller is the state machine over (document, undo stack, redo stack).
type Controller struct {
	doc         *lesson.Document
	explanation string
	speaker     string
	undo        [][]lesson.Block
	redo        [][]lesson.Block
	lastEmitted string
	notify      NotifyFunc
	parseOpts   script.Options
}

// NewController parses the stored text into a live document. notify may be
// nil.
func NewController(text string, notify NotifyFunc) *Controller {
	return NewControllerWith(text, notify, script.Options{})
}

// NewControllerWith is NewController with explicit parse options.
func NewControllerWith(text string, notify NotifyFunc, opts script.Options) *Controller {
	doc, explanation := script.ParseWith(text, opts)
	return &Controller{
		doc:         doc,
		explanation: explanation,
		notify:      notify,
		lastEmitted: text,
		parseOpts:   opts,
	}
}

// Document exposes the live document for read access.
func (c *Controller) Document() *lesson.Document { return c.doc }

// Explanation returns the opaque explanation tail.
func (c *Controller) Explanation() string { return c.explanation }

// Text returns the current canonical serialized text.
func (c *Controller) Text() string {
	return script.Serialize(c.doc, c.explanation)
}

// SetSpeaker records the current speaker context, used when a callout is
// converted back to a message.
func (c *Controller) SetSpeaker(speaker string) { c.speaker = speaker }

// InsertAt inserts a block after the given index, clamped into range.
// afterIndex -1 inserts at the top; any index at or past the end appends.
// The inserted block always receives a fresh id; a caller-supplied id is
// discarded so ids stay unique within the document.
func (c *Controller) InsertAt(afterIndex int, b lesson.Block) {
	b.ID = lesson.NewID()
	idx := afterIndex + 1
	if idx < 0 {
		idx = 0
	}
	if idx > len(c.doc.Blocks) {
		idx = len(c.doc.Blocks)
	}

	c.pushUndo()
	c.doc.Blocks = append(c.doc.Blocks, lesson.Block{})
	copy(c.doc.Blocks[idx+1:], c.doc.Blocks[idx:])
	c.doc.Blocks[idx] = b
	c.emit()
}

// EditBlock merges the patch into the block with the given id. Unknown ids
// are a no-op. Patching the payload rewrites the freeform content to its
// canonical serialized form; patching freeform content re-decodes the
// payload.
func (c *Controller) EditBlock(id string, p Patch) {
	idx := c.doc.IndexOf(id)
	if idx < 0 {
		return
	}
	c.pushUndo()
	b := &c.doc.Blocks[idx]
	if p.Content != nil {
		b.Content = *p.Content
		if b.Kind == lesson.KindFreeform {
			b.Payload = decodePayload(b.Content)
		}
	}
	if p.CalloutTitle != nil {
		b.CalloutTitle = *p.CalloutTitle
	}
	if p.CalloutIcon != nil {
		b.CalloutIcon = *p.CalloutIcon
	}
	if p.PayloadSet && b.Kind == lesson.KindFreeform {
		b.Payload = p.Payload
		b.Content = canonicalPayload(p.Payload)
	}
	c.emit()
}

// DeleteBlock removes the block with the given id. Unknown ids are a no-op.
func (c *Controller) DeleteBlock(id string) {
	idx := c.doc.IndexOf(id)
	if idx < 0 {
		return
	}
	c.pushUndo()
	c.doc.Blocks = append(c.doc.Blocks[:idx], c.doc.Blocks[idx+1:]...)
	c.emit()
}

// MoveBlock swaps the block with its neighbor in the given direction. Moves
// off either end are no-ops.
func (c *Controller) MoveBlock(id string, dir Direction) {
	idx := c.doc.IndexOf(id)
	if idx < 0 {
		return
	}
	j := idx + int(dir)
	if j < 0 || j >= len(c.doc.Blocks) {
		return
	}
	c.pushUndo()
	c.doc.Blocks[idx], c.doc.Blocks[j] = c.doc.Blocks[j], c.doc.Blocks[idx]
	c.emit()
}

// ConvertKind converts a message to a callout or back. Converting to a
// callout sets the default title and icon and keeps the content. Converting
// back restores the current speaker context and clears title and icon.
// Freeform blocks are not convertible.
func (c *Controller) ConvertKind(id string, target lesson.Kind) {
	idx := c.doc.IndexOf(id)
	if idx < 0 {
		return
	}
	b := &c.doc.Blocks[idx]
	if b.Kind == lesson.KindFreeform || target == lesson.KindFreeform || b.Kind == target {
		return
	}
	switch target {
	case lesson.KindCallout:
		c.pushUndo()
		b.Kind = lesson.KindCallout
		b.CalloutTitle = lesson.DefaultCalloutTitle
		b.CalloutIcon = lesson.DefaultCalloutIcon
	case lesson.KindMessage:
		c.pushUndo()
		b.Kind = lesson.KindMessage
		if c.speaker != "" {
			b.Speaker = c.speaker
		}
		b.CalloutTitle = ""
		b.CalloutIcon = ""
	default:
		return
	}
	c.emit()
}

// Undo restores the most recent pre-mutation snapshot. No-op when the undo
// stack is empty.
func (c *Controller) Undo() {
	if len(c.undo) == 0 {
		return
	}
	c.redo = pushCapped(c.redo, c.doc.CopyBlocks())
	c.doc.Blocks = c.undo[len(c.undo)-1]
	c.undo = c.undo[:len(c.undo)-1]
	c.emit()
}

// Redo is the mirror of Undo. No-op when the redo stack is empty.
func (c *Controller) Redo() {
	if len(c.redo) == 0 {
		return
	}
	c.undo = pushCapped(c.undo, c.doc.CopyBlocks())
	c.doc.Blocks = c.redo[len(c.redo)-1]
	c.redo = c.redo[:len(c.redo)-1]
	c.emit()
}

// UndoDepth reports the number of restorable snapshots.
func (c *Controller) UndoDepth() int { return len(c.undo) }

// RedoDepth reports the number of re-appliable snapshots.
func (c *Controller) RedoDepth() int { return len(c.redo) }

// pushUndo snapshots the pre-mutation block sequence and clears the redo
// stack. Called by every mutating operation before it changes state.
func (c *Controller) pushUndo() {
	c.undo = pushCapped(c.undo, c.doc.CopyBlocks())
	c.redo = nil
}

func pushCapped(stack [][]lesson.Block, snapshot []lesson.Block) [][]lesson.Block {
	stack = append(stack, snapshot)
	if len(stack) > maxHistory {
		stack = stack[1:]
	}
	return stack
}

// emit re-serializes the document and notifies the host with the new
// canonical text.
func (c *Controller) emit() {
	text := script.Serialize(c.doc, c.explanation)
	c.lastEmitted = text
	if c.notify != nil {
		c.notify(text)
	}
}

func decodePayload(content string) any {
	if content == "" {
		return nil
	}
	var payload any
	if json.Unmarshal([]byte(content), &payload) != nil {
		return nil
	}
	return payload
}

func canonicalPayload(payload any) string {
	if payload == nil {
		return "{}"
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "{}"
	}
	return string(data)
}
