package lesson

import "reflect"

// Kind discriminates the block variants of a lesson document.
type Kind string

const (
	KindMessage  Kind = "message"
	KindCallout  Kind = "callout"
	KindFreeform Kind = "freeform"
)

// Defaults applied when a callout sentinel omits its icon or title.
const (
	DefaultCalloutTitle = "Key takeaway"
	DefaultCalloutIcon  = "💡"
)

// FreeformSpeaker is the reserved speaker label for freeform canvas blocks.
const FreeformSpeaker = "Canvas"

// Block is one typed unit of a lesson document.
//
// Speaker is non-empty for message and callout blocks and fixed to
// FreeformSpeaker for freeform blocks. Content is the textual body; for
// freeform blocks it is the canonical serialized form of Payload and may be
// empty while the canvas is still being authored. CalloutTitle and
// CalloutIcon are meaningful only when Kind is KindCallout. Payload is the
// decoded canvas value for freeform blocks; it stays nil when the stored
// JSON failed to decode.
type Block struct {
	ID           string `json:"id"`
	Kind         Kind   `json:"kind"`
	Speaker      string `json:"speaker"`
	Content      string `json:"content"`
	CalloutTitle string `json:"callout_title,omitempty"`
	CalloutIcon  string `json:"callout_icon,omitempty"`
	Payload      any    `json:"payload,omitempty"`
}

// Equal reports structural equality, ignoring IDs. Two blocks are equal when
// their (kind, speaker, content, title, icon, payload) tuples match.
func (b Block) Equal(o Block) bool {
	if b.Kind != o.Kind || b.Speaker != o.Speaker || b.Content != o.Content {
		return false
	}
	if b.CalloutTitle != o.CalloutTitle || b.CalloutIcon != o.CalloutIcon {
		return false
	}
	return reflect.DeepEqual(b.Payload, o.Payload)
}

// Document is an ordered sequence of blocks. Order is render order and
// serialization order. The document is a passive container: it answers
// structural queries and leaves all mutation to the edit controller.
type Document struct {
	Blocks []Block
}

// Len returns the number of blocks.
func (d *Document) Len() int { return len(d.Blocks) }

// IndexOf returns the index of the block with the given id, or -1.
func (d *Document) IndexOf(id string) int {
	for i := range d.Blocks {
		if d.Blocks[i].ID == id {
			return i
		}
	}
	return -1
}

// Get returns the block with the given id.
func (d *Document) Get(id string) (Block, bool) {
	if i := d.IndexOf(id); i >= 0 {
		return d.Blocks[i], true
	}
	return Block{}, false
}

// IsFirst reports whether the block with the given id is at index 0.
func (d *Document) IsFirst(id string) bool { return d.IndexOf(id) == 0 }

// IsLast reports whether the block with the given id is the final block.
func (d *Document) IsLast(id string) bool {
	i := d.IndexOf(id)
	return i >= 0 && i == len(d.Blocks)-1
}

// Equal reports structural equality of two documents, ignoring block IDs.
func (d *Document) Equal(o *Document) bool {
	if len(d.Blocks) != len(o.Blocks) {
		return false
	}
	for i := range d.Blocks {
		if !d.Blocks[i].Equal(o.Blocks[i]) {
			return false
		}
	}
	return true
}

// CopyBlocks returns an independent copy of the block sequence. Payload
// values are shared; they are opaque and only ever replaced wholesale, never
// mutated in place.
func (d *Document) CopyBlocks() []Block {
	if len(d.Blocks) == 0 {
		return nil
	}
	out := make([]Block, len(d.Blocks))
	copy(out, d.Blocks)
	return out
}
