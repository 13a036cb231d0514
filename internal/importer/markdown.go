package importer

import (
	"bytes"
	"io"
	"strings"

	"github.com/dgallion1/lessonscript/internal/lesson"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownImporter handles Markdown transcripts using goldmark. Headings
// become callouts titled with the heading text; the paragraph that follows a
// heading becomes the callout's body.
type MarkdownImporter struct {
	DefaultSpeaker string
}

func (p *MarkdownImporter) Import(r io.Reader, filename string) (*lesson.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	reader := text.NewReader(src)
	root := md.Parser().Parse(reader)

	doc := &lesson.Document{}
	pendingHeading := ""

	flushParagraph := func(t string) {
		t = strings.TrimSpace(t)
		if t == "" {
			return
		}
		if pendingHeading != "" {
			doc.Blocks = append(doc.Blocks, calloutBlock(p.DefaultSpeaker, pendingHeading, t))
			pendingHeading = ""
			return
		}
		doc.Blocks = append(doc.Blocks, composeBlocks([]string{t}, p.DefaultSpeaker)...)
	}

	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			if pendingHeading != "" {
				// Heading with no body keeps its title as the body.
				doc.Blocks = append(doc.Blocks, calloutBlock(p.DefaultSpeaker, pendingHeading, ""))
			}
			pendingHeading = string(node.Text(src))
		default:
			flushParagraph(extractText(n, src))
		}
	}
	if pendingHeading != "" {
		doc.Blocks = append(doc.Blocks, calloutBlock(p.DefaultSpeaker, pendingHeading, ""))
	}

	return doc, nil
}

// extractText gets the text content of a goldmark AST node. A block node's
// source lines already cover its inline children, so the child walk runs only
// for container nodes that carry no lines of their own (lists, quotes).
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock {
		lines := n.Lines()
		if lines.Len() > 0 {
			for i := 0; i < lines.Len(); i++ {
				line := lines.At(i)
				buf.Write(line.Value(src))
			}
			return strings.TrimSpace(buf.String())
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		} else {
			buf.WriteString(extractText(c, src))
		}
	}
	return strings.TrimSpace(buf.String())
}
