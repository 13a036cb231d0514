package importer

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dgallion1/lessonscript/internal/lesson"
	"github.com/fumiama/go-docx"
)

// DOCXImporter handles .docx transcripts.
type DOCXImporter struct {
	DefaultSpeaker string
}

func (p *DOCXImporter) Import(r io.Reader, filename string) (*lesson.Document, error) {
	// go-docx needs a ReadSeeker+size, so write to a temp file.
	tmp, err := os.CreateTemp("", "lessonscript-docx-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("seek temp file: %w", err)
	}

	parsed, err := docx.Parse(tmp, int64(size))
	tmp.Close()
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	doc := &lesson.Document{}
	pendingHeading := ""

	for _, item := range parsed.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := docxParagraphText(para)
		if text == "" {
			continue
		}
		if docxHeadingLevel(para) > 0 {
			if pendingHeading != "" {
				doc.Blocks = append(doc.Blocks, calloutBlock(p.DefaultSpeaker, pendingHeading, ""))
			}
			pendingHeading = text
			continue
		}
		if pendingHeading != "" {
			doc.Blocks = append(doc.Blocks, calloutBlock(p.DefaultSpeaker, pendingHeading, text))
			pendingHeading = ""
			continue
		}
		doc.Blocks = append(doc.Blocks, composeBlocks([]string{text}, p.DefaultSpeaker)...)
	}
	if pendingHeading != "" {
		doc.Blocks = append(doc.Blocks, calloutBlock(p.DefaultSpeaker, pendingHeading, ""))
	}

	return doc, nil
}

func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := para.Properties.Style.Val
	for lvl := 1; lvl <= 6; lvl++ {
		if strings.EqualFold(style, fmt.Sprintf("Heading%d", lvl)) ||
			strings.EqualFold(style, fmt.Sprintf("heading %d", lvl)) {
			return lvl
		}
	}
	return 0
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
