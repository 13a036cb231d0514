// Package importer turns existing transcripts and documents into first-cut
// lesson documents. Paragraphs that already carry a "Speaker:" label keep
// it; everything else is attributed to a default speaker. Headings become
// callout blocks.
package importer

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/lessonscript/internal/lesson"
	"github.com/dgallion1/lessonscript/internal/script"
)

// Importer converts raw document bytes into a lesson document.
type Importer interface {
	Import(r io.Reader, filename string) (*lesson.Document, error)
}

// Options configure import behavior.
type Options struct {
	// DefaultSpeaker labels paragraphs that carry no speaker of their own.
	DefaultSpeaker string
	// PDFFallbackPdftotext enables the pdftotext fallback for PDFs the Go
	// library cannot read.
	PDFFallbackPdftotext bool
}

// SupportedExtensions lists file extensions this service can import.
var SupportedExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".csv":  true,
	".html": true,
	".htm":  true,
	".pdf":  true,
	".docx": true,
}

// ForFile returns the appropriate importer for a filename.
func ForFile(filename string, opts Options) (Importer, error) {
	if opts.DefaultSpeaker == "" {
		opts.DefaultSpeaker = "Narrator"
	}
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextImporter{DefaultSpeaker: opts.DefaultSpeaker}, nil
	case ".md", ".markdown":
		return &MarkdownImporter{DefaultSpeaker: opts.DefaultSpeaker}, nil
	case ".csv":
		return &CSVImporter{DefaultSpeaker: opts.DefaultSpeaker}, nil
	case ".html", ".htm":
		return &HTMLImporter{DefaultSpeaker: opts.DefaultSpeaker}, nil
	case ".pdf":
		return &PDFImporter{DefaultSpeaker: opts.DefaultSpeaker, FallbackPdftotext: opts.PDFFallbackPdftotext}, nil
	case ".docx":
		return &DOCXImporter{DefaultSpeaker: opts.DefaultSpeaker}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// composeBlocks assembles paragraphs into message blocks by running them
// through the mini-language parser. A paragraph whose first line already
// looks like a speaker turn is kept verbatim.
func composeBlocks(paragraphs []string, defaultSpeaker string) []lesson.Block {
	var parts []string
	for _, p := range paragraphs {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		first := p
		if i := strings.IndexByte(p, '\n'); i >= 0 {
			first = p[:i]
		}
		if !script.IsSpeakerLine(first) {
			p = defaultSpeaker + ": " + p
		}
		parts = append(parts, p)
	}
	doc, _ := script.Parse(strings.Join(parts, "\n\n"))
	return doc.Blocks
}

// calloutBlock builds the callout a document heading becomes.
func calloutBlock(speaker, title, content string) lesson.Block {
	if content == "" {
		content = title
	}
	return lesson.Block{
		ID:           lesson.NewID(),
		Kind:         lesson.KindCallout,
		Speaker:      speaker,
		Content:      content,
		CalloutTitle: title,
		CalloutIcon:  lesson.DefaultCalloutIcon,
	}
}

// splitParagraphs splits text on blank lines, trimming whitespace-only
// lines.
func splitParagraphs(text string) []string {
	var out []string
	var current strings.Builder
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			if current.Len() > 0 {
				out = append(out, current.String())
				current.Reset()
			}
			continue
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		out = append(out, current.String())
	}
	return out
}
