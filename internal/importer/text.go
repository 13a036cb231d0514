package importer

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/lessonscript/internal/lesson"
)

// TextImporter handles plain text transcripts.
type TextImporter struct {
	DefaultSpeaker string
}

func (p *TextImporter) Import(r io.Reader, filename string) (*lesson.Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	paragraphs := splitParagraphs(strings.Join(lines, "\n"))
	return &lesson.Document{Blocks: composeBlocks(paragraphs, p.DefaultSpeaker)}, nil
}
