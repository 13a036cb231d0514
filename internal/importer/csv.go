package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/lessonscript/internal/lesson"
)

// CSVImporter handles CSV transcripts. A file whose header names a speaker
// column and a text column maps row-per-row onto message blocks; anything
// else degrades to one message per row.
type CSVImporter struct {
	DefaultSpeaker string
}

func (p *CSVImporter) Import(r io.Reader, filename string) (*lesson.Document, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	doc := &lesson.Document{}
	if len(records) < 2 {
		return doc, nil
	}

	headers := records[0]
	speakerCol, textCol := transcriptColumns(headers)

	for _, row := range records[1:] {
		var speaker, text string
		if speakerCol >= 0 && textCol >= 0 {
			if speakerCol < len(row) {
				speaker = strings.TrimSpace(row[speakerCol])
			}
			if textCol < len(row) {
				text = strings.TrimSpace(row[textCol])
			}
		} else {
			var cells []string
			for i, cell := range row {
				if i < len(headers) {
					cells = append(cells, headers[i]+": "+cell)
				} else {
					cells = append(cells, cell)
				}
			}
			text = strings.Join(cells, ", ")
		}
		if speaker == "" {
			speaker = p.DefaultSpeaker
		}
		if text == "" {
			continue
		}
		doc.Blocks = append(doc.Blocks, lesson.Block{
			ID:      lesson.NewID(),
			Kind:    lesson.KindMessage,
			Speaker: speaker,
			Content: text,
		})
	}

	return doc, nil
}

// transcriptColumns finds the speaker and text column indices, or (-1, -1).
func transcriptColumns(headers []string) (speaker, text int) {
	speaker, text = -1, -1
	for i, h := range headers {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "speaker", "name", "author":
			if speaker < 0 {
				speaker = i
			}
		case "text", "content", "message":
			if text < 0 {
				text = i
			}
		}
	}
	if speaker < 0 || text < 0 {
		return -1, -1
	}
	return speaker, text
}
