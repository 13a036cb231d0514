package script

import (
	"bufio"
	"regexp"
	"strings"
	"unicode"
)

// Segment is a raw (speaker, content) pair produced by the lexer, before
// block classification.
type Segment struct {
	Speaker string
	Content string
}

// ExplanationDelimiter terminates segment extraction. Everything after a line
// consisting solely of three hyphens is the opaque explanation string and is
// never tokenized.
const ExplanationDelimiter = "---"

// A line of the form "Speaker: rest" starts a new segment. The speaker token
// may not contain a colon and must include at least one letter, which keeps
// stray colons (timestamps, URLs pasted on their own line) from opening
// bogus segments.
var speakerLineRe = regexp.MustCompile(`^([^:]+): ?(.*)$`)

// splitExplanation splits raw text at the first delimiter line. The
// delimiter line itself belongs to neither half.
func splitExplanation(text string) (body, explanation string) {
	off := 0
	for off <= len(text) {
		nl := strings.IndexByte(text[off:], '\n')
		var line string
		next := len(text) + 1
		if nl < 0 {
			line = text[off:]
		} else {
			line = text[off : off+nl]
			next = off + nl + 1
		}
		if strings.TrimSuffix(line, "\r") == ExplanationDelimiter {
			if next > len(text) {
				return text[:off], ""
			}
			return text[:off], text[next:]
		}
		off = next
	}
	return text, ""
}

// extractSegments splits body text into speaker-labeled segments. Lines that
// do not open a new segment are folded, newline included, into the open
// segment's content. Leading non-matching text is discarded unless permissive
// is set, in which case it opens an implicit segment attributed to
// defaultSpeaker. The blank line separating two serialized segments is
// structural: trailing newlines are stripped when a segment closes, while
// blank lines in the middle of a segment survive verbatim.
func extractSegments(body string, permissive bool, defaultSpeaker string) []Segment {
	var (
		segs    []Segment
		speaker string
		content strings.Builder
		open    bool
	)

	closeSegment := func() {
		if !open {
			return
		}
		segs = append(segs, Segment{
			Speaker: speaker,
			Content: strings.TrimRight(content.String(), "\n"),
		})
		content.Reset()
		open = false
	}

	scanner := bufio.NewScanner(strings.NewReader(body))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")

		if m := speakerLineRe.FindStringSubmatch(line); m != nil {
			label := strings.TrimSpace(m[1])
			if hasLetter(label) {
				closeSegment()
				speaker = label
				open = true
				content.WriteString(m[2])
				continue
			}
		}

		if !open {
			if !permissive || strings.TrimSpace(line) == "" {
				continue
			}
			speaker = defaultSpeaker
			open = true
			content.WriteString(line)
			continue
		}
		content.WriteString("\n")
		content.WriteString(line)
	}

	closeSegment()
	return segs
}

// IsSpeakerLine reports whether a line would open a new segment.
func IsSpeakerLine(line string) bool {
	m := speakerLineRe.FindStringSubmatch(line)
	return m != nil && hasLetter(strings.TrimSpace(m[1]))
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
