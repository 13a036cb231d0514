package importer

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/lessonscript/internal/lesson"
	"golang.org/x/net/html"
)

// HTMLImporter handles HTML transcripts.
type HTMLImporter struct {
	DefaultSpeaker string
}

func (p *HTMLImporter) Import(r io.Reader, filename string) (*lesson.Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	doc := &lesson.Document{}
	pendingHeading := ""

	flushParagraph := func(t string) {
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

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if headingLevel(n.Data) > 0 {
				if pendingHeading != "" {
					doc.Blocks = append(doc.Blocks, calloutBlock(p.DefaultSpeaker, pendingHeading, ""))
				}
				pendingHeading = textContent(n)
				return
			}
			switch n.Data {
			case "script", "style", "nav", "footer", "header":
				return
			case "p", "li", "td", "blockquote":
				flushParagraph(textContent(n))
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	body := findBody(root)
	if body != nil {
		walk(body)
	} else {
		walk(root)
	}
	if pendingHeading != "" {
		doc.Blocks = append(doc.Blocks, calloutBlock(p.DefaultSpeaker, pendingHeading, ""))
	}

	return doc, nil
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
