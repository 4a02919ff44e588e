// Package markdown provides parsing helpers for analyzing auxiliary
// Markdown documents in a documentation tree. It extracts link-like
// constructs for validation; it never re-renders Markdown.
package markdown

import (
	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// LinkKind classifies where a destination came from.
type LinkKind string

const (
	LinkKindInline LinkKind = "inline"
	LinkKindImage  LinkKind = "image"
	LinkKindAuto   LinkKind = "auto"
)

// Link is one extracted destination.
type Link struct {
	Kind        LinkKind
	Destination string
}

// ExtractLinks parses body and returns every link, image, and autolink
// destination in document order. Reference-style links arrive resolved, so
// their destinations are included like inline ones.
func ExtractLinks(body []byte) ([]Link, error) {
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(body))

	var links []Link
	err := gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.AutoLink:
			links = append(links, Link{Kind: LinkKindAuto, Destination: string(node.URL(body))})
		case *gmast.Image:
			links = append(links, Link{Kind: LinkKindImage, Destination: string(node.Destination)})
		case *gmast.Link:
			links = append(links, Link{Kind: LinkKindInline, Destination: string(node.Destination)})
		}
		return gmast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	return links, nil
}
