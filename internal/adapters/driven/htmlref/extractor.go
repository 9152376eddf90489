// Package htmlref extracts the references carbon14 dates from a page's
// HTML: the title, img src attributes and OpenGraph image URLs.
package htmlref

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/carbon14-labs/carbon14-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.RefExtractor = (*Extractor)(nil)

// Extractor walks HTML with a streaming tokeniser. Malformed markup is
// tolerated: the tokeniser yields what it can and extraction never fails.
type Extractor struct{}

// New creates a new extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract parses the document and returns its title, img refs and
// og:image refs in document order.
func (e *Extractor) Extract(doc string) driven.PageRefs {
	var refs driven.PageRefs

	z := html.NewTokenizer(strings.NewReader(doc))
	inTitle := false
	var title strings.Builder

	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or unrecoverable garbage: either way we are done.
			refs.Title = strings.TrimSpace(title.String())
			return refs

		case html.TextToken:
			if inTitle {
				title.Write(z.Text())
			}

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			switch tok.DataAtom {
			case atom.Title:
				// Only the first <title> counts.
				if title.Len() == 0 {
					inTitle = true
				}
			case atom.Img:
				if src := attr(tok, "src"); src != "" {
					refs.ImageRefs = append(refs.ImageRefs, src)
				}
			case atom.Meta:
				if isOpenGraphImage(tok) {
					if content := attr(tok, "content"); content != "" {
						refs.OpenGraphRefs = append(refs.OpenGraphRefs, content)
					}
				}
			}

		case html.EndTagToken:
			if z.Token().DataAtom == atom.Title {
				inTitle = false
			}
		}
	}
}

// attr returns the value of the named attribute, empty when absent.
func attr(tok html.Token, name string) string {
	for _, a := range tok.Attr {
		if strings.EqualFold(a.Key, name) {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

// isOpenGraphImage reports whether a meta token declares og:image.
// Some generators emit the property in name= instead; both count.
func isOpenGraphImage(tok html.Token) bool {
	return strings.EqualFold(attr(tok, "property"), "og:image") ||
		strings.EqualFold(attr(tok, "name"), "og:image")
}
