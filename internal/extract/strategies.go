package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

var (
	matchParagraph = cascadia.MustCompile("p")
	matchDiv       = cascadia.MustCompile("div")
	matchListItem  = cascadia.MustCompile("li")
)

// Text matches the text content of the first node selected by selector.
// The selector is compiled once; an invalid selector panics.
func Text(selector string) Strategy {
	m := cascadia.MustCompile(selector)
	return func(root *goquery.Selection) (string, bool) {
		sel := root.FindMatcher(m)
		if sel.Length() == 0 {
			return "", false
		}
		return strings.TrimSpace(sel.First().Text()), true
	}
}

// OwnText matches the first non-blank text node that is a direct child of the
// first node selected by selector.
func OwnText(selector string) Strategy {
	m := cascadia.MustCompile(selector)
	return func(root *goquery.Selection) (string, bool) {
		sel := root.FindMatcher(m)
		if sel.Length() == 0 {
			return "", false
		}
		for _, text := range DirectTexts(sel.First()) {
			if text != "" {
				return text, true
			}
		}
		return "", false
	}
}

// Attr matches attribute attr on the first node selected by selector that
// carries it.
func Attr(selector, attr string) Strategy {
	m := cascadia.MustCompile(selector)
	return func(root *goquery.Selection) (string, bool) {
		var (
			value string
			found bool
		)
		root.FindMatcher(m).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			value, found = s.Attr(attr)
			return !found
		})
		return strings.TrimSpace(value), found
	}
}

// ParagraphLabel finds the em inside a span of the paragraph holding a text
// node that contains label, e.g. <p>Crossing <span><em>71</em></span></p>.
func ParagraphLabel(label string) Strategy {
	return func(root *goquery.Selection) (string, bool) {
		paragraphs := root.FindMatcher(matchParagraph).FilterFunction(func(_ int, s *goquery.Selection) bool {
			return hasTextNode(s.Nodes[0], label)
		})
		return firstText(root, paragraphs.ChildrenFiltered("span").ChildrenFiltered("em"))
	}
}

// DivLabel finds the em that is a direct child of a div whose text contains label.
func DivLabel(label string) Strategy {
	return func(root *goquery.Selection) (string, bool) {
		divs := root.FindMatcher(matchDiv).FilterFunction(func(_ int, s *goquery.Selection) bool {
			return strings.Contains(s.Text(), label)
		})
		return firstText(root, divs.ChildrenFiltered("em"))
	}
}

// ListItemLabel finds the em that is a direct child of a list item holding a
// text node that contains label.
func ListItemLabel(label string) Strategy {
	return func(root *goquery.Selection) (string, bool) {
		items := root.FindMatcher(matchListItem).FilterFunction(func(_ int, s *goquery.Selection) bool {
			return hasTextNode(s.Nodes[0], label)
		})
		return firstText(root, items.ChildrenFiltered("em"))
	}
}

// Labelled is the standard fallback chain for a labelled numeric stat.
func Labelled(label string) []Strategy {
	return []Strategy{ParagraphLabel(label), DivLabel(label), ListItemLabel(label)}
}

// DirectTexts returns the trimmed text nodes that are direct children of the
// first node in sel, in order.
func DirectTexts(sel *goquery.Selection) []string {
	if sel.Length() == 0 {
		return nil
	}
	var texts []string
	for c := sel.Nodes[0].FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			texts = append(texts, strings.TrimSpace(c.Data))
		}
	}
	return texts
}

// TextAfter returns the first trimmed text node that follows a direct child
// element named tag of the first node in sel.
func TextAfter(sel *goquery.Selection, tag string) (string, bool) {
	if sel.Length() == 0 {
		return "", false
	}
	for c := sel.Nodes[0].FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != tag {
			continue
		}
		for s := c.NextSibling; s != nil; s = s.NextSibling {
			if s.Type == html.TextNode {
				return strings.TrimSpace(s.Data), true
			}
		}
		return "", false
	}
	return "", false
}

func hasTextNode(n *html.Node, label string) bool {
	if n.Type == html.TextNode {
		return strings.Contains(n.Data, label)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if hasTextNode(c, label) {
			return true
		}
	}
	return false
}

// firstText returns the text of the candidate that comes first in document
// order below root. Child selections built from nested parents are not
// guaranteed to be in document order.
func firstText(root, candidates *goquery.Selection) (string, bool) {
	if candidates.Length() == 0 {
		return "", false
	}
	node := candidates.Nodes[0]
	if candidates.Length() > 1 {
		node = firstInDocumentOrder(root.Nodes, candidates.Nodes)
	}
	return strings.TrimSpace(goquery.NewDocumentFromNode(node).Text()), true
}

func firstInDocumentOrder(roots, nodes []*html.Node) *html.Node {
	set := make(map[*html.Node]struct{}, len(nodes))
	for _, n := range nodes {
		set[n] = struct{}{}
	}
	var walk func(n *html.Node) *html.Node
	walk = func(n *html.Node) *html.Node {
		if _, ok := set[n]; ok {
			return n
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if found := walk(c); found != nil {
				return found
			}
		}
		return nil
	}
	for _, root := range roots {
		if found := walk(root); found != nil {
			return found
		}
	}
	return nodes[0]
}
