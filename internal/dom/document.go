// File: internal/dom/document.go
package dom

import (
	"errors"
	"fmt"
	"strings"

	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xpath"
	"golang.org/x/net/html"

	"github.com/xkilldash9x/forceps-cli/api/schemas"
)

var (
	// ErrParse is returned when the input cannot be tokenized into a tree at
	// all. Merely unusual markup (unclosed tags, unknown elements) is not an
	// error; the parser recovers per HTML5 rules.
	ErrParse = errors.New("no parseable tree structure")

	// ErrInvalidExpression is returned for syntactically malformed XPath. A
	// well formed expression matching nothing is not an error.
	ErrInvalidExpression = errors.New("invalid xpath expression")
)

// Element is one addressable node of the parsed document. Elements are built
// once at parse time and never mutated afterwards.
type Element struct {
	// Tag is the lower case tag name.
	Tag string
	// Attrs maps attribute names to values. Keys are unique.
	Attrs map[string]string
	// AttrNames holds the attribute names in source order, which gives
	// deterministic iteration where the map would not.
	AttrNames []string
	// Text is the trimmed concatenation of the element's direct text nodes.
	Text string
	// Parent is nil for the root element. Never owning.
	Parent *Element
	// Children holds the element children in document order.
	Children []*Element
	// Index is the document order position, assigned once at parse time.
	Index int

	node      *html.Node
	textNodes []string
}

// Attr returns the value of the named attribute, or "" when absent.
func (e *Element) Attr(name string) string { return e.Attrs[name] }

// HasAttr reports whether the named attribute is present with a non-empty
// value.
func (e *Element) HasAttr(name string) bool { return e.Attrs[name] != "" }

// DirectTextNodes returns the raw text nodes that are immediate children of
// the element, untrimmed, in document order.
func (e *Element) DirectTextNodes() []string { return e.textNodes }

// SiblingPosition returns the 1-based position of the element among siblings
// sharing its tag name under the same parent, and the total count of such
// siblings. A parentless element reports (1, 1).
func (e *Element) SiblingPosition() (pos, count int) {
	if e.Parent == nil {
		return 1, 1
	}
	pos = 0
	for _, sib := range e.Parent.Children {
		if sib.Tag != e.Tag {
			continue
		}
		count++
		if sib == e {
			pos = count
		}
	}
	return pos, count
}

// Depth returns the element's depth in the tree, counting the root as 1.
func (e *Element) Depth() int {
	d := 0
	for n := e; n != nil; n = n.Parent {
		d++
	}
	return d
}

// Document owns the full element tree for one HTML input. It is immutable
// after construction and safe for concurrent read-only use.
type Document struct {
	root     *html.Node
	elements []*Element
	byNode   map[*html.Node]*Element
}

// Parse builds a Document from raw HTML. Parsing is error tolerant: unclosed
// tags and unknown elements are recovered per HTML5 rules, and only an input
// with no discoverable tree structure fails with ErrParse.
func Parse(src string) (*Document, error) {
	if strings.TrimSpace(src) == "" {
		return nil, fmt.Errorf("%w: empty input", ErrParse)
	}

	root, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	d := &Document{
		root:   root,
		byNode: make(map[*html.Node]*Element),
	}
	d.build(root, nil)
	if len(d.elements) == 0 {
		return nil, fmt.Errorf("%w: no elements", ErrParse)
	}
	return d, nil
}

// build walks the html.Node tree depth-first, wrapping element nodes and
// assigning document order indices.
func (d *Document) build(n *html.Node, parent *Element) {
	cur := parent
	if n.Type == html.ElementNode {
		el := &Element{
			Tag:    strings.ToLower(n.Data),
			Attrs:  make(map[string]string, len(n.Attr)),
			Parent: parent,
			Index:  len(d.elements),
			node:   n,
		}
		for _, a := range n.Attr {
			if _, dup := el.Attrs[a.Key]; dup {
				continue
			}
			el.Attrs[a.Key] = a.Val
			el.AttrNames = append(el.AttrNames, a.Key)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				el.textNodes = append(el.textNodes, c.Data)
			}
		}
		el.Text = strings.TrimSpace(strings.Join(el.textNodes, ""))

		d.elements = append(d.elements, el)
		d.byNode[n] = el
		if parent != nil {
			parent.Children = append(parent.Children, el)
		}
		cur = el
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.build(c, cur)
	}
}

// Elements returns every element in document order. The returned slice must
// not be mutated.
func (d *Document) Elements() []*Element { return d.elements }

// Find returns the elements satisfying the predicate, in document order.
func (d *Document) Find(pred func(*Element) bool) []*Element {
	var out []*Element
	for _, el := range d.elements {
		if pred(el) {
			out = append(out, el)
		}
	}
	return out
}

// compile validates the expression syntax, mapping failures to
// ErrInvalidExpression.
func compile(expr string) (*xpath.Expr, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, fmt.Errorf("%w: empty expression", ErrInvalidExpression)
	}
	compiled, err := xpath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidExpression, expr, err)
	}
	return compiled, nil
}

// CountMatches evaluates the expression against the document and returns the
// number of matching nodes. Zero matches is a valid answer, not an error.
func (d *Document) CountMatches(expr string) (int, error) {
	nodes, err := d.query(expr)
	if err != nil {
		return 0, err
	}
	return len(nodes), nil
}

// Matches evaluates the expression and returns the matched elements in
// document order. Non-element results (text nodes, attributes) are counted by
// CountMatches but omitted here.
func (d *Document) Matches(expr string) ([]*Element, error) {
	nodes, err := d.query(expr)
	if err != nil {
		return nil, err
	}
	var out []*Element
	for _, n := range nodes {
		if el, ok := d.byNode[n]; ok {
			out = append(out, el)
		}
	}
	return out, nil
}

func (d *Document) query(expr string) ([]*html.Node, error) {
	compiled, err := compile(expr)
	if err != nil {
		return nil, err
	}
	return htmlquery.QuerySelectorAll(d.root, compiled), nil
}

// ValidateExpression checks the expression syntax without evaluating it.
func ValidateExpression(expr string) error {
	_, err := compile(expr)
	return err
}

// interactiveTags are the element types a generated test would plausibly
// drive.
var interactiveTags = map[string]bool{
	"a":        true,
	"button":   true,
	"input":    true,
	"select":   true,
	"textarea": true,
}

// Summary produces the read-only structure report: element counts by tag,
// maximum depth, and the elements carrying identifying attributes.
func (d *Document) Summary() schemas.DocumentSummary {
	s := schemas.DocumentSummary{
		TotalElements: len(d.elements),
		TagCounts:     make(map[string]int, 16),
	}
	for _, el := range d.elements {
		s.TagCounts[el.Tag]++
		if depth := el.Depth(); depth > s.MaxDepth {
			s.MaxDepth = depth
		}
		if el.HasAttr("id") || el.HasAttr("name") || el.HasAttr("class") {
			s.Identified = append(s.Identified, summarize(el))
		}
		if interactiveTags[el.Tag] {
			s.Interactive = append(s.Interactive, summarize(el))
		}
	}
	return s
}

func summarize(el *Element) schemas.ElementSummary {
	return schemas.ElementSummary{
		Tag:   el.Tag,
		ID:    el.Attr("id"),
		Name:  el.Attr("name"),
		Class: el.Attr("class"),
		Type:  el.Attr("type"),
		Text:  el.Text,
	}
}
