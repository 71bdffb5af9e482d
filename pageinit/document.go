// Package pageinit prepares rendered pages for interaction: it substitutes
// icon placeholders with SVG markup and makes spinner buttons show a loading
// indicator once their form is submitted.
//
// Pages are held as parsed HTML. Form submission is modelled by Document's
// submit registry, which dispatches handlers one event at a time the way a
// browser event loop does.
package pageinit

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var ErrAlreadyInitialized = errors.New("document already initialized")

// SubmitHandler is called with the form being submitted.
type SubmitHandler func(form *html.Node)

// Document is a parsed HTML page together with its submit handlers.
type Document struct {
	Root *html.Node

	mu          sync.Mutex
	handlers    map[*html.Node][]SubmitHandler
	initialized bool

	// serializes event dispatch
	dispatch sync.Mutex
}

// Parse reads a full HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return NewDocument(root), nil
}

// ParseString is Parse for an in-memory page.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

func NewDocument(root *html.Node) *Document {
	return &Document{
		Root:     root,
		handlers: make(map[*html.Node][]SubmitHandler),
	}
}

// Render writes the document as HTML.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.Root)
}

func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// FindAll returns every node under the root, in document order, for which
// match returns true.
func (d *Document) FindAll(match func(*html.Node) bool) []*html.Node {
	var found []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if match(n) {
			found = append(found, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(d.Root)
	return found
}

// OnSubmit registers fn to run every time form is submitted.
func (d *Document) OnSubmit(form *html.Node, fn SubmitHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[form] = append(d.handlers[form], fn)
}

// Submit dispatches a submit event to form and returns the number of
// handlers run. Handlers must not submit forms themselves.
func (d *Document) Submit(form *html.Node) int {
	d.dispatch.Lock()
	defer d.dispatch.Unlock()

	d.mu.Lock()
	handlers := append([]SubmitHandler(nil), d.handlers[form]...)
	d.mu.Unlock()

	for _, fn := range handlers {
		fn(form)
	}
	return len(handlers)
}

// markInitialized reports whether this is the first call.
func (d *Document) markInitialized() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.initialized {
		return false
	}
	d.initialized = true
	return true
}

// Attr returns the value of the attribute key on n.
func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets or replaces the attribute key on n.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// HasClass reports whether n carries class in its class attribute.
func HasClass(n *html.Node, class string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	classes, _ := Attr(n, "class")
	for _, c := range strings.Fields(classes) {
		if c == class {
			return true
		}
	}
	return false
}

// ClosestForm returns the nearest <form> ancestor of n, or nil.
func ClosestForm(n *html.Node) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && p.DataAtom == atom.Form {
			return p
		}
	}
	return nil
}

// ReplaceChildren removes every child of n and appends nodes in order.
func ReplaceChildren(n *html.Node, nodes []*html.Node) {
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
	}
	for _, c := range nodes {
		n.AppendChild(c)
	}
}

// InnerHTML renders the children of n.
func InnerHTML(n *html.Node) string {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return ""
		}
	}
	return buf.String()
}
