package pageinit

import (
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// IconAttr marks an element to be replaced by the named icon.
const IconAttr = "data-feather"

// IconRenderer replaces icon placeholders in a document.
type IconRenderer interface {
	// Replace substitutes every placeholder it knows and returns the number replaced.
	Replace(doc *Document) int
}

// Feather renders feather icons from an icon set of inner SVG markup keyed by name.
type Feather struct {
	Icons map[string]string
}

// NewFeather returns a renderer using FeatherIcons.
func NewFeather() *Feather {
	return &Feather{Icons: FeatherIcons}
}

var featherAttrs = []html.Attribute{
	{Key: "xmlns", Val: "http://www.w3.org/2000/svg"},
	{Key: "width", Val: "24"},
	{Key: "height", Val: "24"},
	{Key: "viewBox", Val: "0 0 24 24"},
	{Key: "fill", Val: "none"},
	{Key: "stroke", Val: "currentColor"},
	{Key: "stroke-width", Val: "2"},
	{Key: "stroke-linecap", Val: "round"},
	{Key: "stroke-linejoin", Val: "round"},
}

// Replace swaps every element carrying IconAttr for its SVG icon. Unknown
// icon names are logged and left in place.
func (f *Feather) Replace(doc *Document) int {
	placeholders := doc.FindAll(func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		_, ok := Attr(n, IconAttr)
		return ok
	})

	replaced := 0
	for _, placeholder := range placeholders {
		name, _ := Attr(placeholder, IconAttr)
		contents, ok := f.Icons[name]
		if !ok {
			log.Warnf("feather: '%s' is not a valid icon", name)
			continue
		}
		if placeholder.Parent == nil {
			continue
		}

		svg, err := f.toSVG(name, contents, placeholder)
		if err != nil {
			log.Errorf("feather: failed to render '%s': %v", name, err)
			continue
		}
		placeholder.Parent.InsertBefore(svg, placeholder)
		placeholder.Parent.RemoveChild(placeholder)
		replaced++
	}
	return replaced
}

func (f *Feather) toSVG(name, contents string, placeholder *html.Node) (*html.Node, error) {
	svg := &html.Node{
		Type:      html.ElementNode,
		Data:      "svg",
		DataAtom:  atom.Svg,
		Namespace: "svg",
	}

	children, err := html.ParseFragment(strings.NewReader(contents), svg)
	if err != nil {
		return nil, err
	}

	svg.Attr = append(svg.Attr, featherAttrs...)
	classes := []string{"feather", "feather-" + name}
	for _, a := range placeholder.Attr {
		switch a.Key {
		case IconAttr:
		case "class":
			classes = append(classes, strings.Fields(a.Val)...)
		default:
			SetAttr(svg, a.Key, a.Val)
		}
	}
	SetAttr(svg, "class", strings.Join(classes, " "))

	for _, c := range children {
		svg.AppendChild(c)
	}
	return svg, nil
}

// FeatherIcons is the built-in subset of the feather icon set.
var FeatherIcons = map[string]string{
	"calendar":     `<rect x="3" y="4" width="18" height="18" rx="2" ry="2"></rect><line x1="16" y1="2" x2="16" y2="6"></line><line x1="8" y1="2" x2="8" y2="6"></line><line x1="3" y1="10" x2="21" y2="10"></line>`,
	"check":        `<polyline points="20 6 9 17 4 12"></polyline>`,
	"chevron-down": `<polyline points="6 9 12 15 18 9"></polyline>`,
	"log-in":       `<path d="M15 3h4a2 2 0 0 1 2 2v14a2 2 0 0 1-2 2h-4"></path><polyline points="10 17 15 12 10 7"></polyline><line x1="15" y1="12" x2="3" y2="12"></line>`,
	"log-out":      `<path d="M9 21H5a2 2 0 0 1-2-2V5a2 2 0 0 1 2-2h4"></path><polyline points="16 17 21 12 16 7"></polyline><line x1="21" y1="12" x2="9" y2="12"></line>`,
	"plus":         `<line x1="12" y1="5" x2="12" y2="19"></line><line x1="5" y1="12" x2="19" y2="12"></line>`,
	"user":         `<path d="M20 21v-2a4 4 0 0 0-4-4H8a4 4 0 0 0-4 4v2"></path><circle cx="12" cy="7" r="4"></circle>`,
	"x":            `<line x1="18" y1="6" x2="6" y2="18"></line><line x1="6" y1="6" x2="18" y2="18"></line>`,
}
