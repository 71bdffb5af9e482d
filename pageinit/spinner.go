package pageinit

import (
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	// SpinnerClass marks buttons that show a spinner while their form submits.
	SpinnerClass = "btn-spinner"

	// SpinnerFragment replaces the content of a submitted spinner button.
	SpinnerFragment = `<span class="spinner-border spinner-border-sm" role="status" aria-hidden="true"></span>`
)

// BindSpinners registers a submit handler on the form around every spinner
// button. On each submit the button is disabled and its content replaced with
// SpinnerFragment. Buttons outside a form are skipped. Returns the number of
// buttons bound.
func BindSpinners(doc *Document) int {
	buttons := doc.FindAll(func(n *html.Node) bool {
		return HasClass(n, SpinnerClass)
	})

	bound := 0
	for _, button := range buttons {
		form := ClosestForm(button)
		if form == nil {
			log.Debugf("Spinner button %q has no enclosing form", buttonLabel(button))
			continue
		}

		submitButton := button
		doc.OnSubmit(form, func(*html.Node) {
			showSpinner(submitButton)
		})
		bound++
	}
	return bound
}

func showSpinner(button *html.Node) {
	SetAttr(button, "disabled", "")

	nodes, err := html.ParseFragment(strings.NewReader(SpinnerFragment), &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
	})
	if err != nil {
		log.Errorf("Failed to build spinner: %v", err)
		return
	}
	ReplaceChildren(button, nodes)
}

func buttonLabel(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}
