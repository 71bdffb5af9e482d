package pageinit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

const loginPage = `<!DOCTYPE html>
<html><head><title>Login</title></head>
<body>
<form id="login" method="post" action="/login">
  <input name="username">
  <div class="form-group">
    <button type="submit" class="btn btn-primary btn-spinner">Log in</button>
  </div>
</form>
<form id="search"><button type="submit" class="btn">Search</button></form>
<button class="btn btn-spinner">Orphan</button>
</body></html>`

func mustParse(t *testing.T, s string) *Document {
	t.Helper()
	doc, err := ParseString(s)
	require.NoError(t, err)
	return doc
}

func findByID(t *testing.T, doc *Document, id string) *html.Node {
	t.Helper()
	nodes := doc.FindAll(func(n *html.Node) bool {
		v, ok := Attr(n, "id")
		return n.Type == html.ElementNode && ok && v == id
	})
	require.Len(t, nodes, 1)
	return nodes[0]
}

func spinnerButtons(doc *Document) []*html.Node {
	return doc.FindAll(func(n *html.Node) bool { return HasClass(n, SpinnerClass) })
}

func TestBindSpinners_SubmitShowsSpinner(t *testing.T) {
	doc := mustParse(t, loginPage)

	assert.Equal(t, 1, BindSpinners(doc))

	button := spinnerButtons(doc)[0]
	_, disabled := Attr(button, "disabled")
	require.False(t, disabled)
	assert.Equal(t, "Log in", InnerHTML(button))

	assert.Equal(t, 1, doc.Submit(findByID(t, doc, "login")))

	_, disabled = Attr(button, "disabled")
	assert.True(t, disabled)
	assert.Equal(t, SpinnerFragment, InnerHTML(button))
}

func TestBindSpinners_ResubmitKeepsSingleSpinner(t *testing.T) {
	doc := mustParse(t, loginPage)
	BindSpinners(doc)
	form := findByID(t, doc, "login")

	doc.Submit(form)
	doc.Submit(form)

	button := spinnerButtons(doc)[0]
	assert.Equal(t, SpinnerFragment, InnerHTML(button))
	assert.Equal(t, 1, strings.Count(doc.String(), "spinner-border-sm"))
}

func TestBindSpinners_OtherFormsUntouched(t *testing.T) {
	doc := mustParse(t, loginPage)
	BindSpinners(doc)

	assert.Equal(t, 0, doc.Submit(findByID(t, doc, "search")))

	button := spinnerButtons(doc)[0]
	_, disabled := Attr(button, "disabled")
	assert.False(t, disabled)
	assert.Equal(t, "Log in", InnerHTML(button))
}

func TestBindSpinners_ButtonOutsideForm(t *testing.T) {
	doc := mustParse(t, `<body><button class="btn-spinner">Go</button></body>`)

	assert.Equal(t, 0, BindSpinners(doc))
	_, disabled := Attr(spinnerButtons(doc)[0], "disabled")
	assert.False(t, disabled)
}

func TestBindSpinners_MultipleButtonsInOneForm(t *testing.T) {
	doc := mustParse(t, `<form id="f">
<button class="btn-spinner">Save</button>
<button class="btn-spinner">Save and close</button>
</form>`)

	assert.Equal(t, 2, BindSpinners(doc))
	assert.Equal(t, 2, doc.Submit(findByID(t, doc, "f")))
	for _, button := range spinnerButtons(doc) {
		assert.Equal(t, SpinnerFragment, InnerHTML(button))
	}
}
