package pageinit

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRenderer struct {
	calls int
}

func (r *countingRenderer) Replace(*Document) int {
	r.calls++
	return 0
}

func TestInitialize(t *testing.T) {
	doc := mustParse(t, `<body><form id="f"><i data-feather="check"></i><button class="btn-spinner">Save</button></form></body>`)

	require.NoError(t, Initialize(doc, NewFeather()))
	assert.Len(t, svgs(doc), 1)

	doc.Submit(findByID(t, doc, "f"))
	button := spinnerButtons(doc)[0]
	_, disabled := Attr(button, "disabled")
	assert.True(t, disabled)
	assert.Equal(t, SpinnerFragment, InnerHTML(button))
}

func TestInitialize_OnlyOnce(t *testing.T) {
	doc := mustParse(t, `<body><form id="f"><button class="btn-spinner">Save</button></form></body>`)
	icons := &countingRenderer{}

	require.NoError(t, Initialize(doc, icons))
	assert.ErrorIs(t, Initialize(doc, icons), ErrAlreadyInitialized)
	assert.Equal(t, 1, icons.calls)

	// a second Initialize must not bind a second handler
	assert.Equal(t, 1, doc.Submit(findByID(t, doc, "f")))
}

func TestInitialize_WithoutIcons(t *testing.T) {
	doc := mustParse(t, `<body><i data-feather="check"></i></body>`)

	require.NoError(t, Initialize(doc, nil))
	assert.Empty(t, svgs(doc))
}

func TestStaticHandler(t *testing.T) {
	srv := httptest.NewServer(http.StripPrefix("/static/", StaticHandler()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/static/scripts/script.js")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "javascript")
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "function initPage()")
	assert.Contains(t, string(body), SpinnerFragment)
}
