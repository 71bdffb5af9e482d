package pageinit

import (
	"embed"
	"net/http"
)

//go:embed scripts/script.js
var staticFS embed.FS

// StaticHandler serves the browser version of the page initializer at
// scripts/script.js. Mount it with http.StripPrefix under the static path.
func StaticHandler() http.Handler {
	return http.FileServer(http.FS(staticFS))
}
