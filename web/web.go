// Package web embeds the HTML views and static assets.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
)

//go:embed templates/*.tmpl static
var FS embed.FS

// Templates parses every view; pages are addressed by file name.
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(FS, "templates/*.tmpl"))
}

// Static serves the files under static/.
func Static() http.FileSystem {
	sub, err := fs.Sub(FS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
