package server

// This file provides a helper for loading the HTML templates. Each page
// template is parsed alongside the shared layout so that all pages inherit
// the same header. The function returns a map keyed by filename for
// convenient lookup in handlers.

import (
	"html/template"
	"io/fs"
	"path"
)

// LoadTemplates parses every *.html file in fsys except the layout, each
// together with layout.html. The returned map is keyed by the basename of
// the template file (e.g. "index.html").
func LoadTemplates(fsys fs.FS) (map[string]*template.Template, error) {
	pages, err := fs.Glob(fsys, "*.html")
	if err != nil {
		return nil, err
	}
	m := make(map[string]*template.Template)
	for _, page := range pages {
		// Skip the layout itself. Each page will include it when parsing.
		if path.Base(page) == "layout.html" {
			continue
		}
		t, err := template.New(path.Base(page)).ParseFS(fsys, "layout.html", page)
		if err != nil {
			return nil, err
		}
		m[path.Base(page)] = t
	}
	return m, nil
}
