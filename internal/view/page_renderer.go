/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package view

import (
	"embed"
	"fmt"
	"guestbook/internal/apperrors"
	"html/template"
	"io"
	"io/fs"
)

//go:embed templates
var templatesFS embed.FS

// Templates returns the pages shipped with the binary, rooted at the templates directory
func Templates() fs.FS {
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// Page names
const (
	PageIndex    = "index.html"
	PageMessages = "messages.html"
)

// PageRenderer renders web pages through a set of templates
type PageRenderer struct {
	templates map[string]*template.Template
}

// Creates a page renderer with the given set, read from fsys:
//
//	The key is a page name
//	The value is the list of files (layouts first, page last) composing it
func NewPageRenderer(fsys fs.FS, tmplMap map[string][]string) (*PageRenderer, error) {
	templates := make(map[string]*template.Template)

	for k, v := range tmplMap {
		t, err := template.New(k).ParseFS(fsys, v...)
		if err != nil {
			return nil, fmt.Errorf("could not parse page {%s}: %w", k, err)
		}
		templates[k] = t
	}
	return &PageRenderer{templates: templates}, nil
}

// Renders the template with name "name"
// It returns an error if the corresponding template is not present
func (pr *PageRenderer) RenderTemplate(wr io.Writer, name string, data any) error {
	if t, ok := pr.templates[name]; ok {
		return t.ExecuteTemplate(wr, name, data)
	}
	return fmt.Errorf("%w {%s}", apperrors.ErrTemplateMissing, name)
}
