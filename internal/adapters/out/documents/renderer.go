// Package documents renders dangerous goods paperwork as plain text pages.
package documents

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"freight/internal/core/domain/model/dangerousgoods"

	"github.com/valyala/fasttemplate"
)

const contentType = "text/plain; charset=utf-8"

//go:embed templates/*.tmpl
var templateFS embed.FS

const (
	placardPage = "PLACARD\n\n[tag:title]\n\nAffix to each outer package. Mode: [tag:mode]\n"
	batteryPage = "[tag:title]\n\nThis package contains lithium batteries. Handle with care.\n" +
		"Flammability hazard exists if the package is damaged. Mode: [tag:mode]\n"
	labelPage = "HANDLING LABEL\n\n[tag:title]\n\nMode: [tag:mode]\n"
)

// TextRenderer implements ports.DocumentRenderer. Declarations go through
// text/template; the single-field pages are simple placeholder substitutions.
type TextRenderer struct {
	declaration *template.Template
	pages       map[dangerousgoods.DocumentKind]*fasttemplate.Template
}

func NewTextRenderer() (*TextRenderer, error) {
	declaration, err := template.New("declaration.tmpl").
		Funcs(template.FuncMap{
			"inc":  func(i int) int { return i + 1 },
			"join": strings.Join,
		}).
		ParseFS(templateFS, "templates/declaration.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse declaration template: %w", err)
	}

	pages := make(map[dangerousgoods.DocumentKind]*fasttemplate.Template, 3)
	for kind, src := range map[dangerousgoods.DocumentKind]string{
		dangerousgoods.Placard:       placardPage,
		dangerousgoods.BatteryInsert: batteryPage,
		dangerousgoods.Label:         labelPage,
	} {
		t, err := fasttemplate.NewTemplate(src, "[tag:", "]")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", kind, err)
		}
		pages[kind] = t
	}

	return &TextRenderer{declaration: declaration, pages: pages}, nil
}

func (r *TextRenderer) Render(ctx context.Context, doc dangerousgoods.Document) (dangerousgoods.RenderedDocument, error) {
	if err := ctx.Err(); err != nil {
		return dangerousgoods.RenderedDocument{}, err
	}

	var buf bytes.Buffer
	if doc.Kind == dangerousgoods.Declaration {
		if err := r.declaration.Execute(&buf, doc); err != nil {
			return dangerousgoods.RenderedDocument{}, fmt.Errorf("render declaration: %w", err)
		}
	} else {
		page, ok := r.pages[doc.Kind]
		if !ok {
			return dangerousgoods.RenderedDocument{}, fmt.Errorf("no template for %s document", doc.Kind)
		}
		if _, err := page.Execute(&buf, map[string]any{
			"title": doc.Title,
			"mode":  doc.Mode,
		}); err != nil {
			return dangerousgoods.RenderedDocument{}, fmt.Errorf("render %s: %w", doc.Kind, err)
		}
	}

	return dangerousgoods.RenderedDocument{
		Document:    doc,
		ContentType: contentType,
		Content:     buf.Bytes(),
	}, nil
}
