// Package invoice turns a finalized bill record into a human-viewable
// document: HTML for the on-screen preview and PDF for export.
package invoice

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pharmacare/m/domain"
)

//go:embed invoice.html.tmpl
var templateFS embed.FS

// Renderer produces invoice documents from fully-populated bill records.
type Renderer struct {
	tmpl       *template.Template
	chromePath string
	log        *zap.Logger
}

// NewRenderer parses the embedded invoice template. chromePath may be empty,
// in which case PDF export falls back to auto-detecting a Chrome binary.
func NewRenderer(chromePath string, log *zap.Logger) (*Renderer, error) {
	tmpl, err := template.New("invoice.html.tmpl").Funcs(template.FuncMap{
		"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
		"add":   func(a, b int) int { return a + b },
	}).ParseFS(templateFS, "invoice.html.tmpl")
	if err != nil {
		return nil, err
	}
	return &Renderer{tmpl: tmpl, chromePath: chromePath, log: log}, nil
}

// RenderHTML renders the bill as a standalone HTML document for preview.
func (r *Renderer) RenderHTML(details domain.BillDetails) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, details); err != nil {
		return "", err
	}
	return buf.String(), nil
}
