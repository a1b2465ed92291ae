package display

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// Template is a parsed message template with the sprig functions available.
// Fields missing from the data are an error rather than "<no value>".
type Template struct {
	raw  string
	tmpl *template.Template
}

// ParseTemplate compiles text once so it can be rendered many times.
func ParseTemplate(name, text string) (*Template, error) {
	t := &Template{raw: text}
	if !strings.Contains(text, "{{") {
		return t, nil
	}

	tmpl, err := template.New(name).
		Funcs(sprig.TxtFuncMap()).
		Option("missingkey=error").
		Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", name, err)
	}
	t.tmpl = tmpl
	return t, nil
}

// Render executes the template against data.
func (t *Template) Render(data any) (string, error) {
	if t.tmpl == nil {
		return t.raw, nil
	}

	var sb strings.Builder
	if err := t.tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("rendering template %s: %w", t.tmpl.Name(), err)
	}
	return sb.String(), nil
}
