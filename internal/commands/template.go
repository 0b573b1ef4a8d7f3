package commands

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// templateFuncs provides utility functions for templates.
var templateFuncs = sprig.TxtFuncMap()

// ExpandTemplate expands a template string using the provided data.
// The data can be any struct - templates access fields via {{ .FieldName }}.
func ExpandTemplate(tmplStr string, data any) (string, error) {
	tmpl, err := parseTemplate(tmplStr)
	if err != nil {
		return "", err
	}
	return executeTemplate(tmpl, data)
}

func parseTemplate(tmplStr string) (*template.Template, error) {
	tmpl, err := template.New("").Funcs(templateFuncs).Parse(tmplStr)
	if err != nil {
		return nil, fmt.Errorf("parsing template: %w", err)
	}
	return tmpl, nil
}

func executeTemplate(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}
	return buf.String(), nil
}

// configTemplates holds a command's config values, parsed once at compile
// time. Values without template markers are kept as plain strings.
type configTemplates struct {
	plain     map[string]string
	templated map[string]*template.Template
}

func compileConfig(config map[string]any) (*configTemplates, error) {
	ct := &configTemplates{
		plain:     make(map[string]string),
		templated: make(map[string]*template.Template),
	}
	for k, v := range config {
		s, ok := v.(string)
		if !ok {
			ct.plain[k] = fmt.Sprint(v)
			continue
		}
		// Quick check: if no template markers, keep as-is
		if !strings.Contains(s, "{{") {
			ct.plain[k] = s
			continue
		}
		tmpl, err := parseTemplate(s)
		if err != nil {
			return nil, fmt.Errorf("config %q: %w", k, err)
		}
		ct.templated[k] = tmpl
	}
	return ct, nil
}

// expand substitutes inputs into the config before handler execution.
func (ct *configTemplates) expand(ctx *InputContext) (map[string]string, error) {
	out := make(map[string]string, len(ct.plain)+len(ct.templated))
	for k, v := range ct.plain {
		out[k] = v
	}
	for k, tmpl := range ct.templated {
		s, err := executeTemplate(tmpl, ctx)
		if err != nil {
			return nil, fmt.Errorf("config %q: %w", k, err)
		}
		out[k] = s
	}
	return out, nil
}
