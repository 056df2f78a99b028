package planner

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"
)

//go:embed templates/*.tmpl
var promptTemplates embed.FS

// renderPrompt renders one of the embedded prompt templates with the given data.
func renderPrompt(name string, data any) (string, error) {
	raw, err := promptTemplates.ReadFile("templates/" + name + ".tmpl")
	if err != nil {
		return "", fmt.Errorf("read prompt template %q: %w", name, err)
	}
	tmpl, err := template.New(name).Parse(string(raw))
	if err != nil {
		return "", fmt.Errorf("parse prompt template %q: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt template %q: %w", name, err)
	}
	return buf.String(), nil
}

// systemInstructions returns the planner's role instruction.
func systemInstructions() (string, error) {
	return renderPrompt("system", nil)
}

// userPrompt returns the per-run prompt carrying the run context.
func userPrompt(req Request) (string, error) {
	return renderPrompt("user", req)
}
