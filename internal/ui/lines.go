package ui

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"torus-ca/pkg/core"
)

// Lines formats a snapshot as a title-cased heading per group followed by
// indented "Label: value" rows.
func Lines(s core.ParameterSnapshot) []string {
	title := cases.Title(language.English)
	var out []string
	for _, group := range s.Groups {
		out = append(out, title.String(group.Name))
		for _, p := range group.Params {
			out = append(out, "  "+p.Label+": "+p.Value)
		}
	}
	return out
}

// StatusLine flattens a snapshot onto a single line.
func StatusLine(s core.ParameterSnapshot) string {
	var parts []string
	for _, group := range s.Groups {
		for _, p := range group.Params {
			parts = append(parts, strings.ToLower(p.Label)+" "+p.Value)
		}
	}
	return strings.Join(parts, "  ")
}
