package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
	"gopkg.in/yaml.v3"
)

// Format renders the report. Supported formats: text, json, yaml.
func Format(r *Report, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "json":
		return formatJSON(r)
	case "yaml", "yml":
		return formatYAML(r)
	case "text", "":
		return []byte(formatText(r)), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: text, json, yaml)", format)
	}
}

// FormatForPath picks the format from the file extension of path.
func FormatForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "text"
	}
}

// WriteFile renders the report in the format implied by path and writes it.
func WriteFile(r *Report, path string) error {
	data, err := Format(r, FormatForPath(path))
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// jsonDoc accumulates sjson edits and keeps the first error.
type jsonDoc struct {
	data []byte
	err  error
}

func (d *jsonDoc) set(path string, value any) {
	if d.err == nil {
		d.data, d.err = sjson.SetBytes(d.data, path, value)
	}
}

func (d *jsonDoc) setRaw(path, raw string) {
	if d.err == nil {
		d.data, d.err = sjson.SetRawBytes(d.data, path, []byte(raw))
	}
}

// formatJSON builds the document field by field so keys keep a stable,
// readable order.
func formatJSON(r *Report) ([]byte, error) {
	doc := &jsonDoc{data: []byte(`{}`)}
	doc.set("lib", r.Lib)
	doc.set("dryRun", r.DryRun)

	t := r.Totals()
	doc.set("totals.files", t.Files)
	doc.set("totals.changed", t.Changed)
	doc.set("totals.failed", t.Failed)
	doc.set("totals.imports", t.Imports)
	doc.set("totals.rewrites", t.Rewrites)
	doc.set("totals.removed", t.Removed)
	doc.setRaw("totals.members", "[]")
	for _, m := range t.Members {
		doc.set("totals.members.-1", m)
	}

	doc.setRaw("files", "[]")
	for i, f := range r.Files {
		p := fmt.Sprintf("files.%d", i)
		doc.setRaw("files.-1", "{}")
		doc.set(p+".path", f.Path)
		if f.Output != "" && f.Output != f.Path {
			doc.set(p+".output", f.Output)
		}
		if f.Error != "" {
			doc.set(p+".error", f.Error)
			continue
		}
		doc.set(p+".changed", f.Changed)
		doc.set(p+".rewrites", f.Rewrites)
		doc.set(p+".removed", f.Removed)
		doc.setRaw(p+".imports", "[]")
		for j, imp := range f.Imports {
			q := fmt.Sprintf("%s.imports.%d", p, j)
			doc.setRaw(p+".imports.-1", "{}")
			doc.set(q+".member", imp.Member)
			doc.set(q+".local", imp.Local)
			doc.set(q+".path", imp.Path)
		}
	}

	if len(r.Issues) > 0 {
		doc.setRaw("issues", "[]")
		for i, issue := range r.Issues {
			p := fmt.Sprintf("issues.%d", i)
			doc.setRaw("issues.-1", "{}")
			doc.set(p+".rule", issue.Rule)
			doc.set(p+".severity", issue.Severity.String())
			doc.set(p+".file", issue.File)
			doc.set(p+".line", issue.Line)
			doc.set(p+".column", issue.Column)
			doc.set(p+".message", issue.Message)
		}
	}

	if doc.err != nil {
		return nil, fmt.Errorf("failed to build JSON report: %w", doc.err)
	}
	return pretty.Pretty(doc.data), nil
}

func formatYAML(r *Report) ([]byte, error) {
	m := ToMap(r, CamelCase)
	m["totals"] = ToMap(r.Totals(), CamelCase)
	data, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return data, nil
}

func formatText(r *Report) string {
	var sb strings.Builder

	for _, f := range r.Files {
		switch {
		case f.Error != "":
			fmt.Fprintf(&sb, "✗ %s: %s\n", f.Path, f.Error)
		case !f.Changed:
			fmt.Fprintf(&sb, "  %s: unchanged\n", f.Path)
		default:
			fmt.Fprintf(&sb, "✓ %s: %d import(s), %d rewrite(s)\n", f.Path, len(f.Imports), f.Rewrites)
			for _, imp := range f.Imports {
				fmt.Fprintf(&sb, "    %s -> %s\n", imp.Local, imp.Path)
			}
		}
	}

	for _, issue := range r.Issues {
		sb.WriteString(issue.String())
		sb.WriteString("\n")
	}

	t := r.Totals()
	verb := "rewrote"
	if r.DryRun {
		verb = "would rewrite"
	}
	fmt.Fprintf(&sb, "%s %d of %d file(s) using %q", verb, t.Changed, t.Files, r.Lib)
	if t.Failed > 0 {
		fmt.Fprintf(&sb, ", %d failed", t.Failed)
	}
	sb.WriteString("\n")
	return sb.String()
}
