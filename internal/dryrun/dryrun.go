// Package dryrun provides dry-run mode functionality for previewing mutations.
package dryrun

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/storedash/storedash-cli/internal/api"
)

type contextKey string

const dryRunKey contextKey = "dry_run_enabled"

// WithDryRun returns a context with dry-run mode enabled/disabled.
func WithDryRun(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, dryRunKey, enabled)
}

// IsEnabled returns true if dry-run mode is enabled.
func IsEnabled(ctx context.Context) bool {
	if v, ok := ctx.Value(dryRunKey).(bool); ok {
		return v
	}
	return false
}

// Preview describes the request a mutation would send.
type Preview struct {
	Operation string            `json:"operation"`
	Method    string            `json:"method"`
	URL       string            `json:"url"`
	Encoding  string            `json:"encoding"`
	Fields    map[string]any    `json:"fields,omitempty"`
	Files     map[string]string `json:"files,omitempty"`
	Warnings  []string          `json:"warnings,omitempty"`
}

// ForPayload builds a preview of sending payload. Form payloads report
// their form fields and attached file names; anything else is shown as the
// JSON body.
func ForPayload(operation, method, url string, payload any) (*Preview, error) {
	p := &Preview{Operation: operation, Method: method, URL: url}
	if fe, ok := payload.(api.FormEncoder); ok {
		p.Encoding = "multipart"
		form := fe.Form()
		p.Fields = make(map[string]any)
		for k, v := range form.Fields() {
			p.Fields[k] = v
		}
		if files := form.Files(); len(files) > 0 {
			p.Files = files
		}
		return p, nil
	}

	p.Encoding = "json"
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	if err := json.Unmarshal(data, &p.Fields); err != nil {
		// Non-object bodies are shown whole.
		var body any
		if err := json.Unmarshal(data, &body); err != nil {
			return nil, err
		}
		p.Fields = map[string]any{"body": body}
	}
	return p, nil
}

// Warn appends a warning shown with the preview.
func (p *Preview) Warn(format string, args ...any) {
	p.Warnings = append(p.Warnings, fmt.Sprintf(format, args...))
}

// Write outputs the preview to the writer
func (p *Preview) Write(w io.Writer) {
	_, _ = fmt.Fprintf(w, "\n[DRY-RUN] Would %s\n", p.Operation)
	_, _ = fmt.Fprintf(w, "───────────────────────────────────────\n")
	_, _ = fmt.Fprintf(w, "%s %s (%s)\n\n", p.Method, p.URL, p.Encoding)

	if len(p.Fields) > 0 {
		for _, k := range slices.Sorted(maps.Keys(p.Fields)) {
			_, _ = fmt.Fprintf(w, "  %s: %v\n", k, formatValue(p.Fields[k]))
		}
		_, _ = fmt.Fprintln(w)
	}
	if len(p.Files) > 0 {
		for _, k := range slices.Sorted(maps.Keys(p.Files)) {
			_, _ = fmt.Fprintf(w, "  %s: @%s\n", k, p.Files[k])
		}
		_, _ = fmt.Fprintln(w)
	}

	if len(p.Warnings) > 0 {
		_, _ = fmt.Fprintln(w, "Warnings:")
		for _, warning := range p.Warnings {
			_, _ = fmt.Fprintf(w, "  ! %s\n", warning)
		}
		_, _ = fmt.Fprintln(w)
	}

	_, _ = fmt.Fprintf(w, "───────────────────────────────────────\n")
	_, _ = fmt.Fprintln(w, "No changes made (dry-run mode)")
}

func formatValue(v any) string {
	switch v.(type) {
	case map[string]any, []any:
		data, err := json.Marshal(v)
		if err == nil {
			return string(data)
		}
	}
	return fmt.Sprint(v)
}
