// internal/filter/filter_test.go
package filter

import (
	"bytes"
	"testing"
)

func TestApply_EmptyExpression(t *testing.T) {
	data := map[string]any{"name": "test"}
	result, err := Apply(data, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.(map[string]any)["name"] != "test" {
		t.Error("empty expression should return data unchanged")
	}
}

func TestApply(t *testing.T) {
	products := map[string]any{
		"items": []any{
			map[string]any{"id": float64(1), "name": "Ring", "status": float64(1)},
			map[string]any{"id": float64(2), "name": "Chain", "status": float64(0)},
		},
	}

	tests := []struct {
		name string
		data any
		expr string
		want any
	}{
		{"field", map[string]any{"name": "Ring"}, ".name", "Ring"},
		{"items select", products, `[.items[] | select(.status == 1) | .name]`, []any{"Ring"}},
		{"root array on wrapped list", products, `[.[] | .id]`, []any{float64(1), float64(2)}},
		{"shell escaped not-equal", products, `[.items[] | select(.status \!= 1) | .name]`, []any{"Chain"}},
		{"multiple results", products, `.items[] | .name`, []any{"Ring", "Chain"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(tt.data, tt.expr)
			if err != nil {
				t.Fatalf("Apply(%q): %v", tt.expr, err)
			}
			if !equalJSON(t, got, tt.want) {
				t.Errorf("Apply(%q) = %#v, want %#v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestApply_InvalidExpression(t *testing.T) {
	if _, err := Apply(map[string]any{}, "invalid[[["); err == nil {
		t.Error("expected error for invalid expression")
	}
}

func TestApply_RuntimeError(t *testing.T) {
	if _, err := Apply("text", ".name"); err == nil {
		t.Error("expected error indexing a string")
	}
}

func TestCompile(t *testing.T) {
	if _, err := Compile(".items[] | .id"); err != nil {
		t.Errorf("Compile: %v", err)
	}
	if _, err := Compile(".items[] |"); err == nil {
		t.Error("expected syntax error")
	}
}

func TestApplyToJSON(t *testing.T) {
	result, err := ApplyToJSON([]byte(`{"name": "test", "id": 123}`), ".name")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Contains(result, []byte(`"test"`)) {
		t.Errorf("result = %s", result)
	}

	if _, err := ApplyToJSON([]byte(`{invalid}`), ".name"); err == nil {
		t.Error("expected error for invalid JSON")
	}

	raw := []byte(`{"name": "test"}`)
	same, err := ApplyToJSON(raw, "")
	if err != nil || !bytes.Equal(raw, same) {
		t.Errorf("empty expression should return original JSON unchanged")
	}
}

func equalJSON(t *testing.T, a, b any) bool {
	t.Helper()
	x, err := Apply(a, "tojson")
	if err != nil {
		t.Fatal(err)
	}
	y, err := Apply(b, "tojson")
	if err != nil {
		t.Fatal(err)
	}
	return x == y
}
