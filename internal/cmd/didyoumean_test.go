package cmd

import "testing"

func TestEditDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"taxes", "taxes", 0},
		{"taxs", "taxes", 1},
		{"prodcuts", "products", 2},
		{"kitten", "sitting", 3},
		{"auth", "oauth", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			if got := editDistance(tt.a, tt.b); got != tt.want {
				t.Errorf("editDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
			if got := editDistance(tt.b, tt.a); got != tt.want {
				t.Errorf("editDistance(%q, %q) = %d, want %d (not symmetric)", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestSuggestCommand(t *testing.T) {
	commands := []string{"auth", "products", "categories", "orders", "taxes", "delivery-charges", "profile", "portfolio", "overview", "version"}

	tests := []struct {
		input string
		want  string
	}{
		{"prodcuts", "products"},
		{"taxs", "taxes"},
		{"ORDERS", "orders"},
		{"deliv", "delivery-charges"},
		{"cat", "categories"},
		{"pro", ""},
		{"xyzzy", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := suggestCommand(tt.input, commands); got != tt.want {
				t.Errorf("suggestCommand(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSuggestFlag(t *testing.T) {
	flagNames := []string{"--output", "--json", "--dry-run", "--status", "--search", "--limit"}

	tests := []struct {
		input string
		want  string
	}{
		{"--ouput", "--output"},
		{"--dryrun", "--dry-run"},
		{"--stat", "--status"},
		{"-limt", "--limit"},
		{"--se", "--search"},
		{"--completely-different", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := suggestFlag(tt.input, flagNames); got != tt.want {
				t.Errorf("suggestFlag(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
