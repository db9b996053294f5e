// internal/dryrun/dryrun_test.go
package dryrun

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/storedash/storedash-cli/internal/api"
)

func TestWithDryRun(t *testing.T) {
	if !IsEnabled(WithDryRun(context.Background(), true)) {
		t.Error("IsEnabled should return true when dry-run is enabled")
	}
	if IsEnabled(WithDryRun(context.Background(), false)) {
		t.Error("IsEnabled should return false when dry-run is explicitly disabled")
	}
	if IsEnabled(context.Background()) {
		t.Error("IsEnabled should return false by default")
	}
}

func TestForPayload_JSON(t *testing.T) {
	p, err := ForPayload("create tax", "POST", "https://api.shop.example/dashboard/taxes/create",
		api.CreateTaxPayload{TaxName: "VAT", Percentage: 12.5})
	if err != nil {
		t.Fatalf("ForPayload: %v", err)
	}
	if p.Encoding != "json" || p.Fields["tax_name"] != "VAT" || p.Fields["percentage"] != 12.5 {
		t.Errorf("preview = %+v", p)
	}
}

func TestForPayload_NonObject(t *testing.T) {
	p, err := ForPayload("send", "POST", "u", []int{1, 2})
	if err != nil {
		t.Fatalf("ForPayload: %v", err)
	}
	if _, ok := p.Fields["body"]; !ok {
		t.Errorf("fields = %v", p.Fields)
	}
}

func TestForPayload_Form(t *testing.T) {
	payload := api.CreateCategoryPayload{
		Name:  "Gold",
		Image: &api.Upload{Filename: "gold.png", Content: []byte("png")},
	}
	p, err := ForPayload("create category", "POST", "https://api.shop.example/dashboard/categories/add", payload)
	if err != nil {
		t.Fatalf("ForPayload: %v", err)
	}
	if p.Encoding != "multipart" || p.Fields["name"] != "Gold" || p.Files["image"] != "gold.png" {
		t.Errorf("preview = %+v", p)
	}
}

func TestPreview_Write(t *testing.T) {
	p := &Preview{
		Operation: "update delivery charge",
		Method:    "PATCH",
		URL:       "https://api.shop.example/dashboard/delivery-charges/update/7",
		Encoding:  "json",
		Fields:    map[string]any{"min_order_quantity": 1, "max_order_quantity": 10},
		Files:     map[string]string{"image": "a.png"},
	}
	p.Warn("status %s will be sent", "inactive")

	var buf bytes.Buffer
	p.Write(&buf)
	out := buf.String()

	for _, want := range []string{
		"[DRY-RUN] Would update delivery charge",
		"PATCH https://api.shop.example/dashboard/delivery-charges/update/7 (json)",
		"image: @a.png",
		"! status inactive will be sent",
		"No changes made (dry-run mode)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "max_order_quantity") > strings.Index(out, "min_order_quantity") {
		t.Error("fields should be sorted")
	}
}
