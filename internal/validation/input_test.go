package validation

import (
	"errors"
	"strings"
	"testing"
)

type chargeInput struct {
	MinOrderQuantity int     `json:"min_order_quantity" validate:"gte=0"`
	MaxOrderQuantity int     `json:"max_order_quantity" validate:"gtefield=MinOrderQuantity"`
	ChargeAmount     float64 `json:"charge_amount" validate:"gte=0"`
}

type taxInput struct {
	TaxName    string  `json:"tax_name" validate:"required"`
	Percentage float64 `json:"percentage" validate:"gte=0,lte=100"`
}

type formInput struct {
	CategoryID int  `validate:"required,gt=0"`
	Status     *int `validate:"omitempty,oneof=0 1"`
}

type lineItem struct {
	ProductID int `json:"product_id" validate:"required,gt=0"`
	Quantity  int `json:"quantity" validate:"required,gt=0"`
}

type orderInput struct {
	Items []lineItem `json:"items" validate:"required,min=1,dive"`
}

func TestStruct(t *testing.T) {
	two := 2
	tests := []struct {
		name    string
		input   any
		wantMsg []string
	}{
		{"valid charge", chargeInput{MinOrderQuantity: 1, MaxOrderQuantity: 10, ChargeAmount: 50}, nil},
		{"max below min", chargeInput{MinOrderQuantity: 5, MaxOrderQuantity: 2}, []string{"max_order_quantity must be greater than or equal to min_order_quantity"}},
		{"negative charge", chargeInput{ChargeAmount: -1}, []string{"charge_amount must be at least 0"}},
		{"tax missing name and over 100", taxInput{Percentage: 120}, []string{"tax_name is required", "percentage must be at most 100"}},
		{"form fields use snake case", formInput{Status: &two}, []string{"category_id is required", "status must be one of: 0, 1"}},
		{"empty order", orderInput{}, []string{"items is required"}},
		{"bad line item", orderInput{Items: []lineItem{{ProductID: 1}}}, []string{"items[0].quantity is required"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.input)
			if len(tt.wantMsg) == 0 {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			var fieldErrs FieldErrors
			if !errors.As(err, &fieldErrs) {
				t.Fatalf("expected FieldErrors, got %T: %v", err, err)
			}
			for _, want := range tt.wantMsg {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("error %q missing %q", err.Error(), want)
				}
			}
		})
	}
}

func TestSnakeCase(t *testing.T) {
	tests := map[string]string{
		"CategoryID":       "category_id",
		"DiscountPrice":    "discount_price",
		"Name":             "name",
		"MinOrderQuantity": "min_order_quantity",
		"URLPath":          "url_path",
	}
	for in, want := range tests {
		if got := snakeCase(in); got != want {
			t.Errorf("snakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParsePositiveInt(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"42", 42, false},
		{" #7 ", 7, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
		{"99999999999", 0, true},
	}
	for _, tt := range tests {
		got, err := ParsePositiveInt(tt.input, "id")
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePositiveInt(%q) err = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePositiveInt(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}
