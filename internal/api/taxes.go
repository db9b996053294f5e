package api

import "context"

// Tax is a tax rule. The server sometimes names its identifier tax_id;
// ID is always populated after decoding.
type Tax struct {
	ID         FlexInt   `json:"id"`
	TaxID      FlexInt   `json:"tax_id,omitempty"`
	TaxName    string    `json:"tax_name"`
	Percentage FlexFloat `json:"percentage"`
	Status     FlexInt   `json:"status"`
}

func (t Tax) StatusLabel() string { return statusLabel(t.Status) }

type CreateTaxPayload struct {
	TaxName    string  `json:"tax_name" validate:"required,max=100"`
	Percentage float64 `json:"percentage" validate:"gte=0,lte=100"`
}

type UpdateTaxPayload struct {
	TaxName    *string  `json:"tax_name,omitempty" validate:"omitempty,min=1,max=100"`
	Percentage *float64 `json:"percentage,omitempty" validate:"omitempty,gte=0,lte=100"`
	Status     *int     `json:"status,omitempty" validate:"omitempty,oneof=0 1"`
}

func (p UpdateTaxPayload) Empty() bool {
	return p.TaxName == nil && p.Percentage == nil && p.Status == nil
}

func (s TaxesService) Create(ctx context.Context, p CreateTaxPayload) (*Mutation, error) {
	return s.Resource.Create(ctx, p)
}

func (s TaxesService) Update(ctx context.Context, id int, p UpdateTaxPayload) (*Mutation, error) {
	return s.Resource.Update(ctx, id, p)
}
