package api

import "context"

// DeliveryCharge is a charge applied to orders within a quantity range.
// The server sometimes names its identifier delivery_charge_id.
type DeliveryCharge struct {
	ID               FlexInt   `json:"id"`
	DeliveryChargeID FlexInt   `json:"delivery_charge_id,omitempty"`
	MinOrderQuantity FlexInt   `json:"min_order_quantity"`
	MaxOrderQuantity FlexInt   `json:"max_order_quantity"`
	ChargeAmount     FlexFloat `json:"charge_amount"`
	Status           FlexInt   `json:"status"`
}

func (d DeliveryCharge) StatusLabel() string { return statusLabel(d.Status) }

type CreateDeliveryChargePayload struct {
	MinOrderQuantity int     `json:"min_order_quantity" validate:"gte=0"`
	MaxOrderQuantity int     `json:"max_order_quantity" validate:"gtefield=MinOrderQuantity"`
	ChargeAmount     float64 `json:"charge_amount" validate:"gte=0"`
}

// UpdateDeliveryChargePayload is a full replacement; the endpoint expects
// every field including status.
type UpdateDeliveryChargePayload struct {
	MinOrderQuantity int     `json:"min_order_quantity" validate:"gte=0"`
	MaxOrderQuantity int     `json:"max_order_quantity" validate:"gtefield=MinOrderQuantity"`
	ChargeAmount     float64 `json:"charge_amount" validate:"gte=0"`
	Status           int     `json:"status" validate:"oneof=0 1"`
}

// UpdatePayload starts a full update payload from the current record.
func (d DeliveryCharge) UpdatePayload() UpdateDeliveryChargePayload {
	return UpdateDeliveryChargePayload{
		MinOrderQuantity: d.MinOrderQuantity.Int(),
		MaxOrderQuantity: d.MaxOrderQuantity.Int(),
		ChargeAmount:     d.ChargeAmount.Float(),
		Status:           d.Status.Int(),
	}
}

func (s DeliveryChargesService) Create(ctx context.Context, p CreateDeliveryChargePayload) (*Mutation, error) {
	return s.Resource.Create(ctx, p)
}

func (s DeliveryChargesService) Update(ctx context.Context, id int, p UpdateDeliveryChargePayload) (*Mutation, error) {
	return s.Resource.Update(ctx, id, p)
}
