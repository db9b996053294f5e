package api

import "context"

type OrderItem struct {
	ProductID   FlexInt   `json:"product_id"`
	ProductName string    `json:"product_name,omitempty"`
	Quantity    FlexInt   `json:"quantity"`
	Price       FlexFloat `json:"price,omitempty"`
}

// Order is a customer order as listed on the dashboard.
type Order struct {
	ID            FlexInt     `json:"id"`
	CustomerName  string      `json:"customer_name,omitempty"`
	Items         []OrderItem `json:"items,omitempty"`
	PaymentMethod string      `json:"payment_method,omitempty"`
	AddressID     FlexInt     `json:"address_id,omitempty"`
	Subtotal      FlexFloat   `json:"subtotal"`
	Total         FlexFloat   `json:"total,omitempty"`
	Status        FlexString  `json:"status"`
	CreatedAt     string      `json:"created_at,omitempty"`
}

func (o Order) StatusLabel() string { return o.Status.String() }

// OrderReceipt is the data echoed by a successful order creation.
type OrderReceipt struct {
	OrderID FlexInt    `json:"order_id"`
	Status  FlexString `json:"status,omitempty"`
	Total   FlexFloat  `json:"total,omitempty"`
}

type OrderItemInput struct {
	ProductID int `json:"product_id" validate:"required,gt=0"`
	Quantity  int `json:"quantity" validate:"required,gt=0"`
}

type CreateOrderPayload struct {
	Items         []OrderItemInput `json:"items" validate:"required,min=1,dive"`
	PaymentMethod string           `json:"payment_method" validate:"required"`
	AddressID     int              `json:"address_id" validate:"required,gt=0"`
	Subtotal      float64          `json:"subtotal" validate:"gte=0"`
}

// Create places an order. Orders are created by POSTing to the collection.
func (s OrdersService) Create(ctx context.Context, p CreateOrderPayload) (*Mutation, error) {
	return s.Resource.Create(ctx, p)
}

// Receipt decodes the order id from a create response.
func Receipt(m *Mutation) (*OrderReceipt, error) {
	var r OrderReceipt
	if err := m.DecodeData(&r); err != nil {
		return nil, err
	}
	return &r, nil
}
