package api

import "context"

// Product is a catalog item.
type Product struct {
	ID            FlexInt   `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Price         FlexFloat `json:"price"`
	DiscountPrice FlexFloat `json:"discount_price,omitempty"`
	Stock         FlexInt   `json:"stock"`
	CategoryID    FlexInt   `json:"category_id,omitempty"`
	CategoryName  string    `json:"category_name,omitempty"`
	ImageURL      string    `json:"image_url,omitempty"`
	Status        FlexInt   `json:"status"`
	CreatedAt     string    `json:"created_at,omitempty"`
}

func (p Product) StatusLabel() string { return statusLabel(p.Status) }

// CreateProductPayload is sent as multipart form fields plus an image file.
type CreateProductPayload struct {
	Name          string   `validate:"required,max=200"`
	Description   string   `validate:"max=5000"`
	Price         float64  `validate:"gt=0"`
	DiscountPrice *float64 `validate:"omitempty,gte=0"`
	Stock         int      `validate:"gte=0"`
	CategoryID    int      `validate:"required,gt=0"`
	Status        int      `validate:"oneof=0 1"`
	Image         *Upload
}

func (p CreateProductPayload) Form() *Form {
	return NewForm().
		Set("name", p.Name).
		Set("description", p.Description).
		SetFloat("price", p.Price).
		SetFloatPtr("discount_price", p.DiscountPrice).
		SetInt("stock", p.Stock).
		SetInt("category_id", p.CategoryID).
		SetInt("status", p.Status).
		AddFile("image", p.Image)
}

// UpdateProductPayload carries only the fields being changed.
type UpdateProductPayload struct {
	Name          *string  `validate:"omitempty,min=1,max=200"`
	Description   *string  `validate:"omitempty,max=5000"`
	Price         *float64 `validate:"omitempty,gt=0"`
	DiscountPrice *float64 `validate:"omitempty,gte=0"`
	Stock         *int     `validate:"omitempty,gte=0"`
	CategoryID    *int     `validate:"omitempty,gt=0"`
	Status        *int     `validate:"omitempty,oneof=0 1"`
	Image         *Upload
}

func (p UpdateProductPayload) Form() *Form {
	return NewForm().
		SetString("name", p.Name).
		SetString("description", p.Description).
		SetFloatPtr("price", p.Price).
		SetFloatPtr("discount_price", p.DiscountPrice).
		SetIntPtr("stock", p.Stock).
		SetIntPtr("category_id", p.CategoryID).
		SetIntPtr("status", p.Status).
		AddFile("image", p.Image)
}

// Empty reports whether the update would change nothing.
func (p UpdateProductPayload) Empty() bool {
	return p.Name == nil && p.Description == nil && p.Price == nil && p.DiscountPrice == nil &&
		p.Stock == nil && p.CategoryID == nil && p.Status == nil && p.Image == nil
}

func (s ProductsService) Create(ctx context.Context, p CreateProductPayload) (*Mutation, error) {
	return s.Resource.Create(ctx, p)
}

func (s ProductsService) Update(ctx context.Context, id int, p UpdateProductPayload) (*Mutation, error) {
	return s.Resource.Update(ctx, id, p)
}
