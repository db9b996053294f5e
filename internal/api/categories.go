package api

import "context"

// Category groups products.
type Category struct {
	ID           FlexInt `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	ImageURL     string  `json:"image_url,omitempty"`
	Status       FlexInt `json:"status"`
	ProductCount FlexInt `json:"product_count,omitempty"`
}

func (c Category) StatusLabel() string { return statusLabel(c.Status) }

type CreateCategoryPayload struct {
	Name        string `validate:"required,max=100"`
	Description string `validate:"max=2000"`
	Status      int    `validate:"oneof=0 1"`
	Image       *Upload
}

func (p CreateCategoryPayload) Form() *Form {
	return NewForm().
		Set("name", p.Name).
		Set("description", p.Description).
		SetInt("status", p.Status).
		AddFile("image", p.Image)
}

type UpdateCategoryPayload struct {
	Name        *string `validate:"omitempty,min=1,max=100"`
	Description *string `validate:"omitempty,max=2000"`
	Status      *int    `validate:"omitempty,oneof=0 1"`
	Image       *Upload
}

func (p UpdateCategoryPayload) Form() *Form {
	return NewForm().
		SetString("name", p.Name).
		SetString("description", p.Description).
		SetIntPtr("status", p.Status).
		AddFile("image", p.Image)
}

func (p UpdateCategoryPayload) Empty() bool {
	return p.Name == nil && p.Description == nil && p.Status == nil && p.Image == nil
}

func (s CategoriesService) Create(ctx context.Context, p CreateCategoryPayload) (*Mutation, error) {
	return s.Resource.Create(ctx, p)
}

func (s CategoriesService) Update(ctx context.Context, id int, p UpdateCategoryPayload) (*Mutation, error) {
	return s.Resource.Update(ctx, id, p)
}

// DefaultCategories is the built-in list used when the categories fetch
// fails while resolving a category name.
var DefaultCategories = []Category{
	{ID: 1, Name: "Gold", Status: StatusActive},
	{ID: 2, Name: "Silver", Status: StatusActive},
	{ID: 3, Name: "Diamond", Status: StatusActive},
	{ID: 4, Name: "Platinum", Status: StatusActive},
	{ID: 5, Name: "Gemstone", Status: StatusActive},
}
