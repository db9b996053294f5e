package api

import "context"

// Gender codes accepted by the profile endpoint.
const (
	GenderUnspecified = 0
	GenderMale        = 1
	GenderFemale      = 2
	GenderOther       = 3
)

// ProfileData is the merchant account profile.
type ProfileData struct {
	ID           FlexInt    `json:"id"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Email        string     `json:"email"`
	Phone        FlexString `json:"phone,omitempty"`
	Gender       FlexInt    `json:"gender"`
	BusinessName string     `json:"business_name,omitempty"`
	Address      string     `json:"address,omitempty"`
	LogoURL      string     `json:"logo_url,omitempty"`
	BannerURL    string     `json:"banner_url,omitempty"`
}

// UpdateProfilePayload carries only the fields being changed. Gender is sent
// only when set; there is no implicit default.
type UpdateProfilePayload struct {
	FirstName    *string `validate:"omitempty,min=1,max=100"`
	LastName     *string `validate:"omitempty,max=100"`
	Phone        *string `validate:"omitempty,max=20"`
	Gender       *int    `validate:"omitempty,oneof=0 1 2 3"`
	BusinessName *string `validate:"omitempty,max=200"`
	Address      *string `validate:"omitempty,max=500"`
	Logo         *Upload
	Banner       *Upload
}

func (p UpdateProfilePayload) Form() *Form {
	return NewForm().
		SetString("first_name", p.FirstName).
		SetString("last_name", p.LastName).
		SetString("phone", p.Phone).
		SetIntPtr("gender", p.Gender).
		SetString("business_name", p.BusinessName).
		SetString("address", p.Address).
		AddFile("logo", p.Logo).
		AddFile("banner", p.Banner)
}

func (p UpdateProfilePayload) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Phone == nil && p.Gender == nil &&
		p.BusinessName == nil && p.Address == nil && p.Logo == nil && p.Banner == nil
}

// Get fetches the current account profile.
func (s ProfileService) Get(ctx context.Context) (*ProfileData, error) {
	env, err := s.Resource.Get(ctx)
	if err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// Update patches the profile. The endpoint takes no id.
func (s ProfileService) Update(ctx context.Context, p UpdateProfilePayload) (*Mutation, error) {
	return s.Resource.Update(ctx, 0, p)
}
