package api

import "github.com/storedash/storedash-cli/internal/credentials"

// Resource descriptions. Each service accessor binds one of these to the
// client; the request pipeline is the same for all of them.
var (
	ProductsSpec = ResourceSpec{
		Noun:         "products",
		Singular:     "product",
		Service:      Commerce,
		Collection:   "/dashboard/products",
		CreateAction: "add",
		UpdateAction: "update",
		Encoding:     EncodeMultipart,
		TokenKeys:    credentials.CommerceKeys,
	}

	CategoriesSpec = ResourceSpec{
		Noun:         "categories",
		Singular:     "category",
		Service:      Commerce,
		Collection:   "/dashboard/categories",
		CreateAction: "add",
		UpdateAction: "update",
		Encoding:     EncodeMultipart,
		TokenKeys:    credentials.CommerceKeys,
	}

	OrdersSpec = ResourceSpec{
		Noun:       "orders",
		Singular:   "order",
		Service:    Commerce,
		Collection: "/dashboard/orders",
		Encoding:   EncodeJSON,
		TokenKeys:  credentials.CommerceKeys,
	}

	TaxesSpec = ResourceSpec{
		Noun:         "taxes",
		Singular:     "tax",
		Service:      Commerce,
		Collection:   "/dashboard/taxes",
		CreateAction: "create",
		UpdateAction: "update",
		IDAliases:    []string{"tax_id"},
		Encoding:     EncodeJSON,
		TokenKeys:    credentials.CommerceKeys,
	}

	DeliveryChargesSpec = ResourceSpec{
		Noun:         "delivery charges",
		Singular:     "delivery charge",
		Service:      Commerce,
		Collection:   "/dashboard/delivery-charges",
		CreateAction: "create",
		UpdateAction: "update",
		IDAliases:    []string{"delivery_charge_id"},
		Encoding:     EncodeJSON,
		TokenKeys:    credentials.CommerceKeys,
	}

	ProfileSpec = ResourceSpec{
		Noun:         "profile",
		Singular:     "profile",
		Service:      Commerce,
		Collection:   "/dashboard/profile",
		UpdateAction: "update",
		Encoding:     EncodeMultipart,
		TokenKeys:    credentials.AccountKeys,
	}

	PortfolioSpec = ResourceSpec{
		Noun:         "portfolio",
		Singular:     "portfolio",
		Service:      Portfolio,
		Collection:   "/dashboard/portfolio",
		Encoding:     EncodeJSON,
		TokenKeys:    credentials.AccountKeys,
		RecordsField: "portfolios",
	}
)

type ProductsService struct{ Resource[Product] }

type CategoriesService struct{ Resource[Category] }

type OrdersService struct{ Resource[Order] }

type TaxesService struct{ Resource[Tax] }

type DeliveryChargesService struct{ Resource[DeliveryCharge] }

type ProfileService struct{ Resource[ProfileData] }

type PortfolioService struct{ Resource[PortfolioEntry] }

func (c *Client) Products() ProductsService {
	return ProductsService{NewResource[Product](c, ProductsSpec)}
}

func (c *Client) Categories() CategoriesService {
	return CategoriesService{NewResource[Category](c, CategoriesSpec)}
}

func (c *Client) Orders() OrdersService {
	return OrdersService{NewResource[Order](c, OrdersSpec)}
}

func (c *Client) Taxes() TaxesService {
	return TaxesService{NewResource[Tax](c, TaxesSpec)}
}

func (c *Client) DeliveryCharges() DeliveryChargesService {
	return DeliveryChargesService{NewResource[DeliveryCharge](c, DeliveryChargesSpec)}
}

func (c *Client) Profile() ProfileService {
	return ProfileService{NewResource[ProfileData](c, ProfileSpec)}
}

func (c *Client) Portfolio() PortfolioService {
	return PortfolioService{NewResource[PortfolioEntry](c, PortfolioSpec)}
}
