package cmd

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/storedash/storedash-cli/internal/api"
	"github.com/storedash/storedash-cli/internal/listing"
	"github.com/storedash/storedash-cli/internal/resolve"
)

func newProductsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"product", "p"},
		Short:   "Manage catalog products",
	}

	cmd.AddCommand(NewListCommand(ListConfig[api.Product]{
		Use:   "list",
		Short: "List products",
		Example: `  sdash products list
  sdash products list --status active --search ring
  sdash products list --all -o csv`,
		Fetch: func(ctx context.Context, client *api.Client) ([]api.Product, error) {
			env, err := client.Products().List(ctx)
			if err != nil {
				return nil, err
			}
			return env.Data, nil
		},
		Headers: []string{"ID", "NAME", "PRICE", "STOCK", "CATEGORY", "STATUS"},
		RowFunc: func(p api.Product) []string {
			category := p.CategoryName
			if category == "" && p.CategoryID > 0 {
				category = strconv.Itoa(p.CategoryID.Int())
			}
			return []string{
				strconv.Itoa(p.ID.Int()),
				p.Name,
				formatMoney(p.Price.Float()),
				strconv.Itoa(p.Stock.Int()),
				category,
				p.StatusLabel(),
			}
		},
		EmptyMessage: "No products found",
		Accessors: listing.Accessors[api.Product]{
			Name:   func(p api.Product) string { return p.Name },
			Status: func(p api.Product) string { return p.StatusLabel() },
		},
	}, getClient))
	cmd.AddCommand(newProductsCreateCmd())
	cmd.AddCommand(newProductsUpdateCmd())

	return cmd
}

type productFlags struct {
	name          string
	description   string
	price         float64
	discountPrice float64
	stock         int
	category      string
	status        string
	image         string
}

func (f *productFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Product name")
	cmd.Flags().StringVar(&f.description, "description", "", "Product description")
	cmd.Flags().Float64Var(&f.price, "price", 0, "Price")
	cmd.Flags().Float64Var(&f.discountPrice, "discount-price", 0, "Discounted price")
	cmd.Flags().IntVar(&f.stock, "stock", 0, "Units in stock")
	cmd.Flags().StringVar(&f.category, "category", "", "Category ID or name")
	cmd.Flags().StringVar(&f.status, "status", "active", "Status: active|inactive")
	cmd.Flags().StringVar(&f.image, "image", "", "Path to a product image")
	flagAlias(cmd.Flags(), "description", "desc")
	flagAlias(cmd.Flags(), "category", "category-id")
}

func newProductsCreateCmd() *cobra.Command {
	var f productFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a product",
		Example: `  sdash products create --name "Gold ring" --price 120 --stock 5 --category Gold --image ring.jpg
  sdash products create --name "Chain" --price 80 --category 2 --dry-run`,
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			status, err := api.ParseStatus(f.status)
			if err != nil {
				return err
			}
			image, err := readUpload(f.image)
			if err != nil {
				return err
			}

			client, err := getClient(cmd.Context())
			if err != nil {
				return err
			}
			payload := api.CreateProductPayload{
				Name:          strings.TrimSpace(f.name),
				Description:   f.description,
				Price:         f.price,
				DiscountPrice: floatIfChanged(cmd, "discount-price", f.discountPrice),
				Stock:         f.stock,
				Status:        status,
				Image:         image,
			}
			if f.category == "" {
				return fmt.Errorf("--category is required")
			}
			if payload.CategoryID, err = resolveCategory(cmd.Context(), client, f.category); err != nil {
				return err
			}
			if err := checkPayload(payload); err != nil {
				return err
			}

			products := client.Products()
			if handled, err := maybeDryRun(cmd, "create product", http.MethodPost, products.URL(products.CreatePath()), payload); handled {
				return err
			}
			m, err := products.Create(cmd.Context(), payload)
			if err != nil {
				return err
			}
			var created api.Product
			_ = m.DecodeData(&created)
			return printMutation(cmd, "Created", "product", created.ID.Int(), payload.Name, m)
		}),
	}

	f.register(cmd)
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("price")

	return cmd
}

func newProductsUpdateCmd() *cobra.Command {
	var f productFlags

	cmd := &cobra.Command{
		Use:     "update <id>",
		Short:   "Update a product",
		Example: `  sdash products update 12 --price 99.5 --stock 3`,
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args, "product")
			if err != nil {
				return err
			}
			status, err := statusFlag(cmd, f.status)
			if err != nil {
				return err
			}
			image, err := readUpload(f.image)
			if err != nil {
				return err
			}

			client, err := getClient(cmd.Context())
			if err != nil {
				return err
			}
			payload := api.UpdateProductPayload{
				Name:          stringIfChanged(cmd, "name", strings.TrimSpace(f.name)),
				Description:   stringIfChanged(cmd, "description", f.description),
				Price:         floatIfChanged(cmd, "price", f.price),
				DiscountPrice: floatIfChanged(cmd, "discount-price", f.discountPrice),
				Stock:         intIfChanged(cmd, "stock", f.stock),
				Status:        status,
				Image:         image,
			}
			if flagOrAliasChanged(cmd, "category") {
				categoryID, err := resolveCategory(cmd.Context(), client, f.category)
				if err != nil {
					return err
				}
				payload.CategoryID = &categoryID
			}
			if payload.Empty() {
				return fmt.Errorf("no changes given; pass at least one field flag")
			}
			if err := checkPayload(payload); err != nil {
				return err
			}

			products := client.Products()
			if handled, err := maybeDryRun(cmd, "update product", http.MethodPatch, products.URL(products.UpdatePath(id)), payload); handled {
				return err
			}
			m, err := products.Update(cmd.Context(), id, payload)
			if err != nil {
				return err
			}
			return printMutation(cmd, "Updated", "product", id, "", m)
		}),
	}

	f.register(cmd)

	return cmd
}

// resolveCategory accepts a category ID or name. When the category list
// cannot be fetched, names resolve against the built-in defaults.
func resolveCategory(ctx context.Context, client *api.Client, value string) (int, error) {
	value = strings.TrimSpace(value)
	if id, err := strconv.Atoi(strings.TrimPrefix(value, "#")); err == nil {
		if id <= 0 {
			return 0, fmt.Errorf("invalid category ID: must be a positive integer")
		}
		return id, nil
	}

	categories := api.DefaultCategories
	env, err := client.Categories().List(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("could not fetch categories; using built-in list")
	} else if len(env.Data) > 0 {
		categories = env.Data
	}

	items := make([]resolve.Named, len(categories))
	for i, c := range categories {
		items[i] = resolve.Named{ID: c.ID.Int(), Name: c.Name}
	}
	return resolveNamed("categories", value, items)
}
