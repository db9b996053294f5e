package cmd

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/storedash/storedash-cli/internal/api"
	"github.com/storedash/storedash-cli/internal/listing"
)

func newCategoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category", "cat"},
		Short:   "Manage product categories",
	}

	cmd.AddCommand(NewListCommand(ListConfig[api.Category]{
		Use:   "list",
		Short: "List categories",
		Fetch: func(ctx context.Context, client *api.Client) ([]api.Category, error) {
			env, err := client.Categories().List(ctx)
			if err != nil {
				return nil, err
			}
			return env.Data, nil
		},
		Headers: []string{"ID", "NAME", "PRODUCTS", "STATUS"},
		RowFunc: func(c api.Category) []string {
			return []string{
				strconv.Itoa(c.ID.Int()),
				c.Name,
				strconv.Itoa(c.ProductCount.Int()),
				c.StatusLabel(),
			}
		},
		EmptyMessage: "No categories found",
		Accessors: listing.Accessors[api.Category]{
			Name:   func(c api.Category) string { return c.Name },
			Status: func(c api.Category) string { return c.StatusLabel() },
		},
	}, getClient))
	cmd.AddCommand(newCategoriesCreateCmd())
	cmd.AddCommand(newCategoriesUpdateCmd())

	return cmd
}

func newCategoriesCreateCmd() *cobra.Command {
	var name, description, status, image string

	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Create a category",
		Example: `  sdash categories create --name Gold --image gold.png`,
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			st, err := api.ParseStatus(status)
			if err != nil {
				return err
			}
			upload, err := readUpload(image)
			if err != nil {
				return err
			}
			payload := api.CreateCategoryPayload{
				Name:        strings.TrimSpace(name),
				Description: description,
				Status:      st,
				Image:       upload,
			}
			if err := checkPayload(payload); err != nil {
				return err
			}

			client, err := getClient(cmd.Context())
			if err != nil {
				return err
			}
			categories := client.Categories()
			if handled, err := maybeDryRun(cmd, "create category", http.MethodPost, categories.URL(categories.CreatePath()), payload); handled {
				return err
			}
			m, err := categories.Create(cmd.Context(), payload)
			if err != nil {
				return err
			}
			var created api.Category
			_ = m.DecodeData(&created)
			return printMutation(cmd, "Created", "category", created.ID.Int(), payload.Name, m)
		}),
	}

	cmd.Flags().StringVar(&name, "name", "", "Category name (required)")
	cmd.Flags().StringVar(&description, "description", "", "Category description")
	cmd.Flags().StringVar(&status, "status", "active", "Status: active|inactive")
	cmd.Flags().StringVar(&image, "image", "", "Path to a category image")
	flagAlias(cmd.Flags(), "description", "desc")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newCategoriesUpdateCmd() *cobra.Command {
	var name, description, status, image string

	cmd := &cobra.Command{
		Use:     "update <id>",
		Short:   "Update a category",
		Example: `  sdash categories update 3 --status inactive`,
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args, "category")
			if err != nil {
				return err
			}
			st, err := statusFlag(cmd, status)
			if err != nil {
				return err
			}
			upload, err := readUpload(image)
			if err != nil {
				return err
			}
			payload := api.UpdateCategoryPayload{
				Name:        stringIfChanged(cmd, "name", strings.TrimSpace(name)),
				Description: stringIfChanged(cmd, "description", description),
				Status:      st,
				Image:       upload,
			}
			if payload.Empty() {
				return fmt.Errorf("no changes given; pass at least one field flag")
			}
			if err := checkPayload(payload); err != nil {
				return err
			}

			client, err := getClient(cmd.Context())
			if err != nil {
				return err
			}
			categories := client.Categories()
			if handled, err := maybeDryRun(cmd, "update category", http.MethodPatch, categories.URL(categories.UpdatePath(id)), payload); handled {
				return err
			}
			m, err := categories.Update(cmd.Context(), id, payload)
			if err != nil {
				return err
			}
			return printMutation(cmd, "Updated", "category", id, "", m)
		}),
	}

	cmd.Flags().StringVar(&name, "name", "", "Category name")
	cmd.Flags().StringVar(&description, "description", "", "Category description")
	cmd.Flags().StringVar(&status, "status", "", "Status: active|inactive")
	cmd.Flags().StringVar(&image, "image", "", "Path to a category image")
	flagAlias(cmd.Flags(), "description", "desc")

	return cmd
}
