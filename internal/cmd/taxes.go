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

func newTaxesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "taxes",
		Aliases: []string{"tax"},
		Short:   "Manage tax rules",
	}

	cmd.AddCommand(NewListCommand(ListConfig[api.Tax]{
		Use:   "list",
		Short: "List tax rules",
		Fetch: func(ctx context.Context, client *api.Client) ([]api.Tax, error) {
			env, err := client.Taxes().List(ctx)
			if err != nil {
				return nil, err
			}
			return env.Data, nil
		},
		Headers: []string{"ID", "NAME", "PERCENTAGE", "STATUS"},
		RowFunc: func(t api.Tax) []string {
			return []string{
				strconv.Itoa(t.ID.Int()),
				t.TaxName,
				formatNumber(t.Percentage.Float()) + "%",
				t.StatusLabel(),
			}
		},
		EmptyMessage: "No taxes found",
		Accessors: listing.Accessors[api.Tax]{
			Name:   func(t api.Tax) string { return t.TaxName },
			Status: func(t api.Tax) string { return t.StatusLabel() },
		},
	}, getClient))
	cmd.AddCommand(newTaxesCreateCmd())
	cmd.AddCommand(newTaxesUpdateCmd())

	return cmd
}

func newTaxesCreateCmd() *cobra.Command {
	var name string
	var percentage float64

	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Create a tax rule",
		Example: `  sdash taxes create --name GST --percentage 3`,
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			payload := api.CreateTaxPayload{TaxName: strings.TrimSpace(name), Percentage: percentage}
			if err := checkPayload(payload); err != nil {
				return err
			}

			client, err := getClient(cmd.Context())
			if err != nil {
				return err
			}
			taxes := client.Taxes()
			if handled, err := maybeDryRun(cmd, "create tax", http.MethodPost, taxes.URL(taxes.CreatePath()), payload); handled {
				return err
			}
			m, err := taxes.Create(cmd.Context(), payload)
			if err != nil {
				return err
			}
			var created api.Tax
			_ = m.DecodeData(&created)
			return printMutation(cmd, "Created", "tax", created.ID.Int(), payload.TaxName, m)
		}),
	}

	cmd.Flags().StringVar(&name, "name", "", "Tax name (required)")
	cmd.Flags().Float64Var(&percentage, "percentage", 0, "Rate in percent, 0-100 (required)")
	flagAlias(cmd.Flags(), "name", "tax-name")
	flagAlias(cmd.Flags(), "percentage", "rate")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("percentage")

	return cmd
}

func newTaxesUpdateCmd() *cobra.Command {
	var name, status string
	var percentage float64

	cmd := &cobra.Command{
		Use:     "update <id>",
		Short:   "Update a tax rule",
		Example: `  sdash taxes update 2 --percentage 5 --status active`,
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args, "tax")
			if err != nil {
				return err
			}
			st, err := statusFlag(cmd, status)
			if err != nil {
				return err
			}
			payload := api.UpdateTaxPayload{
				TaxName:    stringIfChanged(cmd, "name", strings.TrimSpace(name)),
				Percentage: floatIfChanged(cmd, "percentage", percentage),
				Status:     st,
			}
			if payload.Empty() {
				return fmt.Errorf("no changes given; pass --name, --percentage or --status")
			}
			if err := checkPayload(payload); err != nil {
				return err
			}

			client, err := getClient(cmd.Context())
			if err != nil {
				return err
			}
			taxes := client.Taxes()
			if handled, err := maybeDryRun(cmd, "update tax", http.MethodPatch, taxes.URL(taxes.UpdatePath(id)), payload); handled {
				return err
			}
			m, err := taxes.Update(cmd.Context(), id, payload)
			if err != nil {
				return err
			}
			return printMutation(cmd, "Updated", "tax", id, "", m)
		}),
	}

	cmd.Flags().StringVar(&name, "name", "", "Tax name")
	cmd.Flags().Float64Var(&percentage, "percentage", 0, "Rate in percent, 0-100")
	cmd.Flags().StringVar(&status, "status", "", "Status: active|inactive")
	flagAlias(cmd.Flags(), "name", "tax-name")
	flagAlias(cmd.Flags(), "percentage", "rate")

	return cmd
}
