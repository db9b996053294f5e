package cmd

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/storedash/storedash-cli/internal/api"
	"github.com/storedash/storedash-cli/internal/listing"
)

func newDeliveryChargesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delivery-charges",
		Aliases: []string{"delivery-charge", "delivery", "dc"},
		Short:   "Manage delivery charges",
	}

	cmd.AddCommand(NewListCommand(ListConfig[api.DeliveryCharge]{
		Use:     "list",
		Short:   "List delivery charges",
		Fetch:   fetchDeliveryCharges,
		Headers: []string{"ID", "MIN QTY", "MAX QTY", "CHARGE", "STATUS"},
		RowFunc: func(d api.DeliveryCharge) []string {
			return []string{
				strconv.Itoa(d.ID.Int()),
				strconv.Itoa(d.MinOrderQuantity.Int()),
				strconv.Itoa(d.MaxOrderQuantity.Int()),
				formatMoney(d.ChargeAmount.Float()),
				d.StatusLabel(),
			}
		},
		EmptyMessage: "No delivery charges found",
		Accessors: listing.Accessors[api.DeliveryCharge]{
			Status: func(d api.DeliveryCharge) string { return d.StatusLabel() },
		},
	}, getClient))
	cmd.AddCommand(newDeliveryChargesCreateCmd())
	cmd.AddCommand(newDeliveryChargesUpdateCmd())

	return cmd
}

func fetchDeliveryCharges(ctx context.Context, client *api.Client) ([]api.DeliveryCharge, error) {
	env, err := client.DeliveryCharges().List(ctx)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

func newDeliveryChargesCreateCmd() *cobra.Command {
	var minQty, maxQty int
	var amount float64

	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Create a delivery charge",
		Example: `  sdash delivery-charges create --min 1 --max 10 --amount 50`,
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			payload := api.CreateDeliveryChargePayload{
				MinOrderQuantity: minQty,
				MaxOrderQuantity: maxQty,
				ChargeAmount:     amount,
			}
			if err := checkPayload(payload); err != nil {
				return err
			}

			client, err := getClient(cmd.Context())
			if err != nil {
				return err
			}
			charges := client.DeliveryCharges()
			if handled, err := maybeDryRun(cmd, "create delivery charge", http.MethodPost, charges.URL(charges.CreatePath()), payload); handled {
				return err
			}
			m, err := charges.Create(cmd.Context(), payload)
			if err != nil {
				return err
			}
			var created api.DeliveryCharge
			_ = m.DecodeData(&created)
			return printMutation(cmd, "Created", "delivery charge", created.ID.Int(), "", m)
		}),
	}

	cmd.Flags().IntVar(&minQty, "min", 0, "Minimum order quantity (required)")
	cmd.Flags().IntVar(&maxQty, "max", 0, "Maximum order quantity (required)")
	cmd.Flags().Float64Var(&amount, "amount", 0, "Charge amount (required)")
	flagAlias(cmd.Flags(), "min", "min-order-quantity")
	flagAlias(cmd.Flags(), "max", "max-order-quantity")
	flagAlias(cmd.Flags(), "amount", "charge-amount")
	_ = cmd.MarkFlagRequired("min")
	_ = cmd.MarkFlagRequired("max")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newDeliveryChargesUpdateCmd() *cobra.Command {
	var minQty, maxQty int
	var amount float64
	var status string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a delivery charge",
		Long: `Update a delivery charge. The endpoint replaces the whole record, so
fields not given on the command line keep their current values.`,
		Example: `  sdash delivery-charges update 4 --amount 75`,
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args, "delivery charge")
			if err != nil {
				return err
			}
			st, err := statusFlag(cmd, status)
			if err != nil {
				return err
			}
			if !flagOrAliasChanged(cmd, "min") && !flagOrAliasChanged(cmd, "max") &&
				!flagOrAliasChanged(cmd, "amount") && st == nil {
				return fmt.Errorf("no changes given; pass --min, --max, --amount or --status")
			}

			client, err := getClient(cmd.Context())
			if err != nil {
				return err
			}
			current, err := findDeliveryCharge(cmd.Context(), client, id)
			if err != nil {
				return err
			}

			payload := current.UpdatePayload()
			if flagOrAliasChanged(cmd, "min") {
				payload.MinOrderQuantity = minQty
			}
			if flagOrAliasChanged(cmd, "max") {
				payload.MaxOrderQuantity = maxQty
			}
			if flagOrAliasChanged(cmd, "amount") {
				payload.ChargeAmount = amount
			}
			if st != nil {
				payload.Status = *st
			}
			if err := checkPayload(payload); err != nil {
				return err
			}

			charges := client.DeliveryCharges()
			if handled, err := maybeDryRun(cmd, "update delivery charge", http.MethodPatch, charges.URL(charges.UpdatePath(id)), payload); handled {
				return err
			}
			m, err := charges.Update(cmd.Context(), id, payload)
			if err != nil {
				return err
			}
			return printMutation(cmd, "Updated", "delivery charge", id, "", m)
		}),
	}

	cmd.Flags().IntVar(&minQty, "min", 0, "Minimum order quantity")
	cmd.Flags().IntVar(&maxQty, "max", 0, "Maximum order quantity")
	cmd.Flags().Float64Var(&amount, "amount", 0, "Charge amount")
	cmd.Flags().StringVar(&status, "status", "", "Status: active|inactive")
	flagAlias(cmd.Flags(), "min", "min-order-quantity")
	flagAlias(cmd.Flags(), "max", "max-order-quantity")
	flagAlias(cmd.Flags(), "amount", "charge-amount")

	return cmd
}

func findDeliveryCharge(ctx context.Context, client *api.Client, id int) (*api.DeliveryCharge, error) {
	charges, err := fetchDeliveryCharges(ctx, client)
	if err != nil {
		return nil, err
	}
	for i := range charges {
		if charges[i].ID.Int() == id {
			return &charges[i], nil
		}
	}
	return nil, api.NewStructuredError(api.ErrNotFound, fmt.Sprintf("delivery charge %d not found", id))
}
