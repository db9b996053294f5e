package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/storedash/storedash-cli/internal/api"
	"github.com/storedash/storedash-cli/internal/iocontext"
	"github.com/storedash/storedash-cli/internal/listing"
	"github.com/storedash/storedash-cli/internal/validation"
)

func newOrdersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "orders",
		Aliases: []string{"order", "o"},
		Short:   "List and place orders",
	}

	cmd.AddCommand(NewListCommand(ListConfig[api.Order]{
		Use:   "list",
		Short: "List orders",
		Example: `  sdash orders list --status pending
  sdash orders list --search "jane" --json`,
		Fetch: func(ctx context.Context, client *api.Client) ([]api.Order, error) {
			env, err := client.Orders().List(ctx)
			if err != nil {
				return nil, err
			}
			return env.Data, nil
		},
		Headers: []string{"ID", "CUSTOMER", "ITEMS", "SUBTOTAL", "STATUS", "CREATED"},
		RowFunc: func(o api.Order) []string {
			quantity := 0
			for _, item := range o.Items {
				quantity += item.Quantity.Int()
			}
			return []string{
				strconv.Itoa(o.ID.Int()),
				o.CustomerName,
				strconv.Itoa(quantity),
				formatMoney(o.Subtotal.Float()),
				o.StatusLabel(),
				o.CreatedAt,
			}
		},
		EmptyMessage: "No orders found",
		Accessors: listing.Accessors[api.Order]{
			Name:   func(o api.Order) string { return o.CustomerName },
			Status: func(o api.Order) string { return o.StatusLabel() },
		},
	}, getClient))
	cmd.AddCommand(newOrdersCreateCmd())

	return cmd
}

func newOrdersCreateCmd() *cobra.Command {
	var (
		items         []string
		itemsFile     string
		paymentMethod string
		addressID     int
		subtotal      float64
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Place an order",
		Long: `Place an order for one or more products.

Items come from repeated --item PRODUCT_ID:QUANTITY flags or from
--items-file, a JSON file (or - for stdin) holding either an array of
{"product_id", "quantity"} objects or a full order object. Flags override
values read from the file.`,
		Example: `  sdash orders create --item 12:2 --item 15:1 --payment-method cod --address-id 4 --subtotal 340
  sdash orders create --items-file order.json`,
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			var payload api.CreateOrderPayload
			if itemsFile != "" {
				data, err := iocontext.ReadInput(cmd.Context(), itemsFile)
				if err != nil {
					return err
				}
				if err := decodeOrderFile(data, &payload); err != nil {
					return err
				}
			}
			if len(items) > 0 {
				parsed, err := parseOrderItems(items)
				if err != nil {
					return err
				}
				payload.Items = parsed
			}
			if flagOrAliasChanged(cmd, "payment-method") {
				payload.PaymentMethod = strings.TrimSpace(paymentMethod)
			}
			if flagOrAliasChanged(cmd, "address-id") {
				payload.AddressID = addressID
			}
			if flagOrAliasChanged(cmd, "subtotal") {
				payload.Subtotal = subtotal
			}
			if err := checkPayload(payload); err != nil {
				return err
			}

			client, err := getClient(cmd.Context())
			if err != nil {
				return err
			}
			orders := client.Orders()
			if handled, err := maybeDryRun(cmd, "create order", http.MethodPost, orders.URL(orders.CreatePath()), payload); handled {
				return err
			}
			m, err := orders.Create(cmd.Context(), payload)
			if err != nil {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, m)
			}
			receipt, err := api.Receipt(m)
			if err != nil {
				return printMutation(cmd, "Placed", "order", 0, "", m)
			}
			return printMutation(cmd, "Placed", "order", receipt.OrderID.Int(), "", m)
		}),
	}

	cmd.Flags().StringArrayVar(&items, "item", nil, "Item as PRODUCT_ID:QUANTITY (repeatable)")
	cmd.Flags().StringVar(&itemsFile, "items-file", "", "JSON file with items or a full order (- for stdin)")
	cmd.Flags().StringVar(&paymentMethod, "payment-method", "", "Payment method, e.g. cod or card")
	cmd.Flags().IntVar(&addressID, "address-id", 0, "Delivery address ID")
	cmd.Flags().Float64Var(&subtotal, "subtotal", 0, "Order subtotal")
	flagAlias(cmd.Flags(), "payment-method", "payment")
	flagAlias(cmd.Flags(), "address-id", "address")

	return cmd
}

// parseOrderItems parses PRODUCT_ID:QUANTITY pairs. A bare product ID
// means a quantity of one.
func parseOrderItems(values []string) ([]api.OrderItemInput, error) {
	out := make([]api.OrderItemInput, 0, len(values))
	for _, raw := range values {
		productPart, qtyPart, hasQty := strings.Cut(strings.TrimSpace(raw), ":")
		productID, err := validation.ParsePositiveInt(productPart, "product ID")
		if err != nil {
			return nil, fmt.Errorf("--item %q: %w", raw, err)
		}
		quantity := 1
		if hasQty {
			if quantity, err = validation.ParsePositiveInt(qtyPart, "quantity"); err != nil {
				return nil, fmt.Errorf("--item %q: %w", raw, err)
			}
		}
		out = append(out, api.OrderItemInput{ProductID: productID, Quantity: quantity})
	}
	return out, nil
}

func decodeOrderFile(data []byte, payload *api.CreateOrderPayload) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("items file is empty")
	}
	var err error
	if data[0] == '[' {
		err = json.Unmarshal(data, &payload.Items)
	} else {
		err = json.Unmarshal(data, payload)
	}
	if err != nil {
		return fmt.Errorf("invalid items file: %w", err)
	}
	return nil
}
