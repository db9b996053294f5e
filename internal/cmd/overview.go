package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/storedash/storedash-cli/internal/api"
	"github.com/storedash/storedash-cli/internal/outfmt"
)

// resourceCount summarizes one collection.
type resourceCount struct {
	Resource string `json:"resource"`
	Total    int    `json:"total"`
	Active   int    `json:"active"`
	Error    string `json:"error,omitempty"`
}

type statusLabeler interface {
	StatusLabel() string
}

func countRecords[T statusLabeler](name string, records []T) resourceCount {
	rc := resourceCount{Resource: name, Total: len(records)}
	for _, r := range records {
		if r.StatusLabel() == "active" {
			rc.Active++
		}
	}
	return rc
}

func newOverviewCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:     "overview",
		Aliases: []string{"summary"},
		Short:   "Show record counts across the dashboard",
		Long: `Fetch products, categories, orders, taxes and delivery charges in
parallel and print how many of each exist. A failed fetch is reported in
its row; with --strict it fails the command instead.`,
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient(cmd.Context())
			if err != nil {
				return err
			}
			counts, err := fetchOverview(cmd.Context(), client, strict)
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, counts)
			}
			f := outfmt.NewFormatter(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr())
			f.StartTable([]string{"RESOURCE", "TOTAL", "ACTIVE"})
			for _, c := range counts {
				if c.Error != "" {
					f.Row(c.Resource, "-", "error: "+c.Error)
					continue
				}
				active := strconv.Itoa(c.Active)
				if c.Resource == "orders" {
					active = "-"
				}
				f.Row(c.Resource, strconv.Itoa(c.Total), active)
			}
			return f.EndTable()
		}),
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Fail if any collection cannot be fetched")

	return cmd
}

// fetchOverview loads every collection concurrently. Results keep a fixed
// order regardless of completion order.
func fetchOverview(ctx context.Context, client *api.Client, strict bool) ([]resourceCount, error) {
	counts := make([]resourceCount, 5)
	g, gctx := errgroup.WithContext(ctx)

	fetchers := []struct {
		name  string
		count func(context.Context) (resourceCount, error)
	}{
		{"products", func(ctx context.Context) (resourceCount, error) {
			env, err := client.Products().List(ctx)
			if err != nil {
				return resourceCount{}, err
			}
			return countRecords("products", env.Data), nil
		}},
		{"categories", func(ctx context.Context) (resourceCount, error) {
			env, err := client.Categories().List(ctx)
			if err != nil {
				return resourceCount{}, err
			}
			return countRecords("categories", env.Data), nil
		}},
		{"orders", func(ctx context.Context) (resourceCount, error) {
			env, err := client.Orders().List(ctx)
			if err != nil {
				return resourceCount{}, err
			}
			return resourceCount{Resource: "orders", Total: len(env.Data)}, nil
		}},
		{"taxes", func(ctx context.Context) (resourceCount, error) {
			env, err := client.Taxes().List(ctx)
			if err != nil {
				return resourceCount{}, err
			}
			return countRecords("taxes", env.Data), nil
		}},
		{"delivery charges", func(ctx context.Context) (resourceCount, error) {
			env, err := client.DeliveryCharges().List(ctx)
			if err != nil {
				return resourceCount{}, err
			}
			return countRecords("delivery charges", env.Data), nil
		}},
	}

	for i, f := range fetchers {
		g.Go(func() error {
			rc, err := f.count(gctx)
			if err != nil {
				if strict {
					return fmt.Errorf("%s: %w", f.name, err)
				}
				rc = resourceCount{Resource: f.name, Error: shortError(err)}
			}
			counts[i] = rc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return counts, nil
}

func shortError(err error) string {
	if structured := api.StructuredErrorFromError(err); structured != nil && structured.Code != api.ErrUnknown {
		return string(structured.Code)
	}
	msg := err.Error()
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	return msg
}
