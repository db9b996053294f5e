package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/storedash/storedash-cli/internal/api"
	"github.com/storedash/storedash-cli/internal/iocontext"
	"github.com/storedash/storedash-cli/internal/listing"
	"github.com/storedash/storedash-cli/internal/outfmt"
)

// ListConfig defines how a list command behaves
type ListConfig[T any] struct {
	Use          string
	Short        string
	Long         string
	Example      string
	Fetch        func(ctx context.Context, client *api.Client) ([]T, error)
	Headers      []string
	RowFunc      func(T) []string
	EmptyMessage string
	// Accessors enable --status and --search. A nil Name disables search.
	Accessors listing.Accessors[T]
}

type listMeta struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Total    int `json:"total"`
	Matched  int `json:"matched"`
	Pages    int `json:"pages"`
}

// NewListCommand creates a cobra command from ListConfig. The endpoint
// returns every record at once; paging, status filtering and search run
// locally.
func NewListCommand[T any](cfg ListConfig[T], getClient func(context.Context) (*api.Client, error)) *cobra.Command {
	var opts listing.Options

	cmd := &cobra.Command{
		Use:     cfg.Use,
		Short:   cfg.Short,
		Long:    cfg.Long,
		Example: cfg.Example,
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if err := opts.Validate(); err != nil {
				return err
			}

			client, err := getClient(cmd.Context())
			if err != nil {
				return err
			}
			records, err := cfg.Fetch(cmd.Context(), client)
			if err != nil {
				return err
			}

			page, err := listing.Apply(records, opts, cfg.Accessors)
			if err != nil {
				return err
			}
			return renderList(cmd, cfg, page)
		}),
	}

	cmd.Flags().IntVarP(&opts.Page, "page", "p", 1, "Page number")
	cmd.Flags().IntVarP(&opts.PageSize, "limit", "l", listing.DefaultPageSize, fmt.Sprintf("Records per page (max %d)", listing.MaxPageSize))
	cmd.Flags().BoolVarP(&opts.All, "all", "a", false, "Return every record")
	if cfg.Accessors.Status != nil {
		cmd.Flags().StringVar(&opts.Status, "status", "", "Only show records with this status")
	}
	if cfg.Accessors.Name != nil {
		cmd.Flags().StringVarP(&opts.Search, "search", "s", "", "Fuzzy search by name")
	}
	flagAlias(cmd.Flags(), "limit", "per-page")

	return cmd
}

func renderList[T any](cmd *cobra.Command, cfg ListConfig[T], page listing.Page[T]) error {
	ctx := cmd.Context()
	ioStreams := iocontext.GetIO(ctx)

	if outfmt.IsJSONL(ctx) {
		return printJSON(cmd, page.Items)
	}
	if isJSON(cmd) {
		return printJSON(cmd, map[string]any{
			"items":    page.Items,
			"has_more": page.HasMore,
			"meta": listMeta{
				Page:     page.Page,
				PageSize: page.PageSize,
				Total:    page.Total,
				Matched:  page.Matched,
				Pages:    page.Pages,
			},
		})
	}

	f := outfmt.NewFormatter(ctx, ioStreams.Out, ioStreams.ErrOut)
	if len(page.Items) == 0 && !outfmt.IsCSV(ctx) {
		msg := cfg.EmptyMessage
		if msg == "" {
			msg = "No records found"
		}
		f.Empty(msg)
		return nil
	}
	if f.StartTable(cfg.Headers) {
		for _, item := range page.Items {
			f.Row(cfg.RowFunc(item)...)
		}
	}
	if err := f.EndTable(); err != nil {
		return err
	}
	if page.HasMore && !outfmt.IsCSV(ctx) && !flags.Quiet {
		_, _ = fmt.Fprintf(ioStreams.ErrOut, "Page %d of %d (%d matching). Use --page %d or --all for more.\n",
			page.Page, page.Pages, page.Matched, page.Page+1)
	}
	return nil
}
