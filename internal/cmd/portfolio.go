package cmd

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/storedash/storedash-cli/internal/api"
	"github.com/storedash/storedash-cli/internal/credentials"
	"github.com/storedash/storedash-cli/internal/listing"
	"github.com/storedash/storedash-cli/internal/outfmt"
	"github.com/storedash/storedash-cli/internal/validation"
)

func newPortfolioCmd() *cobra.Command {
	var (
		livePrice float64
		userID    int
		mine      bool
		search    string
	)

	cmd := &cobra.Command{
		Use:   "portfolio",
		Short: "Compute customer portfolios at a live price",
		Long: `Compute every customer's holdings valued at --live-price, or a single
customer's with --user. --me uses the user id stored by 'sdash auth login
--user-id'.`,
		Example: `  sdash portfolio --live-price 6420.5
  sdash portfolio --live-price 6420.5 --user 42 --json`,
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if mine && flagOrAliasChanged(cmd, "user") {
				return fmt.Errorf("--me and --user are mutually exclusive")
			}
			if err := checkPayload(api.FetchPortfolioPayload{LivePrice: livePrice}); err != nil {
				return err
			}

			factory := newClientFactory()
			if mine {
				stored, ok := factory.tokens().Resolve(credentials.KeyUserID)
				if !ok {
					return fmt.Errorf("no user id stored; run 'sdash auth login --user-id <id>'")
				}
				id, err := validation.ParsePositiveInt(stored, "stored user id")
				if err != nil {
					return err
				}
				userID = id
			} else if flagOrAliasChanged(cmd, "user") && userID <= 0 {
				return fmt.Errorf("--user must be a positive integer")
			}

			client, err := factory.client()
			if err != nil {
				return err
			}
			portfolio := client.Portfolio()
			payload := api.FetchPortfolioPayload{LivePrice: livePrice}
			if handled, err := maybeDryRun(cmd, "fetch portfolio", http.MethodPost, portfolio.URL(portfolio.Path(userID)), payload); handled {
				return err
			}
			summary, err := portfolio.Fetch(cmd.Context(), livePrice, userID)
			if err != nil {
				return err
			}
			if search != "" {
				page, err := listing.Apply(summary.Portfolios, listing.Options{All: true, Search: search},
					listing.Accessors[api.PortfolioEntry]{Name: func(p api.PortfolioEntry) string { return p.Name }})
				if err != nil {
					return err
				}
				summary.Portfolios = page.Items
			}

			if isJSON(cmd) {
				if outfmt.IsJSONL(cmd.Context()) {
					return printJSON(cmd, summary.Portfolios)
				}
				return printJSON(cmd, summary)
			}

			f := outfmt.NewFormatter(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr())
			if len(summary.Portfolios) == 0 && !outfmt.IsCSV(cmd.Context()) {
				f.Empty("No portfolios found")
				return nil
			}
			f.StartTable([]string{"USER", "NAME", "QUANTITY", "INVESTED", "VALUE", "P/L"})
			for _, p := range summary.Portfolios {
				f.Row(
					strconv.Itoa(p.UserID.Int()),
					p.Name,
					formatNumber(p.TotalQuantity.Float()),
					formatMoney(p.TotalInvested.Float()),
					formatMoney(p.CurrentValue.Float()),
					formatMoney(p.ProfitLoss.Float()),
				)
			}
			if err := f.EndTable(); err != nil {
				return err
			}
			if !outfmt.IsCSV(cmd.Context()) && !flags.Quiet {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%d users", summary.TotalUsers.Int())
				if summary.Detail.String() != "" {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), " (%s)", summary.Detail)
				}
				_, _ = fmt.Fprintln(cmd.ErrOrStderr())
			}
			return nil
		}),
	}

	cmd.Flags().Float64Var(&livePrice, "live-price", 0, "Live unit price used to value holdings (required)")
	cmd.Flags().IntVar(&userID, "user", 0, "Only this user's portfolio")
	cmd.Flags().BoolVar(&mine, "me", false, "Use the stored user id")
	cmd.Flags().StringVarP(&search, "search", "s", "", "Fuzzy search by customer name")
	flagAlias(cmd.Flags(), "live-price", "price")
	flagAlias(cmd.Flags(), "user", "user-id")
	_ = cmd.MarkFlagRequired("live-price")

	return cmd
}
