package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/storedash/storedash-cli/internal/config"
	"github.com/storedash/storedash-cli/internal/debug"
	"github.com/storedash/storedash-cli/internal/dryrun"
	"github.com/storedash/storedash-cli/internal/filter"
	"github.com/storedash/storedash-cli/internal/iocontext"
	"github.com/storedash/storedash-cli/internal/outfmt"
	"github.com/storedash/storedash-cli/internal/validation"
)

// rootFlags holds global CLI flags
type rootFlags struct {
	Output       string
	JSON         bool
	Debug        bool
	DryRun       bool
	Quiet        bool
	Silent       bool
	Query        string
	JQ           string
	Template     string
	Compact      bool
	Timeout      time.Duration
	AllowPrivate bool
	APIURL       string
	PortfolioURL string
	Profile      string
}

// flags holds the global command flags. This is package-level mutable state
// that MUST be reset at the start of every Execute() call; tests rely on it.
var flags rootFlags

// settings is the environment-derived configuration loaded by Execute.
var settings *config.Settings

const rootLong = `sdash manages a storefront dashboard from the terminal: products,
categories, orders, taxes, delivery charges, the merchant profile and
customer portfolios.

Configuration comes from STOREDASH_* environment variables, optionally
loaded from <user config dir>/storedash/.env. Tokens are stored per profile
in the OS keychain with 'sdash auth login'.`

// Execute runs the root command
func Execute(ctx context.Context, args []string) error {
	if err := config.LoadDotEnv(); err != nil {
		_, _ = fmt.Fprintln(iocontext.GetIO(ctx).ErrOut, "Warning:", err)
	}
	loaded, err := config.Load(ctx)
	if err != nil {
		_, _ = fmt.Fprintln(iocontext.GetIO(ctx).ErrOut, "Error:", err)
		return &handledError{err: err, exitCode: exitUsage}
	}
	settings = loaded

	// Reset flags to env-derived defaults for each execution.
	flags = rootFlags{
		Output:       settings.Output,
		Timeout:      settings.Timeout,
		AllowPrivate: settings.AllowPrivate,
		APIURL:       settings.APIURL,
		PortfolioURL: settings.PortfolioURL,
		Profile:      settings.Profile,
	}

	root := &cobra.Command{
		Use:                "sdash",
		Short:              "CLI for the storefront admin dashboard",
		Long:               rootLong,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true, // enhanceUnknownError provides did-you-mean
		PersistentPreRunE:  setupContext,
	}

	root.SetContext(ctx)
	root.SetArgs(args)
	streams := iocontext.GetIO(ctx)
	root.SetOut(streams.Out)
	root.SetErr(streams.ErrOut)

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.Output, "output", "o", flags.Output, "Output format: text|json|jsonl|csv (env STOREDASH_OUTPUT)")
	pf.BoolVarP(&flags.JSON, "json", "j", false, "Shorthand for --output json")
	pf.BoolVar(&flags.Debug, "debug", false, "Log requests to stderr")
	pf.BoolVar(&flags.DryRun, "dry-run", false, "Preview create and update requests without sending them")
	pf.BoolVarP(&flags.Quiet, "quiet", "Q", false, "Suppress non-essential output")
	pf.BoolVar(&flags.Silent, "silent", false, "Suppress non-error output to stderr")
	pf.StringVarP(&flags.Query, "query", "q", "", "JQ expression to filter JSON output")
	pf.StringVar(&flags.JQ, "jq", "", "Alias for --query")
	pf.StringVar(&flags.Template, "template", "", "Go template string (or @path) to render JSON output")
	pf.BoolVar(&flags.Compact, "compact-json", false, "Compact JSON output (no indentation)")
	pf.DurationVar(&flags.Timeout, "timeout", flags.Timeout, "HTTP request timeout (env STOREDASH_TIMEOUT)")
	pf.BoolVar(&flags.AllowPrivate, "allow-private", flags.AllowPrivate, "Allow private/localhost API URLs (env STOREDASH_ALLOW_PRIVATE)")
	pf.StringVar(&flags.APIURL, "api-url", flags.APIURL, "Commerce API base URL (env STOREDASH_API_URL)")
	pf.StringVar(&flags.PortfolioURL, "portfolio-url", flags.PortfolioURL, "Portfolio API base URL (env STOREDASH_PORTFOLIO_URL)")
	pf.StringVar(&flags.Profile, "profile", flags.Profile, "Credential profile (env STOREDASH_PROFILE)")

	flagAlias(pf, "output", "out")
	flagAlias(pf, "dry-run", "dr")
	flagAlias(pf, "compact-json", "cj")
	flagAlias(pf, "template", "tpl")
	flagAlias(pf, "timeout", "to")
	flagAlias(pf, "allow-private", "ap")
	flagAlias(pf, "profile", "pf")

	root.AddCommand(newAuthCmd())
	root.AddCommand(newProductsCmd())
	root.AddCommand(newCategoriesCmd())
	root.AddCommand(newOrdersCmd())
	root.AddCommand(newTaxesCmd())
	root.AddCommand(newDeliveryChargesCmd())
	root.AddCommand(newProfileCmd())
	root.AddCommand(newPortfolioCmd())
	root.AddCommand(newOverviewCmd())
	root.AddCommand(newVersionCmd())

	targetCmd, err := root.ExecuteC()
	if err != nil {
		if !errors.Is(err, errAlreadyHandled) {
			_, _ = fmt.Fprintln(root.ErrOrStderr(), enhanceUnknownError(err, root, targetCmd))
		}
		return err
	}
	return nil
}

// setupContext turns the global flags into context values every command reads.
func setupContext(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	if flags.JSON {
		if flagOrAliasChanged(cmd, "output") && flags.Output != "json" {
			return fmt.Errorf("--json conflicts with --output %s", flags.Output)
		}
		flags.Output = "json"
	}
	query := getJQQuery()
	needsJSON := query != "" || flags.Template != ""
	if needsJSON && flags.Output != "json" && flags.Output != "jsonl" {
		if flagOrAliasChanged(cmd, "output") {
			return fmt.Errorf("--jq/--query/--template require --output json or jsonl (or --json)")
		}
		flags.Output = "json"
	}

	mode, err := outfmt.Parse(flags.Output)
	if err != nil {
		return err
	}
	ctx = outfmt.WithMode(ctx, mode)
	ctx = outfmt.WithCompact(ctx, flags.Compact)

	if query != "" {
		if _, err := filter.Compile(query); err != nil {
			return err
		}
		ctx = outfmt.WithQuery(ctx, query)
	}
	if flags.Template != "" {
		tmpl, err := loadTemplate(flags.Template)
		if err != nil {
			return err
		}
		ctx = outfmt.WithTemplate(ctx, tmpl)
	}

	// Copy the streams so quiet and silent only affect this run.
	streams := *iocontext.GetIO(ctx)
	if flags.Silent || flags.Quiet {
		streams.ErrOut = io.Discard
	}
	if flags.Quiet && mode == outfmt.Text {
		streams.Out = io.Discard
	}
	ctx = iocontext.WithIO(ctx, &streams)
	cmd.SetOut(streams.Out)
	cmd.SetErr(streams.ErrOut)

	if flags.Timeout <= 0 {
		return fmt.Errorf("--timeout must be > 0")
	}

	validation.SetAllowPrivate(flags.AllowPrivate)
	if flags.AllowPrivate && !flags.Silent && !flags.Quiet {
		_, _ = fmt.Fprintln(streams.ErrOut, "Warning: allowing private/localhost URLs (use only with trusted targets).")
	}

	// Debug logs go to the real stderr even when --silent hides other output.
	ctx = debug.WithLogger(ctx, iocontext.GetIO(cmd.Context()).ErrOut, flags.Debug)
	ctx = dryrun.WithDryRun(ctx, flags.DryRun)

	cmd.SetContext(ctx)
	return nil
}

// getJQQuery returns the jq query from --jq or --query. --jq wins.
func getJQQuery() string {
	if flags.JQ != "" {
		return flags.JQ
	}
	return flags.Query
}

func loadTemplate(value string) (string, error) {
	if path, ok := strings.CutPrefix(value, "@"); ok {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read template file: %w", err)
		}
		return string(data), nil
	}
	return value, nil
}

// enhanceUnknownError adds "did you mean?" suggestions to unknown command/flag errors.
// targetCmd is the command Cobra resolved before the error (may be root itself).
func enhanceUnknownError(err error, root *cobra.Command, targetCmd *cobra.Command) string {
	msg := err.Error()

	if strings.Contains(msg, "unknown command") {
		if unknown := extractQuoted(msg); unknown != "" {
			parent := root
			if targetCmd != nil {
				parent = targetCmd
			}
			var names []string
			for _, c := range parent.Commands() {
				if c.IsAvailableCommand() || c.Name() == "help" {
					names = append(names, c.Name())
					names = append(names, c.Aliases...)
				}
			}
			if suggestion := suggestCommand(unknown, names); suggestion != "" {
				return fmt.Sprintf("%s\n\nDid you mean %q?", msg, suggestion)
			}
		}
	}

	if strings.Contains(msg, "unknown flag") || strings.Contains(msg, "unknown shorthand flag") {
		if unknown := extractFlag(msg); unknown != "" {
			seen := make(map[string]bool)
			var flagNames []string
			addFlags := func(fs *pflag.FlagSet) {
				fs.VisitAll(func(f *pflag.Flag) {
					if f.Hidden {
						return
					}
					name := "--" + f.Name
					if !seen[name] {
						seen[name] = true
						flagNames = append(flagNames, name)
					}
				})
			}
			helpCmd := "sdash --help"
			if targetCmd != nil {
				addFlags(targetCmd.Flags())
				addFlags(targetCmd.InheritedFlags())
				helpCmd = targetCmd.CommandPath() + " --help"
			} else {
				addFlags(root.PersistentFlags())
			}
			if suggestion := suggestFlag(unknown, flagNames); suggestion != "" {
				return fmt.Sprintf("%s\n\nDid you mean %q?\nRun %q to see supported flags.", msg, suggestion, helpCmd)
			}
			return fmt.Sprintf("%s\n\nRun %q to see supported flags.", msg, helpCmd)
		}
	}

	return msg
}

// extractQuoted extracts the first double-quoted substring from s.
func extractQuoted(s string) string {
	start := strings.IndexByte(s, '"')
	if start < 0 {
		return ""
	}
	end := strings.IndexByte(s[start+1:], '"')
	if end < 0 {
		return ""
	}
	return s[start+1 : start+1+end]
}

// extractFlag extracts a flag name (e.g., "--foo") from an error message.
func extractFlag(s string) string {
	idx := strings.Index(s, "--")
	if idx < 0 {
		return ""
	}
	rest := s[idx:]
	if end := strings.IndexByte(rest, ' '); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimRight(rest, ".,;:!?\"'")
}
