package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/storedash/storedash-cli/internal/api"
	"github.com/storedash/storedash-cli/internal/credentials"
	"github.com/storedash/storedash-cli/internal/iocontext"
	"github.com/storedash/storedash-cli/internal/validation"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage stored tokens",
		Long: `Store, inspect and remove the tokens sdash sends as bearer credentials.

The commerce token authorizes product, category, order, tax and delivery
charge requests. Profile and portfolio requests use the API key, falling
back to the session token. Environment variables (STOREDASH_COMMERCE_TOKEN,
STOREDASH_API_KEY, STOREDASH_SESSION_TOKEN) take precedence over stored
values.`,
	}

	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthStatusCmd())
	cmd.AddCommand(newAuthLogoutCmd())

	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	values := make(map[string]*string, len(credentials.AllKeys))
	var verify bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Save tokens to the keychain",
		Example: `  sdash auth login --commerce-token "$TOKEN"
  sdash auth login --api-key "$KEY" --user-id 42 --profile staging
  printf '%s' "$TOKEN" | sdash auth login --commerce-token -`,
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			provided := make(map[string]string)
			for _, key := range credentials.AllKeys {
				if !cmd.Flags().Changed(flagForKey(key)) {
					continue
				}
				value := strings.TrimSpace(*values[key])
				if value == "-" {
					data, err := iocontext.ReadInput(cmd.Context(), "-")
					if err != nil {
						return err
					}
					value = strings.TrimSpace(string(data))
				}
				if value == "" {
					return fmt.Errorf("--%s must not be empty", flagForKey(key))
				}
				provided[key] = value
			}
			if len(provided) == 0 {
				return fmt.Errorf("at least one of --commerce-token, --api-key, --session-token or --user-id is required")
			}

			store := newKeyringStore(flags.Profile)
			for _, key := range credentials.AllKeys {
				value, ok := provided[key]
				if !ok {
					continue
				}
				if err := store.Set(key, value); err != nil {
					return err
				}
			}

			if verify {
				if err := verifyLogin(cmd, provided); err != nil {
					return fmt.Errorf("tokens saved but verification failed: %w", err)
				}
			}

			saved := make([]string, 0, len(provided))
			for _, key := range credentials.AllKeys {
				if _, ok := provided[key]; ok {
					saved = append(saved, key)
				}
			}
			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{
					"profile":  flags.Profile,
					"saved":    saved,
					"verified": verify,
				})
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, "Credentials saved.")
			_, _ = fmt.Fprintf(out, "  Profile: %s\n", flags.Profile)
			_, _ = fmt.Fprintf(out, "  Keys: %s\n", strings.Join(saved, ", "))
			return nil
		}),
	}

	for _, key := range credentials.AllKeys {
		values[key] = new(string)
		cmd.Flags().StringVar(values[key], flagForKey(key), "", fmt.Sprintf("Value for %s (use - to read stdin)", key))
	}
	cmd.Flags().BoolVar(&verify, "verify", false, "Make a read request with the saved tokens")

	return cmd
}

// verifyLogin reads a resource each saved token class grants access to.
func verifyLogin(cmd *cobra.Command, provided map[string]string) error {
	client, err := getClient(cmd.Context())
	if err != nil {
		return err
	}
	if _, ok := provided[credentials.KeyCommerceToken]; ok {
		if _, err := client.Categories().List(cmd.Context()); err != nil {
			return rejected(cmd, "commerce token", err)
		}
	}
	_, hasKey := provided[credentials.KeyAPIKey]
	_, hasSession := provided[credentials.KeySessionToken]
	if hasKey || hasSession {
		if _, err := client.Profile().Get(cmd.Context()); err != nil {
			return rejected(cmd, "account token", err)
		}
	}
	return nil
}

// rejected notes on stderr which stored token the server refused.
func rejected(cmd *cobra.Command, what string, err error) error {
	if api.IsUnauthorized(err) {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "The %s was rejected by the server.\n", what)
	}
	return err
}

type keyStatus struct {
	Key    string `json:"key"`
	Set    bool   `json:"set"`
	Source string `json:"source,omitempty"`
	Value  string `json:"value,omitempty"`
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which tokens are available",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			env := credentials.NewEnvResolver()
			store := newKeyringStore(flags.Profile)
			chain := credentials.Chain{env, store}

			statuses := make([]keyStatus, 0, len(credentials.AllKeys))
			for _, key := range credentials.AllKeys {
				st := keyStatus{Key: key}
				if v, ok := env.Resolve(key); ok {
					st.Set, st.Source, st.Value = true, env.EnvName(key), credentials.Mask(v)
				} else if v, ok := store.Resolve(key); ok {
					st.Set, st.Source, st.Value = true, "keyring", credentials.Mask(v)
				}
				if key == credentials.KeyUserID && st.Set {
					st.Value, _ = chain.Resolve(key)
				}
				statuses = append(statuses, st)
			}
			commerceKey, commerceOK := credentials.Source(chain, credentials.CommerceKeys...)
			accountKey, accountOK := credentials.Source(chain, credentials.AccountKeys...)

			backend := "auto"
			if settings != nil {
				backend = settings.Keyring.Backend
			}

			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{
					"profile":         flags.Profile,
					"api_url":         flags.APIURL,
					"portfolio_url":   flags.PortfolioURL,
					"allow_private":   validation.AllowPrivateEnabled(),
					"keyring_backend": backend,
					"commerce":        map[string]any{"authenticated": commerceOK, "key": commerceKey},
					"account":         map[string]any{"authenticated": accountOK, "key": accountKey},
					"keys":            statuses,
				})
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Profile: %s\n", flags.Profile)
			apiURL := flags.APIURL
			if apiURL == "" {
				apiURL = "(not set)"
			}
			_, _ = fmt.Fprintf(out, "API URL: %s\n", apiURL)
			if flags.PortfolioURL != "" && flags.PortfolioURL != flags.APIURL {
				_, _ = fmt.Fprintf(out, "Portfolio URL: %s\n", flags.PortfolioURL)
			}
			if validation.AllowPrivateEnabled() {
				_, _ = fmt.Fprintln(out, "Private URLs: allowed")
			}
			_, _ = fmt.Fprintf(out, "Keyring: %s", backend)
			if settings != nil && settings.Keyring.CredentialsDir != "" {
				_, _ = fmt.Fprintf(out, " (%s)", settings.Keyring.CredentialsDir)
			}
			_, _ = fmt.Fprintln(out)
			_, _ = fmt.Fprintln(out)
			for _, st := range statuses {
				if !st.Set {
					_, _ = fmt.Fprintf(out, "  %-15s not set\n", st.Key)
					continue
				}
				_, _ = fmt.Fprintf(out, "  %-15s %s (%s)\n", st.Key, st.Value, st.Source)
			}
			if !commerceOK && !accountOK {
				_, _ = fmt.Fprintln(out)
				_, _ = fmt.Fprintln(out, "Not authenticated. Run 'sdash auth login' to store a token.")
			}
			return nil
		}),
	}
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove stored tokens for the active profile",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			store := newKeyringStore(flags.Profile)
			removed := make([]string, 0, len(credentials.AllKeys))
			for _, key := range credentials.AllKeys {
				if _, ok := store.Resolve(key); !ok {
					continue
				}
				if err := store.Remove(key); err != nil {
					return err
				}
				removed = append(removed, key)
			}

			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"profile": flags.Profile, "removed": removed})
			}
			if len(removed) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No stored credentials found.")
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from profile %s.\n", strings.Join(removed, ", "), flags.Profile)
			return nil
		}),
	}
}

// flagForKey turns a storage key into its login flag name.
func flagForKey(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

// newKeyringStore is replaced in tests.
var newKeyringStore = func(profile string) credentials.Store {
	return credentials.NewKeyringStore(profile)
}
