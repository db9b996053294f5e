package cmd

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func TestFlagAlias(t *testing.T) {
	t.Run("alias shares value and marks canonical changed", func(t *testing.T) {
		fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
		var rate float64
		fs.Float64Var(&rate, "percentage", 0, "")
		flagAlias(fs, "percentage", "rate")

		if err := fs.Parse([]string{"--rate", "12.5"}); err != nil {
			t.Fatal(err)
		}
		if rate != 12.5 {
			t.Errorf("rate = %v, want 12.5", rate)
		}
		if !fs.Lookup("percentage").Changed {
			t.Error("canonical flag should be Changed when the alias is used")
		}
		if !fs.Lookup("rate").Hidden {
			t.Error("alias should be hidden")
		}
	})

	t.Run("alias satisfies a required flag", func(t *testing.T) {
		var price float64
		cmd := &cobra.Command{Use: "portfolio", RunE: func(*cobra.Command, []string) error { return nil }}
		cmd.Flags().Float64Var(&price, "live-price", 0, "")
		_ = cmd.MarkFlagRequired("live-price")
		flagAlias(cmd.Flags(), "live-price", "price")
		cmd.SetArgs([]string{"--price", "6420.5"})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if price != 6420.5 {
			t.Errorf("price = %v, want 6420.5", price)
		}
		if _, ok := cmd.Flags().Lookup("price").Annotations[cobra.BashCompOneRequiredFlag]; ok {
			t.Error("alias should not carry the required annotation")
		}
	})

	t.Run("flagOrAliasChanged", func(t *testing.T) {
		for _, args := range [][]string{{"--description", "x"}, {"--desc", "x"}, {}} {
			cmd := &cobra.Command{Use: "test"}
			var val string
			cmd.Flags().StringVar(&val, "description", "", "")
			flagAlias(cmd.Flags(), "description", "desc")
			_ = cmd.Flags().Parse(args)

			want := len(args) > 0
			if got := flagOrAliasChanged(cmd, "description"); got != want {
				t.Errorf("flagOrAliasChanged after %v = %v, want %v", args, got, want)
			}
		}
	})

	t.Run("alias forwards SliceValue", func(t *testing.T) {
		fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
		var items []string
		fs.StringArrayVar(&items, "item", nil, "")
		flagAlias(fs, "item", "i")

		sv, ok := fs.Lookup("i").Value.(pflag.SliceValue)
		if !ok {
			t.Fatal("alias of StringArray should implement SliceValue")
		}
		_ = sv.Append("12:2")
		_ = sv.Append("15")
		if got := sv.GetSlice(); len(got) != 2 || got[1] != "15" {
			t.Errorf("GetSlice() = %v, want [12:2 15]", got)
		}
	})

	t.Run("panics on missing flag", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("expected panic for missing flag")
			}
		}()
		flagAlias(pflag.NewFlagSet("test", pflag.ContinueOnError), "nonexistent", "ne")
	})
}

func TestStatusFlag(t *testing.T) {
	newCmd := func(args ...string) (*cobra.Command, string) {
		cmd := &cobra.Command{Use: "test"}
		var status string
		cmd.Flags().StringVar(&status, "status", "", "")
		_ = cmd.Flags().Parse(args)
		return cmd, status
	}

	cmd, v := newCmd()
	if got, err := statusFlag(cmd, v); err != nil || got != nil {
		t.Errorf("unset status = (%v, %v), want (nil, nil)", got, err)
	}

	cmd, _ = newCmd("--status", "inactive")
	got, err := statusFlag(cmd, "inactive")
	if err != nil || got == nil || *got != 0 {
		t.Errorf("inactive status = (%v, %v), want 0", got, err)
	}

	cmd, _ = newCmd("--status", "paused")
	if _, err := statusFlag(cmd, "paused"); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestParseIDArg(t *testing.T) {
	tests := []struct {
		arg     string
		want    int
		wantErr bool
	}{
		{"12", 12, false},
		{"#7", 7, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		got, err := parseIDArg([]string{tt.arg}, "product")
		if (err != nil) != tt.wantErr {
			t.Errorf("parseIDArg(%q) error = %v, wantErr %v", tt.arg, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseIDArg(%q) = %d, want %d", tt.arg, got, tt.want)
		}
	}
}

func TestFormatMoney(t *testing.T) {
	tests := map[float64]string{
		0:       "0.00",
		45.5:    "45.50",
		-579.5:  "-579.50",
		1234.56: "1234.56",
	}
	for in, want := range tests {
		if got := formatMoney(in); got != want {
			t.Errorf("formatMoney(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestClientFactory(t *testing.T) {
	flags = rootFlags{
		APIURL:  "https://shop.example.com/",
		Profile: "default",
		Timeout: 7 * time.Second,
	}
	t.Cleanup(func() { flags = rootFlags{} })

	client, err := newClientFactory().client()
	if err != nil {
		t.Fatalf("client() error = %v", err)
	}
	if client.BaseURL != "https://shop.example.com" {
		t.Errorf("BaseURL = %q", client.BaseURL)
	}
	if client.PortfolioURL != client.BaseURL {
		t.Errorf("PortfolioURL = %q, want fallback to %q", client.PortfolioURL, client.BaseURL)
	}
	if client.HTTP.Timeout != 7*time.Second {
		t.Errorf("Timeout = %v, want 7s", client.HTTP.Timeout)
	}
	if client.UserAgent != "storedash-cli/"+version {
		t.Errorf("UserAgent = %q", client.UserAgent)
	}

	flags.APIURL = ""
	if _, err := newClientFactory().client(); err == nil {
		t.Error("expected error when no API URL is configured")
	}
}
