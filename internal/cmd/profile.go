package cmd

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/storedash/storedash-cli/internal/api"
	"github.com/storedash/storedash-cli/internal/outfmt"
)

var genderNames = map[string]int{
	"unspecified": api.GenderUnspecified,
	"male":        api.GenderMale,
	"female":      api.GenderFemale,
	"other":       api.GenderOther,
}

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "profile",
		Aliases: []string{"me"},
		Short:   "View and update the merchant profile",
	}

	cmd.AddCommand(newProfileGetCmd())
	cmd.AddCommand(newProfileUpdateCmd())

	return cmd
}

func newProfileGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get",
		Aliases: []string{"show"},
		Short:   "Show the profile",
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient(cmd.Context())
			if err != nil {
				return err
			}
			profile, err := client.Profile().Get(cmd.Context())
			if err != nil {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, profile)
			}

			f := outfmt.NewFormatter(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr())
			if outfmt.IsCSV(cmd.Context()) {
				f.Row("ID", "FIRST_NAME", "LAST_NAME", "EMAIL", "PHONE", "GENDER", "BUSINESS_NAME", "ADDRESS")
				f.Row(strconv.Itoa(profile.ID.Int()), profile.FirstName, profile.LastName, profile.Email,
					profile.Phone.String(), genderLabel(profile.Gender.Int()), profile.BusinessName, profile.Address)
				return f.EndTable()
			}
			rows := [][2]string{
				{"ID", strconv.Itoa(profile.ID.Int())},
				{"Name", strings.TrimSpace(profile.FirstName + " " + profile.LastName)},
				{"Email", profile.Email},
				{"Phone", profile.Phone.String()},
				{"Gender", genderLabel(profile.Gender.Int())},
				{"Business", profile.BusinessName},
				{"Address", profile.Address},
				{"Logo", profile.LogoURL},
				{"Banner", profile.BannerURL},
			}
			for _, row := range rows {
				if row[1] == "" {
					continue
				}
				f.Row(row[0]+":", row[1])
			}
			return f.EndTable()
		}),
	}
}

func newProfileUpdateCmd() *cobra.Command {
	var firstName, lastName, phone, gender, businessName, address, logo, banner string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update the profile",
		Long: `Update the merchant profile. Only the flags you pass are sent; gender
is left unchanged unless --gender is given.`,
		Example: `  sdash profile update --business-name "Aurum Jewels" --logo logo.png
  sdash profile update --gender female`,
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			payload := api.UpdateProfilePayload{
				FirstName:    stringIfChanged(cmd, "first-name", strings.TrimSpace(firstName)),
				LastName:     stringIfChanged(cmd, "last-name", strings.TrimSpace(lastName)),
				Phone:        stringIfChanged(cmd, "phone", strings.TrimSpace(phone)),
				BusinessName: stringIfChanged(cmd, "business-name", strings.TrimSpace(businessName)),
				Address:      stringIfChanged(cmd, "address", address),
			}
			if flagOrAliasChanged(cmd, "gender") {
				code, err := parseGender(gender)
				if err != nil {
					return err
				}
				payload.Gender = &code
			}
			var err error
			if payload.Logo, err = readUpload(logo); err != nil {
				return err
			}
			if payload.Banner, err = readUpload(banner); err != nil {
				return err
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
			profile := client.Profile()
			if handled, err := maybeDryRun(cmd, "update profile", http.MethodPatch, profile.URL(profile.UpdatePath(0)), payload); handled {
				return err
			}
			m, err := profile.Update(cmd.Context(), payload)
			if err != nil {
				return err
			}
			return printMutation(cmd, "Updated", "profile", 0, "", m)
		}),
	}

	cmd.Flags().StringVar(&firstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "Last name")
	cmd.Flags().StringVar(&phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&gender, "gender", "", "Gender: male|female|other|unspecified")
	cmd.Flags().StringVar(&businessName, "business-name", "", "Business name")
	cmd.Flags().StringVar(&address, "address", "", "Business address")
	cmd.Flags().StringVar(&logo, "logo", "", "Path to a logo image")
	cmd.Flags().StringVar(&banner, "banner", "", "Path to a banner image")
	flagAlias(cmd.Flags(), "business-name", "business")

	return cmd
}

// parseGender accepts a gender name or its numeric code.
func parseGender(value string) (int, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if code, ok := genderNames[value]; ok {
		return code, nil
	}
	if code, err := strconv.Atoi(value); err == nil && code >= api.GenderUnspecified && code <= api.GenderOther {
		return code, nil
	}
	return 0, api.NewValidationError("gender", value, []string{"male", "female", "other", "unspecified"})
}

func genderLabel(code int) string {
	for name, c := range genderNames {
		if c == code && code != api.GenderUnspecified {
			return name
		}
	}
	return ""
}
