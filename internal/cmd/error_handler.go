package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/storedash/storedash-cli/internal/api"
	"github.com/storedash/storedash-cli/internal/credentials"
	"github.com/storedash/storedash-cli/internal/validation"
)

// HandleError processes an error and returns a user-friendly message with suggestions
func HandleError(err error) string {
	if err == nil {
		return ""
	}

	var msg strings.Builder

	var apiErr *api.APIError
	var authErr *api.AuthMissingError
	var transportErr *api.TransportError
	var malformedErr *api.MalformedResponseError
	var fieldErrs validation.FieldErrors

	switch {
	case errors.As(err, &authErr):
		fmt.Fprintf(&msg, "Not logged in: no token to %s.\n\n", authErr.Op)
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Run: sdash auth login\n")
		fmt.Fprintf(&msg, "  - Or export %s\n", envNames(authErr.Keys))
		msg.WriteString("  - Check the active profile: sdash auth status\n")

	case errors.As(err, &apiErr):
		fmt.Fprintf(&msg, "API error (HTTP %d): %s\n\n", apiErr.StatusCode, apiErr.Message)
		msg.WriteString(suggestionsForStatusCode(apiErr.StatusCode, apiErr.Message))
		if apiErr.RequestID != "" {
			fmt.Fprintf(&msg, "\nRequest ID: %s\n", apiErr.RequestID)
		}

	case errors.As(err, &malformedErr):
		fmt.Fprintf(&msg, "Unexpected response from %s (HTTP %d).\n\n", malformedErr.Op, malformedErr.StatusCode)
		if malformedErr.Body != "" {
			fmt.Fprintf(&msg, "Body: %s\n\n", malformedErr.Body)
		}
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Check STOREDASH_API_URL points at the dashboard API\n")
		msg.WriteString("  - Use --debug to see the request\n")

	case errors.As(err, &transportErr) && strings.Contains(err.Error(), "connection refused"):
		msg.WriteString("Connection refused.\n\n")
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Check if the API server is running\n")
		msg.WriteString("  - Verify the URL: sdash auth status\n")

	case errors.As(err, &transportErr) && strings.Contains(err.Error(), "no such host"):
		msg.WriteString("DNS resolution failed.\n\n")
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Check the API URL spelling\n")
		msg.WriteString("  - Verify your DNS settings\n")

	case errors.As(err, &transportErr) && strings.Contains(err.Error(), "certificate"):
		msg.WriteString("TLS certificate error.\n\n")
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Verify the server's SSL certificate\n")
		msg.WriteString("  - Ensure you're using https:// correctly\n")

	case errors.As(err, &transportErr):
		fmt.Fprintf(&msg, "Request failed: %v\n\n", transportErr.Err)
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Check your network connection\n")
		msg.WriteString("  - Increase --timeout for slow connections\n")

	case errors.As(err, &fieldErrs):
		msg.WriteString("Invalid input:\n")
		for _, fe := range fieldErrs {
			fmt.Fprintf(&msg, "  - %s\n", fe)
		}

	default:
		fmt.Fprintf(&msg, "Error: %s\n", err.Error())
	}

	return msg.String()
}

func envNames(keys []string) string {
	env := credentials.NewEnvResolver()
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, env.EnvName(k))
	}
	return strings.Join(names, " or ")
}

func suggestionsForStatusCode(code int, message string) string {
	var suggestions strings.Builder
	suggestions.WriteString("Suggestions:\n")

	switch code {
	case 400:
		suggestions.WriteString("  - Check your request parameters\n")
		suggestions.WriteString("  - Use --dry-run to preview the request\n")
		if strings.Contains(strings.ToLower(message), "required") {
			suggestions.WriteString("  - A required field may be missing\n")
		}

	case 401:
		suggestions.WriteString("  - Your token may be invalid or expired\n")
		suggestions.WriteString("  - Run: sdash auth login\n")

	case 403:
		suggestions.WriteString("  - You don't have permission for this action\n")
		suggestions.WriteString("  - Check which profile is active: sdash auth status\n")

	case 404:
		suggestions.WriteString("  - The record doesn't exist\n")
		suggestions.WriteString("  - Check the ID with the matching list command\n")

	case 422:
		suggestions.WriteString("  - Validation failed\n")
		suggestions.WriteString("  - Check your input values\n")

	case 429:
		suggestions.WriteString("  - Too many requests\n")
		suggestions.WriteString("  - Wait and retry in a few seconds\n")

	case 500, 502, 503, 504:
		suggestions.WriteString("  - Server error, not your fault\n")
		suggestions.WriteString("  - Wait and retry\n")

	default:
		suggestions.WriteString("  - Use --debug for more details\n")
	}

	return suggestions.String()
}
