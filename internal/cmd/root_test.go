package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteUnknownCommandSuggests(t *testing.T) {
	isolateEnv(t)
	stubKeyring(t)

	_, stderr, err := runCLI(t, "prodcuts", "list")
	require.Error(t, err)
	assert.Contains(t, stderr, `unknown command "prodcuts"`)
	assert.Contains(t, stderr, `Did you mean "products"?`)
	assert.Equal(t, exitUsage, ExitCode(err))
}

func TestExecuteUnknownFlagSuggests(t *testing.T) {
	isolateEnv(t)
	stubKeyring(t)

	_, stderr, err := runCLI(t, "taxes", "list", "--limt", "5")
	require.Error(t, err)
	assert.Contains(t, stderr, `Did you mean "--limit"?`)
	assert.Contains(t, stderr, "sdash taxes list --help")
	assert.Equal(t, exitUsage, ExitCode(err))
}

func TestExecuteJSONConflictsWithOutput(t *testing.T) {
	isolateEnv(t)
	stubKeyring(t)

	_, stderr, err := runCLI(t, "taxes", "list", "--json", "--output", "csv")
	require.Error(t, err)
	assert.Contains(t, stderr, "--json conflicts with --output csv")
	assert.Equal(t, exitUsage, ExitCode(err))
}

func TestExecuteQueryRequiresJSONOutput(t *testing.T) {
	isolateEnv(t)
	stubKeyring(t)

	_, stderr, err := runCLI(t, "taxes", "list", "-o", "csv", "--jq", ".items")
	require.Error(t, err)
	assert.Contains(t, stderr, "require --output json")
}

func TestExecuteInvalidQuery(t *testing.T) {
	isolateEnv(t)
	stubKeyring(t)

	_, _, err := runCLI(t, "taxes", "list", "--jq", ".items[")
	require.Error(t, err)
}

func TestExecuteInvalidTimeout(t *testing.T) {
	isolateEnv(t)
	stubKeyring(t)

	_, _, err := runCLI(t, "taxes", "list", "--timeout", "0s")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--timeout must be > 0")
}

func TestExecuteMissingAPIURL(t *testing.T) {
	isolateEnv(t)
	stubKeyring(t)
	t.Setenv("STOREDASH_COMMERCE_TOKEN", "token")

	_, stderr, err := runCLI(t, "taxes", "list")
	require.Error(t, err)
	assert.Contains(t, stderr, "API URL not configured")
	assert.Equal(t, exitUsage, ExitCode(err))
}

func TestExecuteInvalidEnvConfig(t *testing.T) {
	isolateEnv(t)
	t.Setenv("STOREDASH_TIMEOUT", "soon")

	_, stderr, err := runCLI(t, "version")
	require.Error(t, err)
	assert.Contains(t, stderr, "Error:")
	assert.Equal(t, exitUsage, ExitCode(err))
}

func TestExecuteQueryFiltersOutput(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/dashboard/taxes", jsonResponse(200, `{"data": [{"id": 1, "tax_name": "GST", "percentage": 18, "status": 1}, {"tax_id": 2, "tax_name": "Cess", "percentage": "1.5", "status": 0}]}`))
	env := setupTestEnvWithHandler(t, handler)

	stdout, _, err := env.run("taxes", "list", "--jq", "[.items[].tax_name]", "--compact-json")
	require.NoError(t, err)
	assert.Equal(t, `["GST","Cess"]`, strings.TrimSpace(stdout))
}

func TestExecuteJSONErrorOnStderr(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/dashboard/taxes", jsonResponse(401, `{"detail": "Token expired"}`))
	env := setupTestEnvWithHandler(t, handler)

	stdout, stderr, err := env.run("taxes", "list", "--json")
	require.Error(t, err)
	assert.Empty(t, stdout)

	out := decodeObject(t, stderr)
	errObj, ok := out["error"].(map[string]any)
	require.True(t, ok, "stderr should hold an error object: %s", stderr)
	assert.Equal(t, "unauthorized", errObj["code"])
	assert.Equal(t, exitAuth, ExitCode(err))
}

func TestExecuteQuietSuppressesText(t *testing.T) {
	handler := newRouteHandler().
		On("POST", "/dashboard/taxes/create", jsonResponse(201, `{"detail": "Tax created", "data": {"tax_id": 9}}`))
	env := setupTestEnvWithHandler(t, handler)

	stdout, stderr, err := env.run("taxes", "create", "--name", "VAT", "--percentage", "5", "--quiet")
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Empty(t, stderr)
}
