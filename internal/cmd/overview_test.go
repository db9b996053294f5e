package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func overviewHandler() *routeHandler {
	return newRouteHandler().
		On("GET", "/dashboard/products", jsonResponse(200, productsFixture)).
		On("GET", "/dashboard/categories", jsonResponse(200, categoriesFixture)).
		On("GET", "/dashboard/orders", jsonResponse(200, `{"data": [{"id": 1, "status": "pending"}]}`)).
		On("GET", "/dashboard/taxes", jsonResponse(500, `{"detail": "boom"}`)).
		On("GET", "/dashboard/delivery-charges", jsonResponse(200, deliveryChargesFixture))
}

func TestOverviewReportsFailedFetchInRow(t *testing.T) {
	env := setupTestEnvWithHandler(t, overviewHandler())

	stdout, _, err := env.run("overview", "--json")
	require.NoError(t, err)

	items := decodeItems(t, stdout)
	require.Len(t, items, 5)
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item["resource"].(string)
	}
	assert.Equal(t, []string{"products", "categories", "orders", "taxes", "delivery charges"}, names)
	assert.Equal(t, float64(3), items[0]["total"])
	assert.Equal(t, float64(2), items[0]["active"])
	assert.Equal(t, "server_error", items[3]["error"])
	assert.Equal(t, float64(2), items[4]["active"])
}

func TestOverviewText(t *testing.T) {
	env := setupTestEnvWithHandler(t, overviewHandler())

	stdout, _, err := env.run("overview")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, []string{"orders", "1", "-"}, strings.Fields(lines[3]))
	assert.Contains(t, lines[4], "error: server_error")
}

func TestOverviewStrict(t *testing.T) {
	env := setupTestEnvWithHandler(t, overviewHandler())

	_, stderr, err := env.run("overview", "--strict")
	require.Error(t, err)
	assert.Contains(t, stderr, "HTTP 500")
	assert.Equal(t, exitServer, ExitCode(err))
}
