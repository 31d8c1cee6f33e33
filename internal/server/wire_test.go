package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jason64364/unfitware-automation/internal/config"
	"github.com/jason64364/unfitware-automation/internal/secrets"
	"github.com/jason64364/unfitware-automation/internal/shopify"
)

func testConfig(t *testing.T, storeDomain string) config.Config {
	t.Helper()
	cfg, err := config.FromEnv(func(k string) string {
		return map[string]string{
			"SHOPIFY_STORE_DOMAIN": storeDomain,
			"SHOPIFY_ADMIN_TOKEN":  "shpat_local",
			"MCP_BEARER":           testBearer,
		}[k]
	})
	require.NoError(t, err)
	return cfg
}

func TestNewFromConfigStaticToken(t *testing.T) {
	d, err := NewFromConfig(context.Background(), testConfig(t, "unfitware.myshopify.com"), nil)
	require.NoError(t, err)

	resp := d.Handle(context.Background(), post(`{"id":1,"method":"tools/list"}`))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAssembledDispatcherEndToEnd(t *testing.T) {
	var gotToken, gotPath string
	shop := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get(shopify.AccessTokenHeader)
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"data":{"products":{"nodes":[{"id":"gid://shopify/Product/1","title":"A","status":"ACTIVE"}]}}}`))
	}))
	defer shop.Close()

	cfg := testConfig(t, strings.TrimPrefix(shop.URL, "https://"))
	d := assemble(cfg, secrets.Static(cfg.AdminToken), shop.Client(), nil)

	resp := d.Handle(context.Background(), post(`{"id":1,"method":"tools/call","params":{"name":"list_products"}}`))
	assert.JSONEq(t, `{"jsonrpc":"2.0","id":1,"result":{"content":[{"type":"json","value":[{"id":"gid://shopify/Product/1","title":"A","status":"ACTIVE"}]}]}}`, string(resp.Body))
	assert.Equal(t, "shpat_local", gotToken)
	assert.Equal(t, "/admin/api/2025-07/graphql.json", gotPath)
}
