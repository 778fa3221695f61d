package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/garment-storefront/pkg/cache"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClient(server.URL, cache.NewMemory(time.Minute, time.Minute), time.Minute)
	return client, server
}

func TestClient_ListProducts(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id":"P1","name":"Oxford Shirt","price":39.9,"sizes":["S","M","L"],"colors":["White","Blue"]},
			{"id":"P2","name":"Chino Pants","price":49.5}
		]`))
	})

	products, err := client.ListProducts(context.Background())

	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Oxford Shirt", products[0].Name)
	assert.Equal(t, []string{"S", "M", "L"}, products[0].Sizes)
	assert.Equal(t, 49.5, products[1].Price)
}

func TestClient_ListProducts_UsesCache(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`[{"id":"P1","name":"Shirt","price":10}]`))
	})
	ctx := context.Background()

	_, err := client.ListProducts(ctx)
	require.NoError(t, err)
	_, err = client.ListProducts(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
}

func TestClient_GetProduct(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/P1", r.URL.Path)
		w.Write([]byte(`{"id":"P1","name":"Shirt","price":10,"category":"tops"}`))
	})

	product, err := client.GetProduct(context.Background(), "P1")

	require.NoError(t, err)
	assert.Equal(t, "P1", product.ID)
	assert.Equal(t, "tops", product.Category)
}

func TestClient_GetProduct_NotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.GetProduct(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_GetProduct_ServerError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.GetProduct(context.Background(), "P1")

	assert.Error(t, err)
}
