package cart_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"booking/internal/adapters/out/cart"
	"booking/internal/core/domain/model/kernel"
	"booking/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Clear_Success(t *testing.T) {
	customerID := kernel.NewUUID()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/carts/"+customerID.String(), r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client, err := cart.NewClient(server.URL)
	require.NoError(t, err)

	assert.NoError(t, client.Clear(t.Context(), customerID))
}

func TestClient_Clear_MissingCartIsAlreadyCleared(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "no such cart", http.StatusNotFound)
	}))
	defer server.Close()

	client, err := cart.NewClient(server.URL)
	require.NoError(t, err)

	assert.NoError(t, client.Clear(t.Context(), kernel.NewUUID()))
}

func TestClient_Clear_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client, err := cart.NewClient(server.URL)
	require.NoError(t, err)

	assert.Error(t, client.Clear(t.Context(), kernel.NewUUID()))
}

func TestClient_Clear_InvalidCustomerID(t *testing.T) {
	client, err := cart.NewClient("http://localhost:0")
	require.NoError(t, err)

	assert.Error(t, client.Clear(t.Context(), kernel.UUID{}))
}

func TestNewClient_EmptyBaseURL(t *testing.T) {
	_, err := cart.NewClient("")

	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}
