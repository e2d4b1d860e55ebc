package notify_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"booking/internal/adapters/out/notify"
	"booking/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, baseURL string) *notify.Client {
	t.Helper()
	client, err := notify.NewClient(baseURL, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	return client
}

func TestClient_Notify_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/notifications", r.URL.Path)

		var body struct {
			Channel  string         `json:"channel"`
			Template string         `json:"template"`
			Data     map[string]any `json:"data"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "whatsapp:+919800000001", body.Channel)
		assert.Equal(t, "vendor_offer", body.Template)
		assert.Equal(t, "Jaipur", body.Data["city"])

		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := newClient(t, server.URL)

	err := client.Notify(t.Context(), "whatsapp:+919800000001", "vendor_offer",
		map[string]any{"city": "Jaipur"})

	assert.NoError(t, err)
}

func TestClient_Notify_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newClient(t, server.URL)

	err := client.Notify(t.Context(), "slack:#order-ops", "operator_new_order", nil)

	assert.Error(t, err)
}

func TestClient_Notify_BreakerOpensAfterRepeatedFailures(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newClient(t, server.URL)

	// Enough consecutive failures to trip the breaker; later calls must be
	// rejected without reaching the server.
	for range 10 {
		_ = client.Notify(t.Context(), "slack:#order-ops", "operator_new_order", nil)
	}

	assert.Less(t, requests, 10)
}

func TestClient_Notify_MissingFields(t *testing.T) {
	client := newClient(t, "http://localhost:0")

	assert.ErrorIs(t,
		client.Notify(t.Context(), "", "vendor_offer", nil),
		errs.ErrValueIsRequired)
	assert.ErrorIs(t,
		client.Notify(t.Context(), "whatsapp:+919800000001", "", nil),
		errs.ErrValueIsRequired)
}

func TestNewClient_Validation(t *testing.T) {
	_, err := notify.NewClient("", slog.New(slog.DiscardHandler))
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = notify.NewClient("http://localhost:0", nil)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}
