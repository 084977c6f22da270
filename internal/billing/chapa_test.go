package billing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(srvURL string) *Client {
	return &Client{
		secretKey:  "test-secret",
		baseURL:    srvURL,
		httpClient: &http.Client{Timeout: time.Second},
	}
}

func TestInitialize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/transaction/initialize", r.URL.Path)
		assert.Equal(t, "Bearer test-secret", r.Header.Get("Authorization"))

		var req InitializeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "500", req.Amount)
		assert.Equal(t, "ETB", req.Currency, "currency defaults when unset")
		assert.NotEmpty(t, req.TxRef, "tx_ref is filled when unset")

		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "success",
			"message": "Hosted Link",
			"data":    map[string]string{"checkout_url": "https://checkout.chapa.co/pay/abc"},
		})
	}))
	defer srv.Close()

	resp, err := newTestClient(srv.URL).Initialize(context.Background(), InitializeRequest{
		Amount: "500",
		Email:  "buyer@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.chapa.co/pay/abc", resp.CheckoutURL)
	assert.NotEmpty(t, resp.TxRef)
}

func TestInitialize_GatewayFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "failed",
			"message": "Invalid currency",
		})
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Initialize(context.Background(), InitializeRequest{Amount: "500"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid currency")
}

func TestVerify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/transaction/verify/tx-123", r.URL.Path)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "success",
			"message": "Payment details",
			"data":    map[string]string{"status": "success", "amount": "500"},
		})
	}))
	defer srv.Close()

	resp, err := newTestClient(srv.URL).Verify(context.Background(), "tx-123")
	require.NoError(t, err)
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "500", resp.Amount)
}

func TestVerify_NonJSONResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Verify(context.Background(), "tx-123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-JSON")
}
