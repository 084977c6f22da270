package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const defaultBaseURL = "https://api.chapa.co/v1"

// Client talks to the Chapa payment gateway. The gateway's own status
// transitions are a black box; we only initialize transactions and verify
// them by reference.
type Client struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

func NewClient(secretKey string) *Client {
	return &Client{
		secretKey:  secretKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type InitializeRequest struct {
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	TxRef     string `json:"tx_ref"`
	ReturnURL string `json:"return_url,omitempty"`
}

type InitializeResponse struct {
	CheckoutURL string
	TxRef       string
}

type apiResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Initialize creates a hosted-checkout transaction and returns its URL.
// A zero TxRef is filled with a fresh uuid.
func (c *Client) Initialize(ctx context.Context, req InitializeRequest) (*InitializeResponse, error) {
	if req.TxRef == "" {
		req.TxRef = uuid.New().String()
	}
	if req.Currency == "" {
		req.Currency = "ETB"
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transaction/initialize", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)
	httpReq.Header.Set("Content-Type", "application/json")

	parsed, err := c.do(httpReq)
	if err != nil {
		return nil, err
	}
	if parsed.Status != "success" {
		return nil, fmt.Errorf("chapa initialize failed: %s", parsed.Message)
	}

	var data struct {
		CheckoutURL string `json:"checkout_url"`
	}
	if err := json.Unmarshal(parsed.Data, &data); err != nil {
		return nil, fmt.Errorf("chapa initialize: unexpected response: %w", err)
	}
	return &InitializeResponse{CheckoutURL: data.CheckoutURL, TxRef: req.TxRef}, nil
}

type VerifyResponse struct {
	Status string
	Amount string
}

// Verify fetches the final state of a transaction by its reference.
func (c *Client) Verify(ctx context.Context, txRef string) (*VerifyResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/transaction/verify/"+txRef, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)

	parsed, err := c.do(httpReq)
	if err != nil {
		return nil, err
	}
	if parsed.Status != "success" {
		return nil, fmt.Errorf("chapa verify failed: %s", parsed.Message)
	}

	var data struct {
		Status string `json:"status"`
		Amount string `json:"amount"`
	}
	if err := json.Unmarshal(parsed.Data, &data); err != nil {
		return nil, fmt.Errorf("chapa verify: unexpected response: %w", err)
	}
	return &VerifyResponse{Status: data.Status, Amount: data.Amount}, nil
}

func (c *Client) do(req *http.Request) (*apiResponse, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var parsed apiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("chapa: non-JSON response (status %d)", resp.StatusCode)
	}
	return &parsed, nil
}
