package paystack

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.paystack.co"

// SignatureHeader carries the HMAC the gateway attaches to webhook deliveries.
const SignatureHeader = "x-paystack-signature"

// Config holds Paystack connection details. SecretKey is the server-side
// secret; it must never reach the browser.
type Config struct {
	SecretKey  string
	BaseURL    string // defaults to the live API when empty
	HTTPClient *http.Client
}

// Client is a thin wrapper around the Paystack transaction API.
type Client struct {
	secretKey string
	baseURL   string
	httpc     *http.Client
}

// NewClient creates a new Paystack client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("paystack secret key is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpc := cfg.HTTPClient
	if httpc == nil {
		httpc = &http.Client{Timeout: 20 * time.Second}
	}
	return &Client{
		secretKey: cfg.SecretKey,
		baseURL:   baseURL,
		httpc:     httpc,
	}, nil
}

// InitializeRequest describes a transaction to initialize. AmountMinor is in
// the currency's minor unit (e.g. cents); the caller converts before calling.
type InitializeRequest struct {
	AmountMinor int64
	Currency    string
	Email       string
	Reference   string
	Metadata    map[string]interface{}
}

// Transaction is the gateway's handle for an initialized payment.
type Transaction struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// envelope is the common Paystack response wrapper.
type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// InitializeTransaction creates a transaction at the gateway and returns its
// reference and hosted-page access code. Errors propagate; the client never
// returns an empty reference alongside a nil error.
func (c *Client) InitializeTransaction(req InitializeRequest) (*Transaction, error) {
	if req.AmountMinor <= 0 {
		return nil, fmt.Errorf("paystack initialize: amount must be positive, got %d", req.AmountMinor)
	}
	if req.Email == "" || req.Reference == "" {
		return nil, fmt.Errorf("paystack initialize: email and reference are required")
	}

	payload := map[string]interface{}{
		"amount":    req.AmountMinor,
		"currency":  req.Currency,
		"email":     req.Email,
		"reference": req.Reference,
	}
	if req.Metadata != nil {
		payload["metadata"] = req.Metadata
	}

	var tx Transaction
	if err := c.post("/transaction/initialize", payload, &tx); err != nil {
		return nil, err
	}
	if tx.Reference == "" {
		return nil, fmt.Errorf("paystack initialize: gateway returned no reference")
	}
	return &tx, nil
}

// VerifyResult is the gateway's view of a transaction's outcome.
type VerifyResult struct {
	Status      string `json:"status"` // "success", "failed", "abandoned"
	Reference   string `json:"reference"`
	AmountMinor int64  `json:"amount"`
}

// Succeeded reports whether the gateway considers the transaction paid.
func (v *VerifyResult) Succeeded() bool {
	return v.Status == "success"
}

// VerifyTransaction fetches the server-confirmed state of a transaction.
func (c *Client) VerifyTransaction(reference string) (*VerifyResult, error) {
	if reference == "" {
		return nil, fmt.Errorf("paystack verify: reference is required")
	}

	httpReq, err := http.NewRequest(http.MethodGet, c.baseURL+"/transaction/verify/"+reference, nil)
	if err != nil {
		return nil, fmt.Errorf("paystack verify: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)

	var result VerifyResult
	if err := c.do(httpReq, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ValidateWebhookSignature checks the HMAC-SHA512 signature the gateway
// computes over the raw webhook body with the secret key.
func (c *Client) ValidateWebhookSignature(body []byte, signature string) bool {
	mac := hmac.New(sha512.New, []byte(c.secretKey))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func (c *Client) post(path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("paystack request: failed to marshal payload: %w", err)
	}
	httpReq, err := http.NewRequest(http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("paystack request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)
	httpReq.Header.Set("Content-Type", "application/json")
	return c.do(httpReq, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("paystack call to %s failed: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("paystack call to %s: failed to read response: %w", req.URL.Path, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("paystack call to %s: invalid response (%d): %w", req.URL.Path, resp.StatusCode, err)
	}
	if resp.StatusCode >= 400 || !env.Status {
		return fmt.Errorf("paystack call to %s rejected (%d): %s", req.URL.Path, resp.StatusCode, env.Message)
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("paystack call to %s: failed to decode data: %w", req.URL.Path, err)
		}
	}
	return nil
}
