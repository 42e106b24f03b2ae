package registrar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// httpClient talks to the registrar's JSON-over-HTTP API. Every call carries
// an explicit timeout; the registrar gives no response-time guarantees.
type httpClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *slog.Logger
}

// NewHTTPClient creates a registrar client against the given API base URL.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) Client {
	return &httpClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// purchasePayload is the wire format of the purchase operation.
type purchasePayload struct {
	SLD         string   `json:"sld"`
	TLD         string   `json:"tld"`
	Years       int      `json:"years"`
	Nameservers []string `json:"nameservers"`
	IDProtect   bool     `json:"id_protect"`
}

// purchaseResponse is the registrar's reply: either an order id or error codes.
type purchaseResponse struct {
	OrderID    string   `json:"order_id"`
	ErrorCodes []string `json:"error_codes"`
}

// nameserverPayload is the wire format of the modify-nameservers operation.
type nameserverPayload struct {
	SLD         string   `json:"sld"`
	TLD         string   `json:"tld"`
	Nameservers []string `json:"nameservers"`
}

// Purchase registers the domain through the registrar API.
func (c *httpClient) Purchase(ctx context.Context, req PurchaseRequest) (*PurchaseResult, error) {
	payload := purchasePayload{
		SLD:         req.SLD,
		TLD:         req.TLD,
		Years:       req.Years,
		Nameservers: req.Nameservers,
		IDProtect:   req.IDProtect,
	}

	var response purchaseResponse
	if err := c.post(ctx, "/v1/domains/purchase", payload, &response); err != nil {
		return nil, err
	}

	if len(response.ErrorCodes) > 0 {
		return nil, &APIError{Codes: response.ErrorCodes}
	}
	if response.OrderID == "" {
		return nil, fmt.Errorf("registrar returned no order id: %w", ErrPurchaseFailed)
	}

	return &PurchaseResult{ExternalOrderID: response.OrderID}, nil
}

// ConfigureNameservers updates the domain's nameserver delegation.
func (c *httpClient) ConfigureNameservers(ctx context.Context, sld, tld string, nameservers []string) error {
	payload := nameserverPayload{SLD: sld, TLD: tld, Nameservers: nameservers}

	var response purchaseResponse
	if err := c.post(ctx, "/v1/domains/nameservers", payload, &response); err != nil {
		return err
	}

	if len(response.ErrorCodes) > 0 {
		return &APIError{Codes: response.ErrorCodes}
	}
	return nil
}

// post sends an authenticated JSON request and decodes the JSON response.
func (c *httpClient) post(ctx context.Context, path string, payload, response any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode registrar request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build registrar request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("registrar request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read registrar response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("registrar returned non-2xx",
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
		)
		return fmt.Errorf("registrar returned status %d: %w", resp.StatusCode, ErrPurchaseFailed)
	}

	if err := json.Unmarshal(respBody, response); err != nil {
		return fmt.Errorf("malformed registrar response: %w", err)
	}
	return nil
}
