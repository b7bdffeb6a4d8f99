package paymentgateway

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

// TokenRequest is the payload for the external token-exchange function.
type TokenRequest struct {
	PaymentID     int64  `json:"payment_id"`
	Amount        int64  `json:"amount"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	ItemName      string `json:"item_name"`
}

// TokenResponse carries the checkout token the client app hands to the
// gateway widget.
type TokenResponse struct {
	Token   string `json:"token"`
	OrderID string `json:"order_id"`
}

type Config struct {
	TokenURL       string
	APIKey         string
	RequestTimeout time.Duration
}

// Client exchanges a payment for a gateway checkout token. Failures surface
// to the caller; there is no automatic retry.
type Client struct {
	tokenURL string
	apiKey   string
	client   *http.Client
	logger   *slog.Logger
}

func NewClient(config Config, logger *slog.Logger) *Client {
	timeout := config.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		tokenURL: config.TokenURL,
		apiKey:   config.APIKey,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

func (c *Client) CreateToken(ctx context.Context, req TokenRequest) (*TokenResponse, error) {
	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal token request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("create token request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	c.logger.Info("requesting gateway token",
		"payment_id", req.PaymentID,
		"amount", req.Amount)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		c.logger.Error("gateway token request failed", "error", err, "payment_id", req.PaymentID)
		return nil, fmt.Errorf("gateway request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read gateway response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("gateway token request rejected",
			"status", resp.StatusCode,
			"response", string(respBody),
			"payment_id", req.PaymentID)
		return nil, fmt.Errorf("gateway error: status %d", resp.StatusCode)
	}

	var tokenResp TokenResponse
	if err := json.Unmarshal(respBody, &tokenResp); err != nil {
		return nil, fmt.Errorf("unmarshal gateway response: %w", err)
	}
	if tokenResp.Token == "" {
		return nil, fmt.Errorf("gateway returned empty token")
	}

	c.logger.Info("gateway token issued",
		"payment_id", req.PaymentID,
		"order_id", tokenResp.OrderID)

	return &tokenResp, nil
}
