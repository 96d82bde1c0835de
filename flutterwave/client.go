package flutterwave

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the production API root.
const DefaultBaseURL = "https://api.flutterwave.com/v3"

// Transaction is the provider's authoritative view of one payment attempt.
type Transaction struct {
	ID       json.Number `json:"id"`
	TxRef    string      `json:"tx_ref"`
	Status   string      `json:"status"`
	Amount   float64     `json:"amount"`
	Currency string      `json:"currency"`

	// Raw is the full data payload as received, retained for audit storage.
	Raw json.RawMessage `json:"-"`
}

// TransactionID returns the provider transaction id as a string.
func (t *Transaction) TransactionID() string {
	return t.ID.String()
}

// Successful reports whether the provider marked the transaction successful.
// The comparison is case-insensitive; any other status is a failed payment
// as far as this system is concerned.
func (t *Transaction) Successful() bool {
	return strings.EqualFold(t.Status, "successful")
}

// VerificationError is a verification rejected by the provider: a non-2xx
// response or a response without a data payload. The provider's own message
// is propagated to the caller.
type VerificationError struct {
	Message string
	Raw     json.RawMessage
}

func (e *VerificationError) Error() string {
	return e.Message
}

// Verifier re-checks a payment against the provider's synchronous API.
type Verifier interface {
	VerifyByID(ctx context.Context, transactionID string) (*Transaction, error)
	VerifyByReference(ctx context.Context, txRef string) (*Transaction, error)
}

// Client calls the Flutterwave verify endpoints with bearer authentication.
type Client struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client. The timeout bounds each verify call so a stuck
// provider fails the enclosing request instead of hanging.
func NewClient(secretKey, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		secretKey:  secretKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// VerifyByID verifies a transaction by its provider-assigned id.
func (c *Client) VerifyByID(ctx context.Context, transactionID string) (*Transaction, error) {
	endpoint := fmt.Sprintf("%s/transactions/%s/verify", c.baseURL, url.PathEscape(transactionID))
	return c.verify(ctx, endpoint)
}

// VerifyByReference verifies by merchant reference, used only when no
// transaction id is known.
func (c *Client) VerifyByReference(ctx context.Context, txRef string) (*Transaction, error) {
	endpoint := fmt.Sprintf("%s/transactions/verify_by_reference?tx_ref=%s", c.baseURL, url.QueryEscape(txRef))
	return c.verify(ctx, endpoint)
}

type verifyEnvelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) verify(ctx context.Context, endpoint string) (*Transaction, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("provider response unreadable: %w", err)
	}

	var env verifyEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("provider response malformed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 || len(env.Data) == 0 || string(env.Data) == "null" {
		message := env.Message
		if message == "" {
			message = "Verification failed"
		}
		return nil, &VerificationError{Message: message, Raw: body}
	}

	var tx Transaction
	if err := json.Unmarshal(env.Data, &tx); err != nil {
		return nil, fmt.Errorf("provider data malformed: %w", err)
	}
	tx.Raw = env.Data
	return &tx, nil
}
