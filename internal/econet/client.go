package econet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/nugget/econet-bridge/internal/config"
)

// The controller ships with fixed factory credentials on its local
// HTTP interface; there is no negotiation or token exchange.
const (
	basicAuthUser     = "admin"
	basicAuthPassword = "admin"
)

// regParamsPath is the controller endpoint serving the full register
// snapshot.
const regParamsPath = "/econet/regParams"

// DefaultTimeout bounds one regParams request end to end.
const DefaultTimeout = 10 * time.Second

// maxBodyBytes caps the response body read. regParams documents are a
// few tens of KB; anything near this limit is not a real snapshot.
const maxBodyBytes int64 = 4 * 1024 * 1024

// Client fetches regParams snapshots from an ecoNET controller.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewClient creates a Client for the controller at endpoint
// (host or host:port, no scheme). A timeout of 0 uses [DefaultTimeout].
func NewClient(endpoint string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: "http://" + endpoint,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Fetch retrieves and decodes one regParams document. Network errors,
// non-2xx responses, and malformed JSON all surface as errors; the
// caller treats any of them as a skipped cycle, never as fatal.
func (c *Client) Fetch(ctx context.Context) (Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+regParamsPath, nil)
	if err != nil {
		return nil, fmt.Errorf("econet: build request: %w", err)
	}
	req.SetBasicAuth(basicAuthUser, basicAuthPassword)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("econet: fetch regParams: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("econet: regParams returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("econet: read response: %w", err)
	}

	if c.logger.Enabled(ctx, config.LevelTrace) {
		c.logger.Log(ctx, config.LevelTrace, "econet regParams payload",
			"bytes", len(body), "body", string(body))
	}

	var doc Document
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("econet: decode regParams JSON: %w", err)
	}

	return doc, nil
}
