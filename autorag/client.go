package autorag

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// querySuffix steers the retrieval service towards the three sections the
// structured extractor looks for.
const querySuffix = " Generate Applicable laws, Similar Precedents, and Procedural checklist for AI legal assistant for law firms."

// maxBodyBytes caps how much of an upstream response is read
const maxBodyBytes = 4 << 20

// Config holds the credentials and endpoint of an AutoRAG instance
type Config struct {
	AccountID string
	RagID     string
	APIToken  string
	BaseURL   string
	Timeout   time.Duration
}

// Client calls the Cloudflare AutoRAG ai-search endpoint
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates a client. Missing credentials are not an error here; they
// are reported as a configuration error on every Search call.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.cloudflare.com/client/v4"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type searchRequest struct {
	Query string `json:"query"`
}

type searchResult struct {
	Response *string `json:"response"`
}

type searchResponse struct {
	Success  *bool           `json:"success"`
	Result   *searchResult   `json:"result"`
	Errors   json.RawMessage `json:"errors"`
	Messages json.RawMessage `json:"messages"`
}

// Configured reports whether all credentials are present
func (c *Client) Configured() bool {
	return c.missingCredentials() == nil
}

func (c *Client) missingCredentials() []string {
	var missing []string
	if c.cfg.AccountID == "" {
		missing = append(missing, "account_id")
	}
	if c.cfg.RagID == "" {
		missing = append(missing, "rag_id")
	}
	if c.cfg.APIToken == "" {
		missing = append(missing, "api_token")
	}
	return missing
}

func (c *Client) endpoint() string {
	return fmt.Sprintf("%s/accounts/%s/autorag/rags/%s/ai-search",
		strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.AccountID, c.cfg.RagID)
}

// Search sends one query and returns the raw text answer. Every failure is an *Error.
func (c *Client) Search(ctx context.Context, query string) (string, error) {
	if missing := c.missingCredentials(); len(missing) > 0 {
		return "", &Error{
			Kind:    KindConfiguration,
			Message: "missing hosted retrieval credentials: " + strings.Join(missing, ", "),
		}
	}

	body, err := json.Marshal(searchRequest{Query: query + querySuffix})
	if err != nil {
		return "", &Error{Kind: KindConfiguration, Message: "failed to marshal request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return "", &Error{Kind: KindConfiguration, Message: "failed to create request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &Error{Kind: KindNetwork, Message: "request to hosted retrieval failed", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", &Error{Kind: KindNetwork, Message: "failed to read response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &Error{
			Kind:       KindHTTPStatus,
			Message:    "hosted retrieval request failed",
			StatusCode: resp.StatusCode,
			Status:     http.StatusText(resp.StatusCode),
			Body:       truncate(string(respBody), 2000),
		}
	}

	var apiResp searchResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", &Error{
			Kind:    KindMalformed,
			Message: "hosted retrieval returned invalid JSON",
			Body:    truncate(string(respBody), 2000),
			Err:     err,
		}
	}

	if apiResp.Success == nil || !*apiResp.Success {
		details := append(decodeMessages(apiResp.Errors), decodeMessages(apiResp.Messages)...)
		return "", &Error{
			Kind:    KindUnsuccessful,
			Message: "hosted retrieval reported an unsuccessful request",
			Details: details,
		}
	}

	if apiResp.Result == nil || apiResp.Result.Response == nil {
		return "", &Error{
			Kind:    KindMalformed,
			Message: "hosted retrieval response is missing result.response",
			Body:    truncate(string(respBody), 2000),
		}
	}

	return *apiResp.Result.Response, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
