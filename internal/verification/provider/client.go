// Package provider holds the outbound client for the external identity
// verification provider.
package provider

//go:generate mockgen -source=client.go -destination=mocks/mocks.go -package=mocks Client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"verigate/internal/verification/models"
	dErrors "verigate/pkg/domain-errors"
)

// Client creates verification sessions with the provider.
type Client interface {
	CreateSession(ctx context.Context, docType models.DocumentType) (*Session, error)
}

// Session is the provider-assigned handle for a verification attempt.
type Session struct {
	ID  string
	URL string
}

// StatusError carries a provider non-success response verbatim so callers can
// relay the provider's own diagnostics instead of a translated error.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("provider returned status %d", e.StatusCode)
}

// HTTPClient implements Client against the provider's REST API.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	lang       string
	country    string
	httpClient *http.Client
}

// Ensure HTTPClient implements Client
var _ Client = (*HTTPClient)(nil)

// HTTPClientOption configures the HTTPClient.
type HTTPClientOption func(*HTTPClient)

// WithHTTPClient sets a custom HTTP client (for testing).
func WithHTTPClient(client *http.Client) HTTPClientOption {
	return func(c *HTTPClient) {
		c.httpClient = client
	}
}

// WithDocumentDefaults sets the verification language and document country
// sent on session creation.
func WithDocumentDefaults(lang, country string) HTTPClientOption {
	return func(c *HTTPClient) {
		c.lang = lang
		c.country = country
	}
}

// NewHTTPClient creates a new HTTP-based provider client.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration, opts ...HTTPClientOption) *HTTPClient {
	c := &HTTPClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		lang:    "pt",
		country: "BR",
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// sessionRequest is the provider's session creation payload.
type sessionRequest struct {
	Verification sessionVerification `json:"verification"`
}

type sessionVerification struct {
	Lang     string          `json:"lang"`
	Document sessionDocument `json:"document"`
}

type sessionDocument struct {
	Type    models.DocumentType `json:"type"`
	Country string              `json:"country"`
}

// sessionResponse is the success shape of the provider's session endpoint.
type sessionResponse struct {
	Verification *struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	} `json:"verification"`
}

// CreateSession starts a verification session for the given document type.
//
// Provider non-2xx responses come back as *StatusError with the status and
// body untouched. A 2xx response without a session id and redirect URL is a
// broken upstream contract, not a success.
func (c *HTTPClient) CreateSession(ctx context.Context, docType models.DocumentType) (*Session, error) {
	if c.apiKey == "" {
		return nil, dErrors.New(dErrors.CodeConfig, "provider api key not configured")
	}

	reqBody, err := json.Marshal(sessionRequest{
		Verification: sessionVerification{
			Lang: c.lang,
			Document: sessionDocument{
				Type:    docType,
				Country: c.country,
			},
		},
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to marshal session request")
	}

	url := fmt.Sprintf("%s/v1/sessions", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create session request")
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-AUTH-CLIENT", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			return nil, dErrors.Wrap(err, dErrors.CodeUpstreamTimeout, "provider request timed out")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUpstream, "provider unreachable")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read provider response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: body}
	}

	var sessionResp sessionResponse
	if err := json.Unmarshal(body, &sessionResp); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUpstreamContract, "failed to parse provider response")
	}

	v := sessionResp.Verification
	if v == nil || v.ID == "" || v.URL == "" {
		return nil, dErrors.New(dErrors.CodeUpstreamContract, "provider response missing verification id or url")
	}

	return &Session{ID: v.ID, URL: v.URL}, nil
}
