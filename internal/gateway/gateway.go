// Package gateway is the single HTTP client behind every backend call. It
// attaches the bearer token from the credential store, performs exactly one
// refresh-and-retry when a call comes back 401, and normalizes the backend's
// response envelope into decoded payloads and typed errors.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tidwall/gjson"

	"github.com/savorline/storefront-client/internal/credentials"
	"github.com/savorline/storefront-client/pkg/logger"
)

// ErrUnauthenticated is returned once the refresh-and-retry path is
// exhausted. The session is torn down before it is returned.
var ErrUnauthenticated = errors.New("unauthenticated")

// APIError is a business failure reported by the backend, either via the
// success envelope or a non-2xx status.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// FallbackMessage is shown to the user when the backend gave no message.
const FallbackMessage = "something went wrong, please try again"

// UserMessage extracts a human-readable message from err for display.
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if errors.Is(err, ErrUnauthenticated) {
		return "your session has expired, please log in again"
	}
	return FallbackMessage
}

// Config configures the gateway client.
type Config struct {
	BaseURL     string
	Credentials credentials.Store
	HTTPClient  *http.Client
	Logger      *logger.Logger
	// Registerer receives the gateway's request counters; nil disables
	// registration but the counters still work.
	Registerer prometheus.Registerer
	// OnSessionExpired runs after a terminal auth failure, once the
	// persisted tokens have been cleared. The façade uses it to reset the
	// entity stores.
	OnSessionExpired func()
}

// Client is the remote data gateway.
type Client struct {
	baseURL          string
	httpClient       *http.Client
	creds            credentials.Store
	log              *logger.Logger
	gate             *tokenGate
	metrics          *clientMetrics
	onSessionExpired func()
}

// New creates a gateway client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("BaseURL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid BaseURL: %w", err)
	}
	if cfg.Credentials == nil {
		return nil, errors.New("Credentials store is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	log := cfg.Logger
	if log == nil {
		log = logger.NewDefault("gateway")
	}

	c := &Client{
		baseURL:          strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient:       httpClient,
		creds:            cfg.Credentials,
		log:              log,
		metrics:          newClientMetrics(cfg.Registerer),
		onSessionExpired: cfg.OnSessionExpired,
	}
	c.gate = newTokenGate(c.exchangeRefreshToken)
	return c, nil
}

// SetSession stores a freshly issued token pair and marks it valid.
func (c *Client) SetSession(access, refresh string) error {
	if err := c.creds.SetTokens(access, refresh); err != nil {
		return fmt.Errorf("persist tokens: %w", err)
	}
	c.gate.Reset()
	return nil
}

// ClearSession removes the persisted tokens.
func (c *Client) ClearSession() error {
	c.gate.Reset()
	if err := c.creds.Clear(); err != nil {
		return fmt.Errorf("clear tokens: %w", err)
	}
	return nil
}

// HasSession reports whether a persisted access token exists.
func (c *Client) HasSession() bool {
	access, _ := c.creds.Tokens()
	return access != ""
}

// AccessToken returns the currently persisted access token, if any.
func (c *Client) AccessToken() string {
	access, _ := c.creds.Tokens()
	return access
}

// Call executes one endpoint. body is JSON-encoded when non-nil; the
// response payload is decoded into out when non-nil. On a 401 the call is
// retried exactly once after a token refresh; a second 401 tears the
// session down and returns ErrUnauthenticated.
func (c *Client) Call(ctx context.Context, ep Endpoint, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
	}
	return c.call(ctx, ep, payload, "application/json", out)
}

// Upload executes a multipart file upload endpoint.
func (c *Client) Upload(ctx context.Context, ep Endpoint, field, filename string, content io.Reader, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return fmt.Errorf("create multipart field: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return fmt.Errorf("buffer upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("finalize multipart body: %w", err)
	}
	return c.call(ctx, ep, buf.Bytes(), mw.FormDataContentType(), out)
}

func (c *Client) call(ctx context.Context, ep Endpoint, payload []byte, contentType string, out any) error {
	// A visibly expired access token is refreshed up front instead of
	// burning a round trip on a guaranteed 401.
	if !ep.NoAuth {
		if access, _ := c.creds.Tokens(); credentials.AccessTokenExpired(access, time.Now()) {
			if err := c.gate.Refresh(ctx); err != nil {
				return c.sessionExpired(ep, err)
			}
		}
	}

	status, respBody, err := c.doOnce(ctx, ep, payload, contentType)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized && !ep.NoAuth {
		if err := c.gate.Refresh(ctx); err != nil {
			return c.sessionExpired(ep, err)
		}
		status, respBody, err = c.doOnce(ctx, ep, payload, contentType)
		if err != nil {
			return err
		}
		if status == http.StatusUnauthorized {
			return c.sessionExpired(ep, errors.New("still unauthorized after token refresh"))
		}
	}

	return decodeResponse(status, respBody, out)
}

// BestEffort executes one authenticated exchange with an explicit token
// snapshot, skipping the refresh-and-retry machinery. The façade uses it
// for the fire-and-forget logout call issued after the local session is
// already gone.
func (c *Client) BestEffort(ctx context.Context, ep Endpoint, access string) error {
	req, err := http.NewRequestWithContext(ctx, ep.Method, c.baseURL+ep.Path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if access != "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", ep.Method, ep.Path, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 8<<20))

	if resp.StatusCode >= 400 {
		return &APIError{StatusCode: resp.StatusCode}
	}
	return nil
}

// doOnce performs a single HTTP exchange and reads the full response body.
func (c *Client) doOnce(ctx context.Context, ep Endpoint, payload []byte, contentType string) (int, []byte, error) {
	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, ep.Method, c.baseURL+ep.Path, bodyReader)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if !ep.NoAuth {
		if access, _ := c.creds.Tokens(); access != "" {
			req.Header.Set("Authorization", "Bearer "+access)
		}
	}

	c.metrics.requests.WithLabelValues(ep.Method).Inc()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.failures.WithLabelValues(ep.Method).Inc()
		return 0, nil, fmt.Errorf("%s %s: %w", ep.Method, ep.Path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		c.metrics.failures.WithLabelValues(ep.Method).Inc()
		return 0, nil, fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode >= 400 {
		c.metrics.failures.WithLabelValues(ep.Method).Inc()
	}

	c.log.WithField("method", ep.Method).
		WithField("path", ep.Path).
		WithField("status", resp.StatusCode).
		Debug("request complete")

	return resp.StatusCode, respBody, nil
}

// exchangeRefreshToken trades the persisted refresh token for a new pair.
func (c *Client) exchangeRefreshToken(ctx context.Context) error {
	_, refresh := c.creds.Tokens()
	if refresh == "" {
		return errors.New("no refresh token")
	}

	payload, err := json.Marshal(map[string]string{"refreshToken": refresh})
	if err != nil {
		return fmt.Errorf("marshal refresh request: %w", err)
	}

	status, body, err := c.doOnce(ctx, EpRefreshToken, payload, "application/json")
	if err != nil {
		return err
	}

	var tokens struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	if err := decodeResponse(status, body, &tokens); err != nil {
		return fmt.Errorf("refresh token exchange: %w", err)
	}
	if tokens.AccessToken == "" {
		return errors.New("refresh response missing access token")
	}
	if tokens.RefreshToken == "" {
		tokens.RefreshToken = refresh
	}

	c.metrics.refreshes.Inc()
	c.log.Debug("access token refreshed")

	return c.creds.SetTokens(tokens.AccessToken, tokens.RefreshToken)
}

// sessionExpired tears the session down after a terminal auth failure.
func (c *Client) sessionExpired(ep Endpoint, cause error) error {
	c.log.WithField("path", ep.Path).WithError(cause).Warn("session expired")
	if err := c.creds.Clear(); err != nil {
		c.log.WithError(err).Error("clear persisted tokens")
	}
	if c.onSessionExpired != nil {
		c.onSessionExpired()
	}
	return fmt.Errorf("%w: %v", ErrUnauthenticated, cause)
}

// decodeResponse normalizes both backend response shapes: the
// {success, data, message} envelope used by most endpoints, and the bare
// payloads returned by the order and review fetches. The envelope is
// detected by the presence of a `success` key.
func decodeResponse(status int, body []byte, out any) error {
	success := gjson.GetBytes(body, "success")

	if status >= 400 {
		return &APIError{StatusCode: status, Message: envelopeMessage(body)}
	}

	if success.Exists() {
		if !success.Bool() {
			return &APIError{StatusCode: status, Message: envelopeMessage(body)}
		}
		if out == nil {
			return nil
		}
		data := gjson.GetBytes(body, "data")
		if !data.Exists() {
			return nil
		}
		if err := json.Unmarshal([]byte(data.Raw), out); err != nil {
			return fmt.Errorf("decode response data: %w", err)
		}
		return nil
	}

	// Bare payload.
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func envelopeMessage(body []byte) string {
	if msg := gjson.GetBytes(body, "message"); msg.Exists() && msg.String() != "" {
		return msg.String()
	}
	return ""
}
