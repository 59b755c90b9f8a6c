package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"landval/internal/domain"
	"landval/internal/logging"
)

const (
	module          = "api"
	maxErrorBody    = 64 << 10
	maxResponseBody = 8 << 20
	requestIDHeader = "X-Request-ID"
)

// HTTP is the JSON-over-HTTP client for the scoring service.
type HTTP struct {
	Base string
	HTTP *http.Client
	Log  logging.Logger
}

// NewHTTP returns a client for base. A nil client means http.DefaultClient.
func NewHTTP(base string, client *http.Client, log logging.Logger) *HTTP {
	if client == nil {
		client = http.DefaultClient
	}
	if log == nil {
		log = logging.NewNop()
	}
	return &HTTP{Base: strings.TrimRight(base, "/"), HTTP: client, Log: log}
}

// NewHTTPClient returns an *http.Client whose total request time is bounded by timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

func (c *HTTP) FetchOptions(ctx context.Context) (domain.ReferenceOptions, error) {
	var out domain.ReferenceOptions
	if err := c.getJSON(ctx, "/options", "", &out); err != nil {
		return domain.ReferenceOptions{}, err
	}
	return out, nil
}

func (c *HTTP) FetchMe(ctx context.Context, token string) (domain.User, error) {
	var out domain.User
	if err := c.getJSON(ctx, "/me", token, &out); err != nil {
		return domain.User{}, err
	}
	return out, nil
}

// ExchangePassword performs the password grant; the body is form-encoded.
func (c *HTTP) ExchangePassword(ctx context.Context, username, password string) (domain.TokenGrant, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	body, err := c.do(ctx, http.MethodPost, "/token", "",
		strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
	if err != nil {
		return domain.TokenGrant{}, err
	}
	return decodeGrant(http.MethodPost, "/token", body)
}

// ExchangeFederated trades an identity-provider credential for a session token.
func (c *HTTP) ExchangeFederated(ctx context.Context, credential string) (domain.TokenGrant, error) {
	in := struct {
		Credential string `json:"credential"`
	}{Credential: credential}
	body, err := c.postJSON(ctx, "/google-login", "", in)
	if err != nil {
		return domain.TokenGrant{}, err
	}
	return decodeGrant(http.MethodPost, "/google-login", body)
}

func (c *HTTP) Register(ctx context.Context, registration domain.Registration) error {
	_, err := c.postJSON(ctx, "/register", "", registration)
	return err
}

func (c *HTTP) Predict(
	ctx context.Context,
	token string,
	submission domain.Submission,
) (domain.PredictionResult, error) {
	body, err := c.postJSON(ctx, "/predict", token, submission)
	if err != nil {
		return domain.PredictionResult{}, err
	}
	var out domain.PredictionResult
	if err := json.Unmarshal(body, &out); err != nil {
		return domain.PredictionResult{}, protocolError(http.MethodPost, "/predict", err)
	}
	out.Raw = append(json.RawMessage(nil), body...)
	return out, nil
}

func (c *HTTP) FetchHistory(ctx context.Context, token string) ([]domain.HistoryEntry, error) {
	var out []domain.HistoryEntry
	if err := c.getJSON(ctx, "/history", token, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.HistoryEntry{}
	}
	return out, nil
}

func (c *HTTP) postJSON(ctx context.Context, path, token string, in any) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(in); err != nil {
		return nil, fmt.Errorf("encode %s body: %w", path, err)
	}
	return c.do(ctx, http.MethodPost, path, token, buf, "application/json")
}

func (c *HTTP) getJSON(ctx context.Context, path, token string, out any) error {
	body, err := c.do(ctx, http.MethodGet, path, token, nil, "")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return protocolError(http.MethodGet, path, err)
	}
	return nil
}

// do sends one request and returns the body of a 2xx answer. Nothing is retried.
func (c *HTTP) do(
	ctx context.Context,
	method, path, token string,
	body io.Reader,
	contentType string,
) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.Base+path, body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		c.Log.Warn(module, "request failed", map[string]any{
			"method": method, "path": path, "request_id": requestID, "error": err.Error(),
		})
		return nil, &RequestError{Method: method, Path: path, Kind: KindConnectivity, Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	limit := int64(maxResponseBody)
	if resp.StatusCode/100 != 2 {
		limit = maxErrorBody
	}
	payload, truncated, err := readLimited(resp.Body, limit)
	if err != nil {
		return nil, &RequestError{Method: method, Path: path, Kind: KindConnectivity, Err: err}
	}
	c.Log.Debug(module, "request completed", map[string]any{
		"method":      method,
		"path":        path,
		"status":      resp.StatusCode,
		"request_id":  requestID,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	if resp.StatusCode/100 != 2 {
		detail := ""
		if !truncated {
			detail = extractDetail(payload)
		}
		return nil, &RequestError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Kind:       kindForStatus(resp.StatusCode),
			Detail:     detail,
		}
	}
	if truncated {
		return nil, protocolError(method, path, fmt.Errorf("response body exceeds %d bytes", maxResponseBody))
	}
	return payload, nil
}

// readLimited reads at most limit bytes of r. truncated reports whether
// more data followed.
func readLimited(r io.Reader, limit int64) (body []byte, truncated bool, err error) {
	body, err = io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, false, err
	}
	if int64(len(body)) > limit {
		return body[:limit], true, nil
	}
	return body, false, nil
}

func decodeGrant(method, path string, body []byte) (domain.TokenGrant, error) {
	var out domain.TokenGrant
	if err := json.Unmarshal(body, &out); err != nil {
		return domain.TokenGrant{}, protocolError(method, path, err)
	}
	if strings.TrimSpace(out.AccessToken) == "" {
		return domain.TokenGrant{}, protocolError(method, path, fmt.Errorf("response has no access_token"))
	}
	return out, nil
}

func protocolError(method, path string, err error) error {
	return &RequestError{Method: method, Path: path, Kind: KindProtocol, Err: err}
}

var _ domain.ValuationAPI = (*HTTP)(nil)
