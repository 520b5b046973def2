package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"sentra/internal/domain"
)

const (
	userAgent       = "sentra-cli/1.0"
	contentTypeJSON = "application/json"

	pathGenerateUnitTest = "/unit-test-results/generate_unit_test"
	pathExtractBaseClass = "/unit-test-results/extract_base_class"
	pathMergeClass       = "/unit-test-results/merge_class"
	pathRegisterToken    = "/user-tokens/register"
	pathGenerateToken    = "/user-tokens/generate-token"
	pathCheckToken       = "/user-tokens/do/check"
)

// ErrUnauthorized is returned when the service rejects the bearer token.
var ErrUnauthorized = domain.ErrUnauthorized

// StatusError reports a non-2xx response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("API returned status %d", e.Code)
	}
	return fmt.Sprintf("API returned status %d: %s", e.Code, e.Body)
}

func (e *StatusError) Unwrap() error {
	if e.Code == http.StatusUnauthorized || e.Code == http.StatusForbidden {
		return ErrUnauthorized
	}
	return nil
}

// Client talks JSON to the test-generation service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	macAddress func() string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return NewClientWithHTTPClient(baseURL, &http.Client{Timeout: timeout})
}

func NewClientWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		macAddress: MACAddress,
	}
}

type sourceRequest struct {
	SourceCode string `json:"sourceCode"`
}

type baseClassResponse struct {
	BaseClass string `json:"base_class"`
}

type mergeResponse struct {
	MergedClass string `json:"merged_class"`
}

type generateRequest struct {
	Key            string `json:"key"`
	FunctionName   string `json:"functionName"`
	SourceCode     string `json:"sourceCode"`
	Category       string `json:"category"`
	GeneratedTests string `json:"generatedTests"`
}

type tokenRequest struct {
	Token      string  `json:"token"`
	AssignedTo *string `json:"assignedTo,omitempty"`
}

// ExtractBaseClass returns the ancestor name the service reports for source.
// "N/A", "none" and empty answers are normalized to "".
func (c *Client) ExtractBaseClass(ctx context.Context, source, accessToken string) (string, error) {
	var resp baseClassResponse
	if err := c.postJSON(ctx, pathExtractBaseClass, accessToken, sourceRequest{SourceCode: source}, &resp); err != nil {
		return "", err
	}
	name := strings.TrimSpace(resp.BaseClass)
	switch strings.ToLower(name) {
	case "", "n/a", "none", "null":
		return "", nil
	}
	return name, nil
}

func (c *Client) MergeClass(ctx context.Context, source, accessToken string) (string, error) {
	var resp mergeResponse
	if err := c.postJSON(ctx, pathMergeClass, accessToken, sourceRequest{SourceCode: source}, &resp); err != nil {
		return "", err
	}
	if strings.TrimSpace(resp.MergedClass) == "" {
		return "", fmt.Errorf("merge returned empty class")
	}
	return resp.MergedClass, nil
}

func (c *Client) GenerateUnitTest(ctx context.Context, task domain.GenerationTask, accessToken string) (domain.GenerationResult, error) {
	req := generateRequest{
		Key:            task.Key,
		FunctionName:   task.UnitName,
		SourceCode:     task.Context,
		Category:       task.Category.WireName(),
		GeneratedTests: task.GeneratedTests,
	}
	var result domain.GenerationResult
	if err := c.postJSON(ctx, pathGenerateUnitTest, accessToken, req, &result); err != nil {
		return domain.GenerationResult{}, err
	}
	return result, nil
}

// RegisterToken binds userToken to this machine's hardware address.
func (c *Client) RegisterToken(ctx context.Context, userToken string) error {
	mac := c.macAddress()
	_, err := c.do(ctx, http.MethodPost, pathRegisterToken, "", tokenRequest{Token: userToken, AssignedTo: &mac})
	return err
}

// ExchangeToken trades a user token for an access token. The service answers
// with the raw token as the response body.
func (c *Client) ExchangeToken(ctx context.Context, userToken string) (string, error) {
	body, err := c.do(ctx, http.MethodPost, pathGenerateToken, "", tokenRequest{Token: userToken})
	if err != nil {
		return "", err
	}
	token := strings.Trim(strings.TrimSpace(string(body)), `"`)
	if token == "" {
		return "", fmt.Errorf("empty access token")
	}
	return token, nil
}

// CheckToken reports whether the service still accepts accessToken.
// A non-success status is a negative answer, not an error.
func (c *Client) CheckToken(ctx context.Context, accessToken string) (bool, error) {
	_, err := c.do(ctx, http.MethodGet, pathCheckToken, accessToken, nil)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (c *Client) postJSON(ctx context.Context, path, accessToken string, body, result interface{}) error {
	data, err := c.do(ctx, http.MethodPost, path, accessToken, body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, result); err != nil {
		preview := string(data)
		if len(preview) > 200 {
			preview = preview[:200]
		}
		return fmt.Errorf("failed to parse response (body: %s): %w", preview, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path, accessToken string, body interface{}) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", contentTypeJSON)
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	return data, nil
}

// MACAddress returns the first non-loopback hardware address, formatted as
// upper-case colon-separated hex, or "" when none is available.
func MACAddress() string {
	ifaces, err := net.Interfaces()
	if err != nil {
		return ""
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagLoopback != 0 || len(iface.HardwareAddr) == 0 {
			continue
		}
		return strings.ToUpper(iface.HardwareAddr.String())
	}
	return ""
}
