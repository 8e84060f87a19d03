package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/csheth/paperlens/internal/logging"
)

// DefaultEndpoint is used when no endpoint is configured.
const DefaultEndpoint = "http://127.0.0.1:8765"

// Bridge is the fixed RPC surface of the host process. Implementations never
// return Go errors; every failure is folded into the Outcome.
type Bridge interface {
	SearchPapers(ctx context.Context, req SearchRequest) Outcome[SearchResult]
	GenerateVisualizations(ctx context.Context, papers []Paper) Outcome[VisualizationResult]
	ExportData(ctx context.Context, format string, papers []Paper) Outcome[ExportResult]
	GetPaperStatistics(ctx context.Context, papers []Paper) Outcome[Statistics]
	GetAppInfo(ctx context.Context) Outcome[AppInfo]
	OpenFile(ctx context.Context, path string) Outcome[Empty]
	OpenFileManager(ctx context.Context, path string) Outcome[Empty]
}

// Config describes how to reach the host.
type Config struct {
	Endpoint string
	// Timeout of zero leaves slow calls running until the host answers.
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client talks to the host over HTTP: every operation is a POST to
// {endpoint}/api/{operation} answered with a {"success": ...} envelope.
type Client struct {
	endpoint string
	client   *http.Client
}

var _ Bridge = (*Client)(nil)

// New validates the endpoint and builds a client.
func New(cfg Config) (*Client, error) {
	endpoint := strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/")
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid bridge endpoint %q: %w", endpoint, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid bridge endpoint %q: scheme must be http or https", endpoint)
	}
	return &Client{endpoint: endpoint, client: pickHTTPClient(cfg)}, nil
}

func pickHTTPClient(cfg Config) *http.Client {
	if cfg.HTTPClient != nil {
		return cfg.HTTPClient
	}
	return &http.Client{Timeout: cfg.Timeout}
}

// Endpoint reports the base URL in use.
func (c *Client) Endpoint() string { return c.endpoint }

func (c *Client) SearchPapers(ctx context.Context, req SearchRequest) Outcome[SearchResult] {
	return call[SearchResult](ctx, c, OpSearchPapers, req)
}

func (c *Client) GenerateVisualizations(ctx context.Context, papers []Paper) Outcome[VisualizationResult] {
	return call[VisualizationResult](ctx, c, OpGenerateVisualizations, papersPayload{Papers: papers})
}

func (c *Client) ExportData(ctx context.Context, format string, papers []Paper) Outcome[ExportResult] {
	return call[ExportResult](ctx, c, OpExportData, exportPayload{Format: format, Papers: papers})
}

func (c *Client) GetPaperStatistics(ctx context.Context, papers []Paper) Outcome[Statistics] {
	return call[Statistics](ctx, c, OpGetPaperStatistics, papersPayload{Papers: papers})
}

func (c *Client) GetAppInfo(ctx context.Context) Outcome[AppInfo] {
	return call[AppInfo](ctx, c, OpGetAppInfo, struct{}{})
}

func (c *Client) OpenFile(ctx context.Context, path string) Outcome[Empty] {
	return call[Empty](ctx, c, OpOpenFile, filePayload{Filepath: path})
}

func (c *Client) OpenFileManager(ctx context.Context, path string) Outcome[Empty] {
	return call[Empty](ctx, c, OpOpenFileManager, filePayload{Filepath: path})
}

type papersPayload struct {
	Papers []Paper `json:"papers"`
}

type exportPayload struct {
	Format string  `json:"format"`
	Papers []Paper `json:"papers"`
}

type filePayload struct {
	Filepath string `json:"filepath"`
}

type envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func call[T any](ctx context.Context, c *Client, op string, payload any) Outcome[T] {
	body, err := c.post(ctx, op, payload)
	if err != nil {
		logging.Warnf("[bridge] %s transport failure: %v", op, err)
		return FromError[T](err)
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Failed[T](fmt.Sprintf("malformed %s response: %v", op, err))
	}
	if !env.Success {
		return Failed[T](env.Error)
	}
	var value T
	if err := json.Unmarshal(body, &value); err != nil {
		return Failed[T](fmt.Sprintf("malformed %s payload: %v", op, err))
	}
	return Succeeded(value)
}

func (c *Client) post(ctx context.Context, op string, payload any) ([]byte, error) {
	buf, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/api/"+op, bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		// Hosts may still answer with a proper envelope on error statuses.
		var env envelope
		if json.Unmarshal(body, &env) == nil && env.Error != "" {
			return nil, errors.New(env.Error)
		}
		return nil, fmt.Errorf("bridge error: %s (%s)", resp.Status, strings.TrimSpace(string(limit(body, 512))))
	}
	return body, nil
}

func limit(body []byte, n int) []byte {
	if len(body) <= n {
		return body
	}
	return body[:n]
}
