package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"

	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/pkg/httpx"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/pkg/logger"
)

const defaultBaseURL = "https://api.openai.com"

type Config struct {
	APIKey      string        `yaml:"api_key"`
	BaseURL     string        `yaml:"base_url"`
	Model       string        `yaml:"model"`
	Timeout     time.Duration `yaml:"timeout"`
	MaxRetries  int           `yaml:"max_retries"`
	RetryWait   time.Duration `yaml:"retry_wait"`
	RPS         float64       `yaml:"rps"`
	Temperature *float64      `yaml:"temperature"`
}

// Client calls the Responses API for plain text completions.
type Client struct {
	log         *logger.Logger
	baseURL     string
	apiKey      string
	model       string
	temperature *float64
	httpClient  *http.Client
	limiter     *rate.Limiter

	// models that rejected temperature; omitted thereafter
	noTempMu sync.RWMutex
	noTemp   map[string]bool
}

func NewClient(cfg Config, log *logger.Logger) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("missing OPENAI_API_KEY")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		return nil, fmt.Errorf("missing openai model")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	serviceLog := log.With("client", "OpenAIClient", "model", model)

	rc := retryablehttp.NewClient()
	rc.HTTPClient = &http.Client{Timeout: timeout}
	rc.Logger = serviceLog
	rc.RetryMax = cfg.MaxRetries
	rc.RetryWaitMin = cfg.RetryWait
	if rc.RetryWaitMin <= 0 {
		rc.RetryWaitMin = 1 * time.Second
	}
	rc.RetryWaitMax = 10 * rc.RetryWaitMin
	rc.CheckRetry = checkRetry
	rc.Backoff = func(min, max time.Duration, attempt int, resp *http.Response) time.Duration {
		return httpx.RetryAfterDuration(resp, retryablehttp.DefaultBackoff(min, max, attempt, resp), max)
	}
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	var limiter *rate.Limiter
	if cfg.RPS > 0 {
		burst := int(cfg.RPS)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RPS), burst)
	}

	return &Client{
		log:         serviceLog,
		baseURL:     baseURL,
		apiKey:      apiKey,
		model:       model,
		temperature: cfg.Temperature,
		httpClient:  rc.StandardClient(),
		limiter:     limiter,
		noTemp:      map[string]bool{},
	}, nil
}

// WithModel returns a copy of c that targets model. The HTTP client and rate
// limiter are shared.
func (c *Client) WithModel(model string) *Client {
	model = strings.TrimSpace(model)
	if model == "" || model == c.model {
		return c
	}
	return &Client{
		log:         c.log.With("model", model),
		baseURL:     c.baseURL,
		apiKey:      c.apiKey,
		model:       model,
		temperature: c.temperature,
		httpClient:  c.httpClient,
		limiter:     c.limiter,
		noTemp:      map[string]bool{},
	}
}

func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		return httpx.IsRetryableError(err), nil
	}
	return httpx.IsRetryableHTTPStatus(resp.StatusCode), nil
}

type inputMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responsesRequest struct {
	Model       string         `json:"model"`
	Input       []inputMessage `json:"input"`
	Temperature *float64       `json:"temperature,omitempty"`
}

type responsesResponse struct {
	Output []struct {
		Type    string `json:"type"`
		Role    string `json:"role,omitempty"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text,omitempty"`
		} `json:"content,omitempty"`
	} `json:"output"`
	Refusal string `json:"refusal,omitempty"`
}

func extractOutputText(resp responsesResponse) string {
	var out strings.Builder
	for _, item := range resp.Output {
		if item.Type == "message" && item.Role == "assistant" {
			for _, c := range item.Content {
				if c.Type == "output_text" && c.Text != "" {
					out.WriteString(c.Text)
				}
			}
		}
	}
	return out.String()
}

// Complete returns the assistant text for a system/user pair.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	req := responsesRequest{
		Model: c.model,
		Input: []inputMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}
	if c.temperature != nil && !c.modelIsNoTemp(c.model) {
		req.Temperature = c.temperature
	}

	var resp responsesResponse
	err := c.post(ctx, "/v1/responses", req, &resp)
	if err != nil && req.Temperature != nil && isUnsupportedTemperature(err) {
		c.noteNoTemp(c.model)
		req.Temperature = nil
		err = c.post(ctx, "/v1/responses", req, &resp)
	}
	if err != nil {
		return "", err
	}
	if resp.Refusal != "" {
		return "", fmt.Errorf("model refused: %s", resp.Refusal)
	}
	text := extractOutputText(resp)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no output_text found in response")
	}
	return text, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Warn("OpenAI request failed", "path", path, "status", resp.StatusCode, "elapsed", time.Since(start).String())
		return &httpx.StatusError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("openai decode error: %w", err)
	}
	c.log.Debug("OpenAI request done", "path", path, "elapsed", time.Since(start).String())
	return nil
}

func (c *Client) modelIsNoTemp(model string) bool {
	c.noTempMu.RLock()
	defer c.noTempMu.RUnlock()
	return c.noTemp[strings.ToLower(model)]
}

func (c *Client) noteNoTemp(model string) {
	c.noTempMu.Lock()
	defer c.noTempMu.Unlock()
	c.noTemp[strings.ToLower(model)] = true
	c.log.Info("Model rejected temperature; omitting it from now on")
}

func isUnsupportedTemperature(err error) bool {
	msg := strings.ToLower(err.Error())
	if !strings.Contains(msg, "temperature") {
		return false
	}
	for _, marker := range []string{"unsupported parameter", "unknown parameter", "not supported", "does not support", "only the default", "unsupported_value"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
