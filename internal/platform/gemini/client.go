package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/pkg/logger"
)

const defaultModel = "gemini-2.5-flash"

type Config struct {
	APIKey      string        `yaml:"api_key"`
	Model       string        `yaml:"model"`
	BaseURL     string        `yaml:"base_url"`
	Timeout     time.Duration `yaml:"timeout"`
	RPS         float64       `yaml:"rps"`
	Temperature *float32      `yaml:"temperature"`
}

// Client generates text through the Gemini API.
type Client struct {
	log         *logger.Logger
	client      *genai.Client
	model       string
	timeout     time.Duration
	temperature *float32
	limiter     *rate.Limiter
}

func NewClient(ctx context.Context, cfg Config, log *logger.Logger) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("missing GEMINI_API_KEY")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: base}
	}
	gc, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	var limiter *rate.Limiter
	if cfg.RPS > 0 {
		burst := int(cfg.RPS)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RPS), burst)
	}
	return &Client{
		log:         log.With("client", "GeminiClient", "model", model),
		client:      gc,
		model:       model,
		timeout:     cfg.Timeout,
		temperature: cfg.Temperature,
		limiter:     limiter,
	}, nil
}

func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	cfg := &genai.GenerateContentConfig{Temperature: c.temperature}
	if strings.TrimSpace(system) != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	contents := []*genai.Content{genai.NewContentFromText(user, genai.RoleUser)}

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		c.log.Warn("Gemini request failed", "error", err, "elapsed", time.Since(start).String())
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("gemini returned no text")
	}
	c.log.Debug("Gemini request done", "elapsed", time.Since(start).String())
	return text, nil
}
