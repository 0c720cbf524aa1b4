// Package textgen 提供基于 Gemini generateContent REST API 的文本生成客户端。
// 通过熔断器隔离下游故障,调用方拿到的错误统一映射成领域错误。
package textgen

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

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/rushteam/shoprec/core"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-2.0-flash"
	defaultTimeout = 8 * time.Second

	// 连续失败 3 次熔断,半开前冷却 30s
	breakerTripThreshold = 3
	breakerCooldown      = 30 * time.Second
)

// Config 是 Gemini 客户端配置。
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration

	// Temperature 为 nil 时取默认 0.7;显式 0 表示确定性输出
	Temperature     *float64
	MaxOutputTokens int
}

// Client 调用 Gemini generateContent 接口,实现 core.TextGenerator。
type Client struct {
	apiKey      string
	model       string
	baseURL     string
	temperature float64
	maxTokens   int

	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[string]
	logger     zerolog.Logger
}

// NewClient 创建客户端。APIKey 缺失时返回错误,由调用方决定是否降级为纯模板解释。
func NewClient(cfg Config, logger zerolog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, core.NewDomainError(core.ModuleTextGen, core.ErrorCodeInvalidInput, "textgen: api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	temperature := 0.7
	if cfg.Temperature != nil {
		temperature = *cfg.Temperature
	}
	if cfg.MaxOutputTokens <= 0 {
		cfg.MaxOutputTokens = 100
	}

	c := &Client{
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		temperature: temperature,
		maxTokens:   cfg.MaxOutputTokens,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		logger:      logger.With().Str("module", "textgen").Logger(),
	}
	c.breaker = gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:    "textgen.gemini",
		Timeout: breakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerTripThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn().Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
		},
	})
	return c, nil
}

// Generate 实现 core.TextGenerator。
// 熔断打开时直接返回 UNAVAILABLE,下游 429 映射为 RATE_LIMITED。
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	text, err := c.breaker.Execute(func() (string, error) {
		return c.generate(ctx, prompt)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", core.ErrTextGenUnavailable
		}
		return "", err
	}
	return text, nil
}

// 请求/响应结构只保留用到的字段
type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:     c.temperature,
			MaxOutputTokens: c.maxTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("textgen: marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, url.QueryEscape(c.apiKey))

	// 传输层瞬时故障重试一次;HTTP 状态错误(含 429)不重试
	var resp *http.Response
	for attempt := 0; attempt < 2; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return "", fmt.Errorf("textgen: build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err = c.httpClient.Do(req)
		if err == nil {
			break
		}
		if ctx.Err() != nil {
			return "", core.ErrTextGenUnavailable
		}
		if attempt == 1 {
			c.logger.Debug().Err(err).Msg("transport error after retry")
			return "", core.ErrTextGenUnavailable
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("textgen: read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", core.ErrTextGenRateLimited
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		c.logger.Debug().Int("status", resp.StatusCode).Msg("generate failed")
		return "", core.NewDomainError(core.ModuleTextGen, core.ErrorCodeUnavailable,
			fmt.Sprintf("textgen: unexpected status %d: %s", resp.StatusCode, errorBody(respBody)))
	}

	var out generateResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("textgen: decode response: %w", err)
	}
	if len(out.Candidates) == 0 {
		return "", core.NewDomainError(core.ModuleTextGen, core.ErrorCodeInternalError, "textgen: empty candidates")
	}
	var sb strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", core.NewDomainError(core.ModuleTextGen, core.ErrorCodeInternalError, "textgen: empty candidate text")
	}
	return text, nil
}

// errorBody 截取错误响应体用于错误信息,避免把超长响应塞进日志。
func errorBody(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if s == "" {
		return "(empty body)"
	}
	if len(s) > maxLen {
		s = s[:maxLen] + "..."
	}
	return s
}

var _ core.TextGenerator = (*Client)(nil)
