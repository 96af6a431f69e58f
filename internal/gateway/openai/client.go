// Package openai is a Completer for OpenAI-compatible /chat/completions
// endpoints. The defaults target OpenRouter.
package openai

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/DataScyther/Neeva-AI-sub000/internal/errors"
	"github.com/DataScyther/Neeva-AI-sub000/internal/gateway"
)

const (
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	DefaultModel   = "google/gemini-2.0-flash-exp:free"
)

// Client calls POST {baseURL}/chat/completions with a Bearer credential.
type Client struct {
	http  *resty.Client
	model string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds a single HTTP request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.SetTimeout(d) }
}

// WithTransport replaces the underlying RoundTripper.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.http.SetTransport(rt) }
}

// WithReferer sets the attribution headers OpenRouter uses for app rankings.
func WithReferer(referer, title string) Option {
	return func(c *Client) {
		c.http.SetHeader("HTTP-Referer", referer)
		c.http.SetHeader("X-Title", title)
	}
}

// New returns a Client. Empty baseURL or model fall back to the OpenRouter defaults.
func New(baseURL, apiKey, model string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	c := &Client{
		http: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetAuthToken(apiKey).
			SetHeader("Content-Type", "application/json").
			SetHeader("X-Title", "Neeva AI").
			SetTimeout(30 * time.Second),
		model: model,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type chatRequest struct {
	Model       string            `json:"model"`
	Messages    []gateway.Message `json:"messages"`
	MaxTokens   int               `json:"max_tokens,omitempty"`
	Temperature float64           `json:"temperature"`
	TopP        float64           `json:"top_p,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete implements gateway.Completer.
func (c *Client) Complete(ctx context.Context, req gateway.CompletionRequest) (string, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}
	body := chatRequest{
		Model:       model,
		Messages:    req.Messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		TopP:        req.TopP,
	}

	var out chatResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(&body).
		SetResult(&out).
		Post("/chat/completions")
	if err != nil {
		if resp != nil && resp.StatusCode() >= 200 && resp.StatusCode() < 300 {
			return "", errors.NewMalformedError("chat completion", err.Error())
		}
		return "", errors.NewNetworkError("chat completion", err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return "", errors.NewHTTPError(resp.StatusCode(), resp.String(), "chat completion")
	}
	if len(out.Choices) == 0 {
		return "", errors.NewMalformedError("chat completion", "no choices in response")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}
