// Package gemini is a Completer backed by the Google Gemini API.
package gemini

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/DataScyther/Neeva-AI-sub000/internal/errors"
	"github.com/DataScyther/Neeva-AI-sub000/internal/gateway"
)

const DefaultModel = "gemini-2.0-flash"

// Config holds the client settings. Only APIKey is required.
type Config struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// Client calls models.generateContent.
type Client struct {
	genai *genai.Client
	model string
}

// New builds a Client. It performs no network I/O.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.NewConfigError("gemini api key is empty")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	c, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, errors.NewConfigError(err.Error())
	}
	return &Client{genai: c, model: cfg.Model}, nil
}

// Complete implements gateway.Completer. System turns become the system
// instruction; assistant turns are sent with the "model" role.
func (c *Client) Complete(ctx context.Context, req gateway.CompletionRequest) (string, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}
	system, contents := toContents(req.Messages)

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: system,
		Temperature:       genai.Ptr(float32(req.Temperature)),
		MaxOutputTokens:   int32(req.MaxTokens),
	}
	if req.TopP > 0 {
		cfg.TopP = genai.Ptr(float32(req.TopP))
	}
	if req.TopK > 0 {
		cfg.TopK = genai.Ptr(float32(req.TopK))
	}

	resp, err := c.genai.Models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		return "", classify(err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.NewMalformedError("generate content", "no candidates in response")
	}
	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if p != nil {
			b.WriteString(p.Text)
		}
	}
	return strings.TrimSpace(b.String()), nil
}

func toContents(msgs []gateway.Message) (*genai.Content, []*genai.Content) {
	var system *genai.Content
	contents := make([]*genai.Content, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case gateway.RoleSystem:
			system = genai.NewContentFromText(m.Content, genai.RoleUser)
		case gateway.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}
	return system, contents
}

// classify maps SDK failures onto the shared taxonomy. API errors carry the
// HTTP status; anything else is treated as a transport failure.
func classify(err error) error {
	var apiErr genai.APIError
	if stderrors.As(err, &apiErr) {
		return errors.NewHTTPError(apiErr.Code, apiErr.Message, "generate content")
	}
	var apiErrPtr *genai.APIError
	if stderrors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return errors.NewHTTPError(apiErrPtr.Code, apiErrPtr.Message, "generate content")
	}
	return errors.NewNetworkError("generate content", err)
}
