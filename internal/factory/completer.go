package factory

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/DataScyther/Neeva-AI-sub000/internal/config"
	"github.com/DataScyther/Neeva-AI-sub000/internal/gateway"
	"github.com/DataScyther/Neeva-AI-sub000/internal/gateway/gemini"
	"github.com/DataScyther/Neeva-AI-sub000/internal/gateway/openai"
	"github.com/DataScyther/Neeva-AI-sub000/internal/httpdebug"
	"github.com/DataScyther/Neeva-AI-sub000/internal/ratelimit"
	"github.com/DataScyther/Neeva-AI-sub000/internal/retry"
)

// NewCompleter returns the completion backend for cfg.LLMProvider. It returns
// (nil, nil) when no provider is configured; the gateway then answers every
// message with its not-configured reply.
func NewCompleter(ctx context.Context, cfg *config.Config, log zerolog.Logger) (gateway.Completer, error) {
	var transport http.RoundTripper
	if cfg.HTTPDebug {
		transport = httpdebug.Wrap(nil, log.With().Str("component", "httpdebug").Logger())
	}

	switch cfg.LLMProvider {
	case config.ProviderNone:
		log.Warn().Msg("no completion provider configured; chat replies are disabled")
		return nil, nil

	case config.ProviderGemini:
		hc := &http.Client{Timeout: cfg.RequestTimeout}
		if transport != nil {
			hc.Transport = transport
		}
		c, err := gemini.New(ctx, gemini.Config{
			APIKey:     cfg.GeminiAPIKey,
			Model:      cfg.GeminiModel,
			BaseURL:    cfg.GeminiBaseURL,
			HTTPClient: hc,
		})
		if err != nil {
			return nil, err
		}
		return c, nil

	case config.ProviderOpenRouter:
		opts := []openai.Option{openai.WithTimeout(cfg.RequestTimeout)}
		if transport != nil {
			opts = append(opts, openai.WithTransport(transport))
		}
		return openai.New(cfg.OpenRouterBaseURL, cfg.OpenRouterAPIKey, cfg.OpenRouterModel, opts...), nil

	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER: %s", cfg.LLMProvider)
	}
}

// NewGateway wraps completer with the configured retry policy and cooldown.
// The guard is shared by every session of the process since the upstream
// quota belongs to the credential, not the user.
func NewGateway(completer gateway.Completer, guard *ratelimit.Guard, cfg *config.Config, log zerolog.Logger) *gateway.Gateway {
	return gateway.New(completer,
		gateway.WithConfig(gateway.Config{
			MaxContextMessages: cfg.MaxContextMessages,
			Cooldown:           cfg.Cooldown,
		}),
		gateway.WithRetryPolicy(retry.Policy{
			MaxAttempts: cfg.MaxAttempts,
			BaseDelay:   cfg.BaseDelay,
			MaxDelay:    cfg.MaxDelay,
		}),
		gateway.WithGuard(guard),
		gateway.WithLogger(log.With().Str("component", "gateway").Logger()),
	)
}
