package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rpupo63/portfolia-backend/config"
	"github.com/rpupo63/portfolia-backend/errs"
	"github.com/rpupo63/portfolia-backend/metrics"
	"github.com/rs/zerolog/log"
	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"google.golang.org/genai"
)

const defaultOpenRouterURL = "https://openrouter.ai/api/v1"

// completeFunc performs a single provider call.
type completeFunc func(ctx context.Context, system, prompt string) (string, error)

// LLM is a chat completion client bounded by a timeout and protected by a
// circuit breaker. Failed calls are never retried here.
type LLM struct {
	provider string
	timeout  time.Duration
	call     completeFunc
	cb       *gobreaker.CircuitBreaker[string]
}

// NewLLM builds the client for cfg.Provider.
func NewLLM(ctx context.Context, cfg config.AIConfig) (*LLM, error) {
	if cfg.APIKey == "" {
		return nil, errs.NewConfigMissingError("AI_API_KEY")
	}

	var call completeFunc
	switch cfg.Provider {
	case config.AIProviderOpenRouter, "":
		c, err := newOpenRouter(cfg)
		if err != nil {
			return nil, err
		}
		call = c
	case config.AIProviderGemini:
		c, err := newGemini(ctx, cfg)
		if err != nil {
			return nil, err
		}
		call = c
	default:
		return nil, errs.NewConfigError("AI_PROVIDER", fmt.Errorf("unknown provider %q", cfg.Provider))
	}
	return newLLM(cfg, call), nil
}

func newLLM(cfg config.AIConfig, call completeFunc) *LLM {
	provider := cfg.Provider
	if provider == "" {
		provider = config.AIProviderOpenRouter
	}
	maxFailures := cfg.BreakerMaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}

	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        "llm-" + provider,
		MaxRequests: 1,
		Timeout:     cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		// A reply we cannot use is still a working upstream.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
		},
	})

	return &LLM{provider: provider, timeout: cfg.Timeout, call: call, cb: cb}
}

// Complete sends system and prompt to the model and returns its text reply.
func (l *LLM) Complete(ctx context.Context, system, prompt string) (string, error) {
	started := time.Now()
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	text, err := l.cb.Execute(func() (string, error) {
		return l.call(ctx, system, prompt)
	})
	err = l.classify(ctx, err)
	metrics.ObserveAIRequest(l.provider, started, err)
	if err != nil {
		log.Error().Err(err).Str("provider", l.provider).Dur("elapsed", time.Since(started)).Msg("LLM request failed")
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", errs.NewMalformedAIResponseError("AI returned an empty response", nil)
	}
	return text, nil
}

func (l *LLM) classify(ctx context.Context, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return errs.NewCircuitBreakerOpenError("AI service")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		return errs.NewTimeoutError("AI service", l.timeout)
	case errors.Is(err, context.Canceled):
		return err
	default:
		return errs.NewUpstreamUnavailableError("AI service", err)
	}
}

func newOpenRouter(cfg config.AIConfig) (completeFunc, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenRouterURL
	}
	client, err := openai.New(
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
		openai.WithBaseURL(baseURL),
	)
	if err != nil {
		return nil, errs.NewConfigError("AI client", err)
	}

	return func(ctx context.Context, system, prompt string) (string, error) {
		resp, err := client.GenerateContent(ctx, []llms.MessageContent{
			llms.TextParts(llms.ChatMessageTypeSystem, system),
			llms.TextParts(llms.ChatMessageTypeHuman, prompt),
		},
			llms.WithTemperature(cfg.Temperature),
			llms.WithMaxTokens(cfg.MaxTokens),
		)
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			return "", nil
		}
		return resp.Choices[0].Content, nil
	}, nil
}

func newGemini(ctx context.Context, cfg config.AIConfig) (completeFunc, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errs.NewConfigError("AI client", err)
	}

	return func(ctx context.Context, system, prompt string) (string, error) {
		resp, err := client.Models.GenerateContent(ctx, cfg.Model, genai.Text(prompt), &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
			Temperature:       genai.Ptr(float32(cfg.Temperature)),
			MaxOutputTokens:   int32(cfg.MaxTokens),
			ResponseMIMEType:  "application/json",
		})
		if err != nil {
			return "", err
		}
		return resp.Text(), nil
	}, nil
}
