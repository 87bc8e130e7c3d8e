// Package completion generates text with a hosted completion model and prices each call.
package completion

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/competeai/competeai/pkg/domain/interfaces"
	"github.com/competeai/competeai/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

// ErrCompletionFailed wraps every failure reported by the provider
var ErrCompletionFailed = goerr.New("completion failed")

// fallbackText is returned when the provider answers with no text
const fallbackText = "Generation failed"

// Params are the sampling parameters bound to a client
type Params struct {
	Temperature float32
	MaxTokens   int
}

// ClientFactory builds an LLM client for the given sampling parameters.
// gollem binds temperature and token budget at client construction.
type ClientFactory func(ctx context.Context, params Params) (gollem.LLMClient, error)

// Service implements interfaces.Completer
type Service struct {
	factory  ClientFactory
	provider Provider

	mu      sync.Mutex
	clients map[Params]gollem.LLMClient
}

var _ interfaces.Completer = (*Service)(nil)

// New creates a completion Service
func New(factory ClientFactory, provider Provider) (*Service, error) {
	if factory == nil {
		return nil, goerr.New("client factory is required")
	}
	if provider.Model == "" {
		return nil, goerr.New("provider model is required", goerr.V("provider", provider.ID))
	}

	return &Service{
		factory:  factory,
		provider: provider,
		clients:  make(map[Params]gollem.LLMClient),
	}, nil
}

// Provider returns the description of the configured provider
func (s *Service) Provider() Provider {
	return s.provider
}

// Complete sends a single-turn prompt and returns the text with usage and cost
func (s *Service) Complete(ctx context.Context, req model.CompletionRequest) (*model.Completion, error) {
	if strings.TrimSpace(req.UserPrompt) == "" {
		return nil, goerr.New("user prompt is required")
	}

	client, err := s.client(ctx, Params{Temperature: req.Temperature, MaxTokens: req.MaxTokens})
	if err != nil {
		return nil, err
	}

	var opts []gollem.SessionOption
	if req.SystemPrompt != "" {
		opts = append(opts, gollem.WithSessionSystemPrompt(req.SystemPrompt))
	}

	session, err := client.NewSession(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(providerError(err), "failed to create LLM session",
			goerr.V("provider", s.provider.ID))
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(req.UserPrompt))
	if err != nil {
		return nil, goerr.Wrap(providerError(err), "failed to generate content from LLM",
			goerr.V("provider", s.provider.ID),
			goerr.V("model", s.provider.Model))
	}

	text := strings.TrimSpace(strings.Join(resp.Texts, ""))
	if text == "" {
		text = req.FallbackText
		if text == "" {
			text = fallbackText
		}
	}

	usage := model.TokenUsage{
		Input:  resp.InputToken,
		Output: resp.OutputToken,
	}

	return &model.Completion{
		Text:          text,
		Model:         s.provider.Model,
		Usage:         usage,
		EstimatedCost: s.provider.Price.Cost(usage.Input, usage.Output),
	}, nil
}

func (s *Service) client(ctx context.Context, params Params) (gollem.LLMClient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.clients[params]; ok {
		return c, nil
	}

	c, err := s.factory(ctx, params)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build LLM client",
			goerr.V("provider", s.provider.ID),
			goerr.V("temperature", params.Temperature),
			goerr.V("max_tokens", params.MaxTokens))
	}
	s.clients[params] = c

	return c, nil
}

// providerError keeps both the sentinel and the provider cause in the chain
func providerError(err error) error {
	return fmt.Errorf("%w: %w", ErrCompletionFailed, err)
}
