package client

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"
)

// Generator is the single contract the pipeline has with a language model.
// The model is treated as unreliable: callers must validate every response
// before trusting it.
type Generator interface {
	Generate(ctx context.Context, messages []*schema.Message) (*schema.Message, error)
	ModelName() string
}

// LLMClient wraps one eino chat model behind the Generator contract.
type LLMClient struct {
	chatModel model.BaseChatModel
	provider  string
	modelName string
}

func (c *LLMClient) Generate(ctx context.Context, messages []*schema.Message) (*schema.Message, error) {
	if len(messages) == 0 {
		return nil, fmt.Errorf("no messages to send")
	}
	msg, err := c.chatModel.Generate(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("%s generate: %w", c.provider, err)
	}
	if msg == nil {
		return nil, fmt.Errorf("%s generate: model returned no message", c.provider)
	}
	return msg, nil
}

func (c *LLMClient) ModelName() string {
	return c.modelName
}

func (c *LLMClient) Provider() string {
	return c.provider
}

type OpenAIModelOptions struct {
	Model           string
	ReasoningEffort string
}

func NewOpenAIClient(ctx context.Context, key string, opts OpenAIModelOptions) (*LLMClient, error) {
	if opts.Model == "" {
		opts.Model = "gpt-5-mini"
	}
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey: key,
		Model:  opts.Model,
	})
	if err != nil {
		log.Printf("Error creating OpenAI client: %v", err)
		return nil, err
	}
	return &LLMClient{chatModel: chatModel, provider: "openai", modelName: opts.Model}, nil
}

type ClaudeModelOptions struct {
	Model     string
	MaxTokens int
}

func NewClaudeClient(ctx context.Context, key string, opts ClaudeModelOptions) (*LLMClient, error) {
	if opts.Model == "" {
		opts.Model = "claude-sonnet-4-5"
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = 16384
	}
	chatModel, err := claude.NewChatModel(ctx, &claude.Config{
		APIKey:    key,
		Model:     opts.Model,
		MaxTokens: opts.MaxTokens,
	})
	if err != nil {
		log.Printf("Error creating Claude client: %v", err)
		return nil, err
	}
	return &LLMClient{chatModel: chatModel, provider: "anthropic", modelName: opts.Model}, nil
}

type GeminiModelOptions struct {
	Model string
}

func NewGeminiClient(ctx context.Context, key string, opts GeminiModelOptions) (*LLMClient, error) {
	if opts.Model == "" {
		opts.Model = "gemini-2.5-flash"
	}
	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		log.Printf("Error creating Gemini client: %v", err)
		return nil, err
	}
	chatModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client: genaiClient,
		Model:  opts.Model,
	})
	if err != nil {
		log.Printf("Error creating Gemini chat model: %v", err)
		return nil, err
	}
	return &LLMClient{chatModel: chatModel, provider: "gemini", modelName: opts.Model}, nil
}

// NewForProvider instantiates a client for a provider id as stored in
// configuration ("openai", "anthropic", "gemini").
func NewForProvider(ctx context.Context, providerID, apiKey, modelName string) (*LLMClient, error) {
	switch strings.TrimSpace(providerID) {
	case "openai":
		return NewOpenAIClient(ctx, apiKey, OpenAIModelOptions{Model: modelName})
	case "anthropic":
		return NewClaudeClient(ctx, apiKey, ClaudeModelOptions{Model: modelName})
	case "gemini":
		return NewGeminiClient(ctx, apiKey, GeminiModelOptions{Model: modelName})
	default:
		return nil, fmt.Errorf("unsupported provider: %s", providerID)
	}
}
