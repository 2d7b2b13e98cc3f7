package client

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
)

type fakeChatModel struct {
	response *schema.Message
	err      error
	seen     []*schema.Message
}

func (m *fakeChatModel) Generate(ctx context.Context, in []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	m.seen = in
	return m.response, m.err
}

func (m *fakeChatModel) Stream(ctx context.Context, in []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not supported")
}

func TestLLMClient_Generate(t *testing.T) {
	chat := &fakeChatModel{response: schema.AssistantMessage("done", nil)}
	c := &LLMClient{chatModel: chat, provider: "openai", modelName: "gpt-5-mini"}

	messages := []*schema.Message{schema.UserMessage("build me an api")}
	msg, err := c.Generate(context.Background(), messages)
	assert.NoError(t, err)
	assert.Equal(t, "done", msg.Content)
	assert.Equal(t, messages, chat.seen)
}

func TestLLMClient_GenerateNoMessages(t *testing.T) {
	c := &LLMClient{chatModel: &fakeChatModel{}, provider: "openai", modelName: "gpt-5-mini"}

	_, err := c.Generate(context.Background(), nil)
	assert.Error(t, err)
}

func TestLLMClient_GenerateWrapsProviderError(t *testing.T) {
	chat := &fakeChatModel{err: errors.New("429 too many requests")}
	c := &LLMClient{chatModel: chat, provider: "anthropic", modelName: "claude-sonnet-4-5"}

	_, err := c.Generate(context.Background(), []*schema.Message{schema.UserMessage("hi")})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "anthropic generate")
	assert.Contains(t, err.Error(), "429")
}

func TestLLMClient_GenerateNilMessage(t *testing.T) {
	c := &LLMClient{chatModel: &fakeChatModel{}, provider: "gemini", modelName: "gemini-2.5-flash"}

	_, err := c.Generate(context.Background(), []*schema.Message{schema.UserMessage("hi")})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no message")
}

func TestNewForProvider_Unsupported(t *testing.T) {
	_, err := NewForProvider(context.Background(), "grok", "key", "model")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported provider")
}

func TestLLMClient_ModelName(t *testing.T) {
	c := &LLMClient{chatModel: &fakeChatModel{}, provider: "openai", modelName: "gpt-5"}
	assert.Equal(t, "gpt-5", c.ModelName())
	assert.Equal(t, "openai", c.Provider())
}
