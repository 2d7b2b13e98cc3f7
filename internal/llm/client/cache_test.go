package client

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
)

func TestResponseCache_GetSet(t *testing.T) {
	cache := NewResponseCache(10 * time.Minute)
	key := cache.Key("gpt-5-mini", "user", "hello")

	_, ok := cache.Get(key)
	assert.False(t, ok)

	cache.Set(key, "hi there")
	value, ok := cache.Get(key)
	assert.True(t, ok)
	assert.Equal(t, "hi there", value)
}

func TestResponseCache_Expiry(t *testing.T) {
	cache := NewResponseCache(time.Minute)
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return clock }

	key := cache.Key("gpt-5-mini", "user", "hello")
	cache.Set(key, "hi there")

	clock = clock.Add(30 * time.Second)
	_, ok := cache.Get(key)
	assert.True(t, ok)

	clock = clock.Add(31 * time.Second)
	_, ok = cache.Get(key)
	assert.False(t, ok)

	// expired entry is evicted, a fresh Set works again
	cache.Set(key, "hi again")
	value, ok := cache.Get(key)
	assert.True(t, ok)
	assert.Equal(t, "hi again", value)
}

func TestResponseCache_KeyDistinguishesParts(t *testing.T) {
	cache := NewResponseCache(time.Minute)
	assert.NotEqual(t, cache.Key("a", "bc"), cache.Key("ab", "c"))
	assert.Equal(t, cache.Key("a", "b"), cache.Key("a", "b"))
}

type countingGenerator struct {
	calls    int
	response string
	err      error
}

func (g *countingGenerator) Generate(ctx context.Context, messages []*schema.Message) (*schema.Message, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return schema.AssistantMessage(g.response, nil), nil
}

func (g *countingGenerator) ModelName() string { return "gpt-5-mini" }

func TestCachedGenerator_HitSkipsInner(t *testing.T) {
	inner := &countingGenerator{response: "the answer"}
	cached := NewCachedGenerator(inner, 10*time.Minute)

	messages := []*schema.Message{schema.UserMessage("what is 2+2?")}

	first, err := cached.Generate(context.Background(), messages)
	assert.NoError(t, err)
	assert.Equal(t, "the answer", first.Content)

	second, err := cached.Generate(context.Background(), messages)
	assert.NoError(t, err)
	assert.Equal(t, "the answer", second.Content)
	assert.Equal(t, schema.Assistant, second.Role)
	assert.Equal(t, 1, inner.calls)
}

func TestCachedGenerator_DifferentPromptMisses(t *testing.T) {
	inner := &countingGenerator{response: "ok"}
	cached := NewCachedGenerator(inner, 10*time.Minute)

	_, err := cached.Generate(context.Background(), []*schema.Message{schema.UserMessage("first")})
	assert.NoError(t, err)
	_, err = cached.Generate(context.Background(), []*schema.Message{schema.UserMessage("second")})
	assert.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestCachedGenerator_ErrorNotCached(t *testing.T) {
	inner := &countingGenerator{err: errors.New("rate limited")}
	cached := NewCachedGenerator(inner, 10*time.Minute)

	messages := []*schema.Message{schema.UserMessage("hello")}

	_, err := cached.Generate(context.Background(), messages)
	assert.Error(t, err)

	inner.err = nil
	inner.response = "recovered"
	msg, err := cached.Generate(context.Background(), messages)
	assert.NoError(t, err)
	assert.Equal(t, "recovered", msg.Content)
	assert.Equal(t, 2, inner.calls)
}
