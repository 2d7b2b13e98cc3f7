package client

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"
)

// CachedGenerator wraps a Generator with a TTL response cache keyed on the
// model and the full message sequence, so an identical prompt within the TTL
// is answered without another API call.
type CachedGenerator struct {
	inner Generator
	cache *ResponseCache
}

func NewCachedGenerator(inner Generator, ttl time.Duration) *CachedGenerator {
	return &CachedGenerator{inner: inner, cache: NewResponseCache(ttl)}
}

func (g *CachedGenerator) Generate(ctx context.Context, messages []*schema.Message) (*schema.Message, error) {
	parts := make([]string, 0, len(messages)*2+1)
	parts = append(parts, g.inner.ModelName())
	for _, msg := range messages {
		parts = append(parts, string(msg.Role), msg.Content)
	}
	key := g.cache.Key(parts...)

	if content, ok := g.cache.Get(key); ok {
		log.Printf("LLM: cache hit for %s (%d chars)", g.inner.ModelName(), len(content))
		return schema.AssistantMessage(content, nil), nil
	}

	msg, err := g.inner.Generate(ctx, messages)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(msg.Content) != "" {
		g.cache.Set(key, msg.Content)
	}
	return msg, nil
}

func (g *CachedGenerator) ModelName() string {
	return g.inner.ModelName()
}
