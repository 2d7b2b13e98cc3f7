package mocks

import (
	"context"

	"github.com/cloudwego/eino/schema"
)

type GeneratorMock struct {
	GenerateFunc  func(ctx context.Context, messages []*schema.Message) (*schema.Message, error)
	ModelNameFunc func() string
}

func (m *GeneratorMock) Generate(ctx context.Context, messages []*schema.Message) (*schema.Message, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, messages)
	}
	return schema.AssistantMessage("", nil), nil
}

func (m *GeneratorMock) ModelName() string {
	if m.ModelNameFunc != nil {
		return m.ModelNameFunc()
	}
	return "mock-model"
}
