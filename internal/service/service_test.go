package service

import (
	"context"
	"strings"
	"testing"

	"github.com/ashwinyue/travel-planner/internal/config"
	"github.com/ashwinyue/travel-planner/internal/logger"
	"github.com/ashwinyue/travel-planner/internal/repository"
)

func TestNewServices_RequiresChatModel(t *testing.T) {
	cfg := &config.Config{AI: config.AIConfig{Provider: "openai"}}
	repos := &repository.Repositories{}

	_, err := NewServices(context.Background(), cfg, repos, nil, logger.Nop())
	if err == nil {
		t.Fatal("expected error without api key")
	}
	if !strings.Contains(err.Error(), "chat model") {
		t.Errorf("err = %v", err)
	}
}

func TestNewEmbedder_Disabled(t *testing.T) {
	tests := []struct {
		name string
		emb  config.EmbeddingConfig
	}{
		{"missing api key", config.EmbeddingConfig{Provider: "dashscope"}},
		{"unsupported provider", config.EmbeddingConfig{Provider: "ollama", APIKey: "k"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{AI: config.AIConfig{Embedding: tt.emb}}
			if e := NewEmbedder(context.Background(), cfg, logger.Nop()); e != nil {
				t.Errorf("NewEmbedder = %v, want nil", e)
			}
		})
	}
}

func TestNewPolicyRetriever_NoHost(t *testing.T) {
	cfg := &config.Config{}
	if r := newPolicyRetriever(context.Background(), cfg, nil, logger.Nop()); r != nil {
		t.Errorf("retriever = %v, want nil", r)
	}
}
