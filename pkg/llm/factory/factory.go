package factory

import (
	"context"
	"fmt"

	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/llm"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/llm/bedrock"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/llm/ollama"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/llm/openai"
)

type ProviderConfig struct {
	Type    string
	Model   string
	BaseURL string
	APIKey  string
	Region  string
}

func NewLLMProvider(ctx context.Context, cfg ProviderConfig) (llm.LLMProvider, error) {
	switch cfg.Type {
	case "bedrock":
		if cfg.Region == "" {
			cfg.Region = "us-east-1" // Default
		}
		return bedrock.NewBedrockProvider(ctx, cfg.Region, cfg.Model)
	case "openai":
		return openai.NewOpenAIProvider(cfg.APIKey, cfg.BaseURL, cfg.Model), nil
	case "ollama":
		if cfg.BaseURL == "" {
			cfg.BaseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(cfg.BaseURL, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Type)
	}
}
