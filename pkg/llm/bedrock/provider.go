package bedrock

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/llm"
)

// BedrockProvider talks to AWS Bedrock through the Converse API.
type BedrockProvider struct {
	client *bedrockruntime.Client
	model  string
}

var _ llm.LLMProvider = &BedrockProvider{}

func NewBedrockProvider(ctx context.Context, region, model string) (*BedrockProvider, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	return &BedrockProvider{
		client: bedrockruntime.NewFromConfig(cfg),
		model:  model,
	}, nil
}

func (p *BedrockProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	opts := &llm.Options{
		Model: p.model,
	}
	for _, o := range options {
		o(opts)
	}

	var system []types.SystemContentBlock
	var messages []types.Message

	for _, msg := range history {
		if msg.Role == "system" {
			system = append(system, &types.SystemContentBlockMemberText{Value: msg.Content})
			continue
		}
		role := types.ConversationRoleUser
		if msg.Role == "assistant" || msg.Role == "model" {
			role = types.ConversationRoleAssistant
		}
		messages = append(messages, types.Message{
			Role: role,
			Content: []types.ContentBlock{
				&types.ContentBlockMemberText{Value: msg.Content},
			},
		})
	}

	// Converse has no response_format knob. When a JSON object is requested
	// we reinforce it via the system prompt.
	if opts.JSONObject {
		system = append(system, &types.SystemContentBlockMemberText{
			Value: "Respond with a single valid JSON object and nothing else.",
		})
	}

	input := &bedrockruntime.ConverseInput{
		ModelId:  aws.String(opts.Model),
		Messages: messages,
		System:   system,
	}
	if opts.MaxTokens > 0 || opts.Temperature > 0 {
		cfg := &types.InferenceConfiguration{}
		if opts.MaxTokens > 0 {
			cfg.MaxTokens = aws.Int32(int32(opts.MaxTokens))
		}
		if opts.Temperature > 0 {
			cfg.Temperature = aws.Float32(float32(opts.Temperature))
		}
		input.InferenceConfig = cfg
	}

	out, err := p.client.Converse(ctx, input)
	if err != nil {
		return "", fmt.Errorf("bedrock converse failed: %w", err)
	}

	outMsg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return "", fmt.Errorf("unexpected bedrock output type %T", out.Output)
	}

	var sb strings.Builder
	for _, block := range outMsg.Value.Content {
		if text, ok := block.(*types.ContentBlockMemberText); ok {
			sb.WriteString(text.Value)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("empty completion from bedrock model %s", opts.Model)
	}

	return sb.String(), nil
}

func (p *BedrockProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	messages := []llm.Message{
		{Role: "user", Content: prompt},
	}
	return p.Chat(ctx, messages, options...)
}
