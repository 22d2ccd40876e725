package ai

import (
	"context"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"github.com/gautham9566/AI-Shell/internal/domain"
	"github.com/gautham9566/AI-Shell/internal/ports"
)

const (
	bedrockDefaultRegion  = "us-east-1"
	bedrockDefaultModelID = "anthropic.claude-3-haiku-20240307-v1:0"
)

// bedrockProvider talks to AWS Bedrock through the Converse API.
type bedrockProvider struct {
	httpClient *http.Client
	transport  *transport
	client     *bedrockruntime.Client
	region     string
	modelID    string
	maxTokens  int
}

func newBedrockProvider(client *http.Client, log ports.Logger) ports.Provider {
	return &bedrockProvider{
		httpClient: client,
		transport:  newTransport(domain.ProviderBedrock, client, log),
	}
}

func (b *bedrockProvider) Kind() domain.ProviderKind {
	return domain.ProviderBedrock
}

// Initialize requires access_key_id and secret_access_key. region, model_id,
// session_token, base_url, max_tokens and requests_per_minute are optional.
func (b *bedrockProvider) Initialize(_ context.Context, config map[string]string) bool {
	accessKey := strings.TrimSpace(config["access_key_id"])
	secretKey := strings.TrimSpace(config["secret_access_key"])
	if accessKey == "" || secretKey == "" {
		b.transport.log.Info("provider not configured", map[string]interface{}{
			"provider": domain.ProviderBedrock.String(),
			"reason":   "missing access_key_id or secret_access_key",
		})
		return false
	}

	creds := aws.Credentials{
		AccessKeyID:     accessKey,
		SecretAccessKey: secretKey,
		SessionToken:    strings.TrimSpace(config["session_token"]),
		Source:          "aishell config",
	}
	options := bedrockruntime.Options{
		Region: valueOrDefault(strings.TrimSpace(config["region"]), bedrockDefaultRegion),
		Credentials: aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
			return creds, nil
		}),
		HTTPClient: b.httpClient,
		// One attempt; failures fall through to the next backend.
		RetryMaxAttempts: 1,
	}
	if baseURL := strings.TrimSpace(config["base_url"]); baseURL != "" {
		options.BaseEndpoint = aws.String(strings.TrimRight(baseURL, "/"))
	}

	b.client = bedrockruntime.New(options)
	b.region = options.Region
	b.modelID = valueOrDefault(strings.TrimSpace(config["model_id"]), bedrockDefaultModelID)
	b.maxTokens = domain.IntSetting(config, "max_tokens", domain.DefaultMaxTokens)
	b.transport.configure(config)
	return true
}

func (b *bedrockProvider) Generate(ctx context.Context, request string, osHint string) domain.Result {
	if b.client == nil {
		return domain.Result{}
	}

	system, user, err := renderChatPrompt(request, osHint)
	if err != nil {
		return b.transport.fail(err)
	}
	if err := b.transport.limiter.Wait(ctx); err != nil {
		return b.transport.fail(&TransportError{Provider: domain.ProviderBedrock, Op: "wait", Cause: err})
	}

	out, err := b.client.Converse(ctx, &bedrockruntime.ConverseInput{
		ModelId: aws.String(b.modelID),
		System:  []types.SystemContentBlock{&types.SystemContentBlockMemberText{Value: system}},
		Messages: []types.Message{{
			Role:    types.ConversationRoleUser,
			Content: []types.ContentBlock{&types.ContentBlockMemberText{Value: user}},
		}},
		InferenceConfig: &types.InferenceConfiguration{
			MaxTokens:   aws.Int32(tokenBudget(b.maxTokens)),
			Temperature: aws.Float32(0.2),
		},
	})
	if err != nil {
		return b.transport.fail(&TransportError{Provider: domain.ProviderBedrock, Op: "converse", Cause: err})
	}
	return parseReply(converseText(out), osHint)
}

func (b *bedrockProvider) Describe() string {
	if b.modelID == "" {
		return "AWS Bedrock"
	}
	return "AWS Bedrock (" + b.modelID + ", " + b.region + ")"
}

// converseText joins the text blocks of the assistant message.
func converseText(out *bedrockruntime.ConverseOutput) string {
	if out == nil {
		return ""
	}
	msg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return ""
	}
	var parts []string
	for _, block := range msg.Value.Content {
		if text, ok := block.(*types.ContentBlockMemberText); ok {
			parts = append(parts, text.Value)
		}
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}
