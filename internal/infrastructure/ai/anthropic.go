package ai

import (
	"context"
	"net/http"
	"strings"

	"github.com/gautham9566/AI-Shell/internal/domain"
	"github.com/gautham9566/AI-Shell/internal/ports"
)

const (
	anthropicBaseURL      = "https://api.anthropic.com/v1"
	anthropicDefaultModel = "claude-3-5-sonnet-20240620"
	anthropicVersion      = "2023-06-01"
)

type anthropicProvider struct {
	transport *transport
	apiKey    string
	baseURL   string
	model     string
	maxTokens int
}

func newAnthropicProvider(client *http.Client, log ports.Logger) ports.Provider {
	return &anthropicProvider{
		transport: newTransport(domain.ProviderAnthropic, client, log),
	}
}

func (p *anthropicProvider) Kind() domain.ProviderKind {
	return domain.ProviderAnthropic
}

func (p *anthropicProvider) Initialize(_ context.Context, config map[string]string) bool {
	p.apiKey = strings.TrimSpace(config["api_key"])
	if p.apiKey == "" {
		p.transport.log.Info("provider not configured", map[string]interface{}{
			"provider": domain.ProviderAnthropic.String(),
			"reason":   "missing api_key",
		})
		return false
	}
	p.baseURL = trimBaseURL(config["base_url"], anthropicBaseURL)
	p.model = valueOrDefault(strings.TrimSpace(config["model"]), anthropicDefaultModel)
	p.maxTokens = domain.IntSetting(config, "max_tokens", domain.DefaultMaxTokens)
	p.transport.configure(config)
	return true
}

func (p *anthropicProvider) Generate(ctx context.Context, request string, osHint string) domain.Result {
	if p.apiKey == "" {
		return domain.Result{}
	}

	system, user, err := renderChatPrompt(request, osHint)
	if err != nil {
		return p.transport.fail(err)
	}

	payload := anthropicRequest{
		Model:     p.model,
		MaxTokens: p.maxTokens,
		System:    system,
		Messages: []anthropicMessage{
			{
				Role:    "user",
				Content: []anthropicContent{{Type: "text", Text: user}},
			},
		},
	}
	headers := map[string]string{
		"x-api-key":         p.apiKey,
		"anthropic-version": anthropicVersion,
	}

	var decoded anthropicResponse
	if err := p.transport.postJSON(ctx, p.baseURL+"/messages", headers, payload, &decoded); err != nil {
		return p.transport.fail(err)
	}
	return parseReply(decoded.FirstText(), osHint)
}

func (p *anthropicProvider) Describe() string {
	if p.model == "" {
		return "Anthropic Claude"
	}
	return "Anthropic Claude (" + p.model + ")"
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string             `json:"role"`
	Content []anthropicContent `json:"content"`
}

type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// FirstText returns the first text block of the reply.
func (a anthropicResponse) FirstText() string {
	for _, block := range a.Content {
		if block.Type == "" || block.Type == "text" {
			return block.Text
		}
	}
	return ""
}
