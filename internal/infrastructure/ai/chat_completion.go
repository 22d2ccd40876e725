package ai

import (
	"context"
	"net/http"
	"strings"

	"github.com/gautham9566/AI-Shell/internal/domain"
	"github.com/gautham9566/AI-Shell/internal/ports"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
	Stream      bool          `json:"stream,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c chatCompletionResponse) FirstMessage() string {
	if len(c.Choices) == 0 {
		return ""
	}
	return strings.TrimSpace(c.Choices[0].Message.Content)
}

// chatCompletionProvider serves every backend speaking the OpenAI chat completions API.
type chatCompletionProvider struct {
	kind           domain.ProviderKind
	label          string
	defaultBaseURL string
	defaultModel   string
	extraHeaders   map[string]string

	transport *transport
	apiKey    string
	baseURL   string
	model     string
	maxTokens int
}

func newChatCompletionProvider(kind domain.ProviderKind, label, baseURL, model string, client *http.Client, log ports.Logger) *chatCompletionProvider {
	return &chatCompletionProvider{
		kind:           kind,
		label:          label,
		defaultBaseURL: baseURL,
		defaultModel:   model,
		transport:      newTransport(kind, client, log),
	}
}

func (p *chatCompletionProvider) Kind() domain.ProviderKind {
	return p.kind
}

// Initialize requires an api_key; base_url, model, max_tokens and
// requests_per_minute are optional.
func (p *chatCompletionProvider) Initialize(_ context.Context, config map[string]string) bool {
	p.apiKey = strings.TrimSpace(config["api_key"])
	if p.apiKey == "" {
		p.transport.log.Info("provider not configured", map[string]interface{}{
			"provider": p.kind.String(),
			"reason":   "missing api_key",
		})
		return false
	}
	p.baseURL = trimBaseURL(config["base_url"], p.defaultBaseURL)
	p.model = valueOrDefault(strings.TrimSpace(config["model"]), p.defaultModel)
	p.maxTokens = domain.IntSetting(config, "max_tokens", domain.DefaultMaxTokens)
	p.transport.configure(config)
	return true
}

func (p *chatCompletionProvider) Generate(ctx context.Context, request string, osHint string) domain.Result {
	if p.apiKey == "" {
		return domain.Result{}
	}

	system, user, err := renderChatPrompt(request, osHint)
	if err != nil {
		return p.transport.fail(err)
	}

	payload := chatCompletionRequest{
		Model:       p.model,
		MaxTokens:   p.maxTokens,
		Temperature: 0.2,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}

	headers := map[string]string{"authorization": "Bearer " + p.apiKey}
	for key, value := range p.extraHeaders {
		headers[key] = value
	}

	var decoded chatCompletionResponse
	if err := p.transport.postJSON(ctx, p.baseURL+"/chat/completions", headers, payload, &decoded); err != nil {
		return p.transport.fail(err)
	}
	return parseReply(decoded.FirstMessage(), osHint)
}

func (p *chatCompletionProvider) Describe() string {
	if p.model == "" {
		return p.label
	}
	return p.label + " (" + p.model + ")"
}
