package ai

import (
	"context"
	"net/http"
	"strings"

	"github.com/gautham9566/AI-Shell/internal/domain"
	"github.com/gautham9566/AI-Shell/internal/ports"
)

const (
	openAIBaseURL      = "https://api.openai.com/v1"
	openAIDefaultModel = "gpt-4o-mini"
)

type openAIProvider struct {
	*chatCompletionProvider
}

func newOpenAIProvider(client *http.Client, log ports.Logger) ports.Provider {
	return &openAIProvider{
		chatCompletionProvider: newChatCompletionProvider(domain.ProviderOpenAI, "OpenAI", openAIBaseURL, openAIDefaultModel, client, log),
	}
}

// Initialize additionally honors an optional organization id.
func (p *openAIProvider) Initialize(ctx context.Context, config map[string]string) bool {
	if !p.chatCompletionProvider.Initialize(ctx, config) {
		return false
	}
	if org := strings.TrimSpace(config["organization"]); org != "" {
		p.extraHeaders = map[string]string{"OpenAI-Organization": org}
	}
	return true
}
