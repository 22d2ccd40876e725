package ai

import (
	"net/http"

	"github.com/gautham9566/AI-Shell/internal/domain"
	"github.com/gautham9566/AI-Shell/internal/ports"
)

const (
	openRouterBaseURL      = "https://openrouter.ai/api/v1"
	openRouterDefaultModel = "openai/gpt-4o-mini"
	openRouterTitle        = "AI Shell"
	openRouterReferer      = "https://github.com/gautham9566/AI-Shell"
)

func newOpenRouterProvider(client *http.Client, log ports.Logger) ports.Provider {
	p := newChatCompletionProvider(domain.ProviderOpenRouter, "OpenRouter", openRouterBaseURL, openRouterDefaultModel, client, log)
	p.extraHeaders = map[string]string{
		"HTTP-Referer": openRouterReferer,
		"X-Title":      openRouterTitle,
	}
	return p
}
