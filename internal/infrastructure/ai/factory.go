package ai

import (
	"net/http"

	"github.com/gautham9566/AI-Shell/internal/domain"
	"github.com/gautham9566/AI-Shell/internal/pkg/logger"
	"github.com/gautham9566/AI-Shell/internal/ports"
)

// Factory creates uninitialized backends by kind.
// It maintains a single HTTP client shared across all backends.
type Factory struct {
	httpClient *http.Client
	log        ports.Logger
}

// NewFactory creates a factory with the default request timeout.
func NewFactory(log ports.Logger) *Factory {
	return NewFactoryWithClient(&http.Client{Timeout: domain.DefaultHTTPClientTimeout}, log)
}

// NewFactoryWithClient creates a factory around an existing HTTP client.
func NewFactoryWithClient(client *http.Client, log ports.Logger) *Factory {
	if log == nil {
		log = logger.NewNop()
	}
	return &Factory{httpClient: client, log: log}
}

// Kinds returns every supported backend in registration order.
func (f *Factory) Kinds() []domain.ProviderKind {
	return append([]domain.ProviderKind(nil), domain.KnownProviders...)
}

func (f *Factory) New(kind domain.ProviderKind) (ports.Provider, bool) {
	switch kind {
	case domain.ProviderLocal:
		return newLocalProvider(f.httpClient, f.log), true
	case domain.ProviderBedrock:
		return newBedrockProvider(f.httpClient, f.log), true
	case domain.ProviderOpenAI:
		return newOpenAIProvider(f.httpClient, f.log), true
	case domain.ProviderAnthropic:
		return newAnthropicProvider(f.httpClient, f.log), true
	case domain.ProviderOllama:
		return newOllamaProvider(f.httpClient, f.log), true
	case domain.ProviderOpenRouter:
		return newOpenRouterProvider(f.httpClient, f.log), true
	case domain.ProviderGemini:
		return newGeminiProvider(f.httpClient, f.log), true
	default:
		return nil, false
	}
}

var _ ports.ProviderFactory = (*Factory)(nil)
