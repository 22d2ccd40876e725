package ai

import (
	"context"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/gautham9566/AI-Shell/internal/domain"
	"github.com/gautham9566/AI-Shell/internal/ports"
)

const geminiDefaultModel = "gemini-2.0-flash"

// geminiProvider uses the Google GenAI SDK against the Gemini API backend.
type geminiProvider struct {
	httpClient *http.Client
	transport  *transport
	client     *genai.Client
	model      string
	maxTokens  int
}

func newGeminiProvider(client *http.Client, log ports.Logger) ports.Provider {
	return &geminiProvider{
		httpClient: client,
		transport:  newTransport(domain.ProviderGemini, client, log),
	}
}

func (g *geminiProvider) Kind() domain.ProviderKind {
	return domain.ProviderGemini
}

func (g *geminiProvider) Initialize(ctx context.Context, config map[string]string) bool {
	log := g.transport.log

	apiKey := strings.TrimSpace(config["api_key"])
	if apiKey == "" {
		log.Info("provider not configured", map[string]interface{}{
			"provider": domain.ProviderGemini.String(),
			"reason":   "missing api_key",
		})
		return false
	}

	clientConfig := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: g.httpClient,
	}
	if baseURL := strings.TrimSpace(config["base_url"]); baseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		log.Warn("gemini client creation failed", map[string]interface{}{"error": err.Error()})
		return false
	}

	g.client = client
	g.model = valueOrDefault(strings.TrimSpace(config["model"]), geminiDefaultModel)
	g.maxTokens = domain.IntSetting(config, "max_tokens", domain.DefaultMaxTokens)
	g.transport.configure(config)
	return true
}

func (g *geminiProvider) Generate(ctx context.Context, request string, osHint string) domain.Result {
	if g.client == nil {
		return domain.Result{}
	}

	system, user, err := renderChatPrompt(request, osHint)
	if err != nil {
		return g.transport.fail(err)
	}
	if err := g.transport.limiter.Wait(ctx); err != nil {
		return g.transport.fail(&TransportError{Provider: domain.ProviderGemini, Op: "wait", Cause: err})
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(user), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		MaxOutputTokens:   tokenBudget(g.maxTokens),
	})
	if err != nil {
		return g.transport.fail(&TransportError{Provider: domain.ProviderGemini, Op: "generate content", Cause: err})
	}
	return parseReply(resp.Text(), osHint)
}

func (g *geminiProvider) Describe() string {
	if g.model == "" {
		return "Google Gemini"
	}
	return "Google Gemini (" + g.model + ")"
}
