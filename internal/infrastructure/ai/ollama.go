package ai

import (
	"context"
	"net/http"
	"strings"

	"github.com/gautham9566/AI-Shell/internal/domain"
	"github.com/gautham9566/AI-Shell/internal/ports"
)

type ollamaProvider struct {
	transport *transport
	host      string
	model     string
	predict   int
}

func newOllamaProvider(client *http.Client, log ports.Logger) ports.Provider {
	return &ollamaProvider{
		transport: newTransport(domain.ProviderOllama, client, log),
	}
}

func (o *ollamaProvider) Kind() domain.ProviderKind {
	return domain.ProviderOllama
}

// Initialize requires a reachable host with at least one pulled model. A configured
// model that is not installed is replaced by the first available one.
func (o *ollamaProvider) Initialize(ctx context.Context, config map[string]string) bool {
	o.host = strings.TrimRight(strings.TrimSpace(config["host"]), "/")
	o.model = strings.TrimSpace(config["model"])
	o.predict = domain.IntSetting(config, "num_predict", domain.DefaultLocalPredict)
	log := o.transport.log

	if o.host == "" {
		log.Info("provider not configured", map[string]interface{}{
			"provider": domain.ProviderOllama.String(),
			"reason":   "missing host",
		})
		return false
	}

	var tags ollamaTagsResponse
	if err := o.transport.probe(ctx, o.host+"/api/tags", &tags); err != nil {
		log.Warn("ollama unreachable", map[string]interface{}{"host": o.host, "error": err.Error()})
		return false
	}

	available := tags.Names()
	if len(available) == 0 {
		log.Warn("no models available in ollama", map[string]interface{}{"host": o.host})
		return false
	}
	if o.model == "" || !containsString(available, o.model) {
		if o.model != "" {
			log.Warn("ollama model not found, using first available", map[string]interface{}{
				"requested": o.model,
				"using":     available[0],
			})
		}
		o.model = available[0]
	}

	o.transport.configure(config)
	return true
}

func (o *ollamaProvider) Generate(ctx context.Context, request string, osHint string) domain.Result {
	if o.model == "" {
		return domain.Result{}
	}

	prompt, err := renderCompletionPrompt(request, osHint)
	if err != nil {
		return o.transport.fail(err)
	}

	payload := ollamaGenerateRequest{
		Model:   o.model,
		Prompt:  prompt,
		Stream:  false,
		Options: map[string]interface{}{"num_predict": o.predict},
	}

	var decoded ollamaGenerateResponse
	if err := o.transport.postJSON(ctx, o.host+"/api/generate", nil, payload, &decoded); err != nil {
		return o.transport.fail(err)
	}
	return parseCompletion(decoded.Response, osHint, o.Describe())
}

func (o *ollamaProvider) Describe() string {
	if o.model == "" {
		return "Ollama"
	}
	return "Ollama (" + o.model + ")"
}

type ollamaTagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

func (r ollamaTagsResponse) Names() []string {
	names := make([]string, 0, len(r.Models))
	for _, m := range r.Models {
		if m.Name != "" {
			names = append(names, m.Name)
		}
	}
	return names
}

type ollamaGenerateRequest struct {
	Model   string                 `json:"model"`
	Prompt  string                 `json:"prompt"`
	Stream  bool                   `json:"stream"`
	Options map[string]interface{} `json:"options,omitempty"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
