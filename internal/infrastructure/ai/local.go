package ai

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gautham9566/AI-Shell/internal/domain"
	"github.com/gautham9566/AI-Shell/internal/ports"
)

const (
	localDefaultHost = "http://127.0.0.1:8080"
	// approximate characters per token used to keep the prompt within n_ctx
	localCharsPerToken = 3
)

// localProvider talks to a llama.cpp-compatible server that has the configured
// GGUF model loaded.
type localProvider struct {
	transport   *transport
	host        string
	modelPath   string
	contextSize int
	threads     int
	predict     int
}

func newLocalProvider(client *http.Client, log ports.Logger) ports.Provider {
	return &localProvider{
		transport: newTransport(domain.ProviderLocal, client, log),
	}
}

func (l *localProvider) Kind() domain.ProviderKind {
	return domain.ProviderLocal
}

// Initialize requires the model file to exist and the server to report healthy.
func (l *localProvider) Initialize(ctx context.Context, config map[string]string) bool {
	log := l.transport.log

	l.modelPath = expandHome(strings.TrimSpace(config["path"]))
	l.host = trimBaseURL(config["host"], localDefaultHost)
	l.contextSize = domain.IntSetting(config, "n_ctx", 2048)
	l.threads = domain.IntSetting(config, "n_threads", 4)
	l.predict = domain.IntSetting(config, "n_predict", domain.DefaultLocalPredict)

	if l.modelPath == "" {
		log.Info("local model not configured", nil)
		return false
	}
	if _, err := os.Stat(l.modelPath); err != nil {
		log.Info("local model file unavailable", map[string]interface{}{
			"path":  l.modelPath,
			"error": err.Error(),
		})
		return false
	}
	if err := l.transport.probe(ctx, l.host+"/health", nil); err != nil {
		log.Info("local inference server unavailable", map[string]interface{}{
			"host":  l.host,
			"error": err.Error(),
		})
		return false
	}
	return true
}

func (l *localProvider) Generate(ctx context.Context, request string, osHint string) domain.Result {
	if l.modelPath == "" {
		return domain.Result{}
	}

	prompt, err := renderCompletionPrompt(l.boundRequest(request), osHint)
	if err != nil {
		return l.transport.fail(err)
	}

	payload := localCompletionRequest{
		Prompt:      prompt,
		NPredict:    l.predict,
		Temperature: 0.1,
		Stop:        []string{"\n\n"},
		CachePrompt: true,
	}

	var decoded localCompletionResponse
	if err := l.transport.postJSON(ctx, l.host+"/completion", nil, payload, &decoded); err != nil {
		return l.transport.fail(err)
	}
	return parseCompletion(decoded.Content, osHint, l.Describe())
}

// boundRequest truncates the request so prompt plus completion fit in the context window.
func (l *localProvider) boundRequest(request string) string {
	budget := (l.contextSize - l.predict) * localCharsPerToken
	runes := []rune(request)
	if budget <= 0 || len(runes) <= budget {
		return request
	}
	return string(runes[:budget])
}

func (l *localProvider) Describe() string {
	if l.modelPath == "" {
		return "Local LLM"
	}
	return "Local LLM (" + filepath.Base(l.modelPath) + ", " + pluralThreads(l.threads) + ")"
}

type localCompletionRequest struct {
	Prompt      string   `json:"prompt"`
	NPredict    int      `json:"n_predict"`
	Temperature float64  `json:"temperature"`
	Stop        []string `json:"stop,omitempty"`
	CachePrompt bool     `json:"cache_prompt"`
}

type localCompletionResponse struct {
	Content string `json:"content"`
}

func pluralThreads(n int) string {
	if n == 1 {
		return "1 thread"
	}
	return strconv.Itoa(n) + " threads"
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
