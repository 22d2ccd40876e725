package generation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/gautham9566/AI-Shell/internal/domain"
	"github.com/gautham9566/AI-Shell/internal/pkg/logger"
	"github.com/gautham9566/AI-Shell/internal/ports"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type callLog struct {
	calls []domain.ProviderKind
}

type scriptedProvider struct {
	kind   domain.ProviderKind
	result domain.Result
	log    *callLog
}

func (p *scriptedProvider) Kind() domain.ProviderKind { return p.kind }

func (p *scriptedProvider) Initialize(context.Context, map[string]string) bool { return true }

func (p *scriptedProvider) Generate(_ context.Context, _ string, osHint string) domain.Result {
	p.log.calls = append(p.log.calls, p.kind)
	return p.result
}

func (p *scriptedProvider) Describe() string { return "scripted " + p.kind.String() }

type lookup map[domain.ProviderKind]ports.Provider

func (l lookup) Provider(kind domain.ProviderKind) (ports.Provider, bool) {
	p, ok := l[kind]
	return p, ok
}

type recordingNotifier struct {
	notices []string
}

func (n *recordingNotifier) Notify(_ domain.NoticeLevel, message string) {
	n.notices = append(n.notices, message)
}

type fixture struct {
	calls    *callLog
	notifier *recordingNotifier
	orch     *Orchestrator
}

// newFixture registers the initialized kinds in order; kinds listed in succeed
// return a command, all others fail.
func newFixture(def domain.ProviderKind, initialized []domain.ProviderKind, succeed ...domain.ProviderKind) fixture {
	calls := &callLog{}
	providers := lookup{}
	for _, kind := range initialized {
		providers[kind] = &scriptedProvider{kind: kind, log: calls}
	}
	for _, kind := range succeed {
		providers[kind].(*scriptedProvider).result = domain.Result{Command: "echo " + kind.String()}
	}
	notifier := &recordingNotifier{}
	cfg := domain.OrchestratorConfig{DefaultProvider: def, Initialized: initialized}
	return fixture{
		calls:    calls,
		notifier: notifier,
		orch:     NewOrchestrator(providers, cfg, "linux", logger.NewNop(), notifier),
	}
}

var all = []domain.ProviderKind{
	domain.ProviderLocal,
	domain.ProviderOpenAI,
	domain.ProviderAnthropic,
	domain.ProviderOllama,
}

func TestNormalModeOrder(t *testing.T) {
	tests := []struct {
		name        string
		def         domain.ProviderKind
		initialized []domain.ProviderKind
		succeed     []domain.ProviderKind
		wantCalls   []domain.ProviderKind
		wantCommand string
	}{
		{
			name:        "local wins first",
			def:         domain.ProviderLocal,
			initialized: all,
			succeed:     []domain.ProviderKind{domain.ProviderLocal, domain.ProviderOpenAI},
			wantCalls:   []domain.ProviderKind{domain.ProviderLocal},
			wantCommand: "echo local",
		},
		{
			name:        "default tried after local",
			def:         domain.ProviderAnthropic,
			initialized: all,
			succeed:     []domain.ProviderKind{domain.ProviderAnthropic},
			wantCalls:   []domain.ProviderKind{domain.ProviderLocal, domain.ProviderAnthropic},
			wantCommand: "echo anthropic",
		},
		{
			name:        "remaining in registry order skipping default",
			def:         domain.ProviderAnthropic,
			initialized: all,
			succeed:     []domain.ProviderKind{domain.ProviderOllama},
			wantCalls:   []domain.ProviderKind{domain.ProviderLocal, domain.ProviderAnthropic, domain.ProviderOpenAI, domain.ProviderOllama},
			wantCommand: "echo ollama",
		},
		{
			name:        "uninitialized default is skipped",
			def:         domain.ProviderGemini,
			initialized: []domain.ProviderKind{domain.ProviderOpenAI, domain.ProviderOllama},
			succeed:     []domain.ProviderKind{domain.ProviderOllama},
			wantCalls:   []domain.ProviderKind{domain.ProviderOpenAI, domain.ProviderOllama},
			wantCommand: "echo ollama",
		},
		{
			name:        "total failure tries everyone once",
			def:         domain.ProviderLocal,
			initialized: all,
			wantCalls:   all,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(tt.def, tt.initialized, tt.succeed...)
			result := f.orch.GenerateCommand(context.Background(), "list files", domain.ModeNormal)

			assert.Equal(t, tt.wantCalls, f.calls.calls)
			assert.Equal(t, tt.wantCommand, result.Command)
		})
	}
}

func TestRegenerateModeOrder(t *testing.T) {
	tests := []struct {
		name        string
		def         domain.ProviderKind
		initialized []domain.ProviderKind
		succeed     []domain.ProviderKind
		wantCalls   []domain.ProviderKind
		wantCommand string
	}{
		{
			name:        "default remote first even when local succeeds",
			def:         domain.ProviderAnthropic,
			initialized: all,
			succeed:     []domain.ProviderKind{domain.ProviderLocal, domain.ProviderAnthropic},
			wantCalls:   []domain.ProviderKind{domain.ProviderAnthropic},
			wantCommand: "echo anthropic",
		},
		{
			name:        "local default means remotes in registry order",
			def:         domain.ProviderLocal,
			initialized: all,
			succeed:     []domain.ProviderKind{domain.ProviderAnthropic},
			wantCalls:   []domain.ProviderKind{domain.ProviderOpenAI, domain.ProviderAnthropic},
			wantCommand: "echo anthropic",
		},
		{
			name:        "local only after every remote failed",
			def:         domain.ProviderOpenAI,
			initialized: all,
			succeed:     []domain.ProviderKind{domain.ProviderLocal},
			wantCalls:   []domain.ProviderKind{domain.ProviderOpenAI, domain.ProviderAnthropic, domain.ProviderOllama, domain.ProviderLocal},
			wantCommand: "echo local",
		},
		{
			name:        "only local initialized",
			def:         domain.ProviderLocal,
			initialized: []domain.ProviderKind{domain.ProviderLocal},
			succeed:     []domain.ProviderKind{domain.ProviderLocal},
			wantCalls:   []domain.ProviderKind{domain.ProviderLocal},
			wantCommand: "echo local",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(tt.def, tt.initialized, tt.succeed...)
			result := f.orch.GenerateCommand(context.Background(), "list files", domain.ModeRegenerate)

			assert.Equal(t, tt.wantCalls, f.calls.calls)
			assert.Equal(t, tt.wantCommand, result.Command)
		})
	}
}

func TestRegenerateNotices(t *testing.T) {
	f := newFixture(domain.ProviderOpenAI, all, domain.ProviderLocal)
	f.orch.GenerateCommand(context.Background(), "list files", domain.ModeRegenerate)

	assert.Equal(t, []string{
		"↳ Regenerating with scripted openai...",
		"↳ Trying scripted anthropic...",
		"↳ Trying scripted ollama...",
		"↳ All APIs failed, falling back to local LLM",
	}, f.notifier.notices)
}

func TestEmptyRequestContactsNobody(t *testing.T) {
	for _, request := range []string{"", "   ", "\n\t"} {
		f := newFixture(domain.ProviderLocal, all, all...)
		for _, mode := range []domain.GenerationMode{domain.ModeNormal, domain.ModeRegenerate} {
			result := f.orch.GenerateCommand(context.Background(), request, mode)
			assert.True(t, result.Empty())
		}
		assert.Empty(t, f.calls.calls)
		assert.Empty(t, f.notifier.notices)
	}
}

func TestNoProvidersInitialized(t *testing.T) {
	f := newFixture(domain.ProviderOpenAI, nil)

	result := f.orch.GenerateCommand(context.Background(), "list files", domain.ModeNormal)

	assert.Equal(t, domain.Result{}, result)
	assert.Empty(t, f.calls.calls)
	require.Len(t, f.notifier.notices, 1)
	assert.Equal(t, "Command generation failed. Available providers: none", f.notifier.notices[0])
}

func TestTotalFailureListsAvailableProviders(t *testing.T) {
	f := newFixture(domain.ProviderOpenAI, []domain.ProviderKind{domain.ProviderLocal, domain.ProviderOpenAI})

	result := f.orch.GenerateCommand(context.Background(), "list files", domain.ModeNormal)

	assert.True(t, result.Empty())
	require.Len(t, f.notifier.notices, 1)
	assert.Equal(t, "Command generation failed. Available providers: local, openai", f.notifier.notices[0])
}

func TestPlanHasNoDuplicates(t *testing.T) {
	f := newFixture(domain.ProviderOpenAI, all)
	for _, mode := range []domain.GenerationMode{domain.ModeNormal, domain.ModeRegenerate} {
		seen := map[domain.ProviderKind]bool{}
		for _, attempt := range f.orch.Plan(mode) {
			assert.False(t, seen[attempt.Kind], "%s planned twice in %s mode", attempt.Kind, mode)
			seen[attempt.Kind] = true
		}
		assert.Len(t, seen, len(all))
	}
}

func TestConfigIsCopied(t *testing.T) {
	initialized := []domain.ProviderKind{domain.ProviderOpenAI}
	calls := &callLog{}
	providers := lookup{
		domain.ProviderOpenAI: &scriptedProvider{kind: domain.ProviderOpenAI, log: calls, result: domain.Result{Command: "ls"}},
		domain.ProviderGemini: &scriptedProvider{kind: domain.ProviderGemini, log: calls, result: domain.Result{Command: "dir"}},
	}
	orch := NewOrchestrator(providers, domain.OrchestratorConfig{DefaultProvider: domain.ProviderOpenAI, Initialized: initialized}, "linux", logger.NewNop(), &recordingNotifier{})

	initialized[0] = domain.ProviderGemini
	result := orch.GenerateCommand(context.Background(), "list", domain.ModeNormal)
	assert.Equal(t, "ls", result.Command)
}
