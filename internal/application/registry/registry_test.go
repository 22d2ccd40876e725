package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gautham9566/AI-Shell/internal/domain"
	"github.com/gautham9566/AI-Shell/internal/pkg/logger"
	"github.com/gautham9566/AI-Shell/internal/ports"
)

type fakeProvider struct {
	kind       domain.ProviderKind
	initOK     bool
	initConfig map[string]string
	initOrder  *[]domain.ProviderKind
}

func (f *fakeProvider) Kind() domain.ProviderKind { return f.kind }

func (f *fakeProvider) Initialize(_ context.Context, config map[string]string) bool {
	f.initConfig = config
	*f.initOrder = append(*f.initOrder, f.kind)
	return f.initOK
}

func (f *fakeProvider) Generate(context.Context, string, string) domain.Result {
	return domain.Result{}
}

func (f *fakeProvider) Describe() string { return "fake " + f.kind.String() }

type fakeFactory struct {
	kinds     []domain.ProviderKind
	providers map[domain.ProviderKind]*fakeProvider
	order     []domain.ProviderKind
}

func newFakeFactory(kinds []domain.ProviderKind, healthy ...domain.ProviderKind) *fakeFactory {
	f := &fakeFactory{kinds: kinds, providers: make(map[domain.ProviderKind]*fakeProvider)}
	for _, kind := range kinds {
		f.providers[kind] = &fakeProvider{kind: kind, initOrder: &f.order}
	}
	for _, kind := range healthy {
		f.providers[kind].initOK = true
	}
	return f
}

func (f *fakeFactory) Kinds() []domain.ProviderKind { return f.kinds }

func (f *fakeFactory) New(kind domain.ProviderKind) (ports.Provider, bool) {
	p, ok := f.providers[kind]
	return p, ok
}

type fakeSettings struct {
	defaultProvider domain.ProviderKind
}

func (s fakeSettings) DefaultProvider() domain.ProviderKind { return s.defaultProvider }

func (s fakeSettings) LocalModelConfig() domain.LocalModelConfig {
	return domain.LocalModelConfig{Path: "model.gguf", ContextSize: 2048, Threads: 4}
}

func (s fakeSettings) APICredentials(kind domain.ProviderKind) map[string]string {
	return map[string]string{"api_key": "key-" + kind.String()}
}

type recordingNotifier struct {
	messages []string
}

func (n *recordingNotifier) Notify(_ domain.NoticeLevel, message string) {
	n.messages = append(n.messages, message)
}

func TestBuildInitializesLocalFirst(t *testing.T) {
	// local deliberately registered last to prove it is still attempted first
	kinds := []domain.ProviderKind{domain.ProviderOpenAI, domain.ProviderAnthropic, domain.ProviderLocal}
	factory := newFakeFactory(kinds, domain.ProviderOpenAI, domain.ProviderLocal)
	notifier := &recordingNotifier{}

	r := Build(context.Background(), fakeSettings{defaultProvider: domain.ProviderAnthropic}, factory, logger.NewNop(), notifier)

	assert.Equal(t, []domain.ProviderKind{domain.ProviderLocal, domain.ProviderOpenAI, domain.ProviderAnthropic}, factory.order)
	assert.Equal(t, []domain.ProviderKind{domain.ProviderLocal, domain.ProviderOpenAI}, r.Config().Initialized)
	assert.Equal(t, "model.gguf", factory.providers[domain.ProviderLocal].initConfig["path"])
	assert.Equal(t, "key-openai", factory.providers[domain.ProviderOpenAI].initConfig["api_key"])
}

func TestBuildLocalOverridesDefaultWithNotice(t *testing.T) {
	factory := newFakeFactory(domain.KnownProviders, domain.ProviderLocal, domain.ProviderOpenAI)
	notifier := &recordingNotifier{}

	r := Build(context.Background(), fakeSettings{defaultProvider: domain.ProviderOpenAI}, factory, logger.NewNop(), notifier)

	assert.Equal(t, domain.ProviderLocal, r.Config().DefaultProvider)
	require.Len(t, notifier.messages, 1)
	assert.Contains(t, notifier.messages[0], "openai")
}

func TestBuildAnnouncesLocalDefaultWhenAlreadyConfigured(t *testing.T) {
	factory := newFakeFactory(domain.KnownProviders, domain.ProviderLocal)
	notifier := &recordingNotifier{}

	r := Build(context.Background(), fakeSettings{defaultProvider: domain.ProviderLocal}, factory, logger.NewNop(), notifier)

	assert.Equal(t, domain.ProviderLocal, r.Config().DefaultProvider)
	assert.Equal(t, []string{"Using local LLM as default provider"}, notifier.messages)
}

func TestBuildKeepsConfiguredDefaultWithoutLocal(t *testing.T) {
	factory := newFakeFactory(domain.KnownProviders, domain.ProviderOllama)
	notifier := &recordingNotifier{}

	r := Build(context.Background(), fakeSettings{defaultProvider: domain.ProviderAnthropic}, factory, logger.NewNop(), notifier)

	cfg := r.Config()
	assert.Equal(t, domain.ProviderAnthropic, cfg.DefaultProvider, "default is kept even when it did not initialize")
	assert.Equal(t, []domain.ProviderKind{domain.ProviderOllama}, cfg.Initialized)
	assert.Empty(t, notifier.messages)

	_, ok := r.Provider(domain.ProviderAnthropic)
	assert.False(t, ok)
	p, ok := r.Provider(domain.ProviderOllama)
	require.True(t, ok)
	assert.Equal(t, domain.ProviderOllama, p.Kind())
}

func TestBuildWithNothingInitialized(t *testing.T) {
	factory := newFakeFactory(domain.KnownProviders)

	r := Build(context.Background(), fakeSettings{defaultProvider: domain.ProviderOpenAI}, factory, logger.NewNop(), &recordingNotifier{})

	assert.Empty(t, r.Config().Initialized)
	assert.Equal(t, "none", r.Config().InitializedNames())
	assert.Empty(t, r.Entries())
}

func TestConfigIsACopy(t *testing.T) {
	factory := newFakeFactory(domain.KnownProviders, domain.ProviderOpenAI)
	r := Build(context.Background(), fakeSettings{defaultProvider: domain.ProviderOpenAI}, factory, logger.NewNop(), &recordingNotifier{})

	cfg := r.Config()
	cfg.Initialized[0] = domain.ProviderGemini
	assert.Equal(t, domain.ProviderOpenAI, r.Config().Initialized[0])
}

func TestEntries(t *testing.T) {
	factory := newFakeFactory(domain.KnownProviders, domain.ProviderGemini, domain.ProviderOpenAI)
	r := Build(context.Background(), fakeSettings{defaultProvider: domain.ProviderOpenAI}, factory, logger.NewNop(), &recordingNotifier{})

	assert.Equal(t, []Entry{
		{Kind: domain.ProviderOpenAI, Description: "fake openai"},
		{Kind: domain.ProviderGemini, Description: "fake gemini"},
	}, r.Entries())
}
