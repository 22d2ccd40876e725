package app

import (
	"context"
	"errors"
	"io"
	"runtime"
	"sync"

	"github.com/gautham9566/AI-Shell/internal/application/doctor"
	"github.com/gautham9566/AI-Shell/internal/application/generation"
	"github.com/gautham9566/AI-Shell/internal/application/query"
	"github.com/gautham9566/AI-Shell/internal/application/registry"
	"github.com/gautham9566/AI-Shell/internal/domain"
	"github.com/gautham9566/AI-Shell/internal/infrastructure/ai"
	"github.com/gautham9566/AI-Shell/internal/infrastructure/cache"
	"github.com/gautham9566/AI-Shell/internal/infrastructure/config"
	"github.com/gautham9566/AI-Shell/internal/infrastructure/executor"
	"github.com/gautham9566/AI-Shell/internal/infrastructure/security"
	"github.com/gautham9566/AI-Shell/internal/pkg/logger"
	"github.com/gautham9566/AI-Shell/internal/ports"
)

// Options configures BuildContainer.
type Options struct {
	Verbose    bool
	ConfigPath string
	Notifier   ports.Notifier
	Stdin      io.Reader
	Stdout     io.Writer
	Stderr     io.Writer
}

// Container wires up application services with infrastructure adapters.
//
// The provider registry is built on first use so that commands which never
// generate (config, cache, version) do not probe any backend.
type Container struct {
	Config        domain.Config
	ConfigLoader  *config.FileLoader
	Logger        *logger.ZapLogger
	Notifier      ports.Notifier
	CacheStore    *cache.SQLiteStore
	Guardrail     *security.Guardrail
	Executor      *executor.LocalExecutor
	QueryService  *query.Service
	DoctorService *doctor.Service
	OSHint        string

	factory   ports.ProviderFactory
	once      sync.Once
	registry  *registry.Registry
	generator *generation.Orchestrator
}

// BuildContainer constructs the dependency graph.
func BuildContainer(ctx context.Context, opts Options) (*Container, error) {
	log, err := logger.New(opts.Verbose)
	if err != nil {
		return nil, err
	}

	cfgLoader := config.NewFileLoader(opts.ConfigPath)
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	notifier := opts.Notifier
	if notifier == nil {
		notifier = logNotifier{log: log}
	}

	guardrail := security.NewPermissive()
	if cfg.IsSecurityEnabled() {
		guardrail, err = security.NewGuardrail(cfg.Security.RulesFile)
		if err != nil {
			log.Warn("guardrail rules unusable, falling back to defaults", map[string]interface{}{
				"rules_file": cfg.Security.RulesFile,
				"error":      err.Error(),
			})
			if guardrail, err = security.NewGuardrail(""); err != nil {
				return nil, err
			}
		}
	}

	var cacheStore *cache.SQLiteStore
	if cfg.Preferences.UseCache {
		cacheStore, err = cache.Open(cfg.Cache.Path)
		if err != nil {
			log.Warn("query cache unavailable", map[string]interface{}{
				"path":  cfg.Cache.Path,
				"error": err.Error(),
			})
		}
	}

	exec := executor.NewLocalExecutor(cfg.Execution.Shell, executor.WithStreams(opts.Stdin, opts.Stdout, opts.Stderr))

	c := &Container{
		Config:       cfg,
		ConfigLoader: cfgLoader,
		Logger:       log,
		Notifier:     notifier,
		CacheStore:   cacheStore,
		Guardrail:    guardrail,
		Executor:     exec,
		OSHint:       runtime.GOOS,
		factory:      ai.NewFactory(log),
	}

	c.QueryService = &query.Service{
		Generator:            lazyGenerator{c: c},
		Security:             guardrail,
		Executor:             exec,
		Notifier:             notifier,
		Logger:               log,
		UseCache:             cfg.Preferences.UseCache,
		ConfirmBeforeExecute: cfg.ShouldConfirmBeforeExecution(),
	}
	if cacheStore != nil {
		c.QueryService.Cache = cacheStore
	}

	c.DoctorService = &doctor.Service{
		ConfigProvider:  cfgLoader,
		SecurityService: guardrail,
		Providers:       c.Registry,
	}
	if cacheStore != nil {
		c.DoctorService.Cache = cacheStore
	}

	return c, nil
}

// Registry initializes every backend once and returns the result.
func (c *Container) Registry(ctx context.Context) *registry.Registry {
	c.once.Do(func() {
		c.registry = registry.Build(ctx, c.Config, c.factory, c.Logger, c.Notifier)
		c.generator = generation.NewOrchestrator(c.registry, c.registry.Config(), c.OSHint, c.Logger, c.Notifier)
	})
	return c.registry
}

// Generator returns the fallback orchestrator, building the registry if needed.
func (c *Container) Generator(ctx context.Context) *generation.Orchestrator {
	c.Registry(ctx)
	return c.generator
}

// Close releases the cache database and flushes the logger.
func (c *Container) Close() error {
	var errs []error
	if c.CacheStore != nil {
		errs = append(errs, c.CacheStore.Close())
	}
	// Sync on stderr fails with EINVAL on some platforms; it carries no data loss.
	_ = c.Logger.Sync()
	return errors.Join(errs...)
}

type lazyGenerator struct {
	c *Container
}

func (g lazyGenerator) GenerateCommand(ctx context.Context, request string, mode domain.GenerationMode) domain.Result {
	return g.c.Generator(ctx).GenerateCommand(ctx, request, mode)
}

// logNotifier routes notices to the structured log when no terminal notifier is set.
type logNotifier struct {
	log ports.Logger
}

func (n logNotifier) Notify(level domain.NoticeLevel, message string) {
	fields := map[string]interface{}{"level": string(level)}
	switch level {
	case domain.NoticeError, domain.NoticeWarn:
		n.log.Warn(message, fields)
	default:
		n.log.Info(message, fields)
	}
}
