package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/MrSnakeDoc/beanstalk/internal/catalog"
	"github.com/MrSnakeDoc/beanstalk/internal/config"
	"github.com/MrSnakeDoc/beanstalk/internal/httpserver"
	"github.com/MrSnakeDoc/beanstalk/internal/httpserver/deps"
	"github.com/MrSnakeDoc/beanstalk/internal/journal"
	"github.com/MrSnakeDoc/beanstalk/internal/logger"
	"github.com/MrSnakeDoc/beanstalk/internal/metrics"
	"github.com/MrSnakeDoc/beanstalk/internal/scheduler"
	"github.com/MrSnakeDoc/beanstalk/internal/store"
	"github.com/MrSnakeDoc/beanstalk/internal/utils"
	"github.com/MrSnakeDoc/beanstalk/internal/version"
)

// Core is a loaded journal and the resources behind it. CLI commands use it
// directly; the server wraps it in an App.
type Core struct {
	Config  *config.Config
	Logger  logger.Logger
	Journal *journal.Journal
	Gateway store.Gateway
	Metrics *metrics.Metrics
	Clock   journal.Clock

	closer io.Closer
}

// Open builds the classifier, connects the gateway and loads the journal.
// m may be nil.
func Open(ctx context.Context, cfg *config.Config, log logger.Logger, m *metrics.Metrics) (*Core, error) {
	classifier, err := catalog.Classifier(cfg.CatalogFile)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	if cfg.CatalogFile != "" {
		log.Info("category catalog loaded", logger.String("file", cfg.CatalogFile))
	}

	gateway, closer, err := openGateway(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	clock := journal.Clock(time.Now)
	j := journal.New(classifier, gateway,
		journal.WithLogger(log.With(logger.String("component", "journal"))),
		journal.WithMetrics(m),
		journal.WithLocation(cfg.Location),
	)
	if err := j.Load(ctx, clock()); err != nil {
		if closer != nil {
			utils.Close(closer)
		}
		return nil, fmt.Errorf("load journal: %w", err)
	}

	return &Core{
		Config:  cfg,
		Logger:  log,
		Journal: j,
		Gateway: gateway,
		Metrics: m,
		Clock:   clock,
		closer:  closer,
	}, nil
}

// Close releases the gateway resources.
func (c *Core) Close() {
	utils.CloseLogged(c.closer, c.Config.Store, c.Logger)
}

// App is the long-running HTTP service.
type App struct {
	*Core
	server *httpserver.Server
	expiry *scheduler.StreakExpiry
}

func New(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	m := metrics.New()

	core, err := Open(ctx, cfg, log, m)
	if err != nil {
		return nil, err
	}

	expiry := scheduler.NewStreakExpiry(core.Journal, log, m, core.Clock, cfg.ExpiryInterval)

	d := deps.Deps{
		Logger:          log,
		StartTime:       time.Now(),
		Version:         version.Version,
		Commit:          version.Commit,
		BuildDate:       version.BuildDate,
		GoVersion:       version.GoVersion,
		TimeNow:         core.Clock,
		Journal:         core.Journal,
		Gateway:         core.Gateway,
		Metrics:         m,
		APISecret:       []byte(cfg.APISecret),
		AllowedCIDRS:    cfg.AllowedCIDRS,
		TrustProxy:      cfg.TrustProxy,
		CORSOrigins:     cfg.CORSOrigins,
		RateLimitBurst:  cfg.RateLimitBurst,
		RateLimitPerMin: cfg.RateLimitPerMin,
	}

	return &App{
		Core:   core,
		server: httpserver.New(cfg, log, d),
		expiry: expiry,
	}, nil
}

// Run serves until ctx is cancelled or the server fails, then shuts down.
func (a *App) Run(ctx context.Context) error {
	a.Logger.Infof("🌱 Starting Beanstalk %s on %s (store=%s)", version.Version, a.Config.ListenPort, a.Config.Store)
	a.Logger.Infof("Beanstalk %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)
	defer a.Close()

	a.expiry.Start(ctx)
	a.Logger.Info("streak expiry started", logger.Duration("interval", a.Config.ExpiryInterval))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.Logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		a.expiry.Stop()
		return err
	}

	a.expiry.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	a.Logger.Info("✅ Beanstalk stopped cleanly")
	return nil
}
