package container

import (
	"context"
	"fmt"

	"luckystat/adapters/api"
	"luckystat/adapters/excel"
	"luckystat/adapters/memory"
	"luckystat/adapters/rediscache"
	"luckystat/adapters/sqlstore"
	"luckystat/app"
	"luckystat/domain/lotto"
	"luckystat/internal/config"
	"luckystat/internal/migration"
	"luckystat/internal/ops"
	"luckystat/models"
	"luckystat/ports"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Log    logrus.FieldLogger
	Clock  ports.Clock

	// Infrastructure
	DB    *sqlx.DB
	Cache *rediscache.Cache

	// Repositories (data access layer)
	StatsRepo  ports.StatsRepository
	ResultRepo ports.ResultRepository

	// Services
	Pipeline   *app.Pipeline
	Generation *app.GenerationService
	Stats      *app.StatsService
	Transfer   *app.TransferService
	Scheduler  *app.Scheduler
}

// New creates a new dependency injection container. A database URL selects the
// SQL repositories, otherwise the in-memory stores are used. An unreachable
// Redis only disables the cache.
func New(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	c := &Container{
		Config: cfg,
		Log:    log,
		Clock:  ports.SystemClock,
	}

	if err := c.initRepositories(ctx); err != nil {
		c.Shutdown(ctx)
		return nil, fmt.Errorf("failed to initialize repositories: %w", err)
	}
	c.initCache(ctx)

	if err := c.initServices(); err != nil {
		c.Shutdown(ctx)
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}
	if err := c.seedStats(ctx); err != nil {
		c.Shutdown(ctx)
		return nil, fmt.Errorf("failed to import draw history: %w", err)
	}

	c.Log.WithFields(logrus.Fields{
		"database": c.DB != nil,
		"cache":    c.Cache != nil,
		"schedule": c.Scheduler != nil,
	}).Info("container initialized")
	return c, nil
}

// initRepositories opens and migrates the database, or falls back to memory
func (c *Container) initRepositories(ctx context.Context) error {
	if !c.Config.UsesDatabase() {
		c.StatsRepo = memory.NewStatsStore(models.StatsSnapshot{
			Stats:       lotto.NewNumberStats(),
			LastUpdated: c.Clock.Now(),
		})
		c.ResultRepo = memory.NewResultStore()
		c.Log.Warn("DATABASE_URL not set; results and stats are kept in memory")
		return nil
	}

	db, err := sqlstore.Open(ctx, c.Config.Database)
	if err != nil {
		return err
	}
	c.DB = db
	if err := migration.NewRunner().Run(ctx, db); err != nil {
		return err
	}
	c.StatsRepo = sqlstore.NewStatsRepository(db)
	c.ResultRepo = sqlstore.NewResultRepository(db)
	return nil
}

func (c *Container) initCache(ctx context.Context) {
	if c.Config.Redis.URL == "" {
		return
	}
	cache, err := rediscache.Open(ctx, c.Config.Redis.URL, c.Config.Redis.TTL)
	if err != nil {
		c.Log.WithError(err).Warn("result cache unavailable; continuing without it")
		return
	}
	c.Cache = cache
}

func (c *Container) initServices() error {
	draws, err := config.LoadDraws(c.Config.Data.DrawsFile)
	if err != nil {
		return err
	}

	var opts []app.PipelineOption
	if c.Config.Data.LegacyWeighting {
		opts = append(opts, app.WithLegacyWeighting())
	}
	if c.Config.Data.Bonus {
		opts = append(opts, app.WithBonus())
	}
	c.Pipeline = app.NewPipeline(opts...)

	// a nil *rediscache.Cache must not become a non-nil interface
	var cache ports.ResultCache
	if c.Cache != nil {
		cache = c.Cache
	}

	c.Generation = app.NewGenerationService(c.Pipeline, c.StatsRepo, c.ResultRepo, cache, c.Clock, c.Log)
	c.Stats = app.NewStatsService(c.StatsRepo, draws, c.Clock, c.Log)
	c.Transfer = app.NewTransferService(c.Stats, c.ResultRepo, cache, c.Clock, c.Log)

	if c.Config.Schedule.Enabled {
		c.Scheduler, err = app.NewScheduler(c.Generation, c.Config.Schedule.Spec, c.Log)
		if err != nil {
			return err
		}
	}
	return nil
}

// seedStats imports the configured draw history when the stored table is empty
func (c *Container) seedStats(ctx context.Context) error {
	if c.Config.Data.StatsFile == "" {
		return nil
	}
	snap, err := c.Stats.Snapshot(ctx)
	if err != nil {
		return err
	}
	if snap.Stats.Total() > 0 {
		c.Log.WithField("file", c.Config.Data.StatsFile).Debug("stats already stored; history file ignored")
		return nil
	}
	draws, err := excel.NewHistoryReader(c.Config.Data.StatsFile).ReadDraws()
	if err != nil {
		return err
	}
	_, err = c.Stats.ImportHistory(ctx, draws)
	return err
}

// APIServer builds the public HTTP server
func (c *Container) APIServer() *api.Server {
	return api.NewServer(api.Services{
		Generation: c.Generation,
		Stats:      c.Stats,
		Transfer:   c.Transfer,
	}, c.Clock, c.Log, api.WithRateLimit(c.Config.Server.RateLimit, c.Config.Server.RateBurst))
}

// OpsApp builds the ops router with a probe per configured dependency
func (c *Container) OpsApp() *ops.App {
	var opts []ops.Option
	if c.DB != nil {
		opts = append(opts, ops.WithCheck("database", c.DB.PingContext))
	}
	if c.Cache != nil {
		opts = append(opts, ops.WithCheck("redis", c.Cache.Ping))
	}
	if c.Scheduler != nil {
		opts = append(opts, ops.WithSchedule(c.Scheduler.NextRun))
	}
	return ops.NewApp(opts...)
}

// Shutdown stops the scheduler and closes every connection
func (c *Container) Shutdown(ctx context.Context) error {
	var firstErr error
	if c.Scheduler != nil {
		if err := c.Scheduler.Stop(ctx); err != nil {
			firstErr = err
		}
	}
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
