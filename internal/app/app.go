package app

import (
	"context"
	"fmt"
	"net/http"

	"moim-app-go/internal/auth"
	"moim-app-go/internal/config"
	"moim-app-go/internal/db"
	mannamdomain "moim-app-go/internal/domain/mannam"
	moimdomain "moim-app-go/internal/domain/moim"
	pagesdomain "moim-app-go/internal/domain/pages"
	userdomain "moim-app-go/internal/domain/user"
	"moim-app-go/internal/repository/inmemory"
	mannamrepo "moim-app-go/internal/repository/postgres/mannam"
	moimrepo "moim-app-go/internal/repository/postgres/moim"
	userrepo "moim-app-go/internal/repository/postgres/user"
	redisrepo "moim-app-go/internal/repository/redis"
	"moim-app-go/internal/state"
	"moim-app-go/internal/transport/httpserver"
	"moim-app-go/internal/transport/httpserver/handler"
	"moim-app-go/pkg/logger"
	"moim-app-go/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

// Models lists every table the sqlite auto-migration creates.
var Models = []any{
	&moimdomain.Moim{},
	&moimdomain.Participant{},
	&mannamdomain.Mannam{},
	&mannamdomain.Response{},
	&userdomain.Profile{},
}

type App struct {
	cfg        config.Config
	log        logger.Logger
	httpServer *http.Server
	db         *gorm.DB
	redis      *goredis.Client

	registry *prometheus.Registry
	metrics  *metrics.Metrics
	provider *auth.SupabaseClient

	Moims   *moimdomain.Service
	Mannams *mannamdomain.Service
	Pages   *pagesdomain.Service
	Users   *userdomain.Service
}

func New(ctx context.Context, log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}
	return NewWithConfig(ctx, cfg, log)
}

func NewWithConfig(ctx context.Context, cfg config.Config, log logger.Logger) (*App, error) {
	a := &App{cfg: cfg, log: log}

	log.Info("app: initializing database")
	dbConn, err := db.Open(cfg.DB, log)
	if err != nil {
		return nil, err
	}
	a.db = dbConn

	if cfg.DB.AutoMigrate || cfg.DB.Driver == config.DriverSQLite {
		log.Info("app: applying migrations", "driver", cfg.DB.Driver)
		if err := db.Migrate(ctx, dbConn, cfg.DB.Driver, Models...); err != nil {
			return nil, multierr.Append(err, a.Close())
		}
	}

	cache, err := a.newMoimCache(ctx)
	if err != nil {
		return nil, multierr.Append(err, a.Close())
	}

	a.registry = prometheus.NewRegistry()
	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	a.metrics = metrics.New(a.registry)

	moimRepository := moimrepo.NewPostgres(dbConn)
	mannamRepository := mannamrepo.NewPostgres(dbConn)

	a.Moims = moimdomain.NewService(moimRepository, cache, moimdomain.Options{
		InviteCodeAttempts: cfg.Moim.InviteCodeAttempts,
		CountConcurrency:   cfg.Moim.CountConcurrency,
		CacheTTL:           cfg.Cache.TTL,
	})
	a.Mannams = mannamdomain.NewService(mannamRepository, mannamdomain.Options{
		StrictStatusTransitions: cfg.Mannam.StrictStatusTransitions,
	})
	a.Pages = pagesdomain.NewService(moimRepository, mannamRepository, log)
	a.Users = userdomain.NewService(userrepo.NewPostgres(dbConn))

	a.provider = auth.NewSupabaseClient(cfg.Supabase)
	verifier, err := a.newVerifier()
	if err != nil {
		return nil, multierr.Append(err, a.Close())
	}

	log.Info("app: initializing router")
	handlers := handler.New(a.Moims, a.Mannams, a.Pages, log)
	router := httpserver.NewRouter(cfg, handlers, verifier, a.Users, a.metrics, a.registry, log)

	log.Info("app: initializing http server")
	a.httpServer = httpserver.New(cfg, router)

	return a, nil
}

func (a *App) newMoimCache(ctx context.Context) (moimdomain.Cache, error) {
	switch a.cfg.Cache.Backend {
	case config.CacheNone:
		a.log.Info("app: moim cache disabled")
		return nil, nil
	case config.CacheRedis:
		a.log.Info("app: connecting to redis", "addr", a.cfg.Redis.Address)
		client, err := redisrepo.NewClient(ctx, a.cfg.Redis)
		if err != nil {
			return nil, err
		}
		a.redis = client
		return redisrepo.NewMoimCache(client, a.log), nil
	default:
		return inmemory.NewInMemoryMoimCache(), nil
	}
}

// newVerifier prefers local HS256 verification when the project secret is
// configured and falls back to asking the auth server.
func (a *App) newVerifier() (auth.TokenVerifier, error) {
	if a.cfg.Supabase.JWTSecret == "" {
		return a.provider, nil
	}
	verifier, err := auth.NewJWTVerifier(a.cfg.Supabase.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("jwt verifier: %w", err)
	}
	return verifier, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) DB() *gorm.DB {
	return a.db
}

// State builds the client-side state containers over the in-process
// services, signed in through the configured auth server.
func (a *App) State() *state.App {
	return state.NewApp(a.provider, a.Moims, a.Mannams, state.Deps{
		Metrics: a.metrics,
		Log:     a.log,
	})
}

func (a *App) Close() error {
	var err error
	if a.redis != nil {
		err = multierr.Append(err, a.redis.Close())
	}
	if a.db != nil {
		sqlDB, dbErr := a.db.DB()
		if dbErr != nil {
			err = multierr.Append(err, dbErr)
		} else {
			err = multierr.Append(err, sqlDB.Close())
		}
	}
	return err
}
