package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"inputdash/internal/auth"
	"inputdash/internal/cache"
	"inputdash/internal/classify"
	"inputdash/internal/config"
	"inputdash/internal/migrations"
	"inputdash/internal/repo"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type App struct {
	cfg    config.Config
	log    *zap.Logger
	pg     *pgxpool.Pool
	sqlite *sql.DB
	redis  *redis.Client
	router *gin.Engine
}

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	Users      repo.UserRepo
	Inputs     repo.InputRepo
	Tokens     auth.TokenStore
	Cache      *cache.InputCache // nil disables list caching
	Classifier classify.Classifier
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	a := &App{cfg: cfg, log: log}
	var deps Deps

	switch cfg.DB.Driver {
	case config.DriverPostgres:
		pool, err := newPostgres(ctx, cfg.DB.DSN)
		if err != nil {
			return nil, err
		}
		a.pg = pool
		if err := runPGMigrations(cfg.DB.DSN); err != nil {
			a.Close(ctx)
			return nil, err
		}
		deps.Users = repo.NewPGUserRepo(pool)
		deps.Inputs = repo.NewPGInputRepo(pool)
	default:
		db, err := repo.OpenSQLite(cfg.DB.SQLitePath)
		if err != nil {
			return nil, err
		}
		a.sqlite = db
		deps.Users = repo.NewSQLiteUserRepo(db)
		deps.Inputs = repo.NewSQLiteInputRepo(db)
	}
	log.Info("database ready", zap.String("driver", cfg.DB.Driver))

	if cfg.Redis.Enabled() {
		rdb, err := newRedis(ctx, cfg.Redis)
		if err != nil {
			a.Close(ctx)
			return nil, err
		}
		a.redis = rdb
		deps.Tokens = auth.NewRedisStore(rdb, cfg.Auth.TokenTTL.Duration())
		deps.Cache = cache.NewInputCache(rdb, cfg.Redis.ListTTL.Duration())
		log.Info("redis ready", zap.String("addr", cfg.Redis.Addr))
	} else {
		deps.Tokens = auth.NewMemoryStore(cfg.Auth.TokenTTL.Duration())
		log.Warn("redis not configured: tokens kept in memory, list cache disabled")
	}

	cl, err := classify.New(ctx, classify.Config{
		Provider:   cfg.Classifier.Provider,
		APIKey:     cfg.Classifier.APIKey,
		Endpoint:   cfg.Classifier.Endpoint,
		Model:      cfg.Classifier.Model,
		Timeout:    cfg.Classifier.Timeout.Duration(),
		MaxRetries: cfg.Classifier.MaxRetries,
	}, log.Named("classify"))
	if err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("classifier: %w", err)
	}
	deps.Classifier = cl
	log.Info("classifier ready", zap.String("classifier", cl.Name()))

	a.router = NewRouter(cfg, deps, log)
	return a, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func (a *App) Close(ctx context.Context) error {
	_ = ctx
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warn("redis close", zap.Error(err))
		}
	}
	if a.pg != nil {
		a.pg.Close()
	}
	if a.sqlite != nil {
		if err := a.sqlite.Close(); err != nil {
			return fmt.Errorf("sqlite close: %w", err)
		}
	}
	return nil
}

func newPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("pg parse config: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 2
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pg connect: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg ping: %w", err)
	}

	return pool, nil
}

func newRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return rdb, nil
}

func runPGMigrations(dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("migrations open db: %w", err)
	}
	defer db.Close()

	return migrations.Up(db, migrations.DialectPostgres)
}

// NewRouter builds the engine with middleware and all routes.
func NewRouter(cfg config.Config, deps Deps, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), RequestLogger(log), Recovery(log))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.HTTP.AllowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", HeaderRequestID},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", HeaderRequestID},
		AllowCredentials: !allowsAnyOrigin(cfg.HTTP.AllowedOrigins()),
		MaxAge:           12 * time.Hour,
	}))

	Setup(r, cfg, deps, log)
	return r
}

func allowsAnyOrigin(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
