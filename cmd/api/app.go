package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/xiebiao/booknotes/internal/application/library"
	"github.com/xiebiao/booknotes/internal/domain/book"
	"github.com/xiebiao/booknotes/internal/domain/editor"
	"github.com/xiebiao/booknotes/internal/domain/note"
	"github.com/xiebiao/booknotes/internal/domain/review"
	"github.com/xiebiao/booknotes/internal/domain/tx"
	"github.com/xiebiao/booknotes/internal/infrastructure/config"
	"github.com/xiebiao/booknotes/internal/infrastructure/cover"
	"github.com/xiebiao/booknotes/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/booknotes/internal/infrastructure/persistence/redis"
	grpcapi "github.com/xiebiao/booknotes/internal/interface/grpc"
	"github.com/xiebiao/booknotes/internal/interface/http/middleware"
	"github.com/xiebiao/booknotes/internal/interface/http/router"
	"github.com/xiebiao/booknotes/pkg/jwt"
	"github.com/xiebiao/booknotes/pkg/mq"
)

// App is everything serve needs to run
type App struct {
	Config   *config.Config
	Engine   *gin.Engine
	Health   *grpcapi.HealthServer
	Sessions *library.SessionUseCase
}

// ========================================
// Custom providers: values wire cannot derive from types alone
// ========================================

func provideDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, func(), error) {
	db, err := mysql.NewDB(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return db, cleanup, nil
}

func provideRedis(cfg *config.Config, log *zap.Logger) (*goredis.Client, func(), error) {
	client, err := redis.NewClient(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = client.Close() }, nil
}

func provideTxManager(db *gorm.DB) tx.Manager {
	return mysql.NewTxManager(db)
}

// provideBookService: the note and review repositories both fill the
// DependentsCleaner role, so they are passed by position here.
func provideBookService(repo *mysql.BookRepository, notes note.Repository, reviews review.Repository, covers book.CoverResolver, txm tx.Manager, log *zap.Logger) book.Service {
	return book.NewService(repo, notes, reviews, covers, txm, log)
}

func provideCoverResolver(cfg *config.Config, log *zap.Logger) *cover.Resolver {
	return cover.NewResolver(cover.Config{
		BaseURL:         cfg.Cover.BaseURL,
		Timeout:         cfg.Cover.Timeout,
		BreakerFailures: cfg.Cover.BreakerFailures,
		BreakerTimeout:  cfg.Cover.BreakerTimeout,
	}, log)
}

func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(cfg.Session.Secret, cfg.Session.TTL)
}

func provideGate(creds editor.CredentialRepository, sessions editor.SessionStore, tokens editor.TokenCodec, cfg *config.Config, log *zap.Logger) editor.Gate {
	return editor.NewGate(creds, sessions, tokens, cfg.Session.TTL, log)
}

// provideViewCache: a zero TTL turns caching off
func provideViewCache(client *goredis.Client, cfg *config.Config) library.ViewCache {
	if cfg.Cache.ViewTTL <= 0 {
		return library.NopCache{}
	}
	return redis.NewViewCache(client, cfg.Cache.ViewTTL)
}

// provideEventPublisher: an empty mq.url turns publishing off
func provideEventPublisher(cfg *config.Config, log *zap.Logger) (library.EventPublisher, func(), error) {
	if cfg.MQ.URL == "" {
		return library.NopPublisher{}, func() {}, nil
	}
	p, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, log)
	if err != nil {
		return nil, nil, err
	}
	return p, func() { _ = p.Close() }, nil
}

func provideSessionMiddleware(gate editor.Gate, cfg *config.Config) *middleware.SessionMiddleware {
	return middleware.NewSessionMiddleware(gate, cfg.Session.CookieName, cfg.Session.TTL, cfg.Session.Secure)
}

func provideSignInLimiter(cfg *config.Config) *middleware.IPRateLimiter {
	return middleware.NewIPRateLimiter(cfg.RateLimit.SignInPerMinute, cfg.RateLimit.Burst)
}

func provideEngine(cfg *config.Config, log *zap.Logger, sessions *middleware.SessionMiddleware, limiter *middleware.IPRateLimiter, h router.Handlers) (*gin.Engine, error) {
	return router.New(cfg.Server.Mode, cfg.Server.TrustedProxies, log, sessions, limiter, h)
}

// provideHealthServer: database and redis are required, covers optional
func provideHealthServer(db *gorm.DB, client *goredis.Client, covers *cover.Resolver, log *zap.Logger) *grpcapi.HealthServer {
	h := grpcapi.NewHealthServer(map[string]grpcapi.Pinger{
		"database": grpcapi.PingFunc(func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}),
		"redis": grpcapi.PingFunc(func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}),
	}, log)
	h.AddOptional("cover", covers)
	return h
}

// newHTTPServer applies the configured timeouts
func newHTTPServer(addr string, handler http.Handler, read, write time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       read,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      write,
	}
}
