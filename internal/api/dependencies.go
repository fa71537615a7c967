package api

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"

	"quadramall/apienvelope/internal/auth"
	"quadramall/apienvelope/internal/common"
	"quadramall/apienvelope/internal/config"
	"quadramall/apienvelope/internal/db"
	"quadramall/apienvelope/internal/db/repositories"
	"quadramall/apienvelope/internal/logging"
	"quadramall/apienvelope/internal/metrics"
	"quadramall/apienvelope/internal/services"
)

type Repositories struct {
	Products *repositories.ProductRepository
	Stats    *repositories.ProductStatsRepo
}

type Services struct {
	Cache    common.CacheInterface
	Tokens   *auth.TokenService
	Products *services.ProductService
}

type Dependencies struct {
	Repo     *Repositories
	Services *Services
	Metrics  *metrics.MetricsRegistry
	// Health lists the backends probed by /healthCheck.
	Health map[string]Pinger
}

// InitDependencies connects to the configured database and cache and wires the services.
func InitDependencies(cfg *config.Config, metricsReg *metrics.MetricsRegistry) (*Dependencies, error) {
	gdb, err := db.InitORM(cfg)
	if err != nil {
		return nil, err
	}

	var sdb *sqlx.DB
	if cfg.DBDriver == "postgres" {
		sdb, err = db.ConnectPostgres(cfg.PostgresDSN())
	} else {
		sdb, err = db.FromORM(gdb, "sqlite3")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlx connection: %w", err)
	}

	var cache common.CacheInterface
	if cfg.CacheBackend == "redis" {
		cache = common.NewRedisCacheService(common.NewRedisClient(cfg.RedisAddr(), cfg.RedisPassword))
		logging.Info("Using Redis cache", "addr", cfg.RedisAddr())
	} else {
		cache = common.NewCacheService(600, 1200)
		logging.Info("Using in-memory cache")
	}

	return NewDependencies(gdb, sdb, cache, auth.NewTokenService([]byte(cfg.JWTSecret)), metricsReg), nil
}

// NewDependencies wires already-open backends. Tests use it with SQLite and the in-memory cache.
func NewDependencies(gdb *gorm.DB, sdb *sqlx.DB, cache common.CacheInterface, tokens *auth.TokenService, metricsReg *metrics.MetricsRegistry) *Dependencies {
	repos := &Repositories{
		Products: repositories.NewProductRepository(gdb),
		Stats:    repositories.NewProductStatsRepo(sdb),
	}

	common.SetEnvelopeCounter(metricsReg.EnvelopesTotal)

	return &Dependencies{
		Repo: repos,
		Services: &Services{
			Cache:    cache,
			Tokens:   tokens,
			Products: services.NewProductService(repos.Products, repos.Stats, common.NewLoader(cache, metricsReg), metricsReg),
		},
		Metrics: metricsReg,
		Health: map[string]Pinger{
			"database": repos.Stats,
			"cache":    cache,
		},
	}
}
