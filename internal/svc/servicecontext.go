package svc

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zeromicro/go-zero/core/logx"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"stockdata-api/internal/cache"
	"stockdata-api/internal/config"
	"stockdata-api/internal/service"
	providerpkg "stockdata-api/pkg/provider"
)

type ServiceContext struct {
	Config *config.Config

	Cache       *cache.Manager
	Providers   map[string]providerpkg.Provider
	Acquisition *providerpkg.Acquisition

	Stocks    *service.StockService
	Technical *service.TechnicalService
	Auth      *service.AuthService
}

func NewServiceContext(c *config.Config) *ServiceContext {
	svc := &ServiceContext{Config: c}

	svc.Cache = cache.NewManager(
		buildRedisStore(c.Redis),
		buildMongoStore(c.Mongo),
		cache.NewFileStore(c.Cache.Dir),
		cache.NewTTLSet(c.Cache),
	)

	providerCfg, err := providerpkg.LoadConfig(c.ProviderPath())
	if err != nil {
		log.Fatalf("failed to load provider config: %v", err)
	}
	providers, err := providerCfg.BuildProviders()
	if err != nil {
		log.Fatalf("failed to build providers: %v", err)
	}
	svc.Providers = providers
	svc.Acquisition = providerpkg.NewAcquisition(providerCfg, providers)

	svc.Stocks = service.NewStockService(svc.Acquisition, svc.Cache)
	svc.Technical = service.NewTechnicalService(svc.Stocks)
	svc.Auth = service.NewAuthService(c.Auth)

	return svc
}

// buildRedisStore dials the tier-1 store. An unreachable server does not
// disable the tier: the store is still wired and every operation degrades
// through the manager's error-as-miss handling until it recovers.
func buildRedisStore(c config.RedisConf) cache.KVStore {
	if !c.Enabled {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     c.Addr(),
		Password: c.Password,
		DB:       c.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logx.Errorf("redis at %s unreachable, tier degraded: %v", c.Addr(), err)
	}
	return cache.NewRedisStore(client)
}

// buildMongoStore connects the tier-2 store. A failed connect disables the
// tier entirely; mongo-driver only validates the URI here, so a Ping decides.
func buildMongoStore(c config.MongoConf) cache.DocStore {
	if !c.Enabled {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(c.URI))
	if err != nil {
		logx.Errorf("mongodb connect %s failed, tier disabled: %v", c.URI, err)
		return nil
	}
	if err := client.Ping(ctx, nil); err != nil {
		logx.Errorf("mongodb at %s unreachable, tier degraded: %v", c.URI, err)
	}
	return cache.NewMongoStore(client, c.Database, c.Collection)
}
