package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/malehdhliso/chartedart-backend/internal/consumers"
	"github.com/malehdhliso/chartedart-backend/internal/consumers/cartcache"
	"github.com/malehdhliso/chartedart-backend/internal/consumers/inventory"
	"github.com/malehdhliso/chartedart-backend/internal/consumers/salesorders"
	"github.com/malehdhliso/chartedart-backend/internal/users"
	"github.com/malehdhliso/chartedart-backend/pkg/config"
	"github.com/malehdhliso/chartedart-backend/pkg/db"
	"github.com/malehdhliso/chartedart-backend/pkg/logger"
	"github.com/malehdhliso/chartedart-backend/pkg/metrics"
	"github.com/malehdhliso/chartedart-backend/pkg/outbox/idempotency"
	"github.com/malehdhliso/chartedart-backend/pkg/pubsub"
	"github.com/malehdhliso/chartedart-backend/pkg/redis"
	"github.com/malehdhliso/chartedart-backend/pkg/zoho"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "worker"

	logg = logger.New(logger.Options{
		ServiceName: "worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis client", err)
		}
	}()

	pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap pubsub", err)
		os.Exit(1)
	}
	defer func() {
		if err := pubsubClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing pubsub client", err)
		}
	}()

	zohoClient, err := zoho.NewClient(cfg.Zoho, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap zoho client", err)
		os.Exit(1)
	}

	manager, err := idempotency.NewManager(redisClient, cfg.Outbox.ConsumerDedupTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to build idempotency manager", err)
		os.Exit(1)
	}

	outboxMetrics := metrics.NewOutboxMetrics(prometheus.DefaultRegisterer)

	inventoryConsumer, err := inventory.NewConsumer(zohoClient, manager, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to build inventory consumer", err)
		os.Exit(1)
	}
	salesOrderConsumer, err := salesorders.NewConsumer(zohoClient, users.NewRepository(dbClient.DB()), manager, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to build sales order consumer", err)
		os.Exit(1)
	}
	cartCacheConsumer, err := cartcache.NewConsumer(redisClient, manager, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to build cart cache consumer", err)
		os.Exit(1)
	}

	inventoryRunner, err := consumers.NewRunner("inventory", pubsubClient.InventorySubscription(), inventoryConsumer, logg, outboxMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to build inventory runner", err)
		os.Exit(1)
	}
	ordersRunner, err := consumers.NewRunner("salesorders", pubsubClient.OrdersSubscription(), salesOrderConsumer, logg, outboxMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to build sales order runner", err)
		os.Exit(1)
	}
	cartRunner, err := consumers.NewRunner("cartcache", pubsubClient.CartSubscription(), cartCacheConsumer, logg, outboxMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to build cart cache runner", err)
		os.Exit(1)
	}
	runners := []*consumers.Runner{inventoryRunner, ordersRunner, cartRunner}

	service, err := NewService(ServiceParams{
		Config:  cfg,
		Logger:  logg,
		DB:      dbClient,
		Redis:   redisClient,
		PubSub:  pubsubClient,
		Runners: runners,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create worker", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": "worker",
	})
	logg.Info(ctx, "starting worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "worker shutting down gracefully")
}
