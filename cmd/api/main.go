package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/malehdhliso/chartedart-backend/api/routes"
	"github.com/malehdhliso/chartedart-backend/internal/auth"
	"github.com/malehdhliso/chartedart-backend/internal/cart"
	"github.com/malehdhliso/chartedart-backend/internal/competitions"
	"github.com/malehdhliso/chartedart-backend/internal/events"
	"github.com/malehdhliso/chartedart-backend/internal/initiatives"
	"github.com/malehdhliso/chartedart-backend/internal/media"
	"github.com/malehdhliso/chartedart-backend/internal/orders"
	"github.com/malehdhliso/chartedart-backend/internal/users"
	"github.com/malehdhliso/chartedart-backend/internal/variants"
	"github.com/malehdhliso/chartedart-backend/pkg/config"
	"github.com/malehdhliso/chartedart-backend/pkg/db"
	"github.com/malehdhliso/chartedart-backend/pkg/logger"
	"github.com/malehdhliso/chartedart-backend/pkg/migrate"
	"github.com/malehdhliso/chartedart-backend/pkg/outbox"
	"github.com/malehdhliso/chartedart-backend/pkg/redis"
	"github.com/malehdhliso/chartedart-backend/pkg/storage/gcs"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
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

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap gcs", err)
		os.Exit(1)
	}

	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:  users.NewRepository(dbClient.DB()),
		JWTConfig: cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}
	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	variantService, err := variants.NewService(variants.ServiceParams{
		DB:     dbClient,
		Outbox: outboxService,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create variant service", err)
		os.Exit(1)
	}
	cartService, err := cart.NewService(cart.ServiceParams{
		DB:     dbClient,
		Outbox: outboxService,
		Cache:  redisClient,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}
	competitionService, err := competitions.NewService(competitions.ServiceParams{
		DB:     dbClient,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create competition service", err)
		os.Exit(1)
	}
	orderService, err := orders.NewService(orders.ServiceParams{
		DB:     dbClient,
		Outbox: outboxService,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}
	eventService, err := events.NewService(events.ServiceParams{
		DB:     dbClient,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create event service", err)
		os.Exit(1)
	}
	initiativeService, err := initiatives.NewService(initiatives.ServiceParams{
		DB:     dbClient,
		Events: eventService,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create initiative service", err)
		os.Exit(1)
	}
	mediaService, err := media.NewService(media.ServiceParams{
		GCS:    gcsClient,
		Bucket: cfg.GCS.BucketName,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create media service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			gcsClient,
			authService,
			registerService,
			variantService,
			cartService,
			competitionService,
			orderService,
			eventService,
			initiativeService,
			mediaService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
