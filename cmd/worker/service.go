package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/malehdhliso/chartedart-backend/internal/consumers"
	"github.com/malehdhliso/chartedart-backend/pkg/config"
	"github.com/malehdhliso/chartedart-backend/pkg/db"
	"github.com/malehdhliso/chartedart-backend/pkg/logger"
	"github.com/malehdhliso/chartedart-backend/pkg/pubsub"
	"github.com/malehdhliso/chartedart-backend/pkg/redis"
)

type ServiceParams struct {
	Config  *config.Config
	Logger  *logger.Logger
	DB      *db.Client
	Redis   *redis.Client
	PubSub  *pubsub.Client
	Runners []*consumers.Runner
}

type Service struct {
	cfg     *config.Config
	logg    *logger.Logger
	db      *db.Client
	redis   *redis.Client
	pubsub  *pubsub.Client
	runners []*consumers.Runner
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Config == nil {
		return nil, errors.New("config is required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if params.DB == nil {
		return nil, errors.New("database client is required")
	}
	if params.Redis == nil {
		return nil, errors.New("redis client is required")
	}
	if params.PubSub == nil {
		return nil, errors.New("pubsub client is required")
	}
	if len(params.Runners) == 0 {
		return nil, errors.New("at least one consumer runner is required")
	}

	return &Service{
		cfg:     params.Config,
		logg:    params.Logger,
		db:      params.DB,
		redis:   params.Redis,
		pubsub:  params.PubSub,
		runners: params.Runners,
	}, nil
}

func (s *Service) ensureReadiness(ctx context.Context) error {
	if err := pingDependency(ctx, s.logg, "database", s.db.Ping); err != nil {
		return err
	}
	if err := pingDependency(ctx, s.logg, "redis", s.redis.Ping); err != nil {
		return err
	}
	if err := pingDependency(ctx, s.logg, "pubsub", s.pubsub.Ping); err != nil {
		return err
	}
	s.logg.Info(ctx, "all worker dependencies are ready")
	return nil
}

func pingDependency(ctx context.Context, logg *logger.Logger, name string, fn func(context.Context) error) error {
	if err := fn(ctx); err != nil {
		logg.Error(ctx, fmt.Sprintf("%s ping failed", name), err)
		return fmt.Errorf("%s ping failed: %w", name, err)
	}
	return nil
}

func (s *Service) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if err := s.ensureReadiness(ctx); err != nil {
		return err
	}

	group, groupCtx := errgroup.WithContext(ctx)
	for _, runner := range s.runners {
		runner := runner
		group.Go(func() error {
			return runner.Run(groupCtx)
		})
	}

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	group.Go(func() error {
		for {
			select {
			case <-groupCtx.Done():
				s.logg.Info(ctx, "worker context canceled")
				return groupCtx.Err()
			case <-ticker.C:
				// heartbeat slot, intentionally quiet
			}
		}
	})

	return group.Wait()
}
