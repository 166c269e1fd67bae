package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/malehdhliso/chartedart-backend/api/responses"
	"github.com/malehdhliso/chartedart-backend/pkg/config"
	"github.com/malehdhliso/chartedart-backend/pkg/db"
	pkgerrors "github.com/malehdhliso/chartedart-backend/pkg/errors"
	"github.com/malehdhliso/chartedart-backend/pkg/logger"
	"github.com/malehdhliso/chartedart-backend/pkg/redis"
	"github.com/malehdhliso/chartedart-backend/pkg/storage/gcs"
)

const readinessTimeout = 5 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-ChartedArt-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every hard dependency; a nil pinger is skipped so the
// same handler serves deployments without the optional backends.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger, gcsP gcs.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-ChartedArt-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := []struct {
			name string
			ping func(context.Context) error
		}{
			{"database", pingFunc(dbP)},
			{"redis", pingFunc(redisP)},
			{"gcs", pingFunc(gcsP)},
		}
		for _, check := range checks {
			if check.ping == nil {
				continue
			}
			if err := check.ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, "dependency unavailable").
						WithDetails(map[string]any{"dependency": check.name}))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}

type pinger interface {
	Ping(ctx context.Context) error
}

func pingFunc(p pinger) func(context.Context) error {
	if p == nil {
		return nil
	}
	return p.Ping
}
