package controllers

import (
	"net/http"

	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/snapshot"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Storefront-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady checks the snapshot store and, when configured, the cache.
func HealthReady(cfg *config.Config, logg *logger.Logger, snapshots snapshot.Pinger, cache snapshot.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Storefront-Env", cfg.App.Env)

		checks := map[string]string{}
		healthy := true

		if snapshots != nil {
			if err := snapshots.Ping(r.Context()); err != nil {
				checks["snapshots"] = err.Error()
				healthy = false
				if logg != nil {
					logg.Error(r.Context(), "snapshot store unreachable", err)
				}
			} else {
				checks["snapshots"] = "ok"
			}
		}

		if cache != nil {
			if err := cache.Ping(r.Context()); err != nil {
				checks["cache"] = err.Error()
				healthy = false
				if logg != nil {
					logg.Error(r.Context(), "cache unreachable", err)
				}
			} else {
				checks["cache"] = "ok"
			}
		}

		status := http.StatusOK
		state := "ready"
		if !healthy {
			status = http.StatusServiceUnavailable
			state = "degraded"
		}
		responses.WriteSuccessStatus(w, status, map[string]any{
			"status": state,
			"checks": checks,
		})
	}
}
