package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/crumbhouse/bakery-backend/api/responses"
	"github.com/crumbhouse/bakery-backend/pkg/config"
	"github.com/crumbhouse/bakery-backend/pkg/logger"
)

const readinessTimeout = 2 * time.Second

// Pinger is satisfied by the database and Redis clients.
type Pinger interface {
	Ping(context.Context) error
}

type readiness struct {
	Success bool              `json:"success"`
	Status  string            `json:"status"`
	Checks  map[string]string `json:"checks"`
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Bakery-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the database and, when configured, Redis. A nil cache is
// reported as skipped; any failed ping answers 503.
func HealthReady(cfg *config.Config, logg *logger.Logger, db Pinger, cache Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Bakery-Env", cfg.App.Env)
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		body := readiness{Success: true, Status: "ready", Checks: map[string]string{"database": "ok", "redis": "skipped"}}
		fail := func(name string, err error) {
			body.Success, body.Status = false, "not_ready"
			body.Checks[name] = "unavailable"
			logg.Error(logg.WithField(r.Context(), "dependency", name), "health.not_ready", err)
		}

		if err := db.Ping(ctx); err != nil {
			fail("database", err)
		}
		if cache != nil {
			if err := cache.Ping(ctx); err != nil {
				fail("redis", err)
			} else {
				body.Checks["redis"] = "ok"
			}
		}

		status := http.StatusOK
		if !body.Success {
			status = http.StatusServiceUnavailable
		}
		responses.WriteJSON(w, status, body)
	}
}
