package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

const (
	envHeader          = "X-Storefront-Env"
	readyCheckTimeout  = 2 * time.Second
	dependencyOK       = "ok"
	dependencyDisabled = "disabled"
)

type catalogStatusReporter interface {
	Status() (enums.CatalogStatus, error)
	LoadedAt() time.Time
}

// Pinger is any dependency that can report its own health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ReadinessDeps lists what HealthReady inspects. Nil pingers report as disabled.
type ReadinessDeps struct {
	Catalog catalogStatusReporter
	DB      Pinger
	Redis   Pinger
}

type readyResponse struct {
	Status       string            `json:"status"`
	Catalog      string            `json:"catalog"`
	CatalogError string            `json:"catalog_error,omitempty"`
	LoadedAt     *time.Time        `json:"loaded_at,omitempty"`
	Dependencies map[string]string `json:"dependencies"`
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports 200 once the catalog is loaded and every configured
// dependency answers, 503 otherwise.
func HealthReady(cfg *config.Config, deps ReadinessDeps, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		resp := readyResponse{
			Status:       "ready",
			Catalog:      enums.CatalogStatusLoading.String(),
			Dependencies: map[string]string{},
		}

		if deps.Catalog != nil {
			status, loadErr := deps.Catalog.Status()
			resp.Catalog = status.String()
			if loadErr != nil {
				resp.CatalogError = loadErr.Error()
			}
			if at := deps.Catalog.LoadedAt(); !at.IsZero() {
				resp.LoadedAt = &at
			}
		}
		if resp.Catalog != enums.CatalogStatusReady.String() {
			resp.Status = "not_ready"
		}

		ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
		defer cancel()
		for name, dep := range map[string]Pinger{"db": deps.DB, "redis": deps.Redis} {
			if dep == nil {
				resp.Dependencies[name] = dependencyDisabled
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				if logg != nil {
					logg.Error(logg.WithField(ctx, "dependency", name), "health.ready.ping_failed", err)
				}
				resp.Dependencies[name] = "unavailable"
				resp.Status = "not_ready"
				continue
			}
			resp.Dependencies[name] = dependencyOK
		}

		status := http.StatusOK
		if resp.Status != "ready" {
			status = http.StatusServiceUnavailable
		}
		responses.WriteSuccessStatus(w, status, resp)
	}
}
