package controllers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/multierr"

	"github.com/dromero-dev/storefront-backend/api/responses"
	"github.com/dromero-dev/storefront-backend/pkg/config"
	pkgerrors "github.com/dromero-dev/storefront-backend/pkg/errors"
	"github.com/dromero-dev/storefront-backend/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Storefront-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the backing stores before declaring readiness. All
// checks run so a single response names every dependency that is down.
func HealthReady(cfg *config.Config, logg *logger.Logger, db pinger, cache pinger) http.HandlerFunc {
	checks := []struct {
		name string
		p    pinger
	}{
		{"database", db},
		{"redis", cache},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Storefront-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		var errs []error
		var failed []string
		for _, check := range checks {
			if check.p == nil {
				continue
			}
			if err := check.p.Ping(ctx); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", check.name, err))
				failed = append(failed, check.name)
			}
		}
		if len(errs) > 0 {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeDependency, multierr.Combine(errs...), "dependencies unavailable").
					WithDetails(map[string]any{"dependencies": failed}))
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
