package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dromero-dev/storefront-backend/api/middleware"
	"github.com/dromero-dev/storefront-backend/api/responses"
	"github.com/dromero-dev/storefront-backend/internal/users"
	"github.com/dromero-dev/storefront-backend/pkg/auth/session"
	pkgerrors "github.com/dromero-dev/storefront-backend/pkg/errors"
	"github.com/dromero-dev/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

type remainingReporter interface {
	Remaining(ctx context.Context, accessID string, now time.Time) (time.Duration, error)
}

// SessionInfo returns the authenticated user's account.
func SessionInfo(repo *users.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := repo.FindByID(r.Context(), userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "unknown account"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load account"))
			return
		}

		responses.WriteSuccess(w, users.FromModel(user))
	}
}

// SessionRemaining reports the seconds left before inactivity expiry without
// counting as activity itself; the countdown poller depends on that.
func SessionRemaining(reporter remainingReporter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accessID := middleware.AccessIDFromContext(r.Context())
		if accessID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id"))
			return
		}

		remaining, err := reporter.Remaining(r.Context(), accessID, time.Now().UTC())
		if err != nil {
			if errors.Is(err, session.ErrExpired) {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeSessionExpired, "session expired due to inactivity"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read session"))
			return
		}

		responses.WriteSuccess(w, map[string]int64{
			"remaining_seconds": int64(remaining.Seconds()),
		})
	}
}
