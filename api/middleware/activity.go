package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dromero-dev/storefront-backend/api/responses"
	"github.com/dromero-dev/storefront-backend/pkg/auth/session"
	pkgerrors "github.com/dromero-dev/storefront-backend/pkg/errors"
	"github.com/dromero-dev/storefront-backend/pkg/logger"
)

// ActivityGate enforces the inactivity limit on every identity-bearing
// route. It runs after Auth, admits the request through the activity manager
// (which advances the last-seen timestamp), and on expiry answers a JSON
// SESSION_EXPIRED for API clients or a redirect to the login page for
// browsers. Handlers behind the gate never re-check expiry.
func ActivityGate(admitter session.Admitter, loginPageURL string, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			accessID := AccessIDFromContext(r.Context())
			if accessID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id"))
				return
			}

			_, err := admitter.Admit(r.Context(), accessID, time.Now().UTC())
			if err != nil {
				if errors.Is(err, session.ErrExpired) {
					if wantsHTML(r) {
						http.Redirect(w, r, expiredRedirectURL(loginPageURL), http.StatusSeeOther)
						return
					}
					responses.WriteError(r.Context(), logg, w,
						pkgerrors.New(pkgerrors.CodeSessionExpired, "session expired due to inactivity").
							WithDetails(map[string]any{"reason": "inactivity"}))
					return
				}
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "admit session"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// wantsHTML distinguishes page loads from API calls by the Accept header.
func wantsHTML(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	if strings.Contains(accept, "application/json") {
		return false
	}
	return strings.Contains(accept, "text/html")
}

func expiredRedirectURL(loginPageURL string) string {
	if loginPageURL == "" {
		loginPageURL = "/login.html"
	}
	sep := "?"
	if strings.Contains(loginPageURL, "?") {
		sep = "&"
	}
	return loginPageURL + sep + "expired=1"
}
