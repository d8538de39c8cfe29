package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/dromero-dev/storefront-backend/api/middleware"
	pkgerrors "github.com/dromero-dev/storefront-backend/pkg/errors"
)

func userIDFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "malformed user identity")
	}
	return id, nil
}
