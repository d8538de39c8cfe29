package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dromero-dev/storefront-backend/internal/users"
	pkgAuth "github.com/dromero-dev/storefront-backend/pkg/auth"
	"github.com/dromero-dev/storefront-backend/pkg/config"
	"github.com/dromero-dev/storefront-backend/pkg/enums"
	pkgerrors "github.com/dromero-dev/storefront-backend/pkg/errors"
)

func setupAuthTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  email TEXT,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'user',
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

type fakeActivity struct {
	started []string
	revoked []string
}

func (f *fakeActivity) Start(ctx context.Context, accessID string, now time.Time) error {
	f.started = append(f.started, accessID)
	return nil
}

func (f *fakeActivity) Revoke(ctx context.Context, accessID string) error {
	f.revoked = append(f.revoked, accessID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "secret",
		Issuer:            "storefront",
		ExpirationMinutes: 30,
	}
}

func newAuthService(t *testing.T, db *gorm.DB) (Service, *fakeActivity) {
	t.Helper()
	activity := &fakeActivity{}
	svc, err := NewService(ServiceParams{
		UserRepo:        users.NewRepository(db),
		ActivityManager: activity,
		JWTConfig:       testJWTConfig(),
		PasswordConfig:  config.PasswordConfig{},
	})
	require.NoError(t, err)
	return svc, activity
}

func TestRegisterCreatesUserAndStartsSession(t *testing.T) {
	db := setupAuthTestDB(t)
	svc, activity := newAuthService(t, db)
	ctx := context.Background()

	resp, err := svc.Register(ctx, RegisterRequest{
		Username: "  DRomero ",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	require.NotNil(t, resp.User)
	assert.Equal(t, "dromero", resp.User.Username)
	assert.Equal(t, enums.UserRoleUser, resp.User.Role)
	require.NotEmpty(t, resp.AccessToken)

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	require.Len(t, activity.started, 1)
	assert.Equal(t, claims.ID, activity.started[0])

	// The hash never looks like the raw password.
	stored, err := users.NewRepository(db).FindByUsername(ctx, "dromero")
	require.NoError(t, err)
	assert.NotContains(t, stored.PasswordHash, "correct horse battery")
}

func TestRegisterDuplicateUsernameConflicts(t *testing.T) {
	db := setupAuthTestDB(t)
	svc, _ := newAuthService(t, db)
	ctx := context.Background()

	req := RegisterRequest{Username: "dromero", Password: "correct horse battery"}
	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, req)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestLoginVerifiesPassword(t *testing.T) {
	db := setupAuthTestDB(t)
	svc, activity := newAuthService(t, db)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Username: "dromero", Password: "correct horse battery"})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, LoginRequest{Username: "Dromero", Password: "correct horse battery"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotNil(t, resp.User.LastLoginAt)
	assert.Len(t, activity.started, 2)

	_, err = svc.Login(ctx, LoginRequest{Username: "dromero", Password: "wrong"})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
	assert.Equal(t, invalidCredentialsMessage, typed.Message())
}

func TestLoginUnknownUserLooksLikeBadPassword(t *testing.T) {
	db := setupAuthTestDB(t)
	svc, _ := newAuthService(t, db)

	_, err := svc.Login(context.Background(), LoginRequest{Username: "ghost", Password: "whatever"})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
	assert.Equal(t, invalidCredentialsMessage, typed.Message())
}

func TestLogoutRevokesSession(t *testing.T) {
	db := setupAuthTestDB(t)
	svc, activity := newAuthService(t, db)
	ctx := context.Background()

	require.NoError(t, svc.Logout(ctx, "session-1"))
	assert.Equal(t, []string{"session-1"}, activity.revoked)

	err := svc.Logout(ctx, "  ")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}
