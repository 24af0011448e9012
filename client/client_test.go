package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"resource-board/internal/app"
	"resource-board/internal/pkg/jwtutil"
	"resource-board/internal/platform/logger"
	"resource-board/internal/platform/sqlite"
	"resource-board/internal/repository"
	httptransport "resource-board/internal/transport/http"
	"resource-board/internal/transport/http/handler"
	"resource-board/internal/validation"
)

func newBoardServer(t *testing.T) *httptest.Server {
	t.Helper()

	db, err := sqlite.New(context.Background(), filepath.Join(t.TempDir(), "board.db"))
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))

	log := logger.Discard()
	users := repository.NewUserRepository(db)
	credentials, err := app.NewCredentialStore(users, bcrypt.MinCost)
	require.NoError(t, err)
	v := validation.New()
	tokens := jwtutil.NewManager("client-test-secret", time.Hour)
	resources := app.NewResourceService(repository.NewResourceRepository(db), users, v, nil, nil, nil, log)

	srv := httptest.NewServer(httptransport.NewEngine(httptransport.EngineConfig{
		GinMode:   gin.TestMode,
		Logger:    log,
		Tokens:    tokens,
		Auth:      handler.NewAuthHandler(app.NewAuthService(credentials, tokens, v), log),
		Resources: handler.NewResourceHandler(resources, log),
	}))
	t.Cleanup(func() {
		srv.Close()
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return srv
}

func pantry() ResourceRequest {
	return ResourceRequest{
		Title:       "Pantry",
		Description: "Free groceries",
		Category:    "Food Bank",
		Location:    "Main St 1",
		ContactInfo: "pantry@example.org",
	}
}

func TestClientFlow(t *testing.T) {
	srv := newBoardServer(t)
	ctx := context.Background()
	sessionPath := filepath.Join(t.TempDir(), "session.json")

	session, err := LoadSession(sessionPath)
	require.NoError(t, err)
	assert.False(t, session.Authenticated())

	c := New(srv.URL, WithSession(session, sessionPath))

	_, err = c.CreateResource(ctx, pantry())
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	user, err := c.Register(ctx, RegisterRequest{Name: "A", Email: "a@example.com", Password: "secret123", Role: "donor"})
	require.NoError(t, err)
	assert.True(t, user.CanPost())
	assert.False(t, c.Session().Authenticated())

	_, err = c.Login(ctx, "a@example.com", "secret123")
	require.NoError(t, err)

	reloaded, err := LoadSession(sessionPath)
	require.NoError(t, err)
	assert.True(t, reloaded.Authenticated())
	assert.Equal(t, "a@example.com", reloaded.User.Email)

	created, err := c.CreateResource(ctx, pantry())
	require.NoError(t, err)
	assert.Equal(t, "A", created.PostedBy.Name)
	assert.Equal(t, "Contact for availability", created.Availability)

	availability := "Weekends"
	updated, err := c.UpdateResource(ctx, created.ID, ResourcePatch{Availability: &availability})
	require.NoError(t, err)
	assert.Equal(t, "Weekends", updated.Availability)
	assert.Equal(t, "Pantry", updated.Title)

	listed, err := New(srv.URL).ListResources(ctx, ListOptions{Category: "Food Bank", Query: "grocer"})
	require.NoError(t, err)
	require.Len(t, listed, 1)

	mine, err := c.MyResources(ctx)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	require.NoError(t, c.DeleteResource(ctx, created.ID))
	_, err = c.GetResource(ctx, created.ID)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Resource not found", apiErr.Message)

	require.NoError(t, c.Logout())
	assert.False(t, c.Session().Authenticated())
	assert.NoFileExists(t, sessionPath)
}

func TestClientForbiddenUpdate(t *testing.T) {
	srv := newBoardServer(t)
	ctx := context.Background()

	owner := New(srv.URL)
	_, err := owner.Register(ctx, RegisterRequest{Name: "A", Email: "a@example.com", Password: "secret123", Role: "donor"})
	require.NoError(t, err)
	_, err = owner.Login(ctx, "a@example.com", "secret123")
	require.NoError(t, err)
	created, err := owner.CreateResource(ctx, pantry())
	require.NoError(t, err)

	other := New(srv.URL)
	_, err = other.Register(ctx, RegisterRequest{Name: "B", Email: "b@example.com", Password: "secret123"})
	require.NoError(t, err)
	_, err = other.Login(ctx, "b@example.com", "secret123")
	require.NoError(t, err)

	title := "Taken"
	_, err = other.UpdateResource(ctx, created.ID, ResourcePatch{Title: &title})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)

	err = other.DeleteResource(ctx, created.ID)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
}

func TestLoginFailureKeepsSession(t *testing.T) {
	srv := newBoardServer(t)
	sessionPath := filepath.Join(t.TempDir(), "session.json")
	c := New(srv.URL, WithSession(&Session{}, sessionPath))

	_, err := c.Login(context.Background(), "nobody@example.com", "secret123")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.NoFileExists(t, sessionPath)
}

func TestOwnerAcceptsBareID(t *testing.T) {
	var r Resource
	require.NoError(t, json.Unmarshal([]byte(`{"id":"r1","postedBy":"u1"}`), &r))
	assert.Equal(t, "u1", r.PostedBy.ID)

	require.NoError(t, json.Unmarshal([]byte(`{"id":"r1","postedBy":{"id":"u2","name":"B","email":"b@x.io"}}`), &r))
	assert.Equal(t, Owner{ID: "u2", Name: "B", Email: "b@x.io"}, r.PostedBy)
}

func TestLoadSessionRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))

	_, err := LoadSession(path)
	assert.Error(t, err)
}
