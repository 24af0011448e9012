package app

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"resource-board/internal/model"
	"resource-board/internal/pkg/jwtutil"
	"resource-board/internal/platform/logger"
	"resource-board/internal/platform/sqlite"
	"resource-board/internal/repository"
	"resource-board/internal/validation"
)

type testEnv struct {
	auth      *AuthService
	resources *ResourceService
	tokens    *jwtutil.Manager
	userRepo  *repository.UserRepository
	storeRepo *repository.ResourceRepository
	validator *validation.Validator
	cache     *fakeCache
	publisher *fakePublisher
	observer  *fakeObserver
	clock     *stepClock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sqlite.New(context.Background(), filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	userRepo := repository.NewUserRepository(db)
	credentials, err := NewCredentialStore(userRepo, bcrypt.MinCost)
	require.NoError(t, err)

	v := validation.New()
	tokens := jwtutil.NewManager("app-test-secret", time.Hour)
	env := &testEnv{
		auth:      NewAuthService(credentials, tokens, v),
		tokens:    tokens,
		userRepo:  userRepo,
		storeRepo: repository.NewResourceRepository(db),
		validator: v,
		cache:     &fakeCache{},
		publisher: &fakePublisher{},
		observer:  &fakeObserver{mutations: map[string]int{}},
		clock:     &stepClock{next: time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)},
	}
	env.resources = NewResourceService(
		env.storeRepo,
		userRepo,
		v,
		env.cache,
		env.publisher,
		env.observer,
		logger.Discard(),
	)
	env.resources.now = env.clock.Now
	return env
}

func (e *testEnv) register(t *testing.T, name, email string, role model.Role) *model.User {
	t.Helper()
	res, err := e.auth.Register(context.Background(), RegisterInput{
		Name:     name,
		Email:    email,
		Password: "secret123",
		Role:     string(role),
	})
	require.NoError(t, err)
	return res.User
}

func (e *testEnv) createResource(t *testing.T, ownerID, title string) *model.Resource {
	t.Helper()
	res, err := e.resources.Create(context.Background(), ownerID, ResourceInput{
		Title:       title,
		Description: title + " for the neighbourhood",
		Category:    string(model.CategoryEvents),
		Location:    "Community hall",
		ContactInfo: "hall@example.org",
	})
	require.NoError(t, err)
	return res
}

// stepClock advances one minute on every call so creation order is strict.
type stepClock struct {
	mu   sync.Mutex
	next time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.next
	c.next = c.next.Add(time.Minute)
	return now
}

type fakeCache struct {
	list        []model.Resource
	hit         bool
	getErr      error
	generation  int64
	sets        int
	invalidated int
}

func (c *fakeCache) Generation(context.Context) (int64, error) {
	return c.generation, nil
}

func (c *fakeCache) GetList(context.Context) ([]model.Resource, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	return c.list, c.hit, nil
}

func (c *fakeCache) SetList(_ context.Context, generation int64, resources []model.Resource) (bool, error) {
	if generation != c.generation {
		return false, nil
	}
	c.list = resources
	c.hit = true
	c.sets++
	return true, nil
}

func (c *fakeCache) Invalidate(context.Context) error {
	c.generation++
	c.list = nil
	c.hit = false
	c.invalidated++
	return nil
}

type fakePublisher struct {
	events []model.ResourceEvent
	err    error
}

func (p *fakePublisher) PublishResourceEvent(_ context.Context, event model.ResourceEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

type fakeObserver struct {
	mutations map[string]int
	hits      int
	misses    int
}

func (o *fakeObserver) ObserveMutation(operation string) { o.mutations[operation]++ }

func (o *fakeObserver) ObserveCacheLookup(hit bool) {
	if hit {
		o.hits++
		return
	}
	o.misses++
}

var errStoreDown = errors.New("store down")
