package handlers

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/trip-planner-api/internal/auth"
	"github.com/gdg-garage/trip-planner-api/internal/config"
	"github.com/gdg-garage/trip-planner-api/internal/database"
	"github.com/gdg-garage/trip-planner-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testEnv struct {
	db    *gorm.DB
	cfg   *config.Config
	auth  *auth.AuthHandler
	alice models.User
	bob   models.User
	admin models.User
	root  models.User
}

// newTestEnv opens a private in-memory database shared by all connections
// of the pool, so transactions see the same tables as plain queries.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	sqlDB, _ := db.DB()
	t.Cleanup(func() { sqlDB.Close() })

	cfg := &config.Config{JWTSecret: "test-secret", LoginRateLimit: 100}
	env := &testEnv{db: db, cfg: cfg, auth: auth.NewAuthHandler(cfg, db, nil)}
	env.alice = env.createUser(t, "alice", models.RoleUser)
	env.bob = env.createUser(t, "bob", models.RoleUser)
	env.admin = env.createUser(t, "admin", models.RoleAdmin)
	env.root = env.createUser(t, "root", models.RoleSuperadmin)
	return env
}

func (e *testEnv) createUser(t *testing.T, username string, role models.Role) models.User {
	t.Helper()
	hash, _ := auth.HashPassword("secret1")
	user := models.User{Username: username, Email: username + "@example.com", Role: role, IsActive: true, PasswordHash: hash}
	if err := e.db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

// as authenticates with the auth_token cookie, like the browser client.
func (e *testEnv) as(t *testing.T, user models.User) auth.AuthInput {
	t.Helper()
	token, err := e.auth.GenerateToken(user.ID)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return auth.AuthInput{Cookie: "auth_token=" + token}
}

func statusOf(err error) int {
	var se huma.StatusError
	if errors.As(err, &se) {
		return se.GetStatus()
	}
	return 0
}

// detailAt reports whether err carries a validation detail at location.
func detailAt(err error, location string) bool {
	var model *huma.ErrorModel
	if !errors.As(err, &model) {
		return false
	}
	for _, d := range model.Errors {
		if d.Location == location {
			return true
		}
	}
	return false
}

func ptr[T any](v T) *T { return &v }

func sent[T any](v T) Nullable[T] { return Nullable[T]{Sent: true, Value: v} }

type fakeNotifier struct {
	mu    sync.Mutex
	trips []models.Trip
	users []models.User
}

func (f *fakeNotifier) NotifyUserRegistered(user models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users = append(f.users, user)
	return nil
}

func (f *fakeNotifier) NotifyTripCreated(owner models.User, trip models.Trip) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trips = append(f.trips, trip)
	return errors.New("discord is down")
}
