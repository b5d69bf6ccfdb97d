package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"inventory-service/internal/adapters/primary/http/handlers"
	"inventory-service/internal/config"
	"inventory-service/internal/core/domain"
	"inventory-service/internal/core/services"
	"inventory-service/internal/testutil"
)

func TestRootCommand_Subcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "migrate", "import-products", "create-superuser", "db"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}

	sub := map[string]bool{}
	for _, c := range dbCmd.Commands() {
		sub[c.Name()] = true
	}
	assert.True(t, sub["dump"])
	assert.True(t, sub["restore"])
}

func TestMigrateCommand_RejectsUnknownDirection(t *testing.T) {
	err := migrateCmd.Args(migrateCmd, []string{"sideways"})
	assert.Error(t, err)

	assert.NoError(t, migrateCmd.Args(migrateCmd, []string{"status"}))
	assert.NoError(t, migrateCmd.Args(migrateCmd, nil))
}

func TestCreateSuperuser_PasswordFromEnv(t *testing.T) {
	t.Setenv(envSuperuserPassword, "from-env")
	repo := new(testutil.MockUserRepo)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Username == "admin" && u.IsSuperuser && u.PasswordHash != "" && u.PasswordHash != "from-env"
	})).Return(nil)

	var out bytes.Buffer
	err := createSuperuser(context.Background(), services.NewUserService(repo), superuserOptions{username: "admin", email: "admin@example.com"}, &out)

	require.NoError(t, err)
	assert.Contains(t, out.String(), `Superuser "admin" created.`)
	repo.AssertExpectations(t)
}

func TestCreateSuperuser_Existing(t *testing.T) {
	repo := new(testutil.MockUserRepo)
	repo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrUserExists)
	svc := services.NewUserService(repo)
	opts := superuserOptions{username: "admin", password: "pw"}

	err := createSuperuser(context.Background(), svc, opts, &bytes.Buffer{})
	assert.ErrorIs(t, err, domain.ErrUserExists)

	opts.skipExisting = true
	err = createSuperuser(context.Background(), svc, opts, &bytes.Buffer{})
	assert.NoError(t, err)
}

func TestCreateSuperuser_MissingPassword(t *testing.T) {
	t.Setenv(envSuperuserPassword, "")
	repo := new(testutil.MockUserRepo)

	err := createSuperuser(context.Background(), services.NewUserService(repo), superuserOptions{username: "admin"}, &bytes.Buffer{})

	assert.ErrorIs(t, err, domain.ErrInvalidPassword)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestNewRouter_RequiresAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	products := new(testutil.MockProductRepo)
	users := new(testutil.MockUserRepo)
	users.On("GetByUsername", mock.Anything, "ghost").Return(nil, domain.ErrUserNotFound)

	h := handlers.New(
		services.NewProductService(products),
		services.NewLocationService(new(testutil.MockLocationRepo)),
		services.NewInventoryLevelService(new(testutil.MockLevelRepo)),
		nil, nil, nil,
	)
	cfg := &config.Config{Auth: config.AuthConfig{Enabled: true, Realm: "inventory"}}
	router := newRouter(cfg, nil, h, services.NewUserService(users))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/inventory/products", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/api/v1/inventory/products", nil)
	req.SetBasicAuth("ghost", "pw")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	products.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestNewRouter_AuthDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	products := new(testutil.MockProductRepo)
	products.On("List", mock.Anything, mock.Anything).Return([]*domain.Product{}, 0, nil)

	h := handlers.New(services.NewProductService(products), nil, nil, nil, nil, nil)
	cfg := &config.Config{RateLimit: config.RateLimitConfig{RPS: 1, Burst: 1}}
	router := newRouter(cfg, nil, h, nil)

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/v1/inventory/products", nil)
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)
}
