package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ranwtech/site/internal/articles"
	"github.com/ranwtech/site/internal/config"
	"github.com/ranwtech/site/internal/imports"
	"github.com/ranwtech/site/internal/leads"
	"github.com/ranwtech/site/internal/prospects"
	"github.com/ranwtech/site/internal/sessions"
	"github.com/ranwtech/site/internal/siteconfig"
	"github.com/ranwtech/site/internal/users"
	"github.com/stretchr/testify/require"
)

const (
	testAdminEmail    = "admin@ranw.tech"
	testAdminPassword = "correct horse"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	deps   Deps
	router *gin.Engine
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = "handlers-test-secret-32-bytes-xx"
	cfg.Admin.Emails = []string{testAdminEmail}
	cfg.Site.URL = "https://www.ranw.tech"
	return cfg
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWith(t, nil)
}

// newTestEnvWith lets a test adjust the config before routes are mounted.
func newTestEnvWith(t *testing.T, adjust func(*config.Config)) *testEnv {
	t.Helper()
	cfg := testConfig()
	if adjust != nil {
		adjust(cfg)
	}
	d := Deps{
		Config:     cfg,
		Leads:      leads.NewService(leads.NewMemoryRepo(), nil),
		Articles:   articles.NewService(articles.NewMemoryRepo()),
		SiteConfig: siteconfig.NewService(siteconfig.NewMemoryStore()),
		Prospects:  prospects.NewService(prospects.NewMemoryRepo(), imports.NewMemoryStore()),
		Users:      users.NewService(users.NewMemoryUserRepository()),
		Sessions:   sessions.NewService(sessions.NewMemoryRepository()),
		Blacklist:  sessions.NewMemoryBlacklist(),
	}
	_, err := d.Users.EnsureLocalAdmin(context.Background(), testAdminEmail, "Ran", testAdminPassword)
	require.NoError(t, err)
	r := gin.New()
	RegisterRoutes(r, d)
	return &testEnv{deps: d, router: r}
}

func (e *testEnv) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// login returns access and refresh tokens for the bootstrap admin.
func (e *testEnv) login(t *testing.T) (string, string) {
	t.Helper()
	w := e.do(http.MethodPost, "/auth/login", gin.H{"username": testAdminEmail, "password": testAdminPassword}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var got struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	return got.AccessToken, got.RefreshToken
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m), w.Body.String())
	return m
}
