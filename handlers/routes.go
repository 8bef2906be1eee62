package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ranwtech/site/internal/articles"
	"github.com/ranwtech/site/internal/config"
	"github.com/ranwtech/site/internal/leads"
	"github.com/ranwtech/site/internal/oidc"
	"github.com/ranwtech/site/internal/prospects"
	"github.com/ranwtech/site/internal/sessions"
	"github.com/ranwtech/site/internal/siteconfig"
	"github.com/ranwtech/site/internal/storage"
	"github.com/ranwtech/site/internal/tokens"
	"github.com/ranwtech/site/internal/users"
	"github.com/ranwtech/site/pkg/middleware"
	"github.com/redis/go-redis/v9"
)

// Contact-form budget per client: about five submissions a minute.
const (
	contactRPS   = 1.0 / 12
	contactBurst = 3
)

// Login, refresh and logout budget per client: about ten calls a minute.
const (
	authRPS   = 1.0 / 6
	authBurst = 5
)

// Deps carries everything the HTTP surface needs. Media and Redis may be nil.
type Deps struct {
	Config     *config.Config
	Leads      *leads.Service
	Articles   *articles.Service
	SiteConfig *siteconfig.Service
	Prospects  *prospects.Service
	Users      *users.Service
	Sessions   *sessions.Service
	Keycloak   *oidc.Keycloak
	Blacklist  sessions.Blacklist
	Media      storage.ObjectStore
	Redis      *redis.Client
}

func (d Deps) limiter(scope string, rps float64, burst int) gin.HandlerFunc {
	rl := d.Config.RateLimit
	if rl.UseRedis && d.Redis != nil {
		return middleware.RedisRateLimitMiddleware(d.Redis, scope, rps, burst, time.Duration(rl.WindowSeconds)*time.Second)
	}
	return middleware.RateLimitMiddleware(scope, rps, burst)
}

// RegisterRoutes mounts the public site, auth and admin APIs on r.
func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Config
	if d.Blacklist == nil {
		d.Blacklist = sessions.NewMemoryBlacklist()
	}

	public := NewPublicHandler(d.Articles, d.SiteConfig, d.Leads)
	pages := NewPagesHandler(d.Articles, d.SiteConfig, cfg.Site.URL)
	api := r.Group("/api")
	site := r.Group("/")
	if cfg.RateLimit.Enabled {
		api.Use(d.limiter("api", cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		site.Use(d.limiter("pages", cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		public.RegisterContact(api, d.limiter("contact", contactRPS, contactBurst))
	} else {
		public.RegisterContact(api)
	}
	public.Register(api)
	pages.Register(site)

	authMW := middleware.AuthMiddleware(tokens.NewVerifier(cfg.JWT.Secret), d.Blacklist)
	auth := NewAuthHandler(cfg, d.Users, d.Sessions, d.Keycloak, d.Blacklist)
	authGroup := r.Group("/")
	if cfg.RateLimit.Enabled {
		authGroup.Use(d.limiter("auth", authRPS, authBurst))
	}
	auth.Register(authGroup)
	auth.RegisterMe(&r.RouterGroup, authMW)

	// read the allowlist per request so config reloads apply to live tokens
	isAdmin := func(email string) bool { return cfg.Admin.IsAdminEmail(email) }
	admin := r.Group("/api/admin", authMW, middleware.RequireAdmin(isAdmin))
	NewAdminLeadsHandler(d.Leads).Register(admin)
	NewAdminArticlesHandler(d.Articles).Register(admin)
	NewAdminConfigHandler(d.SiteConfig).Register(admin)
	NewAdminProspectsHandler(d.Prospects).Register(admin)
	NewAdminMediaHandler(d.Media).Register(admin)
}
