package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ranwtech/site/handlers"
	"github.com/ranwtech/site/internal/articles"
	"github.com/ranwtech/site/internal/config"
	"github.com/ranwtech/site/internal/database"
	"github.com/ranwtech/site/internal/events"
	"github.com/ranwtech/site/internal/imports"
	"github.com/ranwtech/site/internal/leads"
	"github.com/ranwtech/site/internal/oidc"
	"github.com/ranwtech/site/internal/prospects"
	"github.com/ranwtech/site/internal/sessions"
	"github.com/ranwtech/site/internal/siteconfig"
	"github.com/ranwtech/site/internal/storage"
	"github.com/ranwtech/site/internal/users"
	"github.com/ranwtech/site/pkg/logger"
	"github.com/ranwtech/site/pkg/metrics"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

var startTime = time.Now()

func main() {
	// LOG_LEVEL: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: keycloak=%v mongo=%v redis=%v minio=%v kafka=%v",
		cfg.Keycloak.URL != "", cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.MinIO.Endpoint != "", len(cfg.Kafka.Brokers) > 0)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), handlers.CORS())

	var rdb *redis.Client
	if cfg.Redis.Host != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Host + ":" + cfg.Redis.Port, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			_ = rdb.Close()
			rdb = nil
		} else {
			defer rdb.Close()
			logger.Infof("connected to Redis %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}

	var mongoClient *mongo.Client
	if cfg.MongoDB.URI != "" {
		mongoClient, err = database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 5)
		if err != nil {
			logger.Warnf("MongoDB unavailable, falling back to in-memory stores: %v", err)
			mongoClient = nil
		} else {
			defer func() { _ = mongoClient.Disconnect(context.Background()) }()
		}
	} else {
		logger.Warnf("MONGODB_URI not set; using in-memory stores (data is lost on restart)")
	}

	publisher := events.NewLeadPublisher(cfg.Kafka.Brokers, cfg.Kafka.LeadsTopic)
	defer publisher.Close()

	deps := handlers.Deps{Config: cfg, Redis: rdb, Keycloak: oidc.NewKeycloak(cfg.Keycloak, cfg.Admin.InsecureTokens)}
	if mongoClient != nil {
		db := mongoClient.Database(cfg.MongoDB.Database)
		if err := database.EnsureIndexes(ctx, db); err != nil {
			logger.Warnf("ensure indexes: %v", err)
		}
		deps.Leads = leads.NewService(leads.NewMongoRepo(db.Collection(database.LeadsCollection)), publisher)
		deps.Articles = articles.NewService(articles.NewMongoRepo(db.Collection(database.ArticlesCollection)))
		deps.SiteConfig = siteconfig.NewService(siteconfig.NewMongoStore(db.Collection(database.PublicConfigCollection)))
		deps.Prospects = prospects.NewService(
			prospects.NewMongoRepo(db.Collection(database.ProspectsCollection)),
			imports.NewMongoStore(db.Collection(database.ImportJobsCollection)),
		)
		deps.Users = users.NewService(users.NewMongoUserRepository(db.Collection(database.AdminsCollection)))
		deps.Sessions = sessions.NewService(sessions.NewMongoRepository(db.Collection(database.SessionsCollection)))
	} else {
		deps.Leads = leads.NewService(leads.NewMemoryRepo(), publisher)
		deps.Articles = articles.NewService(articles.NewMemoryRepo())
		deps.SiteConfig = siteconfig.NewService(siteconfig.NewMemoryStore())
		deps.Prospects = prospects.NewService(prospects.NewMemoryRepo(), imports.NewMemoryStore())
		deps.Users = users.NewService(users.NewMemoryUserRepository())
		deps.Sessions = sessions.NewService(sessions.NewMemoryRepository())
	}
	// Redis sessions and blacklist win over Mongo when available.
	if rdb != nil {
		deps.Sessions = sessions.NewService(sessions.NewRedisRepository(rdb, "session:"))
		deps.Blacklist = sessions.NewRedisBlacklist(rdb)
	}

	if cfg.Admin.BootstrapEmail != "" && cfg.Admin.BootstrapPassword != "" {
		if _, err := deps.Users.EnsureLocalAdmin(ctx, cfg.Admin.BootstrapEmail, "", cfg.Admin.BootstrapPassword); err != nil {
			logger.Warnf("bootstrap admin: %v", err)
		} else {
			logger.Infof("bootstrap admin %s ready", cfg.Admin.BootstrapEmail)
		}
	}

	if cfg.MinIO.Endpoint != "" {
		store, err := storage.NewMinIOStorage(ctx, cfg.MinIO)
		if err != nil {
			logger.Warnf("media storage disabled: %v", err)
		} else {
			deps.Media = store
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})
	r.GET("/ready", func(c *gin.Context) {
		status := map[string]bool{
			"mongo": cfg.MongoDB.URI == "" || mongoClient != nil,
			"redis": cfg.Redis.Host == "" || rdb != nil,
			"media": cfg.MinIO.Endpoint == "" || deps.Media != nil,
		}
		if mongoClient != nil {
			pctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			status["mongo"] = mongoClient.Ping(pctx, nil) == nil
			cancel()
		}
		code, state := http.StatusOK, "ready"
		for _, ok := range status {
			if !ok {
				code, state = http.StatusServiceUnavailable, "not_ready"
			}
		}
		c.JSON(code, gin.H{"status": state, "deps": status, "uptime": time.Since(startTime).String()})
	})

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	handlers.RegisterSwagger(r)
	handlers.RegisterRoutes(r, deps)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Infof("starting site on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("graceful shutdown: %v", err)
	}
}
