package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"portfolio/admin"
	"portfolio/auth"
	"portfolio/cache"
	"portfolio/common"
	"portfolio/config"
	"portfolio/contact"
	"portfolio/database"
	"portfolio/email"
	"portfolio/models"
	"portfolio/ratelimit"
	"portfolio/site"
	"portfolio/storage"
	"portfolio/store"
	"portfolio/views"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	common.InitLogger(cfg.LogLevel)

	db, err := common.ConnectDb(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := database.RunMigrations(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	serviceDB := db
	if cfg.ServiceDatabaseURL != cfg.DatabaseURL {
		serviceDB, err = common.ConnectDb(cfg.DBDriver, cfg.ServiceDatabaseURL)
		if err != nil {
			log.Fatal("Failed to connect to service database:", err)
		}
	}

	publicClient, serviceClient, err := storeClients(db, serviceDB, cfg)
	if err != nil {
		log.Fatal("Failed to set up store credentials:", err)
	}

	authService := auth.NewService(db)
	if err := authService.EnsureAdmin(context.Background(), cfg.AdminEmail, cfg.AdminPassword); err != nil {
		slog.Error("could not create admin account", "error", err)
	}

	var notifier email.Notifier
	if mailer := email.NewEmailService(cfg.SMTPHost, cfg.SMTPPort, cfg.GmailUser, cfg.GmailAppPassword, cfg.NotifyTo); mailer.Configured() {
		notifier = mailer
	} else {
		slog.Warn("smtp credentials not set, contact notifications disabled")
	}

	var limiter *ratelimit.FixedWindowLimiter
	if cfg.RedisAddr != "" && cfg.ContactRateLimitPerMinute > 0 {
		limiter, err = ratelimit.NewRedisFixedWindowLimiter(cfg.RedisAddr, cfg.RedisPassword, "", cfg.ContactRateLimitPerMinute, time.Minute)
		if err != nil {
			log.Fatal("Failed to connect to redis:", err)
		}
		defer limiter.Close()
	}

	pages := cache.NewPageCache(cfg.PageCacheTTL)

	router := gin.New()
	router.Use(gin.Recovery(), common.RequestLog())

	sessionStore := cookie.NewStore([]byte(cfg.SessionSecret))
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   strings.HasPrefix(cfg.SiteURL, "https://"),
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions("portfolio-session", sessionStore))

	views.Load(router)

	router.Static("/public", "./public")

	uploader := setupUploads(router, cfg)

	publicGroup := router.Group("/", cache.Middleware(pages))
	siteModule := site.NewSiteModule(publicClient, cfg.SiteURL)
	siteModule.RegisterRoutes(publicGroup)

	api := router.Group("/api", common.CORS(cfg.AllowedOrigins))
	pipeline := contact.NewPipeline(publicClient, serviceClient, notifier)
	contact.NewHandler(pipeline, limiter).RegisterRoutes(api)

	adminModule := admin.NewAdminModule(authService, publicClient.Authenticated(), uploader, pages)
	adminModule.RegisterRoutes(router)

	router.NoRoute(func(c *gin.Context) {
		c.HTML(http.StatusNotFound, "error.html", gin.H{
			"Title":  "Not Found",
			"Active": "",
			"Status": http.StatusNotFound,
			"Error":  "The page you are looking for does not exist.",
		})
	})

	slog.Info("starting server", "port", cfg.Port, "db_driver", cfg.DBDriver, "public_role", publicClient.Role())
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

// storeClients builds the anonymous client used by public pages and the
// service-role client used when an anonymous write is refused. Without a
// service key the second client is nil and no retry happens.
func storeClients(db, serviceDB *gorm.DB, cfg config.Config) (*store.Client, *store.Client, error) {
	anonOpts := store.WithWritableTables(cfg.AnonWritableTables...)

	public := store.New(db, store.RoleAnon, anonOpts)
	if cfg.StoreAnonKey != "" {
		c, err := store.Connect(db, cfg.StoreAnonKey, cfg.StoreJWTSecret, anonOpts)
		if err != nil {
			return nil, nil, err
		}
		public = c
	}

	if !slices.Contains(cfg.AnonWritableTables, models.TableMessages) && cfg.StoreServiceRoleKey == "" {
		slog.Warn("contact messages cannot be saved: the anon key may not write messages and no service role key is set")
	}

	var service *store.Client
	if cfg.StoreServiceRoleKey != "" {
		c, err := store.Connect(serviceDB, cfg.StoreServiceRoleKey, cfg.StoreJWTSecret)
		if err != nil {
			return nil, nil, err
		}
		service = c
	}
	return public, service, nil
}

// setupUploads selects the object store: MinIO when an endpoint is set,
// otherwise files under UploadDir served at /uploads. It returns nil when
// the store cannot be opened; uploads are then refused.
func setupUploads(router *gin.Engine, cfg config.Config) *storage.Uploader {
	maxBytes := int64(cfg.MaxUploadMB) << 20

	if cfg.StorageEndpoint != "" {
		objects, err := storage.NewMinioStore(cfg.StorageEndpoint, cfg.StorageAccessKey, cfg.StorageSecretKey,
			cfg.StorageBucket, cfg.StoragePublicURL, cfg.StorageUseSSL)
		if err != nil {
			slog.Error("object storage unavailable, uploads disabled", "endpoint", cfg.StorageEndpoint, "error", err)
			return nil
		}
		return storage.NewUploader(objects, maxBytes)
	}

	objects, err := storage.NewDiskStore(cfg.UploadDir, "/uploads")
	if err != nil {
		slog.Error("upload directory unavailable, uploads disabled", "dir", cfg.UploadDir, "error", err)
		return nil
	}
	router.Static("/uploads", cfg.UploadDir)
	return storage.NewUploader(objects, maxBytes)
}
