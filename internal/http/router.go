package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/notehq/notehub/internal/auth"
	"github.com/notehq/notehub/internal/config"
	"github.com/notehq/notehub/internal/http/handlers"
	"github.com/notehq/notehub/internal/http/middlewares"
	"github.com/notehq/notehub/internal/kv"
	"github.com/notehq/notehub/internal/observability"
	"github.com/notehq/notehub/internal/repo/kvrepo"
)

const maxBodyBytes = 1 << 20 // 1 MiB

type Deps struct {
	Log      *slog.Logger
	Cfg      config.Config
	Store    kv.Store
	Provider auth.Provider

	// Ping backs /readyz; nil means always ready.
	Ping func() error

	// Prom enables the request metrics middleware; Registry the /metrics
	// route. Both are optional so tests can skip them.
	Prom     *observability.Prom
	Registry *prometheus.Registry
}

func NewRouter(d Deps) *gin.Engine {
	if d.Cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(d.Log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware())
	r.Use(middlewares.MaxBodyBytes(maxBodyBytes))
	r.Use(middlewares.RequireJSON())

	if d.Cfg.TracingEnabled {
		r.Use(otelgin.Middleware("notehub"))
	}

	if d.Prom != nil {
		r.Use(d.Prom.GinHandleMiddleware())
	}

	if d.Registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{})))
	}

	// health
	h := handlers.NewHealthHandler(d.Ping)
	r.GET("/health", h.Health)
	r.GET("/readyz", h.Readyz)

	// wire up repositories over the kv store
	notesRepo := kvrepo.NewNotesRepo(d.Store)
	profilesRepo := kvrepo.NewProfilesRepo(d.Store)
	identitiesRepo := kvrepo.NewIdentitiesRepo(d.Store)

	authHandler := handlers.NewAuthHandler(d.Provider, profilesRepo, d.Log)
	profileHandler := handlers.NewProfileHandler(profilesRepo, identitiesRepo, d.Provider, d.Log)
	notesHandler := handlers.NewNotesHandler(notesRepo)

	// anon endpoints: publishable key + per-IP rate limit
	anonLimiter := middlewares.NewRateLimiter(20, time.Minute)
	anon := r.Group("/",
		middlewares.RequireAnonKey(d.Cfg.AnonKey),
		anonLimiter.RateLimiterMiddleware(middlewares.KeyByIP),
	)
	anon.POST("/signup", authHandler.SignUp)
	anon.POST("/login", authHandler.Login)

	// protected endpoints: bearer token resolves to an identity first
	authMw := middlewares.NewAuthMiddleware(d.Provider)
	protected := r.Group("/", authMw.RequireAuth())

	protected.GET("/profile", profileHandler.GetProfile)
	protected.POST("/profile/password", profileHandler.ChangePassword)

	protected.GET("/notes", notesHandler.ListNotes)
	protected.POST("/notes", notesHandler.CreateNote)
	protected.PUT("/notes/:id", notesHandler.UpdateNote)
	protected.DELETE("/notes/:id", notesHandler.DeleteNote)

	return r
}
