package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/videohub/internal/logging"
	"github.com/dmitrijs2005/videohub/internal/server/config"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// Router is the configured gin engine plus the background resources it owns.
type Router struct {
	*gin.Engine
	limiter *rateLimiter
}

// Close stops the rate limiter's cleanup goroutine.
func (r *Router) Close() {
	if r.limiter != nil {
		r.limiter.Stop()
	}
}

// NewRouter wires middleware and routes. reg receives the HTTP metrics and
// gatherer serves them on /metrics.
func NewRouter(cfg *config.Config, h *Handler, logger logging.Logger, reg prometheus.Registerer, gatherer prometheus.Gatherer) *Router {
	r := gin.New()
	r.MaxMultipartMemory = 8 << 20

	r.Use(newHTTPMetrics(reg).middleware())
	r.Use(requestLogger(logger))
	r.Use(errorHandler(logger, cfg.IsDevelopment()))
	r.Use(recoverer())
	r.Use(cors(cfg.CORSOrigin))
	r.Use(limitJSONBody(maxJSONBody))

	r.NoRoute(func(c *gin.Context) {
		fail(c, NewAPIError(http.StatusNotFound, "route not found", nil))
	})

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	if cfg.StaticDir != "" {
		r.Static("/static", cfg.StaticDir)
	}

	var limiter *rateLimiter
	authLimit := func(c *gin.Context) { c.Next() }
	if cfg.LoginRateLimit > 0 {
		limiter = newRateLimiter(rate.Every(time.Minute/time.Duration(cfg.LoginRateLimit)), cfg.LoginRateLimit, 10*time.Minute)
		go limiter.gc(time.Minute)
		authLimit = limiter.middleware()
	}

	prefix := "/" + strings.Trim(cfg.APIPrefix, "/")
	if prefix == "/" {
		prefix = ""
	}
	users := r.Group(prefix + "/users")

	users.POST("/register", authLimit, h.register)
	users.POST("/login", authLimit, h.login)
	users.POST("/refresh-token", h.refreshToken)
	users.GET("/c/:username", h.optionalAuth(), h.channel)

	secured := users.Group("", h.requireAuth())
	secured.POST("/logout", h.logout)
	secured.POST("/change-password", h.changePassword)
	secured.GET("/current-user", h.getCurrentUser)
	secured.PATCH("/update-account", h.updateAccount)
	secured.PATCH("/avatar", h.updateAvatar)
	secured.PATCH("/cover-image", h.updateCoverImage)
	secured.POST("/c/:username/subscription", h.subscribe)
	secured.DELETE("/c/:username/subscription", h.unsubscribe)
	secured.GET("/history", h.watchHistory)
	secured.POST("/history/:videoId", h.addToWatchHistory)

	return &Router{Engine: r, limiter: limiter}
}
