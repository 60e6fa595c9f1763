// Package router assembles the gin engine: middleware chain, CORS policy
// and the full route table.
package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"metra-backend/internal/core/session"
	"metra-backend/internal/domain"
	"metra-backend/internal/transport/http/handler"
	mdw "metra-backend/internal/transport/http/middleware"
)

// Options carries everything route mounting needs.
type Options struct {
	Log      *zap.Logger
	Handler  *handler.Handler
	Sessions *session.Store
	Users    domain.UserRepository

	AllowedOrigins []string
	// AllowedDomains are apex domains whose subdomains are also allowed.
	AllowedDomains []string
}

// New builds the engine with the standard middleware chain and mounts the
// API surface.
func New(o Options) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(16<<20),
		mdw.Metrics(),
		ginzap.Ginzap(o.Log, time.RFC3339, true),
		ginzap.RecoveryWithZap(o.Log, true),
		corsMiddleware(o.AllowedOrigins, o.AllowedDomains),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"Hello": "World"}) })

	h := o.Handler
	requireSession := mdw.RequireSession(o.Sessions, o.Users)
	optionalSession := mdw.OptionalSession(o.Sessions, o.Users)

	agents := r.Group("/agents")
	{
		agents.POST("/", h.CreateAgent)
		agents.GET("/", h.ListAgents)
		agents.GET("/slug/:slug", h.GetAgentBySlug)
		agents.GET("/:slug", h.GetAgentBySlug)
		// No ownership check on agent mutations; see handler package note.
		agents.PUT("/:slug", h.UpdateAgent)
		agents.DELETE("/:slug", h.DeleteAgent)
	}

	// Public onboarding form, mounted twice for older clients.
	r.POST("/api/register", h.RegisterAgent)
	r.POST("/api/agent/register", h.RegisterAgent)

	auth := r.Group("/auth")
	{
		auth.POST("/register", h.RegisterUser)
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)
		auth.GET("/me", requireSession, h.Me)
	}

	properties := r.Group("/properties")
	{
		properties.GET("/", optionalSession, h.ListProperties)
		properties.POST("/", requireSession, h.CreateProperty)
		properties.GET("/:id", h.GetProperty)
		properties.PUT("/:id", requireSession, h.UpdateProperty)
		properties.DELETE("/:id", requireSession, h.DeleteProperty)
	}

	return r
}

// corsMiddleware allows the configured origins plus any subdomain of the
// configured apex domains, with credentials.
func corsMiddleware(origins, domains []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"*"},
		ExposeHeaders:    []string{"*"},
		AllowCredentials: true,
		MaxAge:           time.Hour,
	}
	switch {
	case len(domains) > 0:
		cfg.AllowOriginFunc = func(origin string) bool {
			host, ok := strings.CutPrefix(origin, "https://")
			if !ok {
				return false
			}
			for _, domain := range domains {
				if host == domain || strings.HasSuffix(host, "."+domain) {
					return true
				}
			}
			return false
		}
	case len(origins) == 0:
		// Nothing configured, e.g. local development. Allow everything.
		cfg.AllowOriginFunc = func(string) bool { return true }
	}
	return cors.New(cfg)
}
