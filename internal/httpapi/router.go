package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/skku-swe/someplace/internal/common"
	"github.com/skku-swe/someplace/internal/config"
	"github.com/skku-swe/someplace/internal/httpapi/handlers"
	"github.com/skku-swe/someplace/internal/httpapi/middleware"
)

func NewRouter(cfg config.Config, h *handlers.Handler) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Logger())
	r.Use(middleware.Recovery())

	r.NoRoute(func(c *gin.Context) {
		common.Fail(c, http.StatusNotFound, 40400, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		common.Fail(c, http.StatusMethodNotAllowed, 40500, "method not allowed")
	})

	r.Use(middleware.RequestID())
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	r.GET("/ping", h.Ping)

	// Without a JWT secret every caller shares the anonymous workspace.
	api := r.Group("/")
	if cfg.JWTSecret != "" {
		api.Use(middleware.AuthRequired(cfg.JWTSecret))
	}

	// chat
	api.GET("/chat/sessions", h.ListChatSessions)
	api.POST("/chat/sessions/new", h.NewChatSession)
	api.POST("/chat/sessions/:id/select", h.SelectChatSession)
	api.DELETE("/chat/sessions/:id", h.DeleteChatSession)
	api.GET("/chat/messages", h.ListChatMessages)
	api.POST("/chat/search", h.Search)

	// map
	api.GET("/map/state", h.MapState)
	api.POST("/map/places/apply", h.ApplyPlaces)
	api.POST("/map/places/remove", h.RemovePlace)
	api.POST("/map/places/select", h.SelectPlace)
	api.POST("/map/saved", h.SavePlace)
	api.POST("/map/saved/remove", h.RemoveSavedPlace)
	api.POST("/map/route/start", h.SetRouteStart)
	api.POST("/map/route/end", h.SetRouteEnd)
	api.PUT("/map/route/mode", h.ChangeRouteMode)
	api.POST("/map/routes/select", h.SelectRoute)
	api.POST("/map/routes/remove", h.RemoveRoute)
	api.POST("/map/routes/link", h.RouteLink)

	api.GET("/activity", h.ListActivity)
	return r
}

func corsConfig(origins []string) cors.Config {
	cc := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cc.AllowAllOrigins = true
		return cc
	}
	cc.AllowOrigins = origins
	cc.AllowCredentials = true
	return cc
}
