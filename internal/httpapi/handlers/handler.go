package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/skku-swe/someplace/internal/activity"
	"github.com/skku-swe/someplace/internal/common"
	"github.com/skku-swe/someplace/internal/config"
	"github.com/skku-swe/someplace/internal/httpapi/middleware"
	"github.com/skku-swe/someplace/internal/workspace"
)

type Handler struct {
	Cfg        config.Config
	Workspaces *workspace.Registry
	// nil unless activity is stored in a SQL database
	Activity *activity.Repo
}

func NewHandler(cfg config.Config, workspaces *workspace.Registry, act *activity.Repo) *Handler {
	return &Handler{Cfg: cfg, Workspaces: workspaces, Activity: act}
}

func (h *Handler) Ping(c *gin.Context) {
	common.OK(c, gin.H{"pong": true})
}

// workspace resolves the caller's workspace; without authentication every
// caller shares the anonymous one.
func (h *Handler) workspace(c *gin.Context) *workspace.Workspace {
	return h.Workspaces.Get(c.Request.Context(), userIDFromContext(c))
}

func userIDFromContext(c *gin.Context) string {
	v, found := c.Get(middleware.UserIDKey)
	if !found {
		return workspace.Anonymous
	}
	id, _ := v.(string)
	if id == "" {
		return workspace.Anonymous
	}
	return id
}
