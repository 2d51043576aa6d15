package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skku-swe/someplace/internal/chat"
	"github.com/skku-swe/someplace/internal/common"
	"github.com/skku-swe/someplace/internal/mapview"
	"github.com/skku-swe/someplace/internal/place"
	"github.com/skku-swe/someplace/internal/route"
	"github.com/skku-swe/someplace/internal/workspace"
)

// RouteFailedMessage is shown to the user as a blocking alert.
const RouteFailedMessage = "경로를 찾을 수 없습니다."

type applyPlacesReq struct {
	SessionID    string        `json:"session_id"`
	MessageIndex *int          `json:"message_index"`
	Places       []place.Place `json:"places"`
}

type placeKeyReq struct {
	Key *place.Key `json:"key" binding:"required"`
}

type savedPlaceReq struct {
	Key      *place.Key `json:"key" binding:"required"`
	Category string     `json:"category" binding:"required"`
}

type modeReq struct {
	Mode string `json:"mode" binding:"required"`
}

type routeKeyReq struct {
	Start *place.Key `json:"start" binding:"required"`
	End   *place.Key `json:"end" binding:"required"`
	Mode  string     `json:"mode" binding:"required"`
	By    string     `json:"by"`
}

func (r routeKeyReq) key() (route.Key, error) {
	m, err := route.ParseMode(r.Mode)
	if err != nil {
		return route.Key{}, err
	}
	return route.Key{Start: *r.Start, End: *r.End, Mode: m}, nil
}

func (h *Handler) MapState(c *gin.Context) {
	ws := h.workspace(c)
	common.OK(c, gin.H{
		"map":     ws.Map().Snapshot(),
		"loading": ws.Loading(),
	})
}

// ApplyPlaces plots either the places of a chat message or an explicit list.
func (h *Handler) ApplyPlaces(c *gin.Context) {
	var req applyPlacesReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	ws := h.workspace(c)
	var (
		added int
		err   error
	)
	switch {
	case req.Places != nil:
		added = ws.Map().ApplyPlaces(req.Places)
	case req.SessionID != "" && req.MessageIndex != nil:
		added, err = ws.ApplyMessagePlaces(req.SessionID, *req.MessageIndex)
	default:
		common.Fail(c, http.StatusBadRequest, 10002, "places or session_id with message_index required")
		return
	}
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrSessionNotFound):
			common.Fail(c, http.StatusNotFound, 40004, "session not found")
		case errors.Is(err, workspace.ErrMessageNotFound):
			common.Fail(c, http.StatusNotFound, 40005, "message not found")
		default:
			common.Fail(c, http.StatusInternalServerError, 50005, "failed to apply places")
		}
		return
	}

	common.OK(c, gin.H{"added": added, "map": ws.Map().Snapshot()})
}

func (h *Handler) RemovePlace(c *gin.Context) {
	var req placeKeyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}
	ws := h.workspace(c)
	if !ws.Map().RemovePlace(*req.Key) {
		common.Fail(c, http.StatusNotFound, 40006, "place not found")
		return
	}
	common.OK(c, gin.H{"map": ws.Map().Snapshot()})
}

func (h *Handler) SelectPlace(c *gin.Context) {
	var req placeKeyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}
	ws := h.workspace(c)
	if err := ws.Map().SelectPlace(*req.Key); err != nil {
		common.Fail(c, http.StatusNotFound, 40006, "place not found")
		return
	}
	common.OK(c, gin.H{"map": ws.Map().Snapshot()})
}

func (h *Handler) SavePlace(c *gin.Context) {
	var req savedPlaceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}
	category, err := place.ParseSavedCategory(req.Category)
	if err != nil {
		common.Fail(c, http.StatusBadRequest, 10003, "category must be restaurant, cafe or spot")
		return
	}

	ws := h.workspace(c)
	saved, err := ws.Map().SavePlace(*req.Key, category)
	if err != nil {
		common.Fail(c, http.StatusNotFound, 40006, "place not found")
		return
	}
	common.OK(c, gin.H{"saved": saved, "map": ws.Map().Snapshot()})
}

func (h *Handler) RemoveSavedPlace(c *gin.Context) {
	var req savedPlaceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}
	category, err := place.ParseSavedCategory(req.Category)
	if err != nil {
		common.Fail(c, http.StatusBadRequest, 10003, "category must be restaurant, cafe or spot")
		return
	}

	ws := h.workspace(c)
	removed := ws.Map().RemoveSavedPlace(*req.Key, category)
	common.OK(c, gin.H{"removed": removed, "map": ws.Map().Snapshot()})
}

func (h *Handler) SetRouteStart(c *gin.Context) {
	h.setRouteEndpoint(c, (*workspace.Workspace).SetRouteStart)
}

func (h *Handler) SetRouteEnd(c *gin.Context) {
	h.setRouteEndpoint(c, (*workspace.Workspace).SetRouteEnd)
}

type endpointFunc func(*workspace.Workspace, context.Context, place.Key) (*route.Entry, error)

func (h *Handler) setRouteEndpoint(c *gin.Context, set endpointFunc) {
	var req placeKeyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}
	ws := h.workspace(c)
	entry, err := set(ws, c.Request.Context(), *req.Key)
	if err != nil {
		routeFailed(c, ws, err)
		return
	}
	common.OK(c, gin.H{"route": entry, "map": ws.Map().Snapshot()})
}

func (h *Handler) ChangeRouteMode(c *gin.Context) {
	var req modeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}
	mode, err := route.ParseMode(req.Mode)
	if err != nil {
		common.Fail(c, http.StatusBadRequest, 10004, "mode must be car, walk or transit")
		return
	}

	ws := h.workspace(c)
	entry, err := ws.ChangeMode(c.Request.Context(), mode)
	if err != nil {
		routeFailed(c, ws, err)
		return
	}
	common.OK(c, gin.H{"route": entry, "map": ws.Map().Snapshot()})
}

func routeFailed(c *gin.Context, ws *workspace.Workspace, err error) {
	if errors.Is(err, mapview.ErrPlaceNotFound) {
		common.Fail(c, http.StatusNotFound, 40006, "place not found")
		return
	}
	log.Printf("[Handler] route failed user=%s err=%v", ws.UserID(), err)
	common.Fail(c, http.StatusBadGateway, 50201, RouteFailedMessage)
}

func (h *Handler) SelectRoute(c *gin.Context) {
	var req routeKeyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}
	key, err := req.key()
	if err != nil {
		common.Fail(c, http.StatusBadRequest, 10004, "mode must be car, walk or transit")
		return
	}

	ws := h.workspace(c)
	entry, err := ws.Map().SelectRoute(key)
	if err != nil {
		common.Fail(c, http.StatusNotFound, 40007, "route not found")
		return
	}
	common.OK(c, gin.H{"route": entry, "map": ws.Map().Snapshot()})
}

func (h *Handler) RemoveRoute(c *gin.Context) {
	var req routeKeyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}
	key, err := req.key()
	if err != nil {
		common.Fail(c, http.StatusBadRequest, 10004, "mode must be car, walk or transit")
		return
	}

	ws := h.workspace(c)
	if !ws.Map().RemoveRoute(key) {
		common.Fail(c, http.StatusNotFound, 40007, "route not found")
		return
	}
	common.OK(c, gin.H{"map": ws.Map().Snapshot()})
}

// RouteLink builds the external navigation link for a stored route. "by"
// defaults to walk for walking routes and traffic otherwise.
func (h *Handler) RouteLink(c *gin.Context) {
	var req routeKeyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}
	key, err := req.key()
	if err != nil {
		common.Fail(c, http.StatusBadRequest, 10004, "mode must be car, walk or transit")
		return
	}

	ws := h.workspace(c)
	entry, found := ws.Map().Route(key)
	if !found {
		common.Fail(c, http.StatusNotFound, 40007, "route not found")
		return
	}

	by := req.By
	if by == "" {
		by = route.LinkKind(key.Mode)
	}
	link, err := route.DeepLink(h.Cfg.MapLinkHost, by, entry.StartName, entry.Start, entry.EndName, entry.End)
	if err != nil {
		common.Fail(c, http.StatusBadRequest, 10005, "by must be walk or traffic")
		return
	}
	common.OK(c, gin.H{
		"url":      link,
		"distance": route.FormatDistance(entry.Summary.Distance),
		"duration": route.FormatDuration(entry.Summary.Duration),
	})
}
