package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/skku-swe/someplace/internal/chat"
	"github.com/skku-swe/someplace/internal/common"
	"github.com/skku-swe/someplace/internal/recommend"
)

func (h *Handler) ListChatSessions(c *gin.Context) {
	ws := h.workspace(c)
	common.OK(c, gin.H{
		"sessions":           ws.Chat().Sessions(),
		"current_session_id": ws.Chat().ActiveID(),
	})
}

func (h *Handler) NewChatSession(c *gin.Context) {
	ws := h.workspace(c)
	ws.NewChat()
	common.OK(c, gin.H{"messages": ws.Chat().CurrentMessages()})
}

// SelectChatSession ignores unknown ids and reports whether anything changed.
func (h *Handler) SelectChatSession(c *gin.Context) {
	ws := h.workspace(c)
	selected := ws.Chat().SelectSession(c.Param("id"))
	common.OK(c, gin.H{
		"selected":           selected,
		"current_session_id": ws.Chat().ActiveID(),
		"messages":           ws.Chat().CurrentMessages(),
	})
}

func (h *Handler) DeleteChatSession(c *gin.Context) {
	ws := h.workspace(c)
	if err := ws.DeleteSession(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, chat.ErrSessionNotFound) {
			common.Fail(c, http.StatusNotFound, 40004, "session not found")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 50003, "failed to save chat history")
		return
	}
	common.OK(c, gin.H{"current_session_id": ws.Chat().ActiveID()})
}

func (h *Handler) ListChatMessages(c *gin.Context) {
	ws := h.workspace(c)
	common.OK(c, gin.H{
		"current_session_id": ws.Chat().ActiveID(),
		"messages":           ws.Chat().CurrentMessages(),
	})
}

type searchReq struct {
	Query string `json:"query"`
}

// Search answers a blank query with 204 and issues no request.
func (h *Handler) Search(c *gin.Context) {
	var req searchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	ws := h.workspace(c)
	reply, err := ws.Search(c.Request.Context(), req.Query)
	if err != nil {
		if errors.Is(err, recommend.ErrEmptyQuery) {
			c.Status(http.StatusNoContent)
			return
		}
		common.Fail(c, http.StatusInternalServerError, 50001, "failed to start chat session")
		return
	}

	common.OK(c, gin.H{
		"current_session_id": ws.Chat().ActiveID(),
		"reply":              reply,
	})
}

func (h *Handler) ListActivity(c *gin.Context) {
	if h.Activity == nil {
		common.Fail(c, http.StatusNotFound, 40400, "activity log is not enabled")
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	logs, err := h.Activity.ListRecent(c.Request.Context(), userIDFromContext(c), limit)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50004, "failed to list activity")
		return
	}
	common.OK(c, gin.H{"activity": logs})
}
