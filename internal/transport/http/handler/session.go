package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"contractiq/internal/session"
	"contractiq/internal/transport/http/response"
)

type SessionHandler struct {
	store *session.Store
}

type CreateSessionRequest struct {
	Title string `json:"title" binding:"max=128"`
}

type SessionSummary struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	CreatedAt     string `json:"created_at"`
	DocumentCount int    `json:"document_count"`
	IndexReady    bool   `json:"index_ready"`
	TurnCount     int    `json:"turn_count"`
}

func NewSessionHandler(store *session.Store) *SessionHandler {
	return &SessionHandler{store: store}
}

func (h *SessionHandler) Create(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	sess := h.store.Create(req.Title)
	response.OK(c, summarize(sess))
}

func (h *SessionHandler) Get(c *gin.Context) {
	sess, err := h.store.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			response.Error(c, http.StatusNotFound, response.CodeSessionNotFound, err.Error())
		} else {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "get session failed")
		}
		return
	}
	response.OK(c, summarize(sess))
}

func (h *SessionHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.store.Delete(id); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			response.Error(c, http.StatusNotFound, response.CodeSessionNotFound, err.Error())
		} else {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "delete session failed")
		}
		return
	}
	response.OK(c, gin.H{"deleted_session_id": id})
}

func summarize(sess *session.Session) SessionSummary {
	sess.Lock()
	defer sess.Unlock()
	return SessionSummary{
		ID:            sess.ID,
		Title:         sess.Title,
		CreatedAt:     sess.CreatedAt.Format(time.RFC3339),
		DocumentCount: len(sess.Documents),
		IndexReady:    sess.Index != nil,
		TurnCount:     len(sess.Transcript),
	}
}
