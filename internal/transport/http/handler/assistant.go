package handler

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	appsvc "contractiq/internal/app"
	"contractiq/internal/config"
	"contractiq/internal/session"
	"contractiq/internal/transport/http/response"
)

type AssistantHandler struct {
	store     *session.Store
	assistant *appsvc.AssistantService
	ragCfg    config.RAGConfig
}

type AskRequest struct {
	Question string `json:"question" binding:"required"`
}

func NewAssistantHandler(store *session.Store, assistant *appsvc.AssistantService, ragCfg config.RAGConfig) *AssistantHandler {
	return &AssistantHandler{store: store, assistant: assistant, ragCfg: ragCfg}
}

// UploadDocuments accepts a multipart form with one or more "files" entries
// (PDF) and runs the ingest pipeline, replacing the session's document set.
func (h *AssistantHandler) UploadDocuments(c *gin.Context) {
	sess, ok := h.lookupSession(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid multipart form")
		return
	}
	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing files")
		return
	}
	if h.ragCfg.MaxFiles > 0 && len(fileHeaders) > h.ragCfg.MaxFiles {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest,
			fmt.Sprintf("too many files (max %d)", h.ragCfg.MaxFiles))
		return
	}

	var uploads []appsvc.UploadedFile
	for _, fh := range fileHeaders {
		if fh.Size > h.ragCfg.MaxUploadBytes {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest,
				fmt.Sprintf("%s is too large (max %d bytes)", fh.Filename, h.ragCfg.MaxUploadBytes))
			return
		}
		if ext := strings.ToLower(filepath.Ext(fh.Filename)); ext != ".pdf" {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest,
				fmt.Sprintf("%s: only PDF files are allowed", fh.Filename))
			return
		}
		f, err := fh.Open()
		if err != nil {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "failed to read upload")
			return
		}
		defer f.Close()
		uploads = append(uploads, appsvc.UploadedFile{Name: fh.Filename, Data: f})
	}

	result, err := h.assistant.IngestDocuments(c.Request.Context(), sess, uploads)
	if err != nil {
		switch {
		case errors.Is(err, appsvc.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, appsvc.ErrNoExtractableText):
			response.Error(c, http.StatusUnprocessableEntity, response.CodeNoExtractableText,
				"no text could be extracted from the uploaded documents; question answering is disabled")
		default:
			response.Error(c, http.StatusBadGateway, response.CodeIndexUnavailable,
				"index construction failed; question answering is disabled, please re-upload")
		}
		return
	}

	response.OK(c, result)
}

func (h *AssistantHandler) Ask(c *gin.Context) {
	sess, ok := h.lookupSession(c)
	if !ok {
		return
	}

	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	result, err := h.assistant.Ask(c.Request.Context(), sess, req.Question)
	if err != nil {
		switch {
		case errors.Is(err, appsvc.ErrEmptyQuestion):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, appsvc.ErrIndexUnavailable):
			response.Error(c, http.StatusConflict, response.CodeIndexUnavailable, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "ask failed")
		}
		return
	}

	response.OK(c, result)
}

func (h *AssistantHandler) Transcript(c *gin.Context) {
	sess, ok := h.lookupSession(c)
	if !ok {
		return
	}
	response.OK(c, h.assistant.Transcript(sess))
}

func (h *AssistantHandler) lookupSession(c *gin.Context) (*session.Session, bool) {
	sess, err := h.store.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			response.Error(c, http.StatusNotFound, response.CodeSessionNotFound, err.Error())
		} else {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "get session failed")
		}
		return nil, false
	}
	return sess, true
}
