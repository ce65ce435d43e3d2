package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	iauth "github.com/jobportal/recruitment/internal/auth"
	appErrors "github.com/jobportal/recruitment/pkg/errors"
	"github.com/jobportal/recruitment/pkg/response"
)

// SessionHandler exposes the cache-resident session store.
type SessionHandler struct {
	store *iauth.SessionStore
}

func NewSessionHandler(store *iauth.SessionStore) *SessionHandler {
	return &SessionHandler{store: store}
}

type createSessionRequest struct {
	UserID   string         `json:"user_id" validate:"required"`
	UserData map[string]any `json:"user_data"`
}

// POST /api/sessions
func (h *SessionHandler) Create(c *gin.Context) {
	var body createSessionRequest
	if !bindAndValidate(c, &body) {
		return
	}

	id, err := h.store.Create(requestContext(c), body.UserID, body.UserData)
	switch {
	case errors.Is(err, iauth.ErrInvalidUserID):
		response.Error(c, appErrors.NewValidation("user_id", "is required", nil))
		return
	case errors.Is(err, iauth.ErrSessionNotStored):
		response.Error(c, appErrors.ErrServiceUnavailable.WithMessage("Session store unavailable"))
		return
	case err != nil:
		handleServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"session_id": id})
}

// GET /api/sessions/:id
func (h *SessionHandler) Get(c *gin.Context) {
	session, ok := h.store.Get(requestContext(c), c.Param("id"))
	if !ok {
		response.Error(c, appErrors.NewNotFound("Session"))
		return
	}
	response.Success(c, http.StatusOK, session)
}

// DELETE /api/sessions/:id
func (h *SessionHandler) Delete(c *gin.Context) {
	if !h.store.Delete(requestContext(c), c.Param("id")) {
		response.Error(c, appErrors.NewNotFound("Session"))
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// GET /api/sessions/user/:userID
//
// The list is the raw index and may name sessions that already expired.
func (h *SessionHandler) ListForUser(c *gin.Context) {
	userID := c.Param("userID")
	response.Success(c, http.StatusOK, gin.H{
		"user_id":  userID,
		"sessions": h.store.ListForUser(requestContext(c), userID),
	})
}

// DELETE /api/sessions/user/:userID
func (h *SessionHandler) DeleteAllForUser(c *gin.Context) {
	userID := c.Param("userID")
	h.store.DeleteAllForUser(requestContext(c), userID)
	response.Success(c, http.StatusOK, gin.H{"user_id": userID, "deleted": true})
}
