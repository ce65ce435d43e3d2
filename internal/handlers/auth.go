package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jobportal/recruitment/internal/middleware"
	"github.com/jobportal/recruitment/internal/services"
	"github.com/jobportal/recruitment/pkg/errors"
	"github.com/jobportal/recruitment/pkg/response"
)

// AuthHandler exchanges credentials for admin bearer tokens.
type AuthHandler struct {
	svc *services.AuthService
}

func NewAuthHandler(svc *services.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type tokenRequest struct {
	Email    string `json:"email" form:"username"`
	Password string `json:"password" form:"password"`
}

// POST /api/auth/token
//
// Accepts a JSON body or an OAuth2 password-grant form where username carries
// the email address.
func (h *AuthHandler) Token(c *gin.Context) {
	var req tokenRequest
	var err error
	if strings.HasPrefix(c.ContentType(), "application/x-www-form-urlencoded") || strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		err = c.ShouldBind(&req)
	} else {
		err = c.ShouldBindJSON(&req)
	}
	if err != nil {
		response.Error(c, errors.NewBadRequest("invalid credentials payload"))
		return
	}

	result, err := h.svc.Login(requestContext(c), req.Email, req.Password)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	user, err := h.svc.CurrentUser(requestContext(c), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}
