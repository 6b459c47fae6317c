package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/taskvault/taskvault/internal/errors"
	"github.com/taskvault/taskvault/internal/server"
)

// Handler exposes the /auth endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates the auth handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Register mounts the auth routes on the engine.
func (h *Handler) Register(r gin.IRouter) {
	grp := r.Group("/auth")
	grp.POST("/signup", h.SignUp)
	grp.POST("/signin", h.SignIn)
}

// SignUp handles POST /auth/signup.
func (h *Handler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, apperrors.Validation("invalid request body").WithCause(err))
		return
	}

	if err := h.svc.SignUp(c.Request.Context(), req); err != nil {
		server.RespondWithError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

// SignIn handles POST /auth/signin.
func (h *Handler) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, apperrors.Validation("invalid request body").WithCause(err))
		return
	}

	token, err := h.svc.SignIn(c.Request.Context(), req)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, SignInResponse{AccessToken: token})
}
