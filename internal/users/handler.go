package users

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"intellidocs-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches auth routes to the router group. These routes are
// unauthenticated.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/register", h.register)
	rg.POST("/auth/login", h.login)
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	user, err := h.Svc.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailTaken):
			respond.Error(c, http.StatusBadRequest, "email_taken", "email is already registered", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal", "failed to register user", nil)
		}
		return
	}

	respond.JSON(c, http.StatusCreated, toResponse(user))
}

func (h *Handler) login(c *gin.Context) {
	// OAuth2 password-style form body: username carries the email.
	email := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")
	if email == "" || password == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "username and password are required", nil)
		return
	}

	token, err := h.Svc.Login(c.Request.Context(), email, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			c.Header("WWW-Authenticate", "Bearer")
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "incorrect email or password", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to log in", nil)
		return
	}

	respond.JSON(c, http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}
