package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	sharedauth "docvault-backend/internal/shared/auth"
	"docvault-backend/internal/shared/server/respond"
	"docvault-backend/internal/users"
)

// Handler exposes register and login endpoints issuing HS256 JWTs.
type Handler struct {
	Users *users.Service
}

func NewHandler(usersSvc *users.Service) *Handler {
	return &Handler{Users: usersSvc}
}

// RegisterRoutes attaches auth routes to the router group. These paths are
// exempted from the auth middleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/register", h.register)
	rg.POST("/auth/login", h.login)
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string     `json:"accessToken"`
	TokenType   string     `json:"tokenType"`
	User        users.User `json:"user"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	role := users.RoleUser
	if strings.TrimSpace(req.Role) != "" {
		parsed, ok := users.ParseRole(req.Role)
		if !ok {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid role", nil)
			return
		}
		role = parsed
	}

	user, err := h.Users.Register(c.Request.Context(), req.Username, req.Email, req.Password, role)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrDuplicate):
			respond.Error(c, http.StatusConflict, "conflict", "username already taken", nil)
		default:
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		}
		return
	}

	h.respondWithToken(c, http.StatusCreated, user)
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	user, err := h.Users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "invalid username or password", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "login failed", nil)
		return
	}

	h.respondWithToken(c, http.StatusOK, user)
}

func (h *Handler) respondWithToken(c *gin.Context, status int, user users.User) {
	token, err := sharedauth.SignJWT(sharedauth.Claims{
		Sub:      user.ID,
		Username: user.Username,
		Role:     string(user.Role),
	})
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to issue token", nil)
		return
	}

	respond.JSON(c, status, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	})
}
