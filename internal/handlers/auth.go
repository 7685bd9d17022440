package handlers

import (
	"errors"
	"net/http"

	"inputdash/internal/auth"
	"inputdash/internal/dto"
	"inputdash/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler handles register, login, logout and me.
type AuthHandler struct {
	tokens  auth.TokenStore
	userSvc *service.UserService
	log     *zap.Logger
}

// NewAuthHandler returns a new AuthHandler.
func NewAuthHandler(tokens auth.TokenStore, userSvc *service.UserService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{tokens: tokens, userSvc: userSvc, log: log}
}

// Register godoc
// @Summary      Register
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "Credentials"
// @Success      200   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /users/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}
	user, err := h.userSvc.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			abort(c, http.StatusBadRequest, "Email already registered")
		case errors.Is(err, service.ErrInvalidCredentials):
			abort(c, http.StatusBadRequest, "email and password required")
		default:
			h.log.Error("register failed", zap.Error(err))
			abort(c, http.StatusInternalServerError, "registration failed")
		}
		return
	}
	c.JSON(http.StatusOK, dto.UserResponse{ID: user.ID, Email: user.Email})
}

// Login godoc
// @Summary      Login
// @Description  OAuth2 password form: username carries the email.
// @Tags         users
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        username  formData  string  true  "Email"
// @Param        password  formData  string  true  "Password"
// @Success      200   {object}  dto.TokenResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /users/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}
	user, err := h.userSvc.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			abort(c, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		h.log.Error("login failed", zap.Error(err))
		abort(c, http.StatusInternalServerError, "login failed")
		return
	}
	token, err := h.tokens.Create(c.Request.Context(), user.ID)
	if err != nil {
		h.log.Error("token create failed", zap.Error(err))
		abort(c, http.StatusInternalServerError, "failed to create token")
		return
	}
	c.JSON(http.StatusOK, dto.TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// Logout godoc
// @Summary      Logout
// @Tags         users
// @Security     BearerAuth
// @Success      204
// @Router       /users/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if token := auth.TokenFromContext(c); token != "" {
		if err := h.tokens.Delete(c.Request.Context(), token); err != nil {
			h.log.Warn("token revoke failed", zap.Error(err))
		}
	}
	c.Status(http.StatusNoContent)
}

// Me godoc
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.UserResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /users/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.userSvc.Get(c.Request.Context(), auth.UserIDFromContext(c))
	if err != nil {
		abort(c, http.StatusUnauthorized, "Could not validate credentials")
		return
	}
	c.JSON(http.StatusOK, dto.UserResponse{ID: user.ID, Email: user.Email})
}

func abort(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Detail: detail})
}
