package handler

import (
	"net/http"

	"crowdsight/internal/middleware"
	"crowdsight/internal/model"
	"crowdsight/internal/service"
	"crowdsight/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	service service.AuthService
	logger  *logrus.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(s service.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{service: s, logger: logger}
}

type authPayload struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req model.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, "Invalid request: "+err.Error())
		return
	}

	user, token, err := h.service.Signup(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	utils.RespondOK(c, http.StatusCreated, "User created successfully", authPayload{User: user, Token: token})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, "Invalid request: "+err.Error())
		return
	}

	user, token, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	utils.RespondOK(c, http.StatusOK, "Login successful", authPayload{User: user, Token: token})
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.service.Me(c.Request.Context(), middleware.IdentityFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, "", user)
}

// RegisterAuthRoutes registers auth routes. limiter guards the credential
// endpoints, which ignore any bearer token; authMW resolves the caller for /me.
func (h *AuthHandler) RegisterAuthRoutes(rg *gin.RouterGroup, limiter, authMW gin.HandlerFunc) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/signup", limiter, h.Signup)
		authGroup.POST("/login", limiter, h.Login)
		authGroup.GET("/me", authMW, h.Me)
	}
}
