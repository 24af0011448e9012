package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"resource-board/internal/app"
	"resource-board/internal/transport/http/middleware"
	"resource-board/internal/transport/http/response"
)

type AuthHandler struct {
	authService *app.AuthService
	log         logrus.FieldLogger
}

// Field rules live in internal/validation so the same messages reach every
// caller; binding only checks the JSON shape.
type RegisterRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Role         string `json:"role"`
	Organization string `json:"organization"`
	Phone        string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func NewAuthHandler(authService *app.AuthService, log logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{authService: authService, log: log}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c)
		return
	}

	result, err := h.authService.Register(c.Request.Context(), app.RegisterInput{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		Role:         req.Role,
		Organization: req.Organization,
		Phone:        req.Phone,
	})
	if err != nil {
		writeError(c, h.log, err, "register failed")
		return
	}

	response.OK(c, http.StatusCreated, "User registered successfully", gin.H{
		"token": result.Token,
		"user":  toUserView(result.User),
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), app.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(c, h.log, err, "login failed")
		return
	}

	response.OK(c, http.StatusOK, "Login successful", gin.H{
		"token": result.Token,
		"user":  toUserView(result.User),
	})
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	user, err := h.authService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		writeError(c, h.log, err, "fetch current user failed")
		return
	}

	response.OK(c, http.StatusOK, "", gin.H{"user": toUserView(user)})
}
