package handlers

import (
	"leanfeed/internal/middleware"
	"leanfeed/internal/services"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	users *services.UserService
}

func NewAuthHandler(users *services.UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	PolLean  string `json:"polLean"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.Username, req.Email, req.Password, req.PolLean)
	if err != nil {
		RespondError(c, err)
		return
	}

	// 注册成功后自动登录
	if err := h.login(c, user.Username); err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		RespondError(c, err)
		return
	}
	if err := h.login(c, user.Username); err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Me 返回当前登录用户
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.users.FindByUsername(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *AuthHandler) login(c *gin.Context, username string) error {
	session := sessions.Default(c)
	session.Set(middleware.SessionUserKey, username)
	if err := session.Save(); err != nil {
		return err
	}
	logrus.WithField("user", username).Info("User logged in")
	return nil
}
