package handlers

import (
	"context"
	"errors"
	"leanfeed/internal/middleware"
	"leanfeed/internal/services"
	"leanfeed/internal/utils"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RespondError 把领域错误映射为 HTTP 状态码和 JSON 错误体
func RespondError(c *gin.Context, err error) {
	var e *services.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Timeout", "message": "request timed out"})
		return
	case errors.Is(err, services.ErrInvalidCredential):
		c.JSON(http.StatusUnauthorized, errorBody(services.ErrInvalidCredential, err))
		return
	case errors.As(err, &e):
		c.JSON(statusFor(e.Kind), errorBody(e, err))
		return
	}

	_ = c.Error(err)
	logrus.WithFields(logrus.Fields{
		"request_id": c.GetString(middleware.RequestIDKey),
		"path":       c.FullPath(),
	}).WithError(err).Error("Internal error")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal", "message": "internal server error"})
}

func statusFor(kind services.ErrorKind) int {
	switch kind {
	case services.KindValidation:
		return http.StatusBadRequest
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func errorBody(e *services.Error, err error) gin.H {
	return gin.H{"error": e.Code, "message": err.Error()}
}

// badRequest 请求体或路径参数格式错误
func badRequest(c *gin.Context, message string) {
	RespondError(c, services.ErrInvalidField.WithMessage(message))
}

// paramID 解析路径里的正整数 ID
func paramID(c *gin.Context, name string) (uint, bool) {
	id, ok := utils.StringToID(c.Param(name))
	if !ok {
		badRequest(c, "invalid "+name)
	}
	return id, ok
}

// pageQuery 读取 page/limit，缺省或非法时为 0，由服务层归一化
func pageQuery(c *gin.Context) (int, int) {
	return utils.StringToInt(c.Query("page")), utils.StringToInt(c.Query("limit"))
}
