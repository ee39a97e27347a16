package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/foodgram/pkg/apperr"
	"github.com/d60-Lab/foodgram/pkg/logger"
)

// Response 统一响应结构
type Response struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

const codeOK = "OK"

// Success 200
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: codeOK, Message: "success", Data: data})
}

// Created 201
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Code: codeOK, Message: "created", Data: data})
}

// NoContent 204
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, Response{Code: code, Message: message})
}

// BadRequest 400
func BadRequest(c *gin.Context, message string) {
	abort(c, http.StatusBadRequest, apperr.KindValidation.String(), message)
}

// Unauthorized 401
func Unauthorized(c *gin.Context, message string) {
	abort(c, http.StatusUnauthorized, apperr.KindUnauthorized.String(), message)
}

// NotFound 404
func NotFound(c *gin.Context, message string) {
	abort(c, http.StatusNotFound, apperr.KindNotFound.String(), message)
}

// TooManyRequests 429
func TooManyRequests(c *gin.Context) {
	abort(c, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests")
}

// InternalError 500，错误细节只写日志
func InternalError(c *gin.Context, err error) {
	logger.Ctx(c.Request.Context()).Error("internal error",
		zap.Error(err),
		zap.String("path", c.FullPath()),
	)
	_ = c.Error(err)
	abort(c, http.StatusInternalServerError, apperr.KindInternal.String(), "internal server error")
}

// Error 按 apperr.Kind 映射状态码
func Error(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.KindInternal {
		InternalError(c, err)
		return
	}
	abort(c, kind.HTTPStatus(), kind.String(), err.Error())
}
