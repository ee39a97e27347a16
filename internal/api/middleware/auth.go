package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/foodgram/internal/model"
	"github.com/d60-Lab/foodgram/pkg/auth"
	"github.com/d60-Lab/foodgram/pkg/response"
)

const (
	ViewerKey     = "viewer_id"
	AuthHeaderKey = "Authorization"
)

// 同时接受 "Bearer <jwt>" 与 "Token <jwt>"
var authSchemes = []string{"Bearer ", "Token "}

// Auth 解析访问者身份。没有 Authorization 头时按匿名处理；头存在但无效时返回 401
func Auth(tokens *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(AuthHeaderKey)
		if header == "" {
			c.Next()
			return
		}
		token := ""
		for _, scheme := range authSchemes {
			if strings.HasPrefix(header, scheme) {
				token = strings.TrimSpace(strings.TrimPrefix(header, scheme))
				break
			}
		}
		if token == "" {
			response.Unauthorized(c, "invalid authorization format")
			return
		}
		userID, err := tokens.Parse(token)
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				msg = "token expired"
			}
			response.Unauthorized(c, msg)
			return
		}
		c.Set(ViewerKey, userID)
		c.Next()
	}
}

// RequireViewer 匿名访问者返回 401
func RequireViewer() gin.HandlerFunc {
	return func(c *gin.Context) {
		if Viewer(c).IsAnonymous() {
			response.Unauthorized(c, "authentication required")
			return
		}
		c.Next()
	}
}

// Viewer 当前访问者；未认证时为 model.Anonymous
func Viewer(c *gin.Context) model.Viewer {
	if id, ok := c.Get(ViewerKey); ok {
		return model.ViewerOf(id.(int64))
	}
	return model.Anonymous
}
