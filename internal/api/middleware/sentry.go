package middleware

import (
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
)

// Sentry 上报 panic 与 5xx 错误；repanic 交给 Recovery 统一处理
func Sentry() gin.HandlerFunc {
	report := sentrygin.New(sentrygin.Options{Repanic: true, Timeout: 2 * time.Second})
	return func(c *gin.Context) {
		report(c)
		if c.Writer.Status() < 500 || len(c.Errors) == 0 {
			return
		}
		if hub := sentrygin.GetHubFromContext(c); hub != nil {
			hub.WithScope(func(scope *sentry.Scope) {
				scope.SetTag("route", c.FullPath())
				if id, ok := c.Get(RequestIDKey); ok {
					scope.SetTag("request_id", id.(string))
				}
				hub.CaptureException(c.Errors.Last().Err)
			})
		}
	}
}
