package middleware

import (
	"net/http"

	"github.com/SeakMengs/MailBlast/internal/util"
	"github.com/gin-gonic/gin"
)

func (m Middleware) RateLimiterMiddleware(ctx *gin.Context) {
	key := ctx.ClientIP()

	if !m.rateLimiter.Allow(key) {
		retryAfter := m.rateLimiter.RetryAfter(key)
		ctx.Header("Retry-After", retryAfter.String())
		util.ResponseFailed(ctx, http.StatusTooManyRequests, "Too many requests", nil, nil)
		return
	}

	ctx.Next()
}
