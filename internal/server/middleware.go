package server

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hrplane/hrplane/internal/tenantctx"
	"go.uber.org/zap"
)

// HeaderCompany carries the tenant on every scoped request.
const HeaderCompany = "X-Company-ID"

// CompanyContext resolves the tenant from the request header and injects it
// into the request context. Scoped routes refuse requests without it.
func CompanyContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(HeaderCompany))
		if raw == "" {
			AbortWithError(c, newValidationError("company_id", "invalid_company", "missing X-Company-ID header"))
			return
		}

		companyID, err := snowflake.ParseString(raw)
		if err != nil || companyID == 0 {
			AbortWithError(c, newValidationError("company_id", "invalid_company", "invalid X-Company-ID header"))
			return
		}

		ctx := tenantctx.WithCompanyID(c.Request.Context(), companyID.Int64())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequestLogger logs each request with correlation identifiers and safe fields.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	requestLog := log.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		requestID := ensureRequestID(c)

		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if strings.TrimSpace(route) == "" {
			route = "unknown"
		}
		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		}

		if lastErr := c.Errors.Last(); lastErr != nil {
			fields = append(fields, zap.Error(lastErr.Err))
		}

		switch {
		case status >= 500:
			requestLog.Error("request", fields...)
		case status >= 400:
			requestLog.Warn("request", fields...)
		default:
			requestLog.Info("request", fields...)
		}
	}
}

func ensureRequestID(c *gin.Context) string {
	requestID := strings.TrimSpace(c.GetHeader("X-Request-Id"))
	if requestID == "" {
		requestID = strings.TrimSpace(c.GetHeader("X-Request-ID"))
	}
	if requestID == "" {
		requestID = uuid.NewString()
	}

	c.Set("request_id", requestID)
	c.Header("X-Request-Id", requestID)
	return requestID
}
