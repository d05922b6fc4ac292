package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	infralog "github.com/zkidchain/v1/pkg/interfaces/infrastructure/log"
	"go.uber.org/zap"
)

// Logger 访问日志中间件
//
// 只记录请求元数据（方法、路径、状态、延迟），不记录请求体：
// 证明请求体包含私有见证明文。
type Logger struct {
	logger infralog.Logger
}

// NewLogger 创建日志中间件
func NewLogger(logger infralog.Logger) *Logger {
	return &Logger{logger: logger}
}

// Middleware 返回Gin中间件
func (m *Logger) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		requestID := GetRequestID(c)

		zl := m.logger.GetZapLogger()
		if zl == nil {
			return
		}

		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case c.Writer.Status() >= 500:
			zl.Error("HTTP request", fields...)
		case c.Writer.Status() >= 400:
			zl.Warn("HTTP request", fields...)
		default:
			zl.Info("HTTP request", fields...)
		}
	}
}
