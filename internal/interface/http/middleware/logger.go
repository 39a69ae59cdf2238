package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xiebiao/library/pkg/logger"
)

// RequestIDKey 请求ID在gin.Context中的键
const RequestIDKey = "request_id"

// RequestID 请求ID中间件
// 优先使用客户端传入的X-Request-ID(方便跨服务追踪),没有则生成UUID
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(RequestIDKey, requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// Logger 访问日志中间件
// 每个请求记录一条结构化日志:方法、路径、状态码、耗时、请求ID
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		requestID, _ := c.Get(RequestIDKey)

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
			zap.Any("request_id", requestID),
		}

		// gin内部错误(绑定失败等)附加到日志
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case c.Writer.Status() >= 500:
			logger.L().Error("请求处理", fields...)
		case c.Writer.Status() >= 400:
			logger.L().Warn("请求处理", fields...)
		default:
			logger.L().Info("请求处理", fields...)
		}
	}
}

// Recovery panic恢复中间件
// 记录堆栈后返回500,避免单个请求崩溃拖垮整个进程
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		requestID, _ := c.Get(RequestIDKey)
		logger.L().Error("请求panic",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.Any("request_id", requestID),
		)
		c.AbortWithStatusJSON(500, gin.H{
			"code":    50000,
			"message": "服务器内部错误",
		})
	})
}
