package utils

import (
	"github.com/gin-gonic/gin"
)

// 错误响应统一为 {"error": message}，状态码即 HTTP 状态码，
// 不向客户端暴露额外的错误码

// Error 返回错误响应
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": message})
}

// BadRequest 返回 400 错误
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "请求参数无效"
	}
	Error(c, 400, message)
}

// NotFound 返回 404 错误
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "资源不存在"
	}
	Error(c, 404, message)
}

// Conflict 返回 409 错误
func Conflict(c *gin.Context, message string) {
	if message == "" {
		message = "资源冲突"
	}
	Error(c, 409, message)
}

// InternalServerError 返回 500 错误
func InternalServerError(c *gin.Context, message string) {
	if message == "" {
		message = "服务器内部错误"
	}
	Error(c, 500, message)
}
