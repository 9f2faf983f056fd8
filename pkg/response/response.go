package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`  // 内部错误详情
	Fields  interface{} `json:"fields,omitempty"` // 字段校验失败列表
}

// ── 成功响应 ──

// OK 200 成功响应
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created 201 创建成功
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// ── 错误响应 ──

// Error 通用错误响应
func Error(c *gin.Context, httpStatus int, code int, message string) {
	c.JSON(httpStatus, Response{
		Code:    code,
		Message: message,
	})
}

// ErrorWithDetails 带详情的错误响应
func ErrorWithDetails(c *gin.Context, httpStatus int, code int, message, detail string) {
	c.JSON(httpStatus, Response{
		Code:    code,
		Message: message,
		Error:   detail,
	})
}

// ValidationFailed 400 字段校验失败，附带失败字段列表
func ValidationFailed(c *gin.Context, fields interface{}) {
	c.JSON(http.StatusBadRequest, Response{
		Code:    10001,
		Message: "Validation failed",
		Fields:  fields,
	})
}

// ── 常见快捷方式 ──

// BadRequest 400
func BadRequest(c *gin.Context, code int, message string) {
	Error(c, http.StatusBadRequest, code, message)
}

// Unauthorized 401
func Unauthorized(c *gin.Context, code int, message string) {
	Error(c, http.StatusUnauthorized, code, message)
}

// NotFound 404
func NotFound(c *gin.Context, code int, message string) {
	Error(c, http.StatusNotFound, code, message)
}

// InternalError 500，detail 为空时不输出 error 字段
func InternalError(c *gin.Context, detail string) {
	ErrorWithDetails(c, http.StatusInternalServerError, 50000, "Error occurred", detail)
}
