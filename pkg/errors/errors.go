// Package errors 定义跨层共享的业务错误分类。
// Service 层用 %w 包装，Handler 层用 errors.Is 归类并映射 HTTP 状态码。
package errors

import "errors"

var (
	// ErrInvalidID 路径中的 ID 不是合法的 ObjectID
	ErrInvalidID = errors.New("invalid id")
	// ErrNotFound 目标记录不存在
	ErrNotFound = errors.New("record not found")
	// ErrConflict 唯一字段重复
	ErrConflict = errors.New("record already exists")
	// ErrStore 底层存储驱动失败
	ErrStore = errors.New("store failure")
	// ErrUnauthenticated 写操作缺少有效会话
	ErrUnauthenticated = errors.New("unauthenticated")
)
