package dto

// ── 资源模块响应 ──

// IDResponse 创建成功后返回的新记录 ID
type IDResponse struct {
	ID string `json:"id"`
}

// ── 文档与健康检查 ──

// RouteDoc 单条路由说明（GET /api-docs）
type RouteDoc struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Auth        bool   `json:"auth"`
	Description string `json:"description"`
}

// APIDoc 接口文档
type APIDoc struct {
	Title   string              `json:"title"`
	Version string              `json:"version"`
	Routes  []RouteDoc          `json:"routes"`
	Schemas map[string][]string `json:"schemas"` // 资源名 -> 可写字段
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
