package handler

import (
	"go.uber.org/zap"

	"enrollment-api/config"
	"enrollment-api/internal/model"
	"enrollment-api/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth            *AuthHandler
	System          *SystemHandler
	Students        *ResourceHandler[model.Student]
	Teachers        *ResourceHandler[model.Teacher]
	Courses         *ResourceHandler[model.Course]
	CourseInstances *ResourceHandler[model.CourseInstance]
	Enrollments     *ResourceHandler[model.Enrollment]
}

// NewHandler 创建 Handler 聚合
func NewHandler(cfg *config.Config, svc *service.Service, deps map[string]Pinger, logger *zap.Logger) *Handler {
	return &Handler{
		Auth:            NewAuthHandler(svc.Auth, &cfg.Auth),
		System:          NewSystemHandler(deps),
		Students:        NewResourceHandler(svc.Students, logger),
		Teachers:        NewResourceHandler(svc.Teachers, logger),
		Courses:         NewResourceHandler(svc.Courses, logger),
		CourseInstances: NewResourceHandler(svc.CourseInstances, logger),
		Enrollments:     NewResourceHandler(svc.Enrollments, logger),
	}
}
