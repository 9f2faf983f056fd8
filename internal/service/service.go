package service

import (
	"go.uber.org/zap"

	"enrollment-api/internal/model"
	"enrollment-api/internal/oauth"
	"enrollment-api/internal/repository"
	"enrollment-api/pkg/jwt"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth            AuthService
	Students        ResourceService[model.Student]
	Teachers        ResourceService[model.Teacher]
	Courses         ResourceService[model.Course]
	CourseInstances ResourceService[model.CourseInstance]
	Enrollments     ResourceService[model.Enrollment]
}

// NewService 创建 Service 聚合
func NewService(
	repo *repository.Repository,
	provider oauth.Provider,
	jwtMgr *jwt.Manager,
	sessions SessionStore,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:            NewAuthService(provider, jwtMgr, sessions, logger),
		Students:        NewResourceService(StudentResource, repo.Students, logger),
		Teachers:        NewResourceService(TeacherResource, repo.Teachers, logger),
		Courses:         NewResourceService(CourseResource, repo.Courses, logger),
		CourseInstances: NewResourceService(CourseInstanceResource, repo.CourseInstances, logger),
		Enrollments:     NewResourceService(EnrollmentResource, repo.Enrollments, logger),
	}
}
