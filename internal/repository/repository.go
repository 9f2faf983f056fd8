package repository

import (
	"go.mongodb.org/mongo-driver/mongo"

	"enrollment-api/internal/model"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Students        Collection[model.Student]
	Teachers        Collection[model.Teacher]
	Courses         Collection[model.Course]
	CourseInstances Collection[model.CourseInstance]
	Enrollments     Collection[model.Enrollment]
}

// NewRepository 创建 Repository 聚合，五个集合共享同一个数据库句柄
func NewRepository(db *mongo.Database) *Repository {
	return &Repository{
		Students:        NewCollection[model.Student](db, model.StudentCollection),
		Teachers:        NewCollection[model.Teacher](db, model.TeacherCollection),
		Courses:         NewCollection[model.Course](db, model.CourseCollection),
		CourseInstances: NewCollection[model.CourseInstance](db, model.CourseInstanceCollection),
		Enrollments:     NewCollection[model.Enrollment](db, model.EnrollmentCollection),
	}
}
