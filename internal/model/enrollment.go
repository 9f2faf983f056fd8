package model

// EnrollmentCollection 选课集合名
const EnrollmentCollection = "enrollments"

// Enrollment 学生与开课的关联，不强制唯一
type Enrollment struct {
	Document         `bson:",inline"`
	CourseInstanceID string `bson:"courseInstanceId" json:"courseInstanceId"`
	StudentID        string `bson:"studentId"        json:"studentId"`
}
