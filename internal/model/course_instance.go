package model

// CourseInstanceCollection 开课集合名
const CourseInstanceCollection = "course-instances"

// CourseInstance 某学期的一次开课
// CourseID / TeacherID 为外键引用，不校验被引用记录是否存在
type CourseInstance struct {
	Document        `bson:",inline"`
	CourseID        string `bson:"courseId"        json:"courseId"`
	TeacherID       string `bson:"teacherId"       json:"teacherId"`
	Semester        string `bson:"semester"        json:"semester"`
	Year            int    `bson:"year"            json:"year"`
	Location        string `bson:"location"        json:"location"`
	StartTime       string `bson:"startTime"       json:"startTime"` // HH:MM
	EndTime         string `bson:"endTime"         json:"endTime"`   // HH:MM
	Schedule        string `bson:"schedule"        json:"schedule"`
	MaxStudentCount int    `bson:"maxStudentCount" json:"maxStudentCount"`
}
