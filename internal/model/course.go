package model

// CourseCollection 课程集合名
const CourseCollection = "courses"

// Course 课程
type Course struct {
	Document      `bson:",inline"`
	Department    string `bson:"department"    json:"department"`
	Code          string `bson:"code"          json:"code"`
	Name          string `bson:"name"          json:"name"`
	Description   string `bson:"description"   json:"description"`
	CreditHours   int    `bson:"creditHours"   json:"creditHours"`
	Prerequisites string `bson:"prerequisites" json:"prerequisites"`
}
