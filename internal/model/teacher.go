package model

// TeacherCollection 教师集合名
const TeacherCollection = "teachers"

// Teacher 教师，个人信息字段与 Student 相同，另有授课科目
type Teacher struct {
	Document    `bson:",inline"`
	FirstName   string `bson:"firstName"   json:"firstName"`
	LastName    string `bson:"lastName"    json:"lastName"`
	Email       string `bson:"email"       json:"email"`
	Birthday    string `bson:"birthday"    json:"birthday"`
	Gender      string `bson:"gender"      json:"gender"`
	Address     string `bson:"address"     json:"address"`
	PhoneNumber string `bson:"phoneNumber" json:"phoneNumber"`
	Subject     string `bson:"subject"     json:"subject"`
}
