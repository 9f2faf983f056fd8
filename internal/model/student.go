package model

// StudentCollection 学生集合名
const StudentCollection = "students"

// Student 学生
type Student struct {
	Document    `bson:",inline"`
	FirstName   string `bson:"firstName"   json:"firstName"`
	LastName    string `bson:"lastName"    json:"lastName"`
	Email       string `bson:"email"       json:"email"`
	Birthday    string `bson:"birthday"    json:"birthday"` // YYYY-MM-DD
	Gender      string `bson:"gender"      json:"gender"`
	Address     string `bson:"address"     json:"address"`
	PhoneNumber string `bson:"phoneNumber" json:"phoneNumber"`
}
