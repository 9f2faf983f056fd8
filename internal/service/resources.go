package service

import (
	"enrollment-api/internal/model"
	v "enrollment-api/internal/validation"
)

// Resource 单个实体的资源定义
// 通用 Service / Handler 由它参数化，五类实体共用同一套生命周期逻辑
type Resource struct {
	Name        string // URL 段，如 "students"
	Label       string // 错误消息中的实体名，如 "Student"
	Collection  string
	Schema      v.Schema
	UniqueField string // 为空表示无唯一约束
}

// Prepare 归一化并校验入参，通过时返回只含声明字段的 Payload
func (r Resource) Prepare(p v.Payload) (v.Payload, v.Errors) {
	p = v.Normalize(p, r.Schema)
	if errs := v.Validate(p, r.Schema); errs != nil {
		return nil, errs
	}
	return p, nil
}

const (
	timeOfDayPattern = `(0[0-9]|1[0-9]|2[0-3]):[0-5][0-9]`
	// 允许空格、连字符、点号与括号分隔，如 647-123-4567、(647) 123 4567
	phonePattern     = `\+?[0-9(][0-9 ().-]{5,20}[0-9]`
	alnumPattern     = `[A-Za-z0-9]+`
)

var genders = []string{"Male", "Female", "Non-Binary", "Other"}

// personSchema 学生与教师共用的个人信息字段
func personSchema(extra ...v.Field) v.Schema {
	s := v.Schema{
		{Name: "firstName", Rules: []v.Rule{v.Required(), v.IsString()}},
		{Name: "lastName", Rules: []v.Rule{v.Required(), v.IsString()}},
		{Name: "email", Rules: []v.Rule{v.Required(), v.IsString(), v.Email()}, Lower: true},
		{Name: "birthday", Rules: []v.Rule{v.Required(), v.IsString(), v.PastDate()}},
		{Name: "gender", Rules: []v.Rule{v.Required(), v.IsString(), v.OneOf(genders...)}},
		{Name: "address", Rules: []v.Rule{v.Required(), v.IsString()}},
		{Name: "phoneNumber", Rules: []v.Rule{v.Required(), v.IsString(), v.Matches(phonePattern)}},
	}
	return append(s, extra...)
}

var (
	StudentResource = Resource{
		Name:        "students",
		Label:       "Student",
		Collection:  model.StudentCollection,
		Schema:      personSchema(),
		UniqueField: "email",
	}

	TeacherResource = Resource{
		Name:       "teachers",
		Label:      "Teacher",
		Collection: model.TeacherCollection,
		Schema: personSchema(
			v.Field{Name: "subject", Rules: []v.Rule{v.Required(), v.IsString()}},
		),
		UniqueField: "email",
	}

	CourseResource = Resource{
		Name:       "courses",
		Label:      "Course",
		Collection: model.CourseCollection,
		Schema: v.Schema{
			{Name: "department", Rules: []v.Rule{v.Required(), v.IsString()}},
			{Name: "code", Rules: []v.Rule{v.Required(), v.IsString(), v.Matches(alnumPattern)}},
			{Name: "name", Rules: []v.Rule{v.Required(), v.IsString()}},
			{Name: "description", Rules: []v.Rule{v.Required(), v.IsString()}},
			{Name: "creditHours", Rules: []v.Rule{v.Required(), v.IsInteger(), v.Min(0)}},
			{Name: "prerequisites", Rules: []v.Rule{v.Required(), v.IsString()}},
		},
	}

	CourseInstanceResource = Resource{
		Name:       "course-instances",
		Label:      "Course instance",
		Collection: model.CourseInstanceCollection,
		Schema: v.Schema{
			{Name: "courseId", Rules: []v.Rule{v.Required(), v.IsString(), v.Matches(alnumPattern)}},
			{Name: "teacherId", Rules: []v.Rule{v.Required(), v.IsString(), v.Matches(alnumPattern)}},
			{Name: "semester", Rules: []v.Rule{v.Required(), v.IsString()}},
			{Name: "year", Rules: []v.Rule{v.Required(), v.IsInteger(), v.Digits(4)}},
			{Name: "location", Rules: []v.Rule{v.Required(), v.IsString()}},
			{Name: "startTime", Rules: []v.Rule{v.Required(), v.IsString(), v.Matches(timeOfDayPattern)}},
			{Name: "endTime", Rules: []v.Rule{v.Required(), v.IsString(), v.Matches(timeOfDayPattern)}},
			{Name: "schedule", Rules: []v.Rule{v.Required(), v.IsString()}},
			{Name: "maxStudentCount", Rules: []v.Rule{v.Required(), v.IsInteger(), v.Min(1)}},
		},
	}

	EnrollmentResource = Resource{
		Name:       "enrollments",
		Label:      "Enrollment",
		Collection: model.EnrollmentCollection,
		Schema: v.Schema{
			{Name: "courseInstanceId", Rules: []v.Rule{v.Required(), v.IsString(), v.Matches(alnumPattern)}},
			{Name: "studentId", Rules: []v.Rule{v.Required(), v.IsString(), v.Matches(alnumPattern)}},
		},
	}
)
