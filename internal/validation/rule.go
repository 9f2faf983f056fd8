package validation

import "regexp"

// Kind 规则类型
type Kind int

const (
	KindRequired Kind = iota
	KindString
	KindInteger
	KindEmail
	KindDigits
	KindPattern
	KindOneOf
	KindMin
	KindPastDate
)

// Rule 单条字段规则
// 通过下方构造函数创建，不在运行时解析 "required|integer" 之类的规则字符串
type Rule struct {
	Kind    Kind
	N       int64
	Pattern *regexp.Regexp
	Values  []string
}

// Required 字段必须存在且非空
func Required() Rule { return Rule{Kind: KindRequired} }

// IsString 运行时类型必须为字符串
func IsString() Rule { return Rule{Kind: KindString} }

// IsInteger 必须为不含小数部分的 JSON 数字，不做字符串转换
func IsInteger() Rule { return Rule{Kind: KindInteger} }

// Email 邮箱格式
func Email() Rule { return Rule{Kind: KindEmail} }

// Digits 字符串化后恰好 n 位数字
func Digits(n int) Rule { return Rule{Kind: KindDigits, N: int64(n)} }

// Matches 正则全匹配，pattern 会自动加上 ^...$ 锚点
func Matches(pattern string) Rule {
	return Rule{Kind: KindPattern, Pattern: regexp.MustCompile("^(?:" + pattern + ")$")}
}

// OneOf 枚举取值
func OneOf(values ...string) Rule { return Rule{Kind: KindOneOf, Values: values} }

// Min 整数下限（含）
func Min(n int64) Rule { return Rule{Kind: KindMin, N: n} }

// PastDate YYYY-MM-DD 且不晚于今天
func PastDate() Rule { return Rule{Kind: KindPastDate} }

// Field 字段及其规则，按声明顺序求值
type Field struct {
	Name  string
	Rules []Rule
	// Lower 归一化时转小写（邮箱）
	Lower bool
}

func (f Field) required() bool { return f.has(KindRequired) }

func (f Field) has(k Kind) bool {
	for _, r := range f.Rules {
		if r.Kind == k {
			return true
		}
	}
	return false
}

// Schema 有序字段列表
type Schema []Field

// Names 声明的字段名
func (s Schema) Names() []string {
	names := make([]string, 0, len(s))
	for _, f := range s {
		names = append(names, f.Name)
	}
	return names
}
