// Package validation 实现入参的声明式字段校验。
//
// 每个字段独立求值并汇总全部失败字段；单个字段遇到第一条不满足的规则即停止。
// 校验是纯函数，不访问存储。
package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// 失败原因，供客户端按字段做机器判断
const (
	ReasonMissing      = "missing"
	ReasonNotString    = "not_string"
	ReasonNotInteger   = "not_integer"
	ReasonInvalidEmail = "invalid_email"
	ReasonDigits       = "digits"
	ReasonPattern      = "pattern"
	ReasonNotAllowed   = "not_allowed"
	ReasonTooSmall     = "too_small"
	ReasonInvalidDate  = "invalid_date"
	ReasonFutureDate   = "future_date"
)

const dateLayout = "2006-01-02"

// 只用于 email 规则；validator 实例并发安全
var fieldValidator = validator.New()

// now 测试可替换
var now = time.Now

// Payload 解码后的 JSON 对象
type Payload map[string]interface{}

// FieldError 单个字段的失败原因
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Errors 校验失败列表，按 Schema 声明顺序排列
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Field+": "+fe.Reason)
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Has 是否包含指定字段的失败
func (e Errors) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Validate 按 Schema 校验 payload，全部通过返回 nil
func Validate(p Payload, schema Schema) Errors {
	var errs Errors
	for _, f := range schema {
		if reason, ok := checkField(p, f); !ok {
			errs = append(errs, FieldError{Field: f.Name, Reason: reason})
		}
	}
	return errs
}

func checkField(p Payload, f Field) (string, bool) {
	v, present := p[f.Name]
	if !present || isEmpty(v) {
		if f.required() {
			return ReasonMissing, false
		}
		// 非必填且缺省的字段跳过其余规则
		return "", true
	}

	for _, r := range f.Rules {
		if reason, ok := check(r, v); !ok {
			return reason, false
		}
	}
	return "", true
}

func check(r Rule, v interface{}) (string, bool) {
	switch r.Kind {
	case KindRequired:
		// 已在 checkField 中处理
	case KindString:
		if _, ok := v.(string); !ok {
			return ReasonNotString, false
		}
	case KindInteger:
		if _, ok := asInteger(v); !ok {
			return ReasonNotInteger, false
		}
	case KindEmail:
		s, ok := v.(string)
		if !ok || fieldValidator.Var(s, "required,email") != nil {
			return ReasonInvalidEmail, false
		}
	case KindDigits:
		s := stringify(v)
		if int64(len(s)) != r.N || !allDigits(s) {
			return ReasonDigits, false
		}
	case KindPattern:
		s, ok := v.(string)
		if !ok || !r.Pattern.MatchString(s) {
			return ReasonPattern, false
		}
	case KindOneOf:
		s, ok := v.(string)
		if !ok || !contains(r.Values, s) {
			return ReasonNotAllowed, false
		}
	case KindMin:
		n, ok := asInteger(v)
		if !ok {
			return ReasonNotInteger, false
		}
		if n < r.N {
			return ReasonTooSmall, false
		}
	case KindPastDate:
		s, ok := v.(string)
		if !ok {
			return ReasonInvalidDate, false
		}
		d, err := time.Parse(dateLayout, s)
		if err != nil {
			return ReasonInvalidDate, false
		}
		today, _ := time.Parse(dateLayout, now().Format(dateLayout))
		if d.After(today) {
			return ReasonFutureDate, false
		}
	}
	return "", true
}

func isEmpty(v interface{}) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

// asInteger 接受 json.Number、float64（来自默认解码）以及 Go 整数类型
func asInteger(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		// 3.0 这类整数值的小数写法
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return asInteger(f)
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int64(n), true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	default:
		return 0, false
	}
}

func stringify(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func contains(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
