package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Decode 将请求体解码为 Payload，数字保留为 json.Number 以便区分整数与小数
func Decode(r io.Reader) (Payload, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var p Payload
	if err := dec.Decode(&p); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("request body is empty")
		}
		return nil, fmt.Errorf("malformed JSON body: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("request body must be a JSON object")
	}
	return p, nil
}

// Normalize 投影到 Schema 声明的字段，字符串去首尾空白，邮箱字段转小写
// 未声明的键（包括 _id）被丢弃，ID 因此不会被客户端覆盖
func Normalize(p Payload, schema Schema) Payload {
	out := make(Payload, len(schema))
	for _, f := range schema {
		v, ok := p[f.Name]
		if !ok {
			continue
		}
		if s, isStr := v.(string); isStr {
			s = strings.TrimSpace(s)
			if f.Lower {
				s = strings.ToLower(s)
			}
			v = s
		}
		// 整数字段统一写法，3.0 存为 3
		if n, isNum := v.(json.Number); isNum && f.has(KindInteger) {
			if i, ok := asInteger(n); ok {
				v = json.Number(strconv.FormatInt(i, 10))
			}
		}
		out[f.Name] = v
	}
	return out
}

// Into 将已校验的 Payload 转换为实体结构体
func Into(p Payload, dst interface{}) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(p); err != nil {
		return err
	}
	dec := json.NewDecoder(&buf)
	return dec.Decode(dst)
}
