// Package input 把用户输入（命令行参数、YAML/JSON 文件）转换成属性全集和函数依赖。
package input

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"schema-normalizer/internal/attrset"
	"schema-normalizer/internal/fd"
)

// ErrMissingArrow 依赖文本中没有 -> 或 →
var ErrMissingArrow = errors.New("missing '->' between determinant and dependent")

var arrows = []string{"->", "→"}

// FDError 第 Index 个依赖（从 1 开始）的输入错误
type FDError struct {
	Index int
	Text  string
	Err   error
}

func (e *FDError) Error() string {
	return fmt.Sprintf("FD #%d: %s", e.Index, describe(e.Err))
}

func (e *FDError) Unwrap() error {
	return e.Err
}

func describe(err error) string {
	switch errors.Cause(err) {
	case fd.ErrEmptyDeterminant:
		return "Determinant (left side) cannot be empty."
	case fd.ErrEmptyDependent:
		return "Dependent (right side) cannot be empty."
	case ErrMissingArrow:
		return "Missing '->' between determinant and dependent."
	}
	return err.Error()
}

// UnknownAttributeError 依赖引用了全集之外的属性
type UnknownAttributeError struct {
	Index      int
	Attribute  string
	Suggestion string
}

func (e *UnknownAttributeError) Error() string {
	msg := fmt.Sprintf("FD #%d: attribute %q is not defined", e.Index, e.Attribute)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	return msg
}

// ParseAttributes 按逗号切分，去掉空白和空项
func ParseAttributes(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ParseDependency 解析 "A, B -> C" 形式的依赖，也接受 →。
// 返回的依赖已去掉平凡部分，ok=false 表示完全平凡。
func ParseDependency(s string) (dep fd.Dependency, ok bool, err error) {
	lhs, rhs, found := splitArrow(s)
	if !found {
		return fd.Dependency{}, false, ErrMissingArrow
	}
	return fd.New(attrset.New(ParseAttributes(lhs)...), attrset.New(ParseAttributes(rhs)...))
}

func splitArrow(s string) (string, string, bool) {
	for _, a := range arrows {
		if i := strings.Index(s, a); i >= 0 {
			return s[:i], s[i+len(a):], true
		}
	}
	return "", "", false
}
