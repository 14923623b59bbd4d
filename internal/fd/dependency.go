package fd

import (
	"errors"
	"fmt"

	"schema-normalizer/internal/attrset"
)

var (
	ErrEmptyDeterminant = errors.New("determinant (left side) cannot be empty")
	ErrEmptyDependent   = errors.New("dependent (right side) cannot be empty")
)

// Dependency 函数依赖 X → Y，两侧不相交
type Dependency struct {
	Determinant attrset.Set `json:"determinant"`
	Dependent   attrset.Set `json:"dependent"`
}

// New 创建函数依赖并去掉平凡部分。
// 去掉后右侧为空时返回 ok=false，调用方应丢弃该依赖。
func New(determinant, dependent attrset.Set) (dep Dependency, ok bool, err error) {
	if determinant.IsEmpty() {
		return Dependency{}, false, ErrEmptyDeterminant
	}
	if dependent.IsEmpty() {
		return Dependency{}, false, ErrEmptyDependent
	}
	rest := attrset.Difference(dependent, determinant)
	if rest.IsEmpty() {
		return Dependency{}, false, nil
	}
	return Dependency{Determinant: determinant, Dependent: rest}, true, nil
}

// MustNew 用于字面量构造，非法或平凡时 panic
func MustNew(determinant, dependent []string) Dependency {
	dep, ok, err := New(attrset.New(determinant...), attrset.New(dependent...))
	if err != nil {
		panic(err)
	}
	if !ok {
		panic(fmt.Sprintf("fd: trivial dependency %v -> %v", determinant, dependent))
	}
	return dep
}

// String 渲染为 {X} → {Y}
func (d Dependency) String() string {
	return d.Determinant.String() + " → " + d.Dependent.String()
}

// Attributes 依赖涉及的全部属性
func (d Dependency) Attributes() attrset.Set {
	return attrset.Union(d.Determinant, d.Dependent)
}

// AttributesOf 一组依赖涉及的全部属性
func AttributesOf(fds []Dependency) attrset.Set {
	out := attrset.New()
	for _, d := range fds {
		out = attrset.Union(out, d.Attributes())
	}
	return out
}
