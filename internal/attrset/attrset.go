package attrset

import (
	"encoding/json"
	"sort"
	"strings"
)

// Set 属性集合，构造后不可变
type Set struct {
	m map[string]struct{}
}

// New 创建集合，忽略空字符串
func New(attrs ...string) Set {
	m := make(map[string]struct{}, len(attrs))
	for _, a := range attrs {
		if a == "" {
			continue
		}
		m[a] = struct{}{}
	}
	return Set{m: m}
}

// Len 元素个数
func (s Set) Len() int {
	return len(s.m)
}

// IsEmpty 是否为空集
func (s Set) IsEmpty() bool {
	return len(s.m) == 0
}

// Has 是否包含属性
func (s Set) Has(attr string) bool {
	_, ok := s.m[attr]
	return ok
}

// Sorted 按字典序返回属性
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s.m))
	for a := range s.m {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

// Key 规范化字符串，用于去重和比较
func (s Set) Key() string {
	return strings.Join(s.Sorted(), ",")
}

// String 渲染为 {a, b, c}
func (s Set) String() string {
	return "{" + strings.Join(s.Sorted(), ", ") + "}"
}

// MarshalJSON 输出排序后的数组
func (s Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON 从字符串数组读取
func (s *Set) UnmarshalJSON(data []byte) error {
	var attrs []string
	if err := json.Unmarshal(data, &attrs); err != nil {
		return err
	}
	*s = New(attrs...)
	return nil
}

// Union 并集
func Union(a, b Set) Set {
	m := make(map[string]struct{}, len(a.m)+len(b.m))
	for x := range a.m {
		m[x] = struct{}{}
	}
	for x := range b.m {
		m[x] = struct{}{}
	}
	return Set{m: m}
}

// Intersection 交集
func Intersection(a, b Set) Set {
	m := make(map[string]struct{})
	for x := range a.m {
		if b.Has(x) {
			m[x] = struct{}{}
		}
	}
	return Set{m: m}
}

// Difference a 减去 b
func Difference(a, b Set) Set {
	m := make(map[string]struct{})
	for x := range a.m {
		if !b.Has(x) {
			m[x] = struct{}{}
		}
	}
	return Set{m: m}
}

// IsSubset sub ⊆ sup
func IsSubset(sub, sup Set) bool {
	if len(sub.m) > len(sup.m) {
		return false
	}
	for x := range sub.m {
		if !sup.Has(x) {
			return false
		}
	}
	return true
}

// IsProperSubset sub ⊊ sup
func IsProperSubset(sub, sup Set) bool {
	return len(sub.m) < len(sup.m) && IsSubset(sub, sup)
}

// Equal 元素完全相同
func Equal(a, b Set) bool {
	return len(a.m) == len(b.m) && IsSubset(a, b)
}

// Format 同 String，供渲染层调用
func Format(s Set) string {
	return s.String()
}

// Join 多个集合求并
func Join(sets ...Set) Set {
	out := New()
	for _, s := range sets {
		out = Union(out, s)
	}
	return out
}
