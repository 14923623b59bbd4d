package fd

import "schema-normalizer/internal/attrset"

// Step 闭包推导中的一次依赖触发
type Step struct {
	Pass  int         `json:"pass"`
	Via   Dependency  `json:"via"`
	Added attrset.Set `json:"added"`
	After attrset.Set `json:"after"`
}

// Closure 计算 start 在 fds 下的闭包（不限定范围）
func Closure(start attrset.Set, fds []Dependency) attrset.Set {
	out, _ := derive(start, fds, attrset.Set{}, false, false)
	return out
}

// ScopedClosure 计算限定在 scope 内的闭包。
// 只有左侧落在 scope 内的依赖才会触发，新增属性与 scope 取交集。
func ScopedClosure(start attrset.Set, fds []Dependency, scope attrset.Set) attrset.Set {
	out, _ := derive(start, fds, scope, true, false)
	return out
}

// Derive 计算闭包并记录每次触发，scope 为 nil 表示不限定
func Derive(start attrset.Set, fds []Dependency, scope *attrset.Set) (attrset.Set, []Step) {
	if scope == nil {
		return derive(start, fds, attrset.Set{}, false, true)
	}
	return derive(start, fds, *scope, true, true)
}

// IsSuperkey key 在 relation 内的闭包是否覆盖 relation
func IsSuperkey(key, relation attrset.Set, fds []Dependency) bool {
	if key.IsEmpty() || relation.IsEmpty() {
		return false
	}
	return attrset.Equal(ScopedClosure(key, fds, relation), relation)
}

func derive(start attrset.Set, fds []Dependency, scope attrset.Set, scoped, record bool) (attrset.Set, []Step) {
	working := start
	var steps []Step

	for pass := 1; ; pass++ {
		progress := false
		for _, d := range fds {
			if !attrset.IsSubset(d.Determinant, working) {
				continue
			}
			if scoped && !attrset.IsSubset(d.Determinant, scope) {
				continue
			}
			add := d.Dependent
			if scoped {
				add = attrset.Intersection(add, scope)
			}
			before := working.Len()
			next := attrset.Union(working, add)
			if next.Len() > before {
				if record {
					steps = append(steps, Step{
						Pass:  pass,
						Via:   d,
						Added: attrset.Difference(next, working),
						After: next,
					})
				}
				working = next
				progress = true
			}
		}
		if !progress {
			return working, steps
		}
	}
}
