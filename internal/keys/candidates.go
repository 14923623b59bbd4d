package keys

import (
	"sort"

	"schema-normalizer/internal/attrset"
	"schema-normalizer/internal/fd"
)

// Search 一次候选键穷举的结果
type Search struct {
	Relation  attrset.Set
	Examined  int           // 检查过的子集数
	Superkeys []attrset.Set // 按大小、字典序排列
	Keys      []attrset.Set // 最小超键
}

// Run 对 relation 的全部非空子集做超键测试，并求出候选键。
// 复杂度 O(2^n)，调用方需要自行限制属性个数。
func Run(relation attrset.Set, fds []fd.Dependency) *Search {
	s := &Search{Relation: relation}
	attrs := relation.Sorted()
	n := len(attrs)

	for k := 1; k <= n; k++ {
		c := NewCombinations(n, k)
		for c.Next() {
			s.Examined++
			candidate := pick(attrs, c.Indices())
			if fd.IsSuperkey(candidate, relation, fds) {
				s.Superkeys = append(s.Superkeys, candidate)
			}
		}
	}

	s.Keys = minimize(s.Superkeys)
	return s
}

// FindAllCandidateKeys 返回 relation 的全部候选键。
// 只有 relation 无法决定自身时才返回空。
func FindAllCandidateKeys(relation attrset.Set, fds []fd.Dependency) []attrset.Set {
	return Run(relation, fds).Keys
}

// FindAllSuperkeys 返回 relation 的全部超键
func FindAllSuperkeys(relation attrset.Set, fds []fd.Dependency) []attrset.Set {
	return Run(relation, fds).Superkeys
}

// PrimeAttributes 候选键的并集
func PrimeAttributes(keys []attrset.Set) attrset.Set {
	return attrset.Join(keys...)
}

func pick(attrs []string, idx []int) attrset.Set {
	chosen := make([]string, len(idx))
	for i, j := range idx {
		chosen[i] = attrs[j]
	}
	return attrset.New(chosen...)
}

func minimize(superkeys []attrset.Set) []attrset.Set {
	sorted := make([]attrset.Set, len(superkeys))
	copy(sorted, superkeys)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Len() != sorted[j].Len() {
			return sorted[i].Len() < sorted[j].Len()
		}
		return sorted[i].Key() < sorted[j].Key()
	})

	var accepted []attrset.Set
	seen := make(map[string]bool)
	for _, cand := range sorted {
		if seen[cand.Key()] {
			continue
		}
		minimal := true
		for _, k := range accepted {
			if attrset.IsProperSubset(k, cand) {
				minimal = false
				break
			}
		}
		if minimal {
			accepted = append(accepted, cand)
			seen[cand.Key()] = true
		}
	}
	return accepted
}
