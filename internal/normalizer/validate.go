package normalizer

import (
	"errors"
	"fmt"

	"schema-normalizer/internal/attrset"
	"schema-normalizer/internal/fd"
	"schema-normalizer/internal/trace"
)

// ErrEmptyUniverse 没有任何属性
var ErrEmptyUniverse = errors.New("no attributes defined, cannot normalize")

// DependencyError 第 Index 个依赖（从 1 开始）不合法
type DependencyError struct {
	Index int
	Err   error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("FD #%d: %v", e.Index, e.Err)
}

func (e *DependencyError) Unwrap() error {
	return e.Err
}

// UnknownAttributesError 依赖引用了全集之外的属性
type UnknownAttributesError struct {
	Attributes attrset.Set
}

func (e *UnknownAttributesError) Error() string {
	return fmt.Sprintf("functional dependencies use attributes not defined in the universe: %s", e.Attributes)
}

// Validate 重新校验输入：全集非空、依赖两侧非空且不相交、只引用全集内属性。
// 完全平凡的依赖会被丢弃并记录到 log。
func Validate(universe attrset.Set, fds []fd.Dependency, log *trace.Log) ([]fd.Dependency, error) {
	if universe.IsEmpty() {
		return nil, ErrEmptyUniverse
	}

	clean := make([]fd.Dependency, 0, len(fds))
	unknown := attrset.New()
	for i, d := range fds {
		dep, ok, err := fd.New(d.Determinant, d.Dependent)
		if err != nil {
			return nil, &DependencyError{Index: i + 1, Err: err}
		}
		if !ok {
			log.Warnf("FD #%d (%s → %s) is trivial and was skipped.", i+1, d.Determinant, d.Dependent)
			continue
		}
		unknown = attrset.Union(unknown, attrset.Difference(dep.Attributes(), universe))
		clean = append(clean, dep)
	}

	if !unknown.IsEmpty() {
		return nil, &UnknownAttributesError{Attributes: unknown}
	}
	return clean, nil
}
