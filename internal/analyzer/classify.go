package analyzer

import (
	"fmt"

	"schema-normalizer/internal/attrset"
	"schema-normalizer/internal/fd"
	"schema-normalizer/internal/keys"
)

// Kind 依赖在某个关系中的分类
type Kind string

const (
	KindSuperkey   Kind = "superkey"   // 左侧是超键
	KindPartial    Kind = "partial"    // 违反 2NF
	KindTransitive Kind = "transitive" // 违反 3NF
	KindBCNF       Kind = "bcnf"       // 只违反 BCNF
)

// NormalForm 范式
type NormalForm string

const (
	FormNone NormalForm = "none"
	Form1NF  NormalForm = "1NF"
	Form2NF  NormalForm = "2NF"
	Form3NF  NormalForm = "3NF"
	FormBCNF NormalForm = "BCNF"
)

// Finding 单条依赖的分类结果
type Finding struct {
	Dependency fd.Dependency `json:"dependency"`
	Kind       Kind          `json:"kind"`
	Reason     string        `json:"reason"`
}

// Report 关系的分类报告
type Report struct {
	Relation attrset.Set   `json:"relation"`
	Keys     []attrset.Set `json:"keys"`
	Prime    attrset.Set   `json:"prime"`
	Findings []Finding     `json:"findings"`
	Form     NormalForm    `json:"form"`
}

// Classify 对 relation 上适用的每条依赖分类。
// 左侧不在 relation 内或右侧与 relation 不相交的依赖被忽略，
// 右侧只保留 relation 内的部分。
func Classify(relation attrset.Set, fds []fd.Dependency) *Report {
	found := keys.FindAllCandidateKeys(relation, fds)
	prime := keys.PrimeAttributes(found)
	report := &Report{Relation: relation, Keys: found, Prime: prime}

	for _, d := range fds {
		if !attrset.IsSubset(d.Determinant, relation) {
			continue
		}
		dependent := attrset.Intersection(d.Dependent, relation)
		if dependent.IsEmpty() {
			continue
		}
		local := fd.Dependency{Determinant: d.Determinant, Dependent: dependent}
		report.Findings = append(report.Findings, classifyOne(local, relation, fds, found, prime))
	}

	report.Form = formOf(relation, found, report.Findings)
	return report
}

func classifyOne(d fd.Dependency, relation attrset.Set, fds []fd.Dependency, found []attrset.Set, prime attrset.Set) Finding {
	f := Finding{Dependency: d}
	if fd.IsSuperkey(d.Determinant, relation, fds) {
		f.Kind = KindSuperkey
		f.Reason = fmt.Sprintf("%s is a superkey", d.Determinant)
		return f
	}

	nonPrime := attrset.Difference(d.Dependent, prime)
	if nonPrime.IsEmpty() {
		f.Kind = KindBCNF
		f.Reason = fmt.Sprintf("%s is not a superkey and %s is prime", d.Determinant, d.Dependent)
		return f
	}

	for _, k := range found {
		if attrset.IsProperSubset(d.Determinant, k) {
			f.Kind = KindPartial
			f.Reason = fmt.Sprintf("%s is a proper subset of key %s and determines non-prime %s", d.Determinant, k, nonPrime)
			return f
		}
	}

	f.Kind = KindTransitive
	f.Reason = fmt.Sprintf("%s is not a superkey and determines non-prime %s", d.Determinant, nonPrime)
	return f
}

func formOf(relation attrset.Set, found []attrset.Set, findings []Finding) NormalForm {
	if relation.IsEmpty() {
		return FormNone
	}
	if len(found) == 0 {
		return Form1NF
	}
	worst := FormBCNF
	for _, f := range findings {
		switch f.Kind {
		case KindPartial:
			return Form1NF
		case KindTransitive:
			worst = Form2NF
		case KindBCNF:
			if worst == FormBCNF {
				worst = Form3NF
			}
		}
	}
	return worst
}

// HighestNormalForm relation 满足的最高范式（假定 1NF）
func HighestNormalForm(relation attrset.Set, fds []fd.Dependency) NormalForm {
	return Classify(relation, fds).Form
}
