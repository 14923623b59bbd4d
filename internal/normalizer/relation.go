package normalizer

import (
	"fmt"

	"schema-normalizer/internal/attrset"
	"schema-normalizer/internal/fd"
	"schema-normalizer/internal/trace"
)

// UniversalName 初始全属性关系的名称
const UniversalName = "U"

// Relation 关系模式，每个阶段生成新值，不做原地修改
type Relation struct {
	Name       string      `json:"name"`
	Attributes attrset.Set `json:"attributes"`
}

// String 渲染为 Name({a, b})
func (r Relation) String() string {
	return fmt.Sprintf("%s(%s)", r.Name, r.Attributes)
}

// AnomalyKind 单个关系的异常类型
type AnomalyKind string

const (
	// AnomalyNoCandidateKey 关系的属性集无法决定自身
	AnomalyNoCandidateKey AnomalyKind = "no_candidate_key"
	// AnomalyNothingRemoved 检测到违例但分解没有移除任何属性
	AnomalyNothingRemoved AnomalyKind = "nothing_removed"
)

// Anomaly 单个关系的异常，不会中断整个流程
type Anomaly struct {
	Stage    trace.Stage `json:"stage"`
	Relation string      `json:"relation"`
	Kind     AnomalyKind `json:"kind"`
	Message  string      `json:"message"`
}

// StageResult 一个阶段的输出
type StageResult struct {
	Stage      trace.Stage `json:"stage"`
	Relations  []Relation  `json:"relations"`
	Decomposed bool        `json:"decomposed"`
}

// Result 一次规范化的完整结果
type Result struct {
	Universe     attrset.Set              `json:"universe"`
	Dependencies []fd.Dependency          `json:"dependencies"`
	Initial      Relation                 `json:"initial"`
	Stages       []StageResult            `json:"stages"`
	Relations    []Relation               `json:"relations"`
	Keys         map[string][]attrset.Set `json:"keys"`
	AssumedBCNF  bool                     `json:"assumed_bcnf"`
	Anomalies    []Anomaly                `json:"anomalies,omitempty"`
	Trace        []trace.Entry            `json:"trace"`
}

// Stage 按阶段查找输出
func (r *Result) Stage(stage trace.Stage) (StageResult, bool) {
	for _, s := range r.Stages {
		if s.Stage == stage {
			return s, true
		}
	}
	return StageResult{}, false
}

// AttributesOf 一组关系的属性并集
func AttributesOf(rels []Relation) attrset.Set {
	out := attrset.New()
	for _, r := range rels {
		out = attrset.Union(out, r.Attributes)
	}
	return out
}

func containsEqual(rels []Relation, attrs attrset.Set) bool {
	for _, r := range rels {
		if attrset.Equal(r.Attributes, attrs) {
			return true
		}
	}
	return false
}

// namer 阶段内的命名计数器
type namer struct {
	stage trace.Stage
	next  int
}

func (n *namer) name() string {
	n.next++
	return fmt.Sprintf("R%d_%s", n.next, n.stage)
}
