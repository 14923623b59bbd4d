// Package normalizer 根据函数依赖把全属性关系依次分解到 2NF、3NF 和 BCNF，
// 同时输出每一步判断的推导记录。
//
// 核心是纯计算：不做 I/O，不共享状态。候选键搜索是指数级的，
// 调用方需要在调用前限制属性个数。
package normalizer

import (
	"schema-normalizer/internal/attrset"
	"schema-normalizer/internal/fd"
	"schema-normalizer/internal/keys"
	"schema-normalizer/internal/trace"
)

// Normalize 对 universe 和 fds 执行完整的规范化流程。
// 输入不合法时返回错误且没有部分结果。
func Normalize(universe attrset.Set, fds []fd.Dependency) (*Result, error) {
	log := trace.NewLog()
	clean, err := Validate(universe, fds, log)
	if err != nil {
		return nil, err
	}

	initial := Relation{Name: UniversalName, Attributes: universe}
	res := &Result{
		Universe:     universe,
		Dependencies: clean,
		Initial:      initial,
		Keys:         make(map[string][]attrset.Set),
	}

	if len(clean) == 0 {
		log.Titlef("Initial Relation: %s", initial)
		log.Infof("No functional dependencies provided.")
		log.Explainf("Without FDs, keys and dependencies cannot be derived. The relation is trivially in BCNF, assuming it meets 1NF (atomic attributes).")
		log.Enter(trace.StageFinal)
		log.Successf("Final Relation (assumed BCNF): %s", initial)
		res.Relations = []Relation{initial}
		res.Keys[initial.Name] = []attrset.Set{universe}
		res.AssumedBCNF = true
		res.Trace = log.Entries()
		return res, nil
	}

	log.Titlef("Initial Universal Relation: %s", initial)
	log.Infof("Functional Dependencies (F):")
	for _, d := range clean {
		log.Infof("  %s", d)
	}

	p := NewPipeline(clean, log)
	first := p.FirstNF(initial)
	second := p.To2NF(first.Relations)
	third := p.To3NF(second.Relations)
	bcnf := p.ToBCNF(third.Relations)
	res.Stages = []StageResult{first, second, third, bcnf}
	res.Relations = bcnf.Relations

	log.Enter(trace.StageFinal)
	for _, r := range res.Relations {
		found := keys.FindAllCandidateKeys(r.Attributes, clean)
		res.Keys[r.Name] = found
		log.Successf("Final Relation: %s, keys: %s", r, formatSets(found))
	}

	res.Anomalies = p.Anomalies()
	res.Trace = log.Entries()
	return res, nil
}
