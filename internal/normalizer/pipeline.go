package normalizer

import (
	"strings"

	"schema-normalizer/internal/attrset"
	"schema-normalizer/internal/fd"
	"schema-normalizer/internal/keys"
	"schema-normalizer/internal/trace"
)

// Pipeline 2NF → 3NF → BCNF 分解流程。
// 每次规范化请求使用一个新的 Pipeline，不在请求之间共享。
type Pipeline struct {
	fds       []fd.Dependency
	log       *trace.Log
	anomalies []Anomaly
}

// NewPipeline 创建流程，fds 应已通过 Validate
func NewPipeline(fds []fd.Dependency, log *trace.Log) *Pipeline {
	if log == nil {
		log = trace.NewLog()
	}
	return &Pipeline{fds: fds, log: log}
}

// Anomalies 已记录的单关系异常
func (p *Pipeline) Anomalies() []Anomaly {
	return p.anomalies
}

// Log 推导记录
func (p *Pipeline) Log() *trace.Log {
	return p.log
}

// keyInfo 一个关系的候选键及主属性划分
type keyInfo struct {
	keys     []attrset.Set
	prime    attrset.Set
	nonPrime attrset.Set
}

// violation 一条导致分解的依赖（已限制到当前关系）
type violation struct {
	determinant attrset.Set
	dependent   attrset.Set
}

// FirstNF 1NF 只做断言：假定属性都是原子的
func (p *Pipeline) FirstNF(initial Relation) StageResult {
	p.log.Enter(trace.Stage1NF)
	p.log.Titlef("Step 1: First Normal Form (1NF)")
	p.log.Explainf("Ensures atomic attributes and no repeating groups. Input attributes are assumed to be atomic.")
	p.log.Successf("Relation %s is assumed to be in 1NF.", initial)
	return StageResult{Stage: trace.Stage1NF, Relations: []Relation{initial}}
}

// analyze 求候选键和主属性；求不出候选键时记录异常并返回 false
func (p *Pipeline) analyze(rel Relation) (keyInfo, bool) {
	search := keys.Run(rel.Attributes, p.fds)
	if len(search.Keys) == 0 {
		msg := "Cannot determine Candidate Key for " + rel.Name + ". Skipping " + string(p.log.Stage()) + " check for this relation."
		p.log.Warnf("%s", msg)
		p.anomalies = append(p.anomalies, Anomaly{
			Stage:    p.log.Stage(),
			Relation: rel.Name,
			Kind:     AnomalyNoCandidateKey,
			Message:  msg,
		})
		return keyInfo{}, false
	}

	prime := keys.PrimeAttributes(search.Keys)
	info := keyInfo{
		keys:     search.Keys,
		prime:    prime,
		nonPrime: attrset.Difference(rel.Attributes, prime),
	}
	p.log.Infof("Examined %d attribute subsets, %d superkeys found.", search.Examined, len(search.Superkeys))
	p.log.Infof("Candidate Keys: %s", formatSets(search.Keys))
	p.log.Infof("Prime Attributes: %s", info.prime)
	p.log.Infof("Non-Prime Attributes: %s", info.nonPrime)
	return info, true
}

// stageRule 2NF 和 3NF 的差异部分
type stageRule struct {
	stage     trace.Stage
	title     string
	explain   string
	threshold int
	kind      string // 违例名称，用于说明
	find      func(rel Relation, info keyInfo) []violation
}

// singlePass 2NF/3NF 共用的单遍分解：每个关系只检查一次，产物不回队
func (p *Pipeline) singlePass(rule stageRule, in []Relation) StageResult {
	p.log.Enter(rule.stage)
	p.log.Titlef("%s", rule.title)
	p.log.Explainf("%s", rule.explain)

	names := &namer{stage: rule.stage}
	queue := append([]Relation(nil), in...)
	var out []Relation
	decomposed := false

	for len(queue) > 0 {
		rel := queue[0]
		queue = queue[1:]
		p.log.Titlef("Checking Relation: %s", rel)

		if rel.Attributes.Len() <= rule.threshold {
			p.log.Infof("Relation has ≤ %d attribute(s). Already in %s.", rule.threshold, rule.stage)
			out = append(out, rel)
			continue
		}

		info, ok := p.analyze(rel)
		if !ok {
			out = append(out, rel)
			continue
		}
		if info.nonPrime.IsEmpty() {
			p.log.Successf("No non-prime attributes. Relation %s is in %s.", rel.Name, rule.stage)
			out = append(out, rel)
			continue
		}

		violations := rule.find(rel, info)
		if len(violations) == 0 {
			p.log.Successf("No %s dependencies found. Relation %s is already in %s.", rule.kind, rel.Name, rule.stage)
			out = append(out, rel)
			continue
		}

		decomposed = true
		p.log.Successf("Decomposing %s due to %s dependencies:", rel.Name, rule.kind)
		out = p.decompose(rel, violations, info.keys[0], out, names)
	}

	p.summarize(rule.stage, out, decomposed)
	return StageResult{Stage: rule.stage, Relations: out, Decomposed: decomposed}
}

// decompose 按左侧分组生成新关系，再生成保留候选键的剩余关系
func (p *Pipeline) decompose(rel Relation, violations []violation, key attrset.Set, out []Relation, names *namer) []Relation {
	type group struct {
		determinant attrset.Set
		dependents  attrset.Set
	}
	var groups []*group
	index := make(map[string]*group)
	removed := attrset.New()

	for _, v := range violations {
		removed = attrset.Union(removed, v.dependent)
		g, ok := index[v.determinant.Key()]
		if !ok {
			g = &group{determinant: v.determinant, dependents: attrset.New()}
			index[v.determinant.Key()] = g
			groups = append(groups, g)
		}
		g.dependents = attrset.Union(g.dependents, v.dependent)
	}

	for _, g := range groups {
		attrs := attrset.Union(g.determinant, g.dependents)
		if containsEqual(out, attrs) {
			p.log.Infof("  - Relation with attributes %s already exists, not created again.", attrs)
			continue
		}
		created := Relation{Name: names.name(), Attributes: attrs}
		out = append(out, created)
		p.log.Infof("  - New Relation: %s", created)
	}

	remaining := attrset.Union(attrset.Difference(rel.Attributes, removed), key)
	switch {
	case attrset.Equal(remaining, rel.Attributes):
		msg := "Internal Check: No attributes removed for " + string(p.log.Stage()) + " decomposition of " + rel.Name + ". Keeping original."
		p.log.Warnf("%s", msg)
		p.anomalies = append(p.anomalies, Anomaly{
			Stage:    p.log.Stage(),
			Relation: rel.Name,
			Kind:     AnomalyNothingRemoved,
			Message:  msg,
		})
		if !containsEqual(out, rel.Attributes) {
			out = append(out, rel)
		}
	case remaining.IsEmpty():
		p.log.Infof("  - Original relation %s fully decomposed.", rel.Name)
	case containsEqual(out, remaining):
		p.log.Infof("  - Remaining attributes %s already covered by an existing relation.", remaining)
	default:
		rem := Relation{Name: rel.Name + "_Rem", Attributes: remaining}
		out = append(out, rem)
		p.log.Infof("  - Remaining Relation: %s", rem)
	}
	return out
}

func (p *Pipeline) summarize(stage trace.Stage, rels []Relation, decomposed bool) {
	if decomposed {
		p.log.Successf("Decomposition for %s complete.", stage)
	} else {
		p.log.Successf("All relations were already in %s.", stage)
	}
	p.log.Infof("Resulting Relations after %s: %s", stage, formatRelations(rels))
}

// To2NF 消除部分依赖
func (p *Pipeline) To2NF(in []Relation) StageResult {
	return p.singlePass(stageRule{
		stage:     trace.Stage2NF,
		title:     "Step 2: Second Normal Form (2NF)",
		explain:   "Requires 1NF and no partial dependencies (non-prime attributes depending on a proper subset of any candidate key).",
		threshold: 1,
		kind:      "partial",
		find:      p.partialDependencies,
	}, in)
}

func (p *Pipeline) partialDependencies(rel Relation, info keyInfo) []violation {
	var found []violation
	for _, d := range p.fds {
		if !properSubsetOfAny(d.Determinant, info.keys) {
			continue
		}
		deps := attrset.Intersection(attrset.Intersection(d.Dependent, info.nonPrime), rel.Attributes)
		if deps.IsEmpty() {
			continue
		}
		p.log.Infof("Partial Dependency: %s → %s (determinant is part of a candidate key, dependent is non-prime)", d.Determinant, deps)
		found = append(found, violation{determinant: d.Determinant, dependent: deps})
	}
	return found
}

// To3NF 消除传递依赖
func (p *Pipeline) To3NF(in []Relation) StageResult {
	return p.singlePass(stageRule{
		stage:     trace.Stage3NF,
		title:     "Step 3: Third Normal Form (3NF)",
		explain:   "Requires 2NF and no transitive dependencies. An FD X → A violates 3NF if X is not a superkey and A is not prime.",
		threshold: 2,
		kind:      "transitive",
		find:      p.transitiveDependencies,
	}, in)
}

func (p *Pipeline) transitiveDependencies(rel Relation, info keyInfo) []violation {
	var found []violation
	for _, d := range p.fds {
		if !attrset.IsSubset(d.Determinant, rel.Attributes) {
			continue
		}
		relevant := attrset.Intersection(d.Dependent, rel.Attributes)
		if relevant.IsEmpty() {
			continue
		}
		if fd.IsSuperkey(d.Determinant, rel.Attributes, p.fds) {
			continue
		}
		for _, a := range relevant.Sorted() {
			if d.Determinant.Has(a) || info.prime.Has(a) {
				continue
			}
			single := attrset.New(a)
			p.log.Infof("Transitive Dependency: %s → %s violates 3NF in %s (X not superkey, A not prime).", d.Determinant, single, rel.Name)
			found = append(found, violation{determinant: d.Determinant, dependent: single})
		}
	}
	return found
}

// ToBCNF 反复分解直到每个关系中所有非平凡依赖的左侧都是超键。
// 与 2NF/3NF 不同，分解产物会重新入队检查。
func (p *Pipeline) ToBCNF(in []Relation) StageResult {
	p.log.Enter(trace.StageBCNF)
	p.log.Titlef("Step 4: Boyce-Codd Normal Form (BCNF)")
	p.log.Explainf("Requires 3NF. For every non-trivial FD X → Y that holds, X must be a superkey. Decomposition may lose dependencies.")

	names := &namer{stage: trace.StageBCNF}
	queue := append([]Relation(nil), in...)
	var out []Relation
	decomposed := false

	for len(queue) > 0 {
		rel := queue[0]
		queue = queue[1:]
		p.log.Titlef("Checking Relation: %s", rel)

		v, found := p.bcnfViolation(rel)
		if !found {
			p.log.Successf("No BCNF violations found. Relation %s is in BCNF.", rel.Name)
			if containsEqual(out, rel.Attributes) {
				p.log.Infof("  - Relation %s duplicates an accepted relation, dropped.", rel.Name)
				continue
			}
			out = append(out, rel)
			continue
		}

		decomposed = true
		p.log.Infof("BCNF Violation: %s → %s holds in %s, but %s is not a superkey.", v.determinant, v.dependent, rel.Name, v.determinant)
		p.log.Successf("Decomposing %s based on the violation:", rel.Name)

		r1 := Relation{Name: names.name(), Attributes: attrset.Union(v.determinant, v.dependent)}
		r2attrs := attrset.Union(v.determinant, attrset.Difference(rel.Attributes, r1.Attributes))
		queue = append(queue, r1)
		p.log.Infof("  - New Relation 1: %s", r1)

		if r2attrs.IsEmpty() || attrset.Equal(r1.Attributes, r2attrs) {
			p.log.Infof("  - Second relation from decomposition was empty or identical, discarded.")
			continue
		}
		r2 := Relation{Name: names.name(), Attributes: r2attrs}
		queue = append(queue, r2)
		p.log.Infof("  - New Relation 2: %s", r2)
	}

	p.summarize(trace.StageBCNF, out, decomposed)
	if decomposed {
		p.log.Explainf("Some original functional dependencies might no longer be preserved across these BCNF relations.")
	}
	return StageResult{Stage: trace.StageBCNF, Relations: out, Decomposed: decomposed}
}

// bcnfViolation 找到第一条左侧不是超键的非平凡依赖
func (p *Pipeline) bcnfViolation(rel Relation) (violation, bool) {
	for _, d := range p.fds {
		if !attrset.IsSubset(d.Determinant, rel.Attributes) {
			continue
		}
		dep := attrset.Intersection(attrset.Difference(d.Dependent, d.Determinant), rel.Attributes)
		if dep.IsEmpty() {
			continue
		}
		if !fd.IsSuperkey(d.Determinant, rel.Attributes, p.fds) {
			return violation{determinant: d.Determinant, dependent: dep}, true
		}
	}
	return violation{}, false
}

func properSubsetOfAny(x attrset.Set, sets []attrset.Set) bool {
	for _, s := range sets {
		if attrset.IsProperSubset(x, s) {
			return true
		}
	}
	return false
}

func formatSets(sets []attrset.Set) string {
	parts := make([]string, len(sets))
	for i, s := range sets {
		parts[i] = s.String()
	}
	return strings.Join(parts, ", ")
}

func formatRelations(rels []Relation) string {
	if len(rels) == 0 {
		return "(none)"
	}
	parts := make([]string, len(rels))
	for i, r := range rels {
		parts[i] = r.String()
	}
	return strings.Join(parts, ", ")
}
