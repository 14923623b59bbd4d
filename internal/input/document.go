package input

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"schema-normalizer/internal/adapter"
	"schema-normalizer/internal/analyzer"
	"schema-normalizer/internal/attrset"
	"schema-normalizer/internal/fd"
	"schema-normalizer/internal/normalizer"
)

// Document 输入文件，YAML 或 JSON
//
//	attributes: [StudentID, CourseID, Grade]
//	tables:
//	  - name: student
//	    columns: [StudentID, StudentName]
//	    key: [StudentID]
//	dependencies:
//	  - "StudentID, CourseID -> Grade"
//	  - determinant: [StudentID]
//	    dependent: [StudentName]
type Document struct {
	Attributes   AttributeList    `yaml:"attributes" json:"attributes"`
	Tables       []TableSpec      `yaml:"tables" json:"tables"`
	Dependencies []DependencySpec `yaml:"dependencies" json:"dependencies"`
}

// TableSpec 表定义，Key 非空时产生 Key → 其余列
type TableSpec struct {
	Name    string        `yaml:"name" json:"name"`
	Columns AttributeList `yaml:"columns" json:"columns"`
	Key     AttributeList `yaml:"key" json:"key"`
}

// AttributeList 属性列表，可写成序列或逗号分隔的字符串
type AttributeList []string

// UnmarshalYAML 支持 [A, B] 和 "A, B"
func (l *AttributeList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*l = ParseAttributes(node.Value)
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return err
		}
		var out []string
		for _, it := range items {
			out = append(out, ParseAttributes(it)...)
		}
		*l = out
		return nil
	}
	return errors.Errorf("line %d: expected a list of attributes", node.Line)
}

// DependencySpec 依赖定义，可写成 "X -> Y" 或 {determinant, dependent}
type DependencySpec struct {
	Text        string        `yaml:"-" json:"-"`
	Determinant AttributeList `yaml:"determinant" json:"determinant"`
	Dependent   AttributeList `yaml:"dependent" json:"dependent"`
}

// UnmarshalYAML 支持字符串和映射两种写法
func (s *DependencySpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		s.Text = node.Value
		return nil
	}
	type plain DependencySpec
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*s = DependencySpec(p)
	return nil
}

// String 原始文本
func (s DependencySpec) String() string {
	if s.Text != "" {
		return s.Text
	}
	return strings.Join(s.Determinant, ", ") + " -> " + strings.Join(s.Dependent, ", ")
}

func (s DependencySpec) dependency() (fd.Dependency, bool, error) {
	if s.Text != "" {
		return ParseDependency(s.Text)
	}
	return fd.New(attrset.New(s.Determinant...), attrset.New(s.Dependent...))
}

// Schema 构建结果
type Schema struct {
	Universe     attrset.Set
	Dependencies []fd.Dependency
	Warnings     []string
}

// Parse 解析 YAML 或 JSON 文本
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "parse schema document")
	}
	return &doc, nil
}

// LoadFile 读取并解析文件
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	return doc, nil
}

// FromFlags 由命令行参数构造文档
func FromFlags(attrs string, deps []string) *Document {
	doc := &Document{Attributes: ParseAttributes(attrs)}
	for _, d := range deps {
		doc.Dependencies = append(doc.Dependencies, DependencySpec{Text: d})
	}
	return doc
}

// Merge 把 other 追加到 d
func (d *Document) Merge(other *Document) {
	if other == nil {
		return
	}
	d.Attributes = append(d.Attributes, other.Attributes...)
	d.Tables = append(d.Tables, other.Tables...)
	d.Dependencies = append(d.Dependencies, other.Dependencies...)
}

// Build 计算属性全集并逐条校验依赖。
// 依赖编号按文件中的顺序从 1 开始，表的键依赖排在其后。
func (d *Document) Build() (*Schema, error) {
	universe := attrset.New(d.Attributes...)
	for _, t := range d.Tables {
		universe = attrset.Union(universe, attrset.New(t.Columns...))
		universe = attrset.Union(universe, attrset.New(t.Key...))
	}
	if universe.IsEmpty() {
		return nil, errors.WithStack(normalizer.ErrEmptyUniverse)
	}

	out := &Schema{Universe: universe}
	for i, item := range d.Dependencies {
		dep, ok, err := item.dependency()
		if err != nil {
			return nil, &FDError{Index: i + 1, Text: item.String(), Err: err}
		}
		if !ok {
			out.Warnings = append(out.Warnings, fmt.Sprintf("FD #%d (%s) is trivial and was skipped.", i+1, item))
			continue
		}
		for _, attr := range attrset.Difference(dep.Attributes(), universe).Sorted() {
			suggestion, _ := analyzer.SuggestAttribute(attr, universe)
			return nil, &UnknownAttributeError{Index: i + 1, Attribute: attr, Suggestion: suggestion}
		}
		out.Dependencies = append(out.Dependencies, dep)
	}

	for _, t := range d.Tables {
		if len(t.Key) == 0 {
			continue
		}
		out.Dependencies = append(out.Dependencies, adapter.DeclaredDependencies(t.table(), nil)...)
	}
	return out, nil
}

func (t TableSpec) table() adapter.Table {
	key := attrset.New(t.Key...)
	cols := attrset.Union(attrset.New(t.Columns...), key)
	tbl := adapter.Table{Name: t.Name}
	for _, c := range cols.Sorted() {
		tbl.Columns = append(tbl.Columns, adapter.Column{Name: c, IsPrimaryKey: key.Has(c)})
	}
	return tbl
}
