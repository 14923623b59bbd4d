package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"schema-normalizer/internal/analyzer"
	"schema-normalizer/internal/attrset"
	"schema-normalizer/internal/fd"
	"schema-normalizer/internal/graph"
	"schema-normalizer/internal/input"
	"schema-normalizer/internal/keys"
	"schema-normalizer/internal/normalizer"
	"schema-normalizer/internal/renderer"
	"schema-normalizer/internal/trace"
)

// loadSchema 合并输入文件和命令行参数
func loadSchema() (*input.Schema, error) {
	doc := input.FromFlags(attrsFlag, fdFlags)
	if inputFile != "" {
		fileDoc, err := input.LoadFile(inputFile)
		if err != nil {
			return nil, err
		}
		doc.Merge(fileDoc)
	}
	s, err := doc.Build()
	if err != nil {
		return nil, err
	}
	for _, w := range s.Warnings {
		fmt.Printf("⚠️  %s\n", w)
	}
	if err := checkSize(s.Universe); err != nil {
		return nil, err
	}
	return s, nil
}

func checkSize(universe attrset.Set) error {
	if n := universe.Len(); n > cfg.MaxAttributes {
		return errors.Errorf("%d attributes exceed the limit of %d (set MAX_ATTRIBUTES or --max-attrs)", n, cfg.MaxAttributes)
	}
	return nil
}

func runNormalize(cmd *cobra.Command, args []string) error {
	s, err := loadSchema()
	if err != nil {
		return err
	}

	fmt.Printf("🔍 规范化 %d 个属性，%d 条依赖...\n", s.Universe.Len(), len(s.Dependencies))
	res, err := normalizer.Normalize(s.Universe, s.Dependencies)
	if err != nil {
		return err
	}
	printTrace(res.Trace)

	fmt.Println("\n📋 最终关系:")
	for _, r := range res.Relations {
		fmt.Printf("  - %s  keys: %s\n", r, formatKeys(res.Keys[r.Name]))
	}
	for _, a := range res.Anomalies {
		fmt.Printf("⚠️  [%s] %s: %s\n", a.Stage, a.Relation, a.Message)
	}

	if format == "none" {
		return nil
	}
	dir := outputDir
	if dir == "" {
		dir = cfg.OutputDir
	}
	return writeOutputs(dir, "normalize", res)
}

func printTrace(entries []trace.Entry) {
	var current trace.Stage
	for _, e := range entries {
		if e.Stage != current {
			current = e.Stage
			fmt.Printf("\n📐 %s\n", current)
		}
		switch e.Level {
		case trace.LevelTitle:
			fmt.Printf("▶ %s\n", e.Message)
		case trace.LevelSuccess:
			fmt.Printf("  ✓ %s\n", e.Message)
		case trace.LevelWarning:
			fmt.Printf("  ⚠️  %s\n", e.Message)
		case trace.LevelExplain:
			fmt.Printf("  💡 %s\n", e.Message)
		default:
			fmt.Printf("  %s\n", e.Message)
		}
	}
}

func formatKeys(found []attrset.Set) string {
	if len(found) == 0 {
		return "(none)"
	}
	parts := make([]string, len(found))
	for i, k := range found {
		parts[i] = k.String()
	}
	return strings.Join(parts, " ")
}

// writeOutputs 按 format 写出 <base>.md/.html/.json/.mmd
func writeOutputs(dir, base string, res *normalizer.Result) error {
	fmt.Println("\n📝 生成输出文件...")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "create %s", dir)
	}

	g := graph.FromResult(res)
	want := func(f string) bool { return format == "all" || format == f }

	var files []struct {
		name string
		data []byte
	}
	add := func(name string, data []byte) {
		files = append(files, struct {
			name string
			data []byte
		}{name, data})
	}

	if want("md") {
		add(base+".md", []byte(renderer.NewMarkdownRenderer().Render(res, g)))
	}
	if want("html") {
		add(base+".html", []byte(renderer.NewHTMLRenderer().Page(res)))
	}
	if want("json") {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return err
		}
		add(base+".json", data)
		graphData, err := g.ToJSON()
		if err != nil {
			return err
		}
		add(base+".graph.json", graphData)
	}
	if want("mermaid") {
		add(base+".mmd", []byte(renderer.NewMermaidRenderer().Render(g)))
	}
	if len(files) == 0 {
		return errors.Errorf("unknown format: %s", format)
	}

	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := os.WriteFile(path, f.data, 0644); err != nil {
			return errors.Wrapf(err, "write %s", path)
		}
		fmt.Printf("✓ %s\n", path)
	}
	return nil
}

func runKeys(cmd *cobra.Command, args []string) error {
	s, err := loadSchema()
	if err != nil {
		return err
	}
	search := keys.Run(s.Universe, s.Dependencies)

	fmt.Printf("🔑 关系 %s\n", s.Universe)
	fmt.Printf("  检查了 %d 个子集\n", search.Examined)
	fmt.Printf("  候选键: %s\n", formatKeys(search.Keys))
	fmt.Printf("  主属性: %s\n", keys.PrimeAttributes(search.Keys))
	fmt.Printf("  超键 (%d):\n", len(search.Superkeys))
	for _, sk := range search.Superkeys {
		fmt.Printf("    - %s\n", sk)
	}
	return nil
}

func runClosure(cmd *cobra.Command, args []string) error {
	s, err := loadSchema()
	if err != nil {
		return err
	}
	start := attrset.New(input.ParseAttributes(closureOf)...)
	if start.IsEmpty() {
		return errors.New("--of cannot be empty")
	}
	relation := s.Universe
	var scope *attrset.Set
	if closureWithin != "" {
		within := attrset.New(input.ParseAttributes(closureWithin)...)
		scope = &within
		relation = within
	}

	closure, steps := fd.Derive(start, s.Dependencies, scope)
	fmt.Printf("🔍 %s⁺\n", start)
	for _, st := range steps {
		fmt.Printf("  pass %d: %s adds %s → %s\n", st.Pass, st.Via, st.Added, st.After)
	}
	fmt.Printf("✓ %s⁺ = %s\n", start, closure)
	if fd.IsSuperkey(start, relation, s.Dependencies) {
		fmt.Printf("✓ %s is a superkey of %s\n", start, relation)
	}
	return nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	s, err := loadSchema()
	if err != nil {
		return err
	}
	report := analyzer.Classify(s.Universe, s.Dependencies)

	fmt.Printf("📊 关系 %s\n", s.Universe)
	fmt.Printf("  候选键: %s\n", formatKeys(report.Keys))
	fmt.Printf("  主属性: %s\n\n", report.Prime)
	fmt.Printf("  %-30s %-12s %s\n", "依赖", "分类", "原因")
	for _, f := range report.Findings {
		fmt.Printf("  %-30s %-12s %s\n", f.Dependency, f.Kind, f.Reason)
	}
	fmt.Printf("\n✅ 最高范式: %s\n", report.Form)
	return nil
}
