package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"schema-normalizer/internal/adapter"
	"schema-normalizer/internal/analyzer"
	"schema-normalizer/internal/fd"
	"schema-normalizer/internal/normalizer"
)

func runScan(cmd *cobra.Command, args []string) error {
	fmt.Println("🔍 开始扫描数据库...")

	if dbType == "mysql" && schema == "" {
		return errors.New("MySQL 需要指定 --schema 参数")
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	dbAdapter, err := adapter.Open(dbType, connStr, schema, logger)
	if err != nil {
		return errors.Wrap(err, "连接数据库失败")
	}
	defer dbAdapter.Close()
	fmt.Println("✓ 数据库连接成功")

	fmt.Println("\n📊 获取数据库元数据...")
	meta, err := dbAdapter.IntrospectSchema()
	if err != nil {
		return errors.Wrap(err, "获取元数据失败")
	}
	fmt.Printf("✓ 发现 %d 个表\n", len(meta.Tables))

	tables := meta.Tables
	if table != "" {
		t, ok := meta.FindTable(table)
		if !ok {
			return errors.Errorf("表 %s 不存在", table)
		}
		tables = []adapter.Table{t}
	}

	miner := analyzer.NewDependencyMiner(dbAdapter, logger)
	miner.MaxRows = maxRows
	miner.MaxDeterminant = maxLHS

	dir := outputDir
	if dir == "" {
		dir = cfg.OutputDir
	}
	format = "all"

	for _, t := range tables {
		fmt.Printf("\n📋 %s\n", adapter.DescribeTable(t))
		universe := adapter.Universe(t)
		if err := checkSize(universe); err != nil {
			fmt.Printf("  ⚠️  跳过: %v\n", err)
			continue
		}

		deps := adapter.DeclaredDependencies(t, meta.IndexesOf(t.Name))
		fmt.Printf("  ✓ 由主键/唯一索引得到 %d 条依赖\n", len(deps))

		if mine {
			mined, err := miner.Mine(context.Background(), t)
			if err != nil {
				fmt.Printf("  ⚠️  挖掘失败: %v\n", err)
			} else {
				fmt.Printf("  ✓ %s\n", mined.Summary())
				deps = appendNew(deps, mined.Dependencies)
			}
		}

		res, err := normalizer.Normalize(universe, deps)
		if err != nil {
			fmt.Printf("  ⚠️  规范化失败: %v\n", err)
			continue
		}
		for _, r := range res.Relations {
			fmt.Printf("  - %s  keys: %s\n", r, formatKeys(res.Keys[r.Name]))
		}
		if err := writeOutputs(dir, t.Name, res); err != nil {
			return err
		}
	}

	fmt.Println("\n✅ 扫描完成！")
	return nil
}

// appendNew 追加 extra 中尚未出现的依赖
func appendNew(deps, extra []fd.Dependency) []fd.Dependency {
	seen := make(map[string]bool, len(deps))
	for _, d := range deps {
		seen[d.String()] = true
	}
	for _, d := range extra {
		if !seen[d.String()] {
			seen[d.String()] = true
			deps = append(deps, d)
		}
	}
	return deps
}
