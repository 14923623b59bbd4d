package main

import (
	"log"

	"github.com/spf13/cobra"

	"schema-normalizer/internal/config"
)

var (
	inputFile string
	attrsFlag string
	fdFlags   []string
	maxAttrs  int

	outputDir string
	format    string

	closureOf     string
	closureWithin string

	dbType  string
	connStr string
	schema  string
	table   string
	mine    bool
	maxRows int64
	maxLHS  int
)

var cfg *config.Config

func main() {
	rootCmd := &cobra.Command{
		Use:   "schema-normalizer",
		Short: "关系模式规范化工具",
		Long:  "根据函数依赖求候选键，并把关系依次分解到 2NF、3NF 和 BCNF",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return err
			}
			if maxAttrs > 0 {
				cfg.MaxAttributes = maxAttrs
			}
			return nil
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().IntVar(&maxAttrs, "max-attrs", 0, "属性个数上限（默认取 MAX_ATTRIBUTES）")

	normalizeCmd := &cobra.Command{
		Use:   "normalize",
		Short: "执行 2NF → 3NF → BCNF 分解",
		RunE:  runNormalize,
	}
	addSchemaFlags(normalizeCmd)
	normalizeCmd.Flags().StringVar(&outputDir, "output", "", "输出目录（默认取 OUTPUT_DIR）")
	normalizeCmd.Flags().StringVar(&format, "format", "all", "输出格式 (md/html/json/mermaid/all/none)")

	keysCmd := &cobra.Command{
		Use:   "keys",
		Short: "列出候选键、超键和主属性",
		RunE:  runKeys,
	}
	addSchemaFlags(keysCmd)

	closureCmd := &cobra.Command{
		Use:   "closure",
		Short: "计算属性闭包并显示推导步骤",
		RunE:  runClosure,
	}
	addSchemaFlags(closureCmd)
	closureCmd.Flags().StringVar(&closureOf, "of", "", "起始属性，逗号分隔")
	closureCmd.Flags().StringVar(&closureWithin, "within", "", "限定范围，逗号分隔（可选）")
	closureCmd.MarkFlagRequired("of")

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "对每条依赖分类并给出最高范式",
		RunE:  runAnalyze,
	}
	addSchemaFlags(analyzeCmd)

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "扫描数据库表并逐表规范化",
		RunE:  runScan,
	}
	scanCmd.Flags().StringVar(&dbType, "type", "sqlserver", "数据库类型 (sqlserver/mysql/postgres)")
	scanCmd.Flags().StringVar(&connStr, "conn", "", "连接字符串")
	scanCmd.Flags().StringVar(&schema, "schema", "", "数据库 schema (MySQL 必需)")
	scanCmd.Flags().StringVar(&table, "table", "", "只处理该表")
	scanCmd.Flags().BoolVar(&mine, "mine", false, "从数据中挖掘函数依赖")
	scanCmd.Flags().Int64Var(&maxRows, "max-rows", 1000000, "挖掘时跳过超过该行数的表")
	scanCmd.Flags().IntVar(&maxLHS, "max-lhs", 1, "挖掘时左侧最多列数")
	scanCmd.Flags().StringVar(&outputDir, "output", "", "输出目录（默认取 OUTPUT_DIR）")
	scanCmd.MarkFlagRequired("conn")

	rootCmd.AddCommand(normalizeCmd, keysCmd, closureCmd, analyzeCmd, scanCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func addSchemaFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&inputFile, "input", "", "YAML/JSON 输入文件")
	cmd.Flags().StringVar(&attrsFlag, "attrs", "", "属性，逗号分隔")
	cmd.Flags().StringArrayVar(&fdFlags, "fd", nil, "函数依赖，如 \"A, B -> C\"，可重复")
}
