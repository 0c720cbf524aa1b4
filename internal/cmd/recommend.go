package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/engine"
)

var (
	recommendUser     string
	recommendLimit    int
	recommendStrategy string
	recommendFixture  string
	recommendDiverse  float64
	recommendPipeline string
	recommendJSON     bool
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "为用户生成推荐",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc, err := loadFixture(ctx, recommendFixture)
		if err != nil {
			return err
		}

		var recs []*core.Recommendation
		if recommendDiverse > 0 {
			recs, err = svc.RecommendWithDiversity(ctx, recommendUser, recommendLimit, recommendDiverse)
		} else {
			recs, err = svc.Recommend(ctx, recommendUser, recommendLimit, recommendStrategy)
		}
		if err != nil {
			return err
		}
		if recommendPipeline != "" {
			recs, err = runConfiguredPipeline(ctx, recommendPipeline, recommendUser, recs)
			if err != nil {
				return err
			}
		}

		if recommendJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(recs)
		}
		for i, rec := range recs {
			fmt.Printf("%2d. %-30s %-14s score=%6.2f reason=%s\n",
				i+1, rec.Product.Name, rec.Product.Category, rec.Score, rec.Reason.Kind)
			fmt.Printf("    %s\n", rec.Explanation)
		}
		return nil
	},
}

func init() {
	recommendCmd.Flags().StringVarP(&recommendUser, "user", "u", "", "用户 ID(必填)")
	recommendCmd.Flags().IntVarP(&recommendLimit, "limit", "n", 5, "推荐数量")
	recommendCmd.Flags().StringVarP(&recommendStrategy, "strategy", "s", engine.StrategyAuto, "推荐策略: auto/hybrid/collaborative/content")
	recommendCmd.Flags().StringVarP(&recommendFixture, "fixture", "f", "testdata/fixture.yaml", "数据文件路径(YAML)")
	recommendCmd.Flags().Float64Var(&recommendDiverse, "diversity", 0, "多样性系数(>0 启用类目轮转重排)")
	recommendCmd.Flags().StringVar(&recommendPipeline, "pipeline", "", "对推荐结果追加执行的 Pipeline 配置文件(YAML)")
	recommendCmd.Flags().BoolVar(&recommendJSON, "json", false, "以 JSON 输出")
	_ = recommendCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(recommendCmd)
}
