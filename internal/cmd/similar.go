package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	similarProduct string
	similarLimit   int
	similarFixture string
	similarJSON    bool
)

var similarCmd = &cobra.Command{
	Use:   "similar",
	Short: "查找相似商品",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc, err := loadFixture(ctx, similarFixture)
		if err != nil {
			return err
		}
		recs, err := svc.SimilarProducts(ctx, similarProduct, similarLimit)
		if err != nil {
			return err
		}

		if similarJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(recs)
		}
		for i, rec := range recs {
			fmt.Printf("%2d. %-30s %-14s score=%6.2f\n",
				i+1, rec.Product.Name, rec.Product.Category, rec.Score)
			fmt.Printf("    %s\n", rec.Explanation)
		}
		return nil
	},
}

func init() {
	similarCmd.Flags().StringVarP(&similarProduct, "product", "p", "", "商品 ID(必填)")
	similarCmd.Flags().IntVarP(&similarLimit, "limit", "n", 5, "返回数量")
	similarCmd.Flags().StringVarP(&similarFixture, "fixture", "f", "testdata/fixture.yaml", "数据文件路径(YAML)")
	similarCmd.Flags().BoolVar(&similarJSON, "json", false, "以 JSON 输出")
	_ = similarCmd.MarkFlagRequired("product")
	rootCmd.AddCommand(similarCmd)
}
