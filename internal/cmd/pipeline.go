package cmd

import (
	"context"
	"fmt"

	"github.com/rushteam/shoprec/config"
	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pipeline"
)

// runConfiguredPipeline 把推荐结果再过一遍 YAML 配置的 Node 链,
// 用于在不改代码的情况下叠加过滤/重排规则。
func runConfiguredPipeline(ctx context.Context, path, userID string, recs []*core.Recommendation) ([]*core.Recommendation, error) {
	cfg, err := pipeline.LoadFromYAML(path)
	if err != nil {
		return nil, fmt.Errorf("load pipeline: %w", err)
	}
	if err := config.ValidatePipelineConfig(cfg); err != nil {
		return nil, fmt.Errorf("validate pipeline: %w", err)
	}
	p, err := cfg.BuildPipeline(config.DefaultFactory())
	if err != nil {
		return nil, fmt.Errorf("build pipeline: %w", err)
	}
	rctx := &core.RecommendContext{UserID: userID}
	return p.Run(ctx, rctx, recs)
}
