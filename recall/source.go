package recall

import (
	"context"

	"github.com/rushteam/shoprec/core"
)

// Source 是召回源的抽象：针对一次请求产出候选推荐列表。
// 各 Source 同时实现 pipeline.Node，可直接编排进 Pipeline。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Recommendation, error)
}
