package filter

import (
	"context"

	"github.com/rushteam/shoprec/core"
)

// Filter 判定单个候选是否应被剔除。返回 true 表示剔除。
type Filter interface {
	Name() string
	ShouldFilter(ctx context.Context, rctx *core.RecommendContext, rec *core.Recommendation) (bool, error)
}
