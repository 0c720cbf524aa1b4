package filter

import (
	"context"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pkg/dsl"
)

// ExprFilter 基于 CEL 表达式的过滤器:表达式为 true 的候选被剔除。
//
// 示例:
//   - `item.price > 1000.0`
//   - `item.category == "Electronics" && item.rating < 3.0`
//   - `label.recall_source == "recall.popular"`
type ExprFilter struct {
	Expr string
}

func (f *ExprFilter) Name() string { return "filter.expr" }

func (f *ExprFilter) ShouldFilter(_ context.Context, rctx *core.RecommendContext, rec *core.Recommendation) (bool, error) {
	if f.Expr == "" {
		return false, nil
	}
	return dsl.NewEval(rec, rctx).Evaluate(f.Expr)
}

var _ Filter = (*ExprFilter)(nil)
