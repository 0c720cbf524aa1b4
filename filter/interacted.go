package filter

import (
	"context"

	"github.com/rushteam/shoprec/core"
)

// interactedParamKey 在 RecommendContext.Params 里缓存已交互商品集,
// 同一次请求内多次过滤只查一次存储。
const interactedParamKey = "interacted_products"

// InteractedFilter 剔除用户已交互过的商品。
type InteractedFilter struct {
	Interactions core.InteractionStore
}

func (f *InteractedFilter) Name() string { return "filter.interacted" }

func (f *InteractedFilter) ShouldFilter(ctx context.Context, rctx *core.RecommendContext, rec *core.Recommendation) (bool, error) {
	if rec == nil || rec.Product == nil || rctx == nil || rctx.UserID == "" {
		return false, nil
	}
	interacted, err := f.interactedSet(ctx, rctx)
	if err != nil {
		return false, err
	}
	_, ok := interacted[rec.Product.ID]
	return ok, nil
}

func (f *InteractedFilter) interactedSet(ctx context.Context, rctx *core.RecommendContext) (map[string]struct{}, error) {
	if v, ok := rctx.GetParam(interactedParamKey); ok {
		if set, ok := v.(map[string]struct{}); ok {
			return set, nil
		}
	}
	set, err := f.Interactions.InteractedProductIDs(ctx, rctx.UserID)
	if err != nil {
		return nil, err
	}
	rctx.SetParam(interactedParamKey, set)
	return set, nil
}

var _ Filter = (*InteractedFilter)(nil)
