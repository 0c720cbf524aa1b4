package filter

import (
	"context"

	"github.com/rushteam/shoprec/core"
)

// AvailabilityFilter 剔除下架或缺少商品信息的候选。
type AvailabilityFilter struct{}

func (f *AvailabilityFilter) Name() string { return "filter.availability" }

func (f *AvailabilityFilter) ShouldFilter(_ context.Context, _ *core.RecommendContext, rec *core.Recommendation) (bool, error) {
	return rec == nil || rec.Product == nil || !rec.Product.Available, nil
}

var _ Filter = (*AvailabilityFilter)(nil)
