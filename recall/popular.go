package recall

import (
	"context"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pipeline"
	"github.com/rushteam/shoprec/pkg/utils"
)

// Popular 全站热门召回源。
// 优先走商品目录的热度榜;无目录时退化到静态 IDs(运营配置的固定位)。
type Popular struct {
	Catalog core.ProductCatalog
	Limit   int
	// IDs 仅在 Catalog 为 nil 时生效,用于纯配置驱动的兜底位
	IDs []string
}

func (p *Popular) Name() string { return "recall.popular" }

func (p *Popular) Kind() pipeline.Kind { return pipeline.KindRecall }

func (p *Popular) Process(ctx context.Context, rctx *core.RecommendContext, recs []*core.Recommendation) ([]*core.Recommendation, error) {
	out, err := p.Recall(ctx, rctx)
	if err != nil {
		return nil, err
	}
	return append(recs, out...), nil
}

func (p *Popular) Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Recommendation, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = defaultRecallLimit
	}
	if p.Catalog == nil {
		return p.staticRecall(limit), nil
	}
	popular, err := p.Catalog.TopByPopularity(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]*core.Recommendation, 0, len(popular))
	for _, pp := range popular {
		if pp.Product == nil || !pp.Product.Available {
			continue
		}
		score := float64(pp.InteractionCount) + 2*pp.AvgRating
		rec := core.NewRecommendation(pp.Product, score, core.Reason{
			Kind: core.ReasonPopularFallback,
			PopularFallback: &core.PopularFallbackReason{
				InteractionCount: pp.InteractionCount,
				AvgRating:        pp.AvgRating,
			},
		})
		rec.PutLabel("recall_source", utils.Label{Value: p.Name(), Source: p.Name()})
		out = append(out, rec)
	}
	return out, nil
}

func (p *Popular) staticRecall(limit int) []*core.Recommendation {
	out := make([]*core.Recommendation, 0, limit)
	for i, id := range p.IDs {
		if i >= limit {
			break
		}
		rec := core.NewRecommendation(&core.Product{ID: id, Available: true}, float64(len(p.IDs)-i), core.Reason{
			Kind:            core.ReasonPopularFallback,
			PopularFallback: &core.PopularFallbackReason{},
		})
		rec.PutLabel("recall_source", utils.Label{Value: p.Name(), Source: p.Name()})
		out = append(out, rec)
	}
	return out
}

var _ Source = (*Popular)(nil)
var _ pipeline.Node = (*Popular)(nil)
