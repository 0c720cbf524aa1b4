package recall

import (
	"context"
	"math"
	"sort"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pkg/utils"
)

// 相似商品各维度的满分
const (
	similarCategoryScore    = 40.0
	similarSubcategoryScore = 20.0
	similarBrandScore       = 25.0
	similarPriceScore       = 15.0

	// 价格相差超过源价 30% 时不再给价格分
	similarPriceTolerance = 0.3

	defaultSimilarLimit = 5
)

// SimilarProducts 以单个商品为锚点召回同类/同品牌的相似商品。
type SimilarProducts struct {
	Catalog core.ProductCatalog
	Limit   int
}

func (s *SimilarProducts) Name() string { return "recall.similar" }

// FindSimilar 返回与 productID 相似度最高的至多 limit 个在售商品。
// 源商品不存在时返回 NOT_FOUND 领域错误。
func (s *SimilarProducts) FindSimilar(ctx context.Context, productID string, limit int) ([]*core.Recommendation, error) {
	if limit <= 0 {
		limit = s.Limit
	}
	if limit <= 0 {
		limit = defaultSimilarLimit
	}
	source, err := s.Catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	candidates, err := s.Catalog.ListAvailable(ctx, core.CatalogFilter{})
	if err != nil {
		return nil, err
	}

	out := make([]*core.Recommendation, 0, limit)
	for _, p := range candidates {
		if p == nil || p.ID == source.ID || !p.Available {
			continue
		}
		sameCategory := p.Category == source.Category
		sameBrand := p.Brand != "" && p.Brand == source.Brand
		if !sameCategory && !sameBrand {
			continue
		}

		var score float64
		if sameCategory {
			score += similarCategoryScore
		}
		if p.Subcategory != "" && p.Subcategory == source.Subcategory {
			score += similarSubcategoryScore
		}
		if sameBrand {
			score += similarBrandScore
		}

		priceSimilarity := 0.0
		if source.Price > 0 {
			diff := math.Abs(p.Price-source.Price) / source.Price
			if diff < similarPriceTolerance {
				score += similarPriceScore * (1 - diff/similarPriceTolerance)
			}
			priceSimilarity = math.Max(0, 100-diff*100)
		}

		rec := core.NewRecommendation(p, score, core.Reason{
			Kind: core.ReasonSimilarProduct,
			SimilarProduct: &core.SimilarProductReason{
				SameCategory:    sameCategory,
				SameBrand:       sameBrand,
				PriceSimilarity: priceSimilarity,
			},
		})
		rec.PutLabel("recall_source", utils.Label{Value: s.Name(), Source: s.Name()})
		rec.PutLabel("anchor_product", utils.Label{Value: source.ID, Source: s.Name()})
		out = append(out, rec)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
