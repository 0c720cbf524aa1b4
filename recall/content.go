package recall

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pipeline"
	"github.com/rushteam/shoprec/pkg/utils"
)

// 内容打分各维度的满分,总和恒为 100
const (
	categoryMaxScore    = 30.0
	subcategoryMaxScore = 15.0
	brandMaxScore       = 20.0
	priceMaxScore       = 15.0
	tagsMaxScore        = 10.0
	ratingMaxScore      = 10.0

	// 仅命中显式偏好(无行为佐证)时给的折扣分
	explicitCategoryScore = 20.0
	explicitBrandScore    = 15.0
)

// Content 基于内容的召回源:从用户的交互历史与显式偏好构建偏好画像,
// 再对候选商品按画像逐维打分并归一化到 [0,100]。
type Content struct {
	Interactions core.InteractionStore
	Catalog      core.ProductCatalog
	// Preferences 可选的显式偏好来源,为 nil 时回退到商品目录里的用户档案
	Preferences core.PreferenceStore

	// Limit 作为 pipeline 节点运行时的召回数量,默认 20
	Limit int
	// ExcludeInteracted 为 true 时剔除用户已交互过的商品
	ExcludeInteracted bool
}

func (c *Content) Name() string { return "recall.content" }

func (c *Content) Kind() pipeline.Kind { return pipeline.KindRecall }

func (c *Content) Process(ctx context.Context, rctx *core.RecommendContext, recs []*core.Recommendation) ([]*core.Recommendation, error) {
	limit := c.Limit
	if limit <= 0 {
		limit = defaultRecallLimit
	}
	out, err := c.Recommend(ctx, rctx.UserID, limit, c.ExcludeInteracted)
	if err != nil {
		return nil, err
	}
	return append(recs, out...), nil
}

func (c *Content) Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Recommendation, error) {
	limit := c.Limit
	if limit <= 0 {
		limit = defaultRecallLimit
	}
	return c.Recommend(ctx, rctx.UserID, limit, c.ExcludeInteracted)
}

// Profile 构建用户的偏好画像,供打分与解释层共用。
func (c *Content) Profile(ctx context.Context, userID string) (*core.PreferenceProfile, error) {
	interactions, err := c.Interactions.ListInteractions(ctx, userID)
	if err != nil {
		return nil, err
	}
	products := make(map[string]*core.Product)
	for _, it := range interactions {
		if _, ok := products[it.ProductID]; ok {
			continue
		}
		p, err := c.Catalog.GetProduct(ctx, it.ProductID)
		if err != nil {
			if core.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		products[it.ProductID] = p
	}
	explicit, err := c.explicitPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}
	return core.BuildPreferenceProfile(interactions, products, explicit), nil
}

func (c *Content) explicitPreferences(ctx context.Context, userID string) (*core.ExplicitPreferences, error) {
	if c.Preferences != nil {
		prefs, err := c.Preferences.GetExplicitPreferences(ctx, userID)
		if err != nil {
			if core.IsNotFound(err) {
				return &core.ExplicitPreferences{}, nil
			}
			return nil, err
		}
		return prefs, nil
	}
	user, err := c.Catalog.GetUser(ctx, userID)
	if err != nil {
		if core.IsNotFound(err) {
			return &core.ExplicitPreferences{}, nil
		}
		return nil, err
	}
	return user.ExplicitPreferences(), nil
}

// Recommend 对候选商品按偏好画像打分,返回分数降序的前 limit 个。
func (c *Content) Recommend(ctx context.Context, userID string, limit int, excludeInteracted bool) ([]*core.Recommendation, error) {
	if limit <= 0 {
		limit = defaultRecallLimit
	}
	profile, err := c.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	// 候选收敛:类目取画像与显式偏好的并集,价格放宽到历史区间的 [0.5*min, 1.5*max]
	filter := core.CatalogFilter{Categories: profile.CandidateCategories()}
	if profile.HasPrices {
		filter.PriceMin = profile.Price.Min * 0.5
		filter.PriceMax = profile.Price.Max * 1.5
	}
	candidates, err := c.Catalog.ListAvailable(ctx, filter)
	if err != nil {
		return nil, err
	}

	var interacted map[string]struct{}
	if excludeInteracted {
		interacted, err = c.Interactions.InteractedProductIDs(ctx, userID)
		if err != nil {
			return nil, err
		}
	}

	out := make([]*core.Recommendation, 0, len(candidates))
	for _, p := range candidates {
		if p == nil || !p.Available {
			continue
		}
		if _, ok := interacted[p.ID]; ok {
			continue
		}
		score, reason := scoreProduct(p, profile)
		if score <= 0 {
			continue
		}
		rec := core.NewRecommendation(p, score, core.Reason{
			Kind:         core.ReasonContentBased,
			ContentBased: &reason,
		})
		rec.PutLabel("recall_source", utils.Label{Value: c.Name(), Source: c.Name()})
		out = append(out, rec)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// scoreProduct 按六个维度打分并归一化到 [0,100]。
func scoreProduct(p *core.Product, prof *core.PreferenceProfile) (float64, core.ContentBasedReason) {
	var score, maxScore float64
	var reason core.ContentBasedReason

	explicit := prof.Explicit

	// 类目:行为权重优先,仅显式偏好命中时给折扣分
	maxScore += categoryMaxScore
	if w, ok := prof.Categories[p.Category]; ok {
		score += math.Min(w*3, categoryMaxScore)
		reason.MatchedCategory = true
	} else if explicit != nil && containsString(explicit.Categories, p.Category) {
		score += explicitCategoryScore
		reason.MatchedCategory = true
	}

	// 子类目
	maxScore += subcategoryMaxScore
	if p.Subcategory != "" {
		if w, ok := prof.Subcategories[p.Subcategory]; ok {
			score += math.Min(w*1.5, subcategoryMaxScore)
		}
	}

	// 品牌
	maxScore += brandMaxScore
	if p.Brand != "" {
		if w, ok := prof.Brands[p.Brand]; ok {
			score += math.Min(w*2, brandMaxScore)
			reason.MatchedBrand = true
		} else if explicit != nil && containsString(explicit.Brands, p.Brand) {
			score += explicitBrandScore
			reason.MatchedBrand = true
		}
	}

	// 价格:落在历史区间内按与均价的偏离线性衰减;无价格历史时视为不设限
	maxScore += priceMaxScore
	if !prof.HasPrices {
		score += priceMaxScore
	} else if p.Price >= prof.Price.Min && p.Price <= prof.Price.Max {
		reason.InPriceRange = true
		width := prof.Price.Max - prof.Price.Min
		if width > 0 {
			diff := math.Abs(p.Price - prof.Price.Avg)
			score += priceMaxScore * (1 - math.Min(diff/width, 1))
		} else {
			score += priceMaxScore
		}
	}

	// 标签重合
	maxScore += tagsMaxScore
	overlap := 0
	for _, tag := range p.Tags {
		if _, ok := prof.Tags[strings.ToLower(strings.TrimSpace(tag))]; ok {
			overlap++
		}
	}
	if overlap > 0 {
		score += math.Min(float64(overlap)*3, tagsMaxScore)
	}

	// 评分
	maxScore += ratingMaxScore
	if p.AverageRating > 0 {
		score += p.AverageRating / 5 * ratingMaxScore
	}
	reason.Rating = p.AverageRating

	normalized := score / maxScore * 100
	if normalized > 100 {
		normalized = 100
	}
	return normalized, reason
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

var _ Source = (*Content)(nil)
var _ pipeline.Node = (*Content)(nil)
