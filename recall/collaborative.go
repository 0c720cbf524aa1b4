package recall

import (
	"context"
	"math"
	"sort"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pipeline"
	"github.com/rushteam/shoprec/pkg/utils"
)

const (
	defaultMinCommonInteractions = 2
	defaultSimilarUserLimit      = 10
	defaultRecallLimit           = 20

	// 相似度融合权重:jaccard 衡量行为重合面,cosine 衡量偏好强度一致性
	jaccardWeight = 0.4
	cosineWeight  = 0.6
)

// UserSimilarity 记录一个邻居用户及其与目标用户的综合相似度。
type UserSimilarity struct {
	UserID     string
	Similarity float64
}

// Collaborative 基于用户协同过滤的召回源:
// 先找行为重合的邻居用户,再把邻居喜欢、目标用户没接触过的商品按加权分聚合。
type Collaborative struct {
	Interactions core.InteractionStore
	Catalog      core.ProductCatalog

	// MinCommonInteractions 邻居候选至少要与目标用户有多少个共同商品,默认 2
	MinCommonInteractions int
	// SimilarUserLimit 参与打分的邻居数上限,默认 10
	SimilarUserLimit int
	// Limit 作为 pipeline 节点运行时的召回数量,默认 20
	Limit int
	// ExcludeInteracted 为 true 时剔除目标用户已交互过的商品
	ExcludeInteracted bool
}

func (c *Collaborative) Name() string { return "recall.collaborative" }

func (c *Collaborative) Kind() pipeline.Kind { return pipeline.KindRecall }

func (c *Collaborative) Process(ctx context.Context, rctx *core.RecommendContext, recs []*core.Recommendation) ([]*core.Recommendation, error) {
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

func (c *Collaborative) Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Recommendation, error) {
	limit := c.Limit
	if limit <= 0 {
		limit = defaultRecallLimit
	}
	return c.Recommend(ctx, rctx.UserID, limit, c.ExcludeInteracted)
}

// FindSimilarUsers 返回与目标用户最相似的至多 limit 个邻居,按相似度降序。
// 相似度 = 0.4*Jaccard + 0.6*Cosine,其中 cosine 只在共同商品的分量上计算。
func (c *Collaborative) FindSimilarUsers(ctx context.Context, userID string, limit int) ([]UserSimilarity, error) {
	if limit <= 0 {
		limit = defaultSimilarUserLimit
	}
	minCommon := c.MinCommonInteractions
	if minCommon <= 0 {
		minCommon = defaultMinCommonInteractions
	}

	targetVec, err := c.interactionVector(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(targetVec) == 0 {
		return nil, nil
	}
	targetProducts := make([]string, 0, len(targetVec))
	for pid := range targetVec {
		targetProducts = append(targetProducts, pid)
	}

	overlaps, err := c.Interactions.CountUsersWithProducts(ctx, targetProducts, userID, minCommon)
	if err != nil {
		return nil, err
	}

	sims := make([]UserSimilarity, 0, len(overlaps))
	for _, ov := range overlaps {
		otherVec, err := c.interactionVector(ctx, ov.UserID)
		if err != nil {
			return nil, err
		}
		if len(otherVec) == 0 {
			continue
		}
		sim := jaccardWeight*jaccard(targetVec, otherVec) + cosineWeight*cosineOnCommon(targetVec, otherVec)
		if sim <= 0 {
			continue
		}
		sims = append(sims, UserSimilarity{UserID: ov.UserID, Similarity: sim})
	}
	sort.SliceStable(sims, func(i, j int) bool { return sims[i].Similarity > sims[j].Similarity })
	if len(sims) > limit {
		sims = sims[:limit]
	}
	return sims, nil
}

// Recommend 聚合邻居用户的交互向量产出推荐。
// 目标用户没有任何有效邻居时退化到全站热门兜底。
func (c *Collaborative) Recommend(ctx context.Context, userID string, limit int, excludeInteracted bool) ([]*core.Recommendation, error) {
	if limit <= 0 {
		limit = defaultRecallLimit
	}
	similar, err := c.FindSimilarUsers(ctx, userID, c.SimilarUserLimit)
	if err != nil {
		return nil, err
	}
	if len(similar) == 0 {
		return c.popularFallback(ctx, limit)
	}

	var interacted map[string]struct{}
	if excludeInteracted {
		interacted, err = c.Interactions.InteractedProductIDs(ctx, userID)
		if err != nil {
			return nil, err
		}
	}

	// 候选分 = Σ 邻居相似度 * 邻居对该商品的交互权重
	type candidate struct {
		score    float64
		recCount int
		simSum   float64
	}
	candidates := make(map[string]*candidate)
	for _, su := range similar {
		vec, err := c.interactionVector(ctx, su.UserID)
		if err != nil {
			return nil, err
		}
		// 负权重行为(如移出购物车)按原值参与聚合,把排斥信号传导到排序
		for pid, w := range vec {
			if _, ok := interacted[pid]; ok {
				continue
			}
			cand, ok := candidates[pid]
			if !ok {
				cand = &candidate{}
				candidates[pid] = cand
			}
			cand.score += su.Similarity * w
			cand.recCount++
			cand.simSum += su.Similarity
		}
	}

	ids := make([]string, 0, len(candidates))
	for pid := range candidates {
		ids = append(ids, pid)
	}
	sort.SliceStable(ids, func(i, j int) bool { return candidates[ids[i]].score > candidates[ids[j]].score })

	out := make([]*core.Recommendation, 0, limit)
	for _, pid := range ids {
		if len(out) >= limit {
			break
		}
		product, err := c.Catalog.GetProduct(ctx, pid)
		if err != nil {
			if core.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		if product == nil || !product.Available {
			continue
		}
		cand := candidates[pid]
		rec := core.NewRecommendation(product, cand.score, core.Reason{
			Kind: core.ReasonCollaborative,
			Collaborative: &core.CollaborativeReason{
				SimilarUsersCount:        len(similar),
				RecommendersCount:        cand.recCount,
				AvgRecommenderSimilarity: cand.simSum / float64(cand.recCount),
			},
		})
		rec.PutLabel("recall_source", utils.Label{Value: c.Name(), Source: c.Name()})
		out = append(out, rec)
	}
	return out, nil
}

func (c *Collaborative) popularFallback(ctx context.Context, limit int) ([]*core.Recommendation, error) {
	popular, err := c.Catalog.TopByPopularity(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]*core.Recommendation, 0, len(popular))
	for _, pp := range popular {
		if pp.Product == nil || !pp.Product.Available {
			continue
		}
		// 兜底分:交互量 + 2*平均评分,保证有稳定次序
		score := float64(pp.InteractionCount) + 2*pp.AvgRating
		rec := core.NewRecommendation(pp.Product, score, core.Reason{
			Kind: core.ReasonPopularFallback,
			PopularFallback: &core.PopularFallbackReason{
				InteractionCount: pp.InteractionCount,
				AvgRating:        pp.AvgRating,
			},
		})
		rec.PutLabel("recall_source", utils.Label{Value: "recall.popular", Source: c.Name()})
		out = append(out, rec)
	}
	return out, nil
}

func (c *Collaborative) interactionVector(ctx context.Context, userID string) (core.InteractionVector, error) {
	interactions, err := c.Interactions.ListInteractions(ctx, userID)
	if err != nil {
		return nil, err
	}
	return core.BuildInteractionVector(interactions), nil
}

// jaccard 基于两个向量的商品集合计算交并比。
func jaccard(a, b core.InteractionVector) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	common := 0
	for pid := range a {
		if _, ok := b[pid]; ok {
			common++
		}
	}
	union := len(a) + len(b) - common
	if union == 0 {
		return 0
	}
	return float64(common) / float64(union)
}

// cosineOnCommon 只在共同商品的分量上计算余弦相似度,任一侧范数为 0 时返回 0。
func cosineOnCommon(a, b core.InteractionVector) float64 {
	var dot, normA, normB float64
	for pid, av := range a {
		bv, ok := b[pid]
		if !ok {
			continue
		}
		dot += av * bv
		normA += av * av
		normB += bv * bv
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

var _ Source = (*Collaborative)(nil)
var _ pipeline.Node = (*Collaborative)(nil)
