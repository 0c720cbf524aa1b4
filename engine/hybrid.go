// Package engine 组合多路召回源产出最终推荐:
// 策略解析、min-max 归一化、加权融合与多样性重排。
package engine

import (
	"context"
	"sort"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pkg/utils"
	"github.com/rushteam/shoprec/recall"
	"github.com/rushteam/shoprec/rerank"
)

// 推荐策略
const (
	StrategyAuto          = "auto"
	StrategyHybrid        = "hybrid"
	StrategyCollaborative = "collaborative"
	StrategyContent       = "content"
)

const (
	defaultLimit = 5

	defaultCollaborativeWeight = 0.6
	defaultContentWeight       = 0.4

	// auto 策略:行为数低于该阈值时认为协同信号不足
	autoMinInteractions = 3

	// 融合前各路多召回的倍数,避免融合后截断导致覆盖不足
	hybridOverfetch = 2
	// 多样性重排前的多召回倍数
	diversityOverfetch = 3
)

// Hybrid 混合推荐引擎:融合协同过滤与内容召回。
type Hybrid struct {
	Collaborative *recall.Collaborative
	Content       *recall.Content

	// 融合权重,零值时取默认 0.6/0.4
	CollaborativeWeight float64
	ContentWeight       float64
}

// Recommend 按给定策略产出至多 limit 条推荐,分数降序。
// strategy 不在支持列表时返回 INVALID_STRATEGY 领域错误,不做任何召回。
func (h *Hybrid) Recommend(ctx context.Context, userID string, limit int, excludeInteracted bool, strategy string) ([]*core.Recommendation, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	switch strategy {
	case StrategyAuto, StrategyHybrid, StrategyCollaborative, StrategyContent:
	default:
		return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeInvalidStrategy,
			"engine: unsupported strategy: "+strategy)
	}

	if strategy == StrategyAuto {
		resolved, err := h.resolveStrategy(ctx, userID)
		if err != nil {
			return nil, err
		}
		strategy = resolved
	}

	switch strategy {
	case StrategyCollaborative:
		recs, err := h.Collaborative.Recommend(ctx, userID, limit, excludeInteracted)
		if err != nil {
			return nil, err
		}
		return tagStrategy(recs, StrategyCollaborative), nil
	case StrategyContent:
		recs, err := h.Content.Recommend(ctx, userID, limit, excludeInteracted)
		if err != nil {
			return nil, err
		}
		return tagStrategy(recs, StrategyContent), nil
	default:
		return h.hybridRecommend(ctx, userID, limit, excludeInteracted)
	}
}

// RecommendWithDiversity 先以 hybrid 策略多召回,再按类目轮转重排取前 limit。
// diversityFactor <= 0 时退化为普通 hybrid 推荐。
func (h *Hybrid) RecommendWithDiversity(ctx context.Context, userID string, limit int, diversityFactor float64) ([]*core.Recommendation, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if diversityFactor <= 0 {
		return h.Recommend(ctx, userID, limit, true, StrategyHybrid)
	}
	recs, err := h.Recommend(ctx, userID, limit*diversityOverfetch, true, StrategyHybrid)
	if err != nil {
		return nil, err
	}
	return rerank.RoundRobinByCategory(recs, limit), nil
}

// resolveStrategy 是 auto 策略的落点决策:
// 行为数不足或找不到合格邻居 -> content,否则 -> hybrid。
func (h *Hybrid) resolveStrategy(ctx context.Context, userID string) (string, error) {
	interactions, err := h.Collaborative.Interactions.ListInteractions(ctx, userID)
	if err != nil {
		return "", err
	}
	if len(interactions) < autoMinInteractions {
		return StrategyContent, nil
	}
	similar, err := h.Collaborative.FindSimilarUsers(ctx, userID, 1)
	if err != nil {
		return "", err
	}
	if len(similar) == 0 {
		return StrategyContent, nil
	}
	return StrategyHybrid, nil
}

func (h *Hybrid) weights() (float64, float64) {
	cw, tw := h.CollaborativeWeight, h.ContentWeight
	if cw <= 0 && tw <= 0 {
		return defaultCollaborativeWeight, defaultContentWeight
	}
	if cw < 0 {
		cw = 0
	}
	if tw < 0 {
		tw = 0
	}
	return cw, tw
}

func (h *Hybrid) hybridRecommend(ctx context.Context, userID string, limit int, excludeInteracted bool) ([]*core.Recommendation, error) {
	fetch := limit * hybridOverfetch
	collab, err := h.Collaborative.Recommend(ctx, userID, fetch, excludeInteracted)
	if err != nil {
		return nil, err
	}
	content, err := h.Content.Recommend(ctx, userID, fetch, excludeInteracted)
	if err != nil {
		return nil, err
	}

	normalizeScores(collab)
	normalizeScores(content)

	cw, tw := h.weights()

	type merged struct {
		rec     *core.Recommendation
		score   float64
		methods []string
		details []core.MethodDetail
	}
	byID := make(map[string]*merged)
	order := make([]string, 0, len(collab)+len(content))

	add := func(recs []*core.Recommendation, method string, weight float64) {
		for _, rec := range recs {
			if rec == nil || rec.Product == nil {
				continue
			}
			m, ok := byID[rec.Product.ID]
			if !ok {
				m = &merged{rec: rec}
				byID[rec.Product.ID] = m
				order = append(order, rec.Product.ID)
			}
			m.score += weight * rec.Score
			m.methods = append(m.methods, method)
			m.details = append(m.details, core.MethodDetail{
				Method: method,
				Score:  rec.Score,
				Reason: rec.Reason,
			})
		}
	}
	add(collab, StrategyCollaborative, cw)
	add(content, StrategyContent, tw)

	out := make([]*core.Recommendation, 0, len(order))
	for _, id := range order {
		m := byID[id]
		rec := m.rec
		rec.Score = m.score
		rec.Reason = core.Reason{
			Kind: core.ReasonHybrid,
			Hybrid: &core.HybridReason{
				CollaborativeWeight: cw,
				ContentWeight:       tw,
				MethodsUsed:         m.methods,
				Details:             m.details,
			},
		}
		out = append(out, rec)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > limit {
		out = out[:limit]
	}
	return tagStrategy(out, StrategyHybrid), nil
}

// normalizeScores 把一组分数 min-max 归一化到 [0,100];
// 所有分数相同时(含单条)统一取 50,避免退化区间放大噪声。
func normalizeScores(recs []*core.Recommendation) {
	if len(recs) == 0 {
		return
	}
	min, max := recs[0].Score, recs[0].Score
	for _, rec := range recs[1:] {
		if rec.Score < min {
			min = rec.Score
		}
		if rec.Score > max {
			max = rec.Score
		}
	}
	if max == min {
		for _, rec := range recs {
			rec.Score = 50
		}
		return
	}
	for _, rec := range recs {
		rec.Score = (rec.Score - min) / (max - min) * 100
	}
}

func tagStrategy(recs []*core.Recommendation, strategy string) []*core.Recommendation {
	for _, rec := range recs {
		rec.PutLabel("strategy", utils.Label{Value: strategy, Source: "engine"})
	}
	return recs
}
