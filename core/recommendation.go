package core

import "github.com/rushteam/shoprec/pkg/utils"

// Recommendation 是推荐链路中的统一承载结构：商品、分数、结构化理由、解释文案。
// Labels 用于链路观测与策略驱动；Score 用于排序决策。
type Recommendation struct {
	Product     *Product               `json:"product"`
	Score       float64                `json:"score"`
	Reason      Reason                 `json:"reason"`
	Explanation string                 `json:"explanation,omitempty"`
	Labels      map[string]utils.Label `json:"labels,omitempty"`
}

func NewRecommendation(p *Product, score float64, reason Reason) *Recommendation {
	return &Recommendation{
		Product: p,
		Score:   score,
		Reason:  reason,
		Labels:  make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；同名 key 按默认 Merge 规则累积。
func (r *Recommendation) PutLabel(key string, lbl utils.Label) {
	if r.Labels == nil {
		r.Labels = make(map[string]utils.Label)
	}
	if old, ok := r.Labels[key]; ok {
		r.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	r.Labels[key] = lbl
}
