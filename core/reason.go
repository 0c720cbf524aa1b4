package core

// ReasonKind 标记推荐理由的产生方法，下游可按 Kind 穷举匹配。
type ReasonKind string

const (
	ReasonCollaborative   ReasonKind = "collaborative"
	ReasonContentBased    ReasonKind = "content_based"
	ReasonHybrid          ReasonKind = "hybrid"
	ReasonPopularFallback ReasonKind = "popular_fallback"
	ReasonSimilarProduct  ReasonKind = "similar_product"
)

// Reason 是带标签的和类型：Kind 指明生效的变体，其余变体指针为 nil。
// 不用开放式 map 建模，保证消费方可以穷举处理每种理由。
type Reason struct {
	Kind            ReasonKind             `json:"kind"`
	Collaborative   *CollaborativeReason   `json:"collaborative,omitempty"`
	ContentBased    *ContentBasedReason    `json:"content_based,omitempty"`
	Hybrid          *HybridReason          `json:"hybrid,omitempty"`
	PopularFallback *PopularFallbackReason `json:"popular_fallback,omitempty"`
	SimilarProduct  *SimilarProductReason  `json:"similar_product,omitempty"`
}

// CollaborativeReason 记录协同过滤的邻居统计。
type CollaborativeReason struct {
	SimilarUsersCount        int     `json:"similar_users_count"`
	RecommendersCount        int     `json:"recommenders_count"`
	AvgRecommenderSimilarity float64 `json:"avg_recommender_similarity"`
}

// ContentBasedReason 记录内容匹配命中的维度。
type ContentBasedReason struct {
	MatchedCategory bool    `json:"matched_category"`
	MatchedBrand    bool    `json:"matched_brand"`
	InPriceRange    bool    `json:"in_price_range"`
	Rating          float64 `json:"rating"`
}

// HybridReason 记录混合打分的权重与各方法明细。
type HybridReason struct {
	CollaborativeWeight float64        `json:"collaborative_weight"`
	ContentWeight       float64        `json:"content_weight"`
	MethodsUsed         []string       `json:"methods_used"`
	Details             []MethodDetail `json:"details"`
}

// MethodDetail 是混合理由中单个方法的贡献明细。
// Score 是该方法归一化后的分数，Reason 是该方法的原始理由。
type MethodDetail struct {
	Method string  `json:"method"`
	Score  float64 `json:"score"`
	Reason Reason  `json:"reason"`
}

// PopularFallbackReason 记录热门兜底的聚合统计。
type PopularFallbackReason struct {
	InteractionCount int     `json:"interaction_count"`
	AvgRating        float64 `json:"avg_rating"`
}

// SimilarProductReason 记录相似商品的匹配维度。
// PriceSimilarity 以百分比表示（100 为同价）。
type SimilarProductReason struct {
	SameCategory    bool    `json:"same_category"`
	SameBrand       bool    `json:"same_brand"`
	PriceSimilarity float64 `json:"price_similarity"`
}
