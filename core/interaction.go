package core

import "time"

// InteractionType 是用户行为类型的闭集：
// view / purchase / cart_add / cart_remove / wishlist_add / wishlist_remove /
// rating / review / search / click。
type InteractionType string

const (
	InteractionView           InteractionType = "view"
	InteractionPurchase       InteractionType = "purchase"
	InteractionCartAdd        InteractionType = "cart_add"
	InteractionCartRemove     InteractionType = "cart_remove"
	InteractionWishlistAdd    InteractionType = "wishlist_add"
	InteractionWishlistRemove InteractionType = "wishlist_remove"
	InteractionRating         InteractionType = "rating"
	InteractionReview         InteractionType = "review"
	InteractionSearch         InteractionType = "search"
	InteractionClick          InteractionType = "click"
)

// Interaction 是一条用户-商品行为记录，创建后不可变，由 InteractionStore 持有。
// Rating 为 0 表示未评分，否则取值 1-5。
type Interaction struct {
	UserID    string          `json:"user_id"`
	ProductID string          `json:"product_id"`
	Type      InteractionType `json:"type"`
	Rating    int             `json:"rating,omitempty"`
	Quantity  int             `json:"quantity,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// interactionWeights 是行为类型到权重的固定映射。
// 权重是偏好信号的原子单位：正权重表示兴趣，负权重表示排斥。
var interactionWeights = map[InteractionType]int{
	InteractionPurchase:       10,
	InteractionRating:         8,
	InteractionReview:         8,
	InteractionCartAdd:        6,
	InteractionWishlistAdd:    5,
	InteractionClick:          3,
	InteractionView:           2,
	InteractionSearch:         1,
	InteractionCartRemove:     -2,
	InteractionWishlistRemove: -1,
}

// InteractionWeight 返回行为类型的固定权重，未知类型返回 1。
// 纯函数：同一 type 永远返回同一权重。
func InteractionWeight(t InteractionType) int {
	if w, ok := interactionWeights[t]; ok {
		return w
	}
	return 1
}

// InteractionTypes 返回全部已知的行为类型。
func InteractionTypes() []InteractionType {
	return []InteractionType{
		InteractionView,
		InteractionPurchase,
		InteractionCartAdd,
		InteractionCartRemove,
		InteractionWishlistAdd,
		InteractionWishlistRemove,
		InteractionRating,
		InteractionReview,
		InteractionSearch,
		InteractionClick,
	}
}

// Weight 返回这条记录的行为权重。
func (i *Interaction) Weight() int {
	return InteractionWeight(i.Type)
}

// InteractionVector 是派生的用户行为向量：productID -> 累计分数。
// 按请求重算，不落盘。
type InteractionVector map[string]float64

// BuildInteractionVector 把一个用户的行为记录累加为行为向量。
// 每条记录贡献其行为权重，带评分的记录额外加上评分值。
func BuildInteractionVector(interactions []Interaction) InteractionVector {
	vec := make(InteractionVector, len(interactions))
	for _, in := range interactions {
		score := float64(in.Weight())
		if in.Rating > 0 {
			score += float64(in.Rating)
		}
		vec[in.ProductID] += score
	}
	return vec
}

// ProductSet 返回向量覆盖的商品 ID 集合。
func (v InteractionVector) ProductSet() map[string]struct{} {
	set := make(map[string]struct{}, len(v))
	for id := range v {
		set[id] = struct{}{}
	}
	return set
}
