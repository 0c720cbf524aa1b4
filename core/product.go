package core

// Product 是商品目录中的一个条目。推荐引擎对其只读。
type Product struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Category      string   `json:"category"`
	Subcategory   string   `json:"subcategory,omitempty"`
	Brand         string   `json:"brand,omitempty"`
	Price         float64  `json:"price"`
	AverageRating float64  `json:"average_rating"` // 0-5
	ReviewCount   int      `json:"review_count"`
	Tags          []string `json:"tags,omitempty"`
	Available     bool     `json:"available"`
}

// User 是商城用户的画像快照，携带显式声明的偏好（站内设置页填写）。
type User struct {
	ID                  string   `json:"id"`
	Username            string   `json:"username"`
	PreferredCategories []string `json:"preferred_categories,omitempty"`
	PreferredBrands     []string `json:"preferred_brands,omitempty"`
	PriceRangeMin       float64  `json:"price_range_min,omitempty"`
	PriceRangeMax       float64  `json:"price_range_max,omitempty"`
}

// ExplicitPreferences 是用户显式声明的偏好，可由 User 记录或特征服务提供。
type ExplicitPreferences struct {
	Categories []string
	Brands     []string
	PriceMin   float64
	PriceMax   float64
}

// ExplicitPreferences 从 User 记录提取显式偏好。
func (u *User) ExplicitPreferences() *ExplicitPreferences {
	if u == nil {
		return &ExplicitPreferences{}
	}
	return &ExplicitPreferences{
		Categories: u.PreferredCategories,
		Brands:     u.PreferredBrands,
		PriceMin:   u.PriceRangeMin,
		PriceMax:   u.PriceRangeMax,
	}
}

// CatalogFilter 是 ProductCatalog.ListAvailable 的过滤条件。
// Categories 为空表示不限类目；PriceMax 为 0 表示不限价格。
type CatalogFilter struct {
	Categories []string
	PriceMin   float64
	PriceMax   float64
}

// PopularProduct 是按热度聚合后的商品条目。
type PopularProduct struct {
	Product          *Product
	InteractionCount int
	AvgRating        float64
}

// UserOverlap 是邻居候选：与目标用户有共同交互商品的用户及其共同数。
type UserOverlap struct {
	UserID      string
	CommonCount int
}
