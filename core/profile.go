package core

import (
	"sort"
	"strings"
)

// PriceRange 是画像观察到的价格区间。Max 为 0 且无价格历史时表示未知。
type PriceRange struct {
	Min float64
	Max float64
	Avg float64
}

// PreferenceProfile 是派生的用户偏好画像：
// 从正权重行为聚合出的类目/子类目/品牌/标签权重与价格区间，
// 叠加用户显式声明的偏好。按请求重算，不落盘。
type PreferenceProfile struct {
	Categories    map[string]float64
	Subcategories map[string]float64
	Brands        map[string]float64
	Tags          map[string]float64
	Price         PriceRange
	HasPrices     bool
	Explicit      *ExplicitPreferences
}

const (
	profileTopCategories = 5
	profileTopBrands     = 5
	profileTopTags       = 10
)

// BuildPreferenceProfile 从行为记录与对应商品构建偏好画像。
// 只聚合严格正权重的行为（cart_remove 等负信号不进入画像）。
// products 为 productID -> Product 的查找表，缺失的商品被跳过。
func BuildPreferenceProfile(interactions []Interaction, products map[string]*Product, explicit *ExplicitPreferences) *PreferenceProfile {
	p := &PreferenceProfile{
		Categories:    make(map[string]float64),
		Subcategories: make(map[string]float64),
		Brands:        make(map[string]float64),
		Tags:          make(map[string]float64),
		Explicit:      explicit,
	}
	if p.Explicit == nil {
		p.Explicit = &ExplicitPreferences{}
	}

	var prices []float64
	for _, in := range interactions {
		w := float64(in.Weight())
		if w <= 0 {
			continue
		}
		prod, ok := products[in.ProductID]
		if !ok || prod == nil {
			continue
		}

		p.Categories[prod.Category] += w
		if prod.Subcategory != "" {
			p.Subcategories[prod.Subcategory] += w
		}
		if prod.Brand != "" {
			p.Brands[prod.Brand] += w
		}
		for _, tag := range prod.Tags {
			tag = strings.ToLower(strings.TrimSpace(tag))
			if tag != "" {
				p.Tags[tag] += w
			}
		}
		prices = append(prices, prod.Price)
	}

	p.Categories = topWeighted(p.Categories, profileTopCategories)
	p.Subcategories = topWeighted(p.Subcategories, profileTopCategories)
	p.Brands = topWeighted(p.Brands, profileTopBrands)
	p.Tags = topWeighted(p.Tags, profileTopTags)

	if len(prices) > 0 {
		p.HasPrices = true
		p.Price.Min, p.Price.Max = prices[0], prices[0]
		var sum float64
		for _, v := range prices {
			if v < p.Price.Min {
				p.Price.Min = v
			}
			if v > p.Price.Max {
				p.Price.Max = v
			}
			sum += v
		}
		p.Price.Avg = sum / float64(len(prices))
	}

	return p
}

// CandidateCategories 返回画像类目与显式偏好类目的并集（去重）。
func (p *PreferenceProfile) CandidateCategories() []string {
	seen := make(map[string]struct{}, len(p.Categories)+len(p.Explicit.Categories))
	out := make([]string, 0, len(p.Categories)+len(p.Explicit.Categories))
	for c := range p.Categories {
		if _, ok := seen[c]; !ok {
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	for _, c := range p.Explicit.Categories {
		if _, ok := seen[c]; !ok {
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}

// TopCategories 返回按权重降序的前 n 个画像类目。
func (p *PreferenceProfile) TopCategories(n int) []string {
	return topKeys(p.Categories, n)
}

// TopBrands 返回按权重降序的前 n 个画像品牌。
func (p *PreferenceProfile) TopBrands(n int) []string {
	return topKeys(p.Brands, n)
}

// topWeighted 仅保留权重最高的 n 个条目。
func topWeighted(m map[string]float64, n int) map[string]float64 {
	if len(m) <= n {
		return m
	}
	keys := topKeys(m, n)
	out := make(map[string]float64, n)
	for _, k := range keys {
		out[k] = m[k]
	}
	return out
}

func topKeys(m map[string]float64, n int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if m[keys[i]] != m[keys[j]] {
			return m[keys[i]] > m[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if n > 0 && len(keys) > n {
		keys = keys[:n]
	}
	return keys
}
