package explain

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rushteam/shoprec/core"
)

// UserContext 是解释文案生成所需的用户侧上下文摘要。
type UserContext struct {
	Username           string
	TopCategories      []string
	TopBrands          []string
	SimilarUsersCount  int
	InteractionSummary map[core.InteractionType]int
}

// Adapter 把结构化推荐理由转成面向用户的解释文案。
// 优先调用文本生成服务;服务不可用、被限流或返回空时落到确定性模板兜底,
// Explain 永不返回错误,也永不返回空串。
type Adapter struct {
	generator core.TextGenerator
	cache     *promptCache
	logger    zerolog.Logger
}

// NewAdapter 创建解释适配器。generator 为 nil 时全部走模板兜底。
func NewAdapter(generator core.TextGenerator, logger zerolog.Logger) *Adapter {
	return &Adapter{
		generator: generator,
		cache:     newPromptCache(defaultCacheCapacity),
		logger:    logger.With().Str("module", "explain").Logger(),
	}
}

// Explain 为一条推荐生成解释文案。
func (a *Adapter) Explain(ctx context.Context, product *core.Product, uc *UserContext, reason core.Reason) string {
	if product == nil {
		return "We think you'll love this product!"
	}
	fallback := fallbackText(product, reason)
	if a.generator == nil {
		return fallback
	}
	prompt := BuildPrompt(product, uc, reason)
	return a.generate(ctx, prompt, fallback)
}

// ExplainSimilar 为"相似商品"场景生成解释文案,锚定源商品。
func (a *Adapter) ExplainSimilar(ctx context.Context, source, product *core.Product, reason core.Reason) string {
	if product == nil {
		return "We think you'll love this product!"
	}
	fallback := similarFallbackText(source, product, reason)
	if a.generator == nil {
		return fallback
	}
	prompt := BuildSimilarPrompt(source, product, reason)
	return a.generate(ctx, prompt, fallback)
}

func (a *Adapter) generate(ctx context.Context, prompt, fallback string) string {
	if text, ok := a.cache.Get(prompt); ok {
		return text
	}
	text, err := a.generator.Generate(ctx, prompt)
	if err != nil {
		a.logger.Debug().Err(err).Msg("text generation failed, using fallback")
		return fallback
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return fallback
	}
	a.cache.Put(prompt, text)
	return text
}

// BuildPrompt 按推荐理由拼装生成提示词。
func BuildPrompt(product *core.Product, uc *UserContext, reason core.Reason) string {
	var b strings.Builder
	b.WriteString("You are a recommendation assistant for an online shop. ")
	b.WriteString("Write a single friendly sentence (max 30 words) explaining why we recommend this product. ")
	b.WriteString("Do not use markdown.\n\n")

	fmt.Fprintf(&b, "Product: %s (category: %s", product.Name, product.Category)
	if product.Brand != "" {
		fmt.Fprintf(&b, ", brand: %s", product.Brand)
	}
	fmt.Fprintf(&b, ", price: %.2f, rating: %.1f/5)\n", product.Price, product.AverageRating)

	if uc != nil {
		if uc.Username != "" {
			fmt.Fprintf(&b, "User: %s\n", uc.Username)
		}
		if len(uc.TopCategories) > 0 {
			fmt.Fprintf(&b, "User's favorite categories: %s\n", strings.Join(uc.TopCategories, ", "))
		}
		if len(uc.TopBrands) > 0 {
			fmt.Fprintf(&b, "User's favorite brands: %s\n", strings.Join(uc.TopBrands, ", "))
		}
	}

	switch reason.Kind {
	case core.ReasonCollaborative:
		if r := reason.Collaborative; r != nil {
			fmt.Fprintf(&b, "Recommendation basis: %d users with similar taste also liked this product.\n", r.SimilarUsersCount)
		}
	case core.ReasonContentBased:
		if r := reason.ContentBased; r != nil {
			parts := make([]string, 0, 3)
			if r.MatchedCategory {
				parts = append(parts, "it matches the user's preferred category")
			}
			if r.MatchedBrand {
				parts = append(parts, "it is from a brand the user likes")
			}
			if r.InPriceRange {
				parts = append(parts, "it fits the user's usual price range")
			}
			if len(parts) > 0 {
				fmt.Fprintf(&b, "Recommendation basis: %s.\n", strings.Join(parts, "; "))
			}
		}
	case core.ReasonHybrid:
		b.WriteString("Recommendation basis: a blend of the user's own preferences and what similar users enjoyed.\n")
	case core.ReasonPopularFallback:
		if r := reason.PopularFallback; r != nil {
			fmt.Fprintf(&b, "Recommendation basis: a popular product with %d interactions.\n", r.InteractionCount)
		}
	}
	return b.String()
}

// BuildSimilarPrompt 拼装相似商品场景的提示词。
func BuildSimilarPrompt(source, product *core.Product, reason core.Reason) string {
	var b strings.Builder
	b.WriteString("You are a recommendation assistant for an online shop. ")
	b.WriteString("Write a single friendly sentence (max 30 words) explaining why this product is similar to the one the user is viewing. ")
	b.WriteString("Do not use markdown.\n\n")
	if source != nil {
		fmt.Fprintf(&b, "Viewed product: %s (category: %s, brand: %s, price: %.2f)\n",
			source.Name, source.Category, source.Brand, source.Price)
	}
	fmt.Fprintf(&b, "Similar product: %s (category: %s, brand: %s, price: %.2f, rating: %.1f/5)\n",
		product.Name, product.Category, product.Brand, product.Price, product.AverageRating)
	if r := reason.SimilarProduct; r != nil {
		parts := make([]string, 0, 3)
		if r.SameCategory {
			parts = append(parts, "same category")
		}
		if r.SameBrand {
			parts = append(parts, "same brand")
		}
		if r.PriceSimilarity > 0 {
			parts = append(parts, fmt.Sprintf("%.0f%% price similarity", r.PriceSimilarity))
		}
		if len(parts) > 0 {
			fmt.Fprintf(&b, "Similarity basis: %s.\n", strings.Join(parts, ", "))
		}
	}
	return b.String()
}

// fallbackText 按理由类型生成确定性兜底文案,保证引用商品名、类目与评分。
func fallbackText(product *core.Product, reason core.Reason) string {
	switch reason.Kind {
	case core.ReasonCollaborative:
		n := 0
		if reason.Collaborative != nil {
			n = reason.Collaborative.SimilarUsersCount
		}
		return fmt.Sprintf("We recommend %s because %d users with similar taste also liked this product. It's in the %s category and has a %.1f star rating.",
			product.Name, n, product.Category, product.AverageRating)
	case core.ReasonContentBased:
		r := reason.ContentBased
		if r != nil && (r.MatchedCategory || r.MatchedBrand) {
			var b strings.Builder
			fmt.Fprintf(&b, "We recommend %s", product.Name)
			if r.MatchedCategory {
				fmt.Fprintf(&b, " because it matches your interest in %s", product.Category)
			}
			if r.MatchedBrand && product.Brand != "" {
				if r.MatchedCategory {
					fmt.Fprintf(&b, " and it's from %s, a brand you like", product.Brand)
				} else {
					fmt.Fprintf(&b, " because it's from %s, a brand you like", product.Brand)
				}
			}
			fmt.Fprintf(&b, ". It has a %.1f star rating.", product.AverageRating)
			return b.String()
		}
		return fmt.Sprintf("We recommend %s, a well-rated pick in the %s category with a %.1f star rating.",
			product.Name, product.Category, product.AverageRating)
	case core.ReasonHybrid:
		return fmt.Sprintf("We recommend %s based on both your personal preferences and what similar users enjoyed. It's a highly rated %s pick (%.1f stars) that fits your style.",
			product.Name, product.Category, product.AverageRating)
	default:
		return fmt.Sprintf("We think you'll love %s! It's a popular choice in the %s category with a %.1f star rating.",
			product.Name, product.Category, product.AverageRating)
	}
}

func similarFallbackText(source, product *core.Product, reason core.Reason) string {
	sourceName := "the product you're viewing"
	if source != nil {
		sourceName = source.Name
	}
	r := reason.SimilarProduct
	switch {
	case r != nil && r.SameCategory && r.SameBrand:
		return fmt.Sprintf("%s is similar to %s: same %s category, same brand, and a %.1f star rating.",
			product.Name, sourceName, product.Category, product.AverageRating)
	case r != nil && r.SameBrand:
		return fmt.Sprintf("%s is from the same brand as %s and has a %.1f star rating.",
			product.Name, sourceName, product.AverageRating)
	default:
		return fmt.Sprintf("%s is similar to %s in the %s category, with a %.1f star rating.",
			product.Name, sourceName, product.Category, product.AverageRating)
	}
}
