package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/engine"
	"github.com/rushteam/shoprec/explain"
	"github.com/rushteam/shoprec/recall"
	"github.com/rushteam/shoprec/store"
	"github.com/rushteam/shoprec/textgen"
)

// fixture 是演示/联调用的数据文件结构(YAML)。
type fixture struct {
	Products []fixtureProduct     `yaml:"products"`
	Users    []fixtureUser        `yaml:"users"`
	Events   []fixtureInteraction `yaml:"interactions"`
}

type fixtureProduct struct {
	ID            string   `yaml:"id"`
	Name          string   `yaml:"name"`
	Category      string   `yaml:"category"`
	Subcategory   string   `yaml:"subcategory"`
	Brand         string   `yaml:"brand"`
	Price         float64  `yaml:"price"`
	AverageRating float64  `yaml:"average_rating"`
	ReviewCount   int      `yaml:"review_count"`
	Tags          []string `yaml:"tags"`
	Available     *bool    `yaml:"available"`
}

type fixtureUser struct {
	ID                  string   `yaml:"id"`
	Username            string   `yaml:"username"`
	PreferredCategories []string `yaml:"preferred_categories"`
	PreferredBrands     []string `yaml:"preferred_brands"`
	PriceRangeMin       float64  `yaml:"price_range_min"`
	PriceRangeMax       float64  `yaml:"price_range_max"`
}

type fixtureInteraction struct {
	UserID    string `yaml:"user_id"`
	ProductID string `yaml:"product_id"`
	Type      string `yaml:"type"`
	Rating    int    `yaml:"rating"`
	Quantity  int    `yaml:"quantity"`
	CreatedAt string `yaml:"created_at"`
}

// loadFixture 读取 YAML 数据文件并灌入内存存储,返回组装好的推荐服务。
func loadFixture(ctx context.Context, path string) (*engine.Service, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	var fx fixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}

	products := make([]*core.Product, 0, len(fx.Products))
	for _, p := range fx.Products {
		available := true
		if p.Available != nil {
			available = *p.Available
		}
		products = append(products, &core.Product{
			ID:            p.ID,
			Name:          p.Name,
			Category:      p.Category,
			Subcategory:   p.Subcategory,
			Brand:         p.Brand,
			Price:         p.Price,
			AverageRating: p.AverageRating,
			ReviewCount:   p.ReviewCount,
			Tags:          p.Tags,
			Available:     available,
		})
	}
	users := make([]*core.User, 0, len(fx.Users))
	for _, u := range fx.Users {
		users = append(users, &core.User{
			ID:                  u.ID,
			Username:            u.Username,
			PreferredCategories: u.PreferredCategories,
			PreferredBrands:     u.PreferredBrands,
			PriceRangeMin:       u.PriceRangeMin,
			PriceRangeMax:       u.PriceRangeMax,
		})
	}
	interactions := make([]core.Interaction, 0, len(fx.Events))
	for _, e := range fx.Events {
		it := core.Interaction{
			UserID:    e.UserID,
			ProductID: e.ProductID,
			Type:      core.InteractionType(e.Type),
			Rating:    e.Rating,
			Quantity:  e.Quantity,
		}
		if e.CreatedAt != "" {
			if t, err := time.Parse(time.RFC3339, e.CreatedAt); err == nil {
				it.CreatedAt = t
			}
		}
		interactions = append(interactions, it)
	}

	mem := store.NewMemoryStore()
	adapter := store.NewAdapter(mem, "rec")
	if err := adapter.Seed(ctx, products, users, interactions); err != nil {
		return nil, fmt.Errorf("seed fixture: %w", err)
	}

	return buildService(adapter), nil
}

// buildService 组装推荐服务:双路召回、混合引擎、解释适配器。
func buildService(adapter *store.Adapter) *engine.Service {
	collab := &recall.Collaborative{
		Interactions: adapter,
		Catalog:      adapter,
	}
	content := &recall.Content{
		Interactions: adapter,
		Catalog:      adapter,
	}
	hybrid := &engine.Hybrid{
		Collaborative: collab,
		Content:       content,
	}
	similar := &recall.SimilarProducts{Catalog: adapter}

	var generator core.TextGenerator
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		client, err := textgen.NewClient(textgen.Config{
			APIKey: apiKey,
			Model:  os.Getenv("GEMINI_MODEL"),
		}, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("textgen init failed, falling back to templates")
		} else {
			generator = client
		}
	}
	explainer := explain.NewAdapter(generator, logger)

	return engine.NewService(hybrid, similar, adapter, explainer, logger)
}
