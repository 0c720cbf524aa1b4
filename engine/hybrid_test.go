package engine

import (
	"context"
	"math"
	"sort"
	"testing"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/recall"
)

// fakeBackend implements core.InteractionStore and core.ProductCatalog in memory.
type fakeBackend struct {
	interactions map[string][]core.Interaction
	products     map[string]*core.Product
	users        map[string]*core.User
	popular      []core.PopularProduct
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		interactions: make(map[string][]core.Interaction),
		products:     make(map[string]*core.Product),
		users:        make(map[string]*core.User),
	}
}

func (f *fakeBackend) addInteraction(userID, productID string, typ core.InteractionType) {
	f.interactions[userID] = append(f.interactions[userID], core.Interaction{
		UserID:    userID,
		ProductID: productID,
		Type:      typ,
	})
}

func (f *fakeBackend) ListInteractions(_ context.Context, userID string) ([]core.Interaction, error) {
	return f.interactions[userID], nil
}

func (f *fakeBackend) CountUsersWithProducts(_ context.Context, productIDs []string, excludeUserID string, minCount int) ([]core.UserOverlap, error) {
	target := make(map[string]struct{}, len(productIDs))
	for _, id := range productIDs {
		target[id] = struct{}{}
	}
	var out []core.UserOverlap
	for userID, ins := range f.interactions {
		if userID == excludeUserID {
			continue
		}
		seen := make(map[string]struct{})
		for _, in := range ins {
			if _, ok := target[in.ProductID]; ok {
				seen[in.ProductID] = struct{}{}
			}
		}
		if len(seen) >= minCount {
			out = append(out, core.UserOverlap{UserID: userID, CommonCount: len(seen)})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (f *fakeBackend) InteractedProductIDs(_ context.Context, userID string) (map[string]struct{}, error) {
	set := make(map[string]struct{})
	for _, in := range f.interactions[userID] {
		set[in.ProductID] = struct{}{}
	}
	return set, nil
}

func (f *fakeBackend) GetProduct(_ context.Context, productID string) (*core.Product, error) {
	p, ok := f.products[productID]
	if !ok {
		return nil, core.ErrProductNotFound(productID)
	}
	return p, nil
}

func (f *fakeBackend) GetUser(_ context.Context, userID string) (*core.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, core.ErrUserNotFound(userID)
	}
	return u, nil
}

func (f *fakeBackend) ListAvailable(_ context.Context, filter core.CatalogFilter) ([]*core.Product, error) {
	categories := make(map[string]struct{}, len(filter.Categories))
	for _, c := range filter.Categories {
		categories[c] = struct{}{}
	}
	ids := make([]string, 0, len(f.products))
	for id := range f.products {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var out []*core.Product
	for _, id := range ids {
		p := f.products[id]
		if !p.Available {
			continue
		}
		if len(categories) > 0 {
			if _, ok := categories[p.Category]; !ok {
				continue
			}
		}
		if p.Price < filter.PriceMin {
			continue
		}
		if filter.PriceMax > 0 && p.Price > filter.PriceMax {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeBackend) TopByPopularity(_ context.Context, limit int) ([]core.PopularProduct, error) {
	if limit > 0 && len(f.popular) > limit {
		return f.popular[:limit], nil
	}
	return f.popular, nil
}

func newHybrid(b *fakeBackend) *Hybrid {
	return &Hybrid{
		Collaborative: &recall.Collaborative{Interactions: b, Catalog: b},
		Content:       &recall.Content{Interactions: b, Catalog: b},
	}
}

func TestRecommendRejectsInvalidStrategy(t *testing.T) {
	h := newHybrid(newFakeBackend())
	_, err := h.Recommend(context.Background(), "u1", 5, true, "trending")
	if err == nil {
		t.Fatal("expected error for invalid strategy")
	}
	if !core.IsInvalidStrategy(err) {
		t.Errorf("expected INVALID_STRATEGY domain error, got %v", err)
	}
}

func TestResolveStrategy(t *testing.T) {
	t.Run("few interactions falls back to content", func(t *testing.T) {
		b := newFakeBackend()
		b.users["u1"] = &core.User{ID: "u1"}
		b.addInteraction("u1", "p1", core.InteractionView)

		h := newHybrid(b)
		got, err := h.resolveStrategy(context.Background(), "u1")
		if err != nil {
			t.Fatal(err)
		}
		if got != StrategyContent {
			t.Errorf("resolved = %q, want content", got)
		}
	})

	t.Run("no qualifying neighbors falls back to content", func(t *testing.T) {
		b := newFakeBackend()
		b.users["u1"] = &core.User{ID: "u1"}
		b.addInteraction("u1", "p1", core.InteractionView)
		b.addInteraction("u1", "p2", core.InteractionView)
		b.addInteraction("u1", "p3", core.InteractionView)

		h := newHybrid(b)
		got, err := h.resolveStrategy(context.Background(), "u1")
		if err != nil {
			t.Fatal(err)
		}
		if got != StrategyContent {
			t.Errorf("resolved = %q, want content", got)
		}
	})

	t.Run("enough signal resolves to hybrid", func(t *testing.T) {
		b := newFakeBackend()
		b.users["u1"] = &core.User{ID: "u1"}
		for _, pid := range []string{"p1", "p2", "p3"} {
			b.addInteraction("u1", pid, core.InteractionView)
			b.addInteraction("u2", pid, core.InteractionView)
		}

		h := newHybrid(b)
		got, err := h.resolveStrategy(context.Background(), "u1")
		if err != nil {
			t.Fatal(err)
		}
		if got != StrategyHybrid {
			t.Errorf("resolved = %q, want hybrid", got)
		}
	})
}

func TestNormalizeScores(t *testing.T) {
	t.Run("min-max to 0..100", func(t *testing.T) {
		recs := []*core.Recommendation{
			{Score: 10},
			{Score: 20},
			{Score: 30},
		}
		normalizeScores(recs)
		want := []float64{0, 50, 100}
		for i, rec := range recs {
			if math.Abs(rec.Score-want[i]) > 1e-9 {
				t.Errorf("recs[%d].Score = %v, want %v", i, rec.Score, want[i])
			}
		}
	})

	t.Run("uniform scores collapse to 50", func(t *testing.T) {
		recs := []*core.Recommendation{{Score: 7}, {Score: 7}}
		normalizeScores(recs)
		for i, rec := range recs {
			if rec.Score != 50 {
				t.Errorf("recs[%d].Score = %v, want 50", i, rec.Score)
			}
		}
	})

	t.Run("single entry collapses to 50", func(t *testing.T) {
		recs := []*core.Recommendation{{Score: 42}}
		normalizeScores(recs)
		if recs[0].Score != 50 {
			t.Errorf("score = %v, want 50", recs[0].Score)
		}
	})
}

func TestHybridRecommendBlendsScores(t *testing.T) {
	b := newFakeBackend()
	b.users["u1"] = &core.User{ID: "u1", Username: "alice"}
	b.products["p1"] = &core.Product{ID: "p1", Category: "Electronics", Price: 100, AverageRating: 4, Available: true}
	b.products["p2"] = &core.Product{ID: "p2", Category: "Electronics", Price: 110, AverageRating: 4.5, Available: true}
	b.products["p3"] = &core.Product{ID: "p3", Category: "Electronics", Price: 120, AverageRating: 3.5, Available: true}

	// u1 and u2 overlap on p1/p2 so collaborative has a neighbor recommending p3
	b.addInteraction("u1", "p1", core.InteractionPurchase)
	b.addInteraction("u1", "p2", core.InteractionPurchase)
	b.addInteraction("u1", "p2", core.InteractionView)
	b.addInteraction("u2", "p1", core.InteractionPurchase)
	b.addInteraction("u2", "p2", core.InteractionPurchase)
	b.addInteraction("u2", "p3", core.InteractionPurchase)

	h := newHybrid(b)
	recs, err := h.Recommend(context.Background(), "u1", 5, true, StrategyHybrid)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) == 0 {
		t.Fatal("expected hybrid recommendations")
	}
	for _, rec := range recs {
		if rec.Reason.Kind != core.ReasonHybrid {
			t.Errorf("reason kind = %q, want hybrid", rec.Reason.Kind)
		}
		hr := rec.Reason.Hybrid
		if hr == nil {
			t.Fatal("hybrid reason missing")
		}
		if hr.CollaborativeWeight != 0.6 || hr.ContentWeight != 0.4 {
			t.Errorf("weights = %v/%v, want 0.6/0.4", hr.CollaborativeWeight, hr.ContentWeight)
		}
		if len(hr.MethodsUsed) == 0 || len(hr.Details) != len(hr.MethodsUsed) {
			t.Errorf("methods = %v, details = %v", hr.MethodsUsed, hr.Details)
		}
	}
	// p3 is the only collaborative candidate and also a content candidate,
	// so it collects both weighted contributions: 0.6*50 + 0.4*normalized
	if recs[0].Product.ID != "p3" {
		t.Errorf("top hybrid pick = %q, want p3", recs[0].Product.ID)
	}
	for i := 1; i < len(recs); i++ {
		if recs[i-1].Score < recs[i].Score {
			t.Error("hybrid results must be sorted by descending score")
		}
	}
}

func TestRecommendWithDiversity(t *testing.T) {
	b := newFakeBackend()
	b.users["u1"] = &core.User{ID: "u1", Username: "alice"}
	b.products["p1"] = &core.Product{ID: "p1", Category: "Electronics", Price: 100, AverageRating: 4, Available: true}
	b.products["p2"] = &core.Product{ID: "p2", Category: "Electronics", Price: 110, AverageRating: 4.5, Available: true}
	b.products["p3"] = &core.Product{ID: "p3", Category: "Electronics", Price: 120, AverageRating: 3.5, Available: true}
	b.products["p4"] = &core.Product{ID: "p4", Category: "Books", Price: 15, AverageRating: 4.8, Available: true}
	b.products["p5"] = &core.Product{ID: "p5", Category: "Books", Price: 20, AverageRating: 4.2, Available: true}

	b.addInteraction("u1", "p1", core.InteractionPurchase)
	b.addInteraction("u1", "p2", core.InteractionPurchase)
	b.addInteraction("u1", "p4", core.InteractionView)
	b.addInteraction("u2", "p1", core.InteractionPurchase)
	b.addInteraction("u2", "p2", core.InteractionPurchase)
	b.addInteraction("u2", "p3", core.InteractionPurchase)

	h := newHybrid(b)

	t.Run("zero factor degrades to plain hybrid", func(t *testing.T) {
		plain, err := h.Recommend(context.Background(), "u1", 3, true, StrategyHybrid)
		if err != nil {
			t.Fatal(err)
		}
		got, err := h.RecommendWithDiversity(context.Background(), "u1", 3, 0)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != len(plain) {
			t.Fatalf("got %d results, want %d", len(got), len(plain))
		}
		for i := range got {
			if got[i].Product.ID != plain[i].Product.ID {
				t.Errorf("result[%d] = %q, want %q", i, got[i].Product.ID, plain[i].Product.ID)
			}
		}
	})

	t.Run("positive factor spreads categories", func(t *testing.T) {
		got, err := h.RecommendWithDiversity(context.Background(), "u1", 2, 0.5)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 2 {
			t.Fatalf("got %d results, want 2", len(got))
		}
		seen := make(map[string]bool)
		for _, rec := range got {
			seen[rec.Product.Category] = true
		}
		if !seen["Electronics"] || !seen["Books"] {
			t.Errorf("categories in top 2 = %v, want both Electronics and Books", seen)
		}
	})
}

func TestRecommendDefaultsLimit(t *testing.T) {
	b := newFakeBackend()
	b.users["u1"] = &core.User{ID: "u1"}
	h := newHybrid(b)

	// no interactions, no catalog data: content path yields nothing but must not error
	recs, err := h.Recommend(context.Background(), "u1", 0, true, StrategyContent)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 0 {
		t.Errorf("expected empty result, got %d", len(recs))
	}
}
