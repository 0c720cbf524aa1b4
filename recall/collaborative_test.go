package recall

import (
	"context"
	"math"
	"testing"

	"github.com/rushteam/shoprec/core"
)

func TestFindSimilarUsersSimilarityMath(t *testing.T) {
	b := newFakeBackend()
	b.addProduct(&core.Product{ID: "p1", Available: true})
	b.addProduct(&core.Product{ID: "p2", Available: true})
	b.addProduct(&core.Product{ID: "p3", Available: true})

	// target and neighbor share p1 and p2 with identical weights
	b.addInteraction("u1", "p1", core.InteractionView, 0)
	b.addInteraction("u1", "p2", core.InteractionView, 0)
	b.addInteraction("u2", "p1", core.InteractionView, 0)
	b.addInteraction("u2", "p2", core.InteractionView, 0)
	b.addInteraction("u2", "p3", core.InteractionView, 0)

	c := &Collaborative{Interactions: b, Catalog: b}
	sims, err := c.FindSimilarUsers(context.Background(), "u1", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(sims) != 1 || sims[0].UserID != "u2" {
		t.Fatalf("similar users = %+v, want exactly u2", sims)
	}

	// jaccard = 2/3, cosine on common products = 1 (identical weights)
	want := 0.4*(2.0/3.0) + 0.6*1.0
	if math.Abs(sims[0].Similarity-want) > 1e-9 {
		t.Errorf("similarity = %v, want %v", sims[0].Similarity, want)
	}
}

func TestFindSimilarUsersRespectsMinCommon(t *testing.T) {
	b := newFakeBackend()
	b.addInteraction("u1", "p1", core.InteractionView, 0)
	b.addInteraction("u1", "p2", core.InteractionView, 0)
	// u2 shares only one product, below the default threshold of 2
	b.addInteraction("u2", "p1", core.InteractionView, 0)

	c := &Collaborative{Interactions: b, Catalog: b}
	sims, err := c.FindSimilarUsers(context.Background(), "u1", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(sims) != 0 {
		t.Errorf("expected no similar users, got %+v", sims)
	}
}

func TestCollaborativeRecommendExcludesInteracted(t *testing.T) {
	b := newFakeBackend()
	b.addProduct(&core.Product{ID: "p1", Available: true})
	b.addProduct(&core.Product{ID: "p2", Available: true})
	b.addProduct(&core.Product{ID: "p3", Name: "New Pick", Available: true})

	b.addInteraction("u1", "p1", core.InteractionPurchase, 0)
	b.addInteraction("u1", "p2", core.InteractionView, 0)
	b.addInteraction("u2", "p1", core.InteractionPurchase, 0)
	b.addInteraction("u2", "p2", core.InteractionView, 0)
	b.addInteraction("u2", "p3", core.InteractionPurchase, 0)

	c := &Collaborative{Interactions: b, Catalog: b}
	recs, err := c.Recommend(context.Background(), "u1", 10, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d recommendations, want 1", len(recs))
	}
	if recs[0].Product.ID != "p3" {
		t.Errorf("recommended %q, want p3", recs[0].Product.ID)
	}
	if recs[0].Reason.Kind != core.ReasonCollaborative {
		t.Errorf("reason kind = %q, want collaborative", recs[0].Reason.Kind)
	}
	r := recs[0].Reason.Collaborative
	if r == nil || r.SimilarUsersCount != 1 || r.RecommendersCount != 1 {
		t.Errorf("collaborative reason = %+v", r)
	}
}

func TestCollaborativeRecommendKeepsNegativeSignals(t *testing.T) {
	b := newFakeBackend()
	b.addProduct(&core.Product{ID: "p1", Available: true})
	b.addProduct(&core.Product{ID: "p2", Available: true})
	b.addProduct(&core.Product{ID: "px", Available: true})
	b.addProduct(&core.Product{ID: "py", Available: true})

	b.addInteraction("u1", "p1", core.InteractionPurchase, 0)
	b.addInteraction("u1", "p2", core.InteractionView, 0)
	// neighbor shares p1/p2, viewed py once and removed px from cart twice
	b.addInteraction("u2", "p1", core.InteractionPurchase, 0)
	b.addInteraction("u2", "p2", core.InteractionView, 0)
	b.addInteraction("u2", "py", core.InteractionView, 0)
	b.addInteraction("u2", "px", core.InteractionCartRemove, 0)
	b.addInteraction("u2", "px", core.InteractionCartRemove, 0)

	c := &Collaborative{Interactions: b, Catalog: b}
	recs, err := c.Recommend(context.Background(), "u1", 10, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d recommendations, want 2 (negative candidates stay in the list)", len(recs))
	}
	if recs[0].Product.ID != "py" || recs[1].Product.ID != "px" {
		t.Errorf("order = [%s %s], want py before px", recs[0].Product.ID, recs[1].Product.ID)
	}
	// common weights are identical: jaccard = 2/4, cosine = 1, similarity = 0.8
	sim := 0.4*0.5 + 0.6*1.0
	if want := sim * 2; math.Abs(recs[0].Score-want) > 1e-9 {
		t.Errorf("py score = %v, want %v", recs[0].Score, want)
	}
	if want := sim * -4; math.Abs(recs[1].Score-want) > 1e-9 {
		t.Errorf("px score = %v, want %v", recs[1].Score, want)
	}
}

func TestCollaborativeRecommendFiltersUnavailable(t *testing.T) {
	b := newFakeBackend()
	b.addProduct(&core.Product{ID: "p1", Available: true})
	b.addProduct(&core.Product{ID: "p2", Available: true})
	b.addProduct(&core.Product{ID: "p3", Available: false})

	b.addInteraction("u1", "p1", core.InteractionView, 0)
	b.addInteraction("u1", "p2", core.InteractionView, 0)
	b.addInteraction("u2", "p1", core.InteractionView, 0)
	b.addInteraction("u2", "p2", core.InteractionView, 0)
	b.addInteraction("u2", "p3", core.InteractionPurchase, 0)

	c := &Collaborative{Interactions: b, Catalog: b}
	recs, err := c.Recommend(context.Background(), "u1", 10, true)
	if err != nil {
		t.Fatal(err)
	}
	for _, rec := range recs {
		if rec.Product.ID == "p3" {
			t.Error("unavailable product should not be recommended")
		}
	}
}

func TestCollaborativeRecommendPopularFallback(t *testing.T) {
	b := newFakeBackend()
	b.popular = []core.PopularProduct{
		{Product: &core.Product{ID: "hot1", Available: true}, InteractionCount: 10, AvgRating: 4.5},
		{Product: &core.Product{ID: "hot2", Available: true}, InteractionCount: 5, AvgRating: 4.0},
	}

	// u1 has no interactions at all
	c := &Collaborative{Interactions: b, Catalog: b}
	recs, err := c.Recommend(context.Background(), "u1", 10, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d fallback recommendations, want 2", len(recs))
	}
	if recs[0].Reason.Kind != core.ReasonPopularFallback {
		t.Errorf("reason kind = %q, want popular_fallback", recs[0].Reason.Kind)
	}
	// score = count + 2*avg
	if want := 10 + 2*4.5; recs[0].Score != want {
		t.Errorf("fallback score = %v, want %v", recs[0].Score, want)
	}
}

func TestJaccardAndCosineEdgeCases(t *testing.T) {
	if got := jaccard(core.InteractionVector{}, core.InteractionVector{"p1": 1}); got != 0 {
		t.Errorf("jaccard with empty vector = %v, want 0", got)
	}
	// no common products means zero norms on the common restriction
	a := core.InteractionVector{"p1": 2}
	b := core.InteractionVector{"p2": 3}
	if got := cosineOnCommon(a, b); got != 0 {
		t.Errorf("cosine without common products = %v, want 0", got)
	}
}
