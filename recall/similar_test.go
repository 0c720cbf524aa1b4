package recall

import (
	"context"
	"math"
	"testing"

	"github.com/rushteam/shoprec/core"
)

func similarCatalog() *fakeBackend {
	b := newFakeBackend()
	b.addProduct(&core.Product{ID: "src", Category: "Electronics", Subcategory: "Audio", Brand: "SoundMax", Price: 100, Available: true})
	b.addProduct(&core.Product{ID: "twin", Category: "Electronics", Subcategory: "Audio", Brand: "SoundMax", Price: 100, Available: true})
	b.addProduct(&core.Product{ID: "cat-only", Category: "Electronics", Subcategory: "Wearables", Brand: "PulseTech", Price: 100, Available: true})
	b.addProduct(&core.Product{ID: "brand-only", Category: "Home", Brand: "SoundMax", Price: 100, Available: true})
	b.addProduct(&core.Product{ID: "unrelated", Category: "Sports", Brand: "FleetFoot", Price: 100, Available: true})
	b.addProduct(&core.Product{ID: "pricey", Category: "Electronics", Subcategory: "Audio", Brand: "SoundMax", Price: 200, Available: true})
	return b
}

func TestFindSimilarScoringAndOrdering(t *testing.T) {
	s := &SimilarProducts{Catalog: similarCatalog()}
	recs, err := s.FindSimilar(context.Background(), "src", 10)
	if err != nil {
		t.Fatal(err)
	}

	scores := make(map[string]float64, len(recs))
	for _, rec := range recs {
		if rec.Product.ID == "src" {
			t.Fatal("source product must be excluded from its own similars")
		}
		if rec.Product.ID == "unrelated" {
			t.Fatal("products sharing neither category nor brand must be excluded")
		}
		scores[rec.Product.ID] = rec.Score
	}

	// twin: category 40 + subcategory 20 + brand 25 + full price 15
	if got := scores["twin"]; math.Abs(got-100) > 1e-9 {
		t.Errorf("twin score = %v, want 100", got)
	}
	// cat-only: category 40 + full price 15
	if got := scores["cat-only"]; math.Abs(got-55) > 1e-9 {
		t.Errorf("cat-only score = %v, want 55", got)
	}
	// brand-only: brand 25 + full price 15
	if got := scores["brand-only"]; math.Abs(got-40) > 1e-9 {
		t.Errorf("brand-only score = %v, want 40", got)
	}
	// pricey is 100% above the source price: no price credit at all
	if got := scores["pricey"]; math.Abs(got-85) > 1e-9 {
		t.Errorf("pricey score = %v, want 85", got)
	}
	if recs[0].Product.ID != "twin" {
		t.Errorf("top similar = %q, want twin", recs[0].Product.ID)
	}
}

func TestFindSimilarPriceDecay(t *testing.T) {
	b := newFakeBackend()
	b.addProduct(&core.Product{ID: "src", Category: "Electronics", Price: 100, Available: true})
	b.addProduct(&core.Product{ID: "near", Category: "Electronics", Price: 115, Available: true})
	s := &SimilarProducts{Catalog: b}

	recs, err := s.FindSimilar(context.Background(), "src", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d similars, want 1", len(recs))
	}
	// diff = 15%, credit = 15 * (1 - 0.15/0.3) = 7.5, plus category 40
	if want := 47.5; math.Abs(recs[0].Score-want) > 1e-9 {
		t.Errorf("score = %v, want %v", recs[0].Score, want)
	}
	r := recs[0].Reason.SimilarProduct
	if r == nil || !r.SameCategory || r.SameBrand {
		t.Errorf("reason = %+v", r)
	}
	if math.Abs(r.PriceSimilarity-85) > 1e-9 {
		t.Errorf("price similarity = %v, want 85", r.PriceSimilarity)
	}
}

func TestFindSimilarMissingSource(t *testing.T) {
	s := &SimilarProducts{Catalog: newFakeBackend()}
	_, err := s.FindSimilar(context.Background(), "ghost", 5)
	if err == nil {
		t.Fatal("expected error for missing source product")
	}
	if !core.IsNotFound(err) {
		t.Errorf("expected NOT_FOUND domain error, got %v", err)
	}
}
