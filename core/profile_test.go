package core

import (
	"math"
	"testing"
)

func sampleProducts() map[string]*Product {
	return map[string]*Product{
		"p1": {ID: "p1", Category: "Electronics", Subcategory: "Audio", Brand: "SoundMax", Price: 100, Tags: []string{"Wireless", " bluetooth "}},
		"p2": {ID: "p2", Category: "Electronics", Subcategory: "Audio", Brand: "SoundMax", Price: 200},
		"p3": {ID: "p3", Category: "Sports", Brand: "FleetFoot", Price: 50},
	}
}

func TestBuildPreferenceProfileWeights(t *testing.T) {
	interactions := []Interaction{
		{UserID: "u1", ProductID: "p1", Type: InteractionView},
		{UserID: "u1", ProductID: "p2", Type: InteractionView},
	}
	p := BuildPreferenceProfile(interactions, sampleProducts(), nil)

	// two views of Electronics products: 2 + 2
	if got := p.Categories["Electronics"]; got != 4 {
		t.Errorf("Electronics weight = %v, want 4", got)
	}
	if got := p.Brands["SoundMax"]; got != 4 {
		t.Errorf("SoundMax weight = %v, want 4", got)
	}
	if got := p.Subcategories["Audio"]; got != 4 {
		t.Errorf("Audio weight = %v, want 4", got)
	}
}

func TestBuildPreferenceProfileExcludesNegativeSignals(t *testing.T) {
	interactions := []Interaction{
		{UserID: "u1", ProductID: "p3", Type: InteractionCartRemove},
		{UserID: "u1", ProductID: "p3", Type: InteractionWishlistRemove},
	}
	p := BuildPreferenceProfile(interactions, sampleProducts(), nil)

	if len(p.Categories) != 0 {
		t.Errorf("negative-only interactions should not contribute, got categories %v", p.Categories)
	}
	if p.HasPrices {
		t.Error("negative-only interactions should not observe prices")
	}
}

func TestBuildPreferenceProfilePriceRange(t *testing.T) {
	interactions := []Interaction{
		{UserID: "u1", ProductID: "p1", Type: InteractionPurchase},
		{UserID: "u1", ProductID: "p2", Type: InteractionView},
		{UserID: "u1", ProductID: "p3", Type: InteractionClick},
	}
	p := BuildPreferenceProfile(interactions, sampleProducts(), nil)

	if !p.HasPrices {
		t.Fatal("expected price history")
	}
	if p.Price.Min != 50 || p.Price.Max != 200 {
		t.Errorf("price range = [%v, %v], want [50, 200]", p.Price.Min, p.Price.Max)
	}
	wantAvg := (100.0 + 200.0 + 50.0) / 3
	if math.Abs(p.Price.Avg-wantAvg) > 1e-9 {
		t.Errorf("price avg = %v, want %v", p.Price.Avg, wantAvg)
	}
}

func TestBuildPreferenceProfileNormalizesTags(t *testing.T) {
	interactions := []Interaction{
		{UserID: "u1", ProductID: "p1", Type: InteractionView},
	}
	p := BuildPreferenceProfile(interactions, sampleProducts(), nil)

	if _, ok := p.Tags["wireless"]; !ok {
		t.Error("tags should be lowercased")
	}
	if _, ok := p.Tags["bluetooth"]; !ok {
		t.Error("tags should be trimmed")
	}
}

func TestCandidateCategoriesMergesExplicit(t *testing.T) {
	interactions := []Interaction{
		{UserID: "u1", ProductID: "p1", Type: InteractionView},
	}
	explicit := &ExplicitPreferences{Categories: []string{"Home", "Electronics"}}
	p := BuildPreferenceProfile(interactions, sampleProducts(), explicit)

	got := p.CandidateCategories()
	want := []string{"Electronics", "Home"}
	if len(got) != len(want) {
		t.Fatalf("CandidateCategories = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("CandidateCategories = %v, want %v", got, want)
			break
		}
	}
}

func TestTopCategoriesOrdering(t *testing.T) {
	interactions := []Interaction{
		{UserID: "u1", ProductID: "p3", Type: InteractionPurchase}, // Sports 10
		{UserID: "u1", ProductID: "p1", Type: InteractionView},     // Electronics 2
	}
	p := BuildPreferenceProfile(interactions, sampleProducts(), nil)

	top := p.TopCategories(2)
	if len(top) != 2 || top[0] != "Sports" || top[1] != "Electronics" {
		t.Errorf("TopCategories = %v, want [Sports Electronics]", top)
	}
}
