package dsl

import (
	"testing"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pkg/utils"
)

func sampleRec() *core.Recommendation {
	rec := core.NewRecommendation(&core.Product{
		ID:            "p1",
		Category:      "Electronics",
		Brand:         "SoundMax",
		Price:         129.99,
		AverageRating: 4.5,
		Available:     true,
	}, 72.5, core.Reason{Kind: core.ReasonHybrid})
	rec.PutLabel("recall_source", utils.Label{Value: "recall.popular", Source: "recall"})
	return rec
}

func TestEvaluate(t *testing.T) {
	rctx := &core.RecommendContext{UserID: "u1", Scene: "home"}
	tests := []struct {
		name string
		expr string
		want bool
	}{
		{"empty expression is true", "", true},
		{"score comparison", "item.score > 60.0", true},
		{"score comparison false", "item.score > 80.0", false},
		{"category equality", `item.category == "Electronics"`, true},
		{"brand and price", `item.brand == "SoundMax" && item.price < 200.0`, true},
		{"reason kind", `item.reason == "hybrid"`, true},
		{"label accessor", `label.recall_source == "recall.popular"`, true},
		{"label contains", `label.recall_source.contains("popular")`, true},
		{"context user", `rctx.user_id == "u1"`, true},
		{"context scene", `rctx.scene == "checkout"`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewEval(sampleRec(), rctx).Evaluate(tt.expr)
			if err != nil {
				t.Fatalf("Evaluate(%q) error: %v", tt.expr, err)
			}
			if got != tt.want {
				t.Errorf("Evaluate(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestEvaluateErrors(t *testing.T) {
	rec := sampleRec()
	if _, err := NewEval(rec, nil).Evaluate("item.score +"); err == nil {
		t.Error("expected compile error for malformed expression")
	}
	if _, err := NewEval(rec, nil).Evaluate("item.score"); err == nil {
		t.Error("expected error for non-boolean expression")
	}
}
