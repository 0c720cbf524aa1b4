package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rushteam/shoprec/core"
)

func writePipelineYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunConfiguredPipeline(t *testing.T) {
	path := writePipelineYAML(t, `
pipeline:
  name: post
  nodes:
    - type: filter.expr
      config:
        expr: 'item.category == "Toys"'
    - type: rerank.topn
      config:
        n: 2
`)
	recs := []*core.Recommendation{
		core.NewRecommendation(&core.Product{ID: "p1", Category: "Books", Available: true}, 10, core.Reason{Kind: core.ReasonPopularFallback}),
		core.NewRecommendation(&core.Product{ID: "p2", Category: "Toys", Available: true}, 30, core.Reason{Kind: core.ReasonPopularFallback}),
		core.NewRecommendation(&core.Product{ID: "p3", Category: "Books", Available: true}, 20, core.Reason{Kind: core.ReasonPopularFallback}),
	}

	out, err := runConfiguredPipeline(context.Background(), path, "u1", recs)
	if err != nil {
		t.Fatal(err)
	}
	// the Toys item is dropped by the expression, top-2 sorts the rest by score
	if len(out) != 2 {
		t.Fatalf("got %d results, want 2", len(out))
	}
	if out[0].Product.ID != "p3" || out[1].Product.ID != "p1" {
		t.Errorf("results = [%s %s], want [p3 p1]", out[0].Product.ID, out[1].Product.ID)
	}
}

func TestRunConfiguredPipelineRejectsUnknownNode(t *testing.T) {
	path := writePipelineYAML(t, `
pipeline:
  name: broken
  nodes:
    - type: rank.mystery
`)
	if _, err := runConfiguredPipeline(context.Background(), path, "u1", nil); err == nil {
		t.Fatal("expected error for unregistered node type")
	}
}
