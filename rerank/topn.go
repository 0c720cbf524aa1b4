package rerank

import (
	"context"
	"sort"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pipeline"
)

// TopNNode 是一个 Top-N 截断节点:按分数降序稳定排序后截取前 N 个。
// 通常放在召回/过滤之后、多样性重排之前。
type TopNNode struct {
	// N 要保留的数量;N <= 0 表示只排序不截断
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	recs []*core.Recommendation,
) ([]*core.Recommendation, error) {
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Score > recs[j].Score })
	if n.N <= 0 || len(recs) <= n.N {
		return recs, nil
	}
	return recs[:n.N], nil
}

var _ pipeline.Node = (*TopNNode)(nil)
