package rerank

import (
	"context"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pipeline"
)

// Diversity 是一个 ReRank Node:按类目轮转重排,避免头部结果被单一类目占满。
type Diversity struct {
	// Limit 重排后保留的数量,0 表示保留全部
	Limit int
}

func (n *Diversity) Name() string        { return "rerank.diversity" }
func (n *Diversity) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *Diversity) Process(ctx context.Context, rctx *core.RecommendContext, recs []*core.Recommendation) ([]*core.Recommendation, error) {
	limit := n.Limit
	if limit <= 0 || limit > len(recs) {
		limit = len(recs)
	}
	return RoundRobinByCategory(recs, limit), nil
}

// RoundRobinByCategory 按类目轮转选取:
// 先按输入顺序(即分数序)把结果分桶到各类目,桶序为类目首次出现的顺序,
// 再循环从每个桶头部取一个,桶取空后从轮转中移除,直到凑满 limit 或全部取完。
// 单一类目时退化为原始顺序截断。
func RoundRobinByCategory(recs []*core.Recommendation, limit int) []*core.Recommendation {
	if limit <= 0 || len(recs) == 0 {
		return nil
	}
	if limit > len(recs) {
		limit = len(recs)
	}

	buckets := make(map[string][]*core.Recommendation)
	order := make([]string, 0)
	for _, rec := range recs {
		if rec == nil || rec.Product == nil {
			continue
		}
		cat := rec.Product.Category
		if _, ok := buckets[cat]; !ok {
			order = append(order, cat)
		}
		buckets[cat] = append(buckets[cat], rec)
	}
	if len(order) <= 1 {
		return recs[:limit]
	}

	out := make([]*core.Recommendation, 0, limit)
	for len(out) < limit && len(order) > 0 {
		next := order[:0]
		for _, cat := range order {
			if len(out) >= limit {
				break
			}
			bucket := buckets[cat]
			out = append(out, bucket[0])
			if len(bucket) > 1 {
				buckets[cat] = bucket[1:]
				next = append(next, cat)
			} else {
				delete(buckets, cat)
			}
		}
		order = next
	}
	return out
}

var _ pipeline.Node = (*Diversity)(nil)
