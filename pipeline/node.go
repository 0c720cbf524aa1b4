package pipeline

import (
	"context"

	"github.com/rushteam/shoprec/core"
)

// Kind 标记 Node 所处的阶段，方便按阶段打点和编排。
type Kind string

const (
	KindRecall      Kind = "recall"      // 召回：从行为数据/商品目录生成候选商品
	KindFilter      Kind = "filter"      // 过滤：剔除已购买、下架等不合适的候选
	KindRank        Kind = "rank"        // 排序：按推荐分排列候选
	KindReRank      Kind = "rerank"      // 重排：类目多样性等业务调优
	KindPostProcess Kind = "postprocess" // 后处理：补充推荐理由文案等
)

// Node 是 Pipeline 的最小可扩展单元。
// 统一采用"输入 recs -> 输出 recs"的形态：召回节点忽略输入生成候选，
// 过滤/重排节点收缩或重排输入。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		rctx *core.RecommendContext,
		recs []*core.Recommendation,
	) ([]*core.Recommendation, error)
}
