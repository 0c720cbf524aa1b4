package pipeline

import (
	"context"

	"github.com/rushteam/shoprec/core"
)

// Pipeline 把一次商品推荐拆成可组合的 Node 链：
// 召回产出候选商品，后续节点过滤、排序、重排、补充解释。
type Pipeline struct {
	Name  string
	Nodes []Node
}

// Run 依次执行各 Node，把上一个节点的候选集喂给下一个。
// 任一节点报错即中断；节点之间响应 ctx 取消。
func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	recs []*core.Recommendation,
) ([]*core.Recommendation, error) {
	cur := recs
	for _, node := range p.Nodes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
