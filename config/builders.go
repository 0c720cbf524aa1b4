package config

import (
	"time"

	"github.com/rushteam/shoprec/filter"
	"github.com/rushteam/shoprec/pipeline"
	"github.com/rushteam/shoprec/pkg/conv"
	"github.com/rushteam/shoprec/recall"
	"github.com/rushteam/shoprec/rerank"
)

// 内置的配置驱动 Node。依赖存储/目录的节点(协同、内容召回)需要运行时注入,
// 不走配置注册,由调用方直接组装。
func init() {
	Register("recall.popular", buildPopularNode)
	Register("recall.fanout", buildFanoutNode)
	Register("filter.expr", buildExprFilterNode)
	Register("filter.availability", buildAvailabilityFilterNode)
	Register("rerank.topn", buildTopNNode)
	Register("rerank.diversity", buildDiversityNode)
}

// buildPopularNode 构建静态热门召回节点。
//
// 配置:
//
//	type: recall.popular
//	config:
//	  ids: ["p1", "p2"]
//	  limit: 20
func buildPopularNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &recall.Popular{
		IDs:   conv.SliceAnyToString(cfg["ids"]),
		Limit: int(conv.ConfigGetInt64(cfg, "limit", 0)),
	}, nil
}

// buildFanoutNode 构建多源并发召回节点。
// sources 只支持配置静态热门位;其余召回源由代码组装后追加。
//
// 配置:
//
//	type: recall.fanout
//	config:
//	  dedup: true
//	  timeout_ms: 200
//	  max_concurrent: 4
//	  merge_strategy: priority
//	  sources:
//	    - type: recall.popular
//	      ids: ["p1", "p2"]
func buildFanoutNode(cfg map[string]interface{}) (pipeline.Node, error) {
	n := &recall.Fanout{
		Dedup:         conv.ConfigGet(cfg, "dedup", true),
		MaxConcurrent: int(conv.ConfigGetInt64(cfg, "max_concurrent", 0)),
		MergeStrategy: conv.ConfigGet(cfg, "merge_strategy", "first"),
	}
	if ms := conv.ConfigGetInt64(cfg, "timeout_ms", 0); ms > 0 {
		n.Timeout = time.Duration(ms) * time.Millisecond
	}
	if raw, ok := cfg["sources"].([]interface{}); ok {
		for _, item := range raw {
			sc, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			if conv.ConfigGet(sc, "type", "") == "recall.popular" {
				n.Sources = append(n.Sources, &recall.Popular{
					IDs:   conv.SliceAnyToString(sc["ids"]),
					Limit: int(conv.ConfigGetInt64(sc, "limit", 0)),
				})
			}
		}
	}
	return n, nil
}

// buildExprFilterNode 构建 CEL 表达式过滤节点。
//
// 配置:
//
//	type: filter.expr
//	config:
//	  expr: 'item.price > 1000.0'
func buildExprFilterNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &filter.FilterNode{
		Filters: []filter.Filter{
			&filter.ExprFilter{Expr: conv.ConfigGet(cfg, "expr", "")},
		},
	}, nil
}

func buildAvailabilityFilterNode(_ map[string]interface{}) (pipeline.Node, error) {
	return &filter.FilterNode{
		Filters: []filter.Filter{&filter.AvailabilityFilter{}},
	}, nil
}

// buildTopNNode 构建 Top-N 截断节点。
func buildTopNNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &rerank.TopNNode{
		N: int(conv.ConfigGetInt64(cfg, "n", 0)),
	}, nil
}

// buildDiversityNode 构建类目轮转重排节点。
func buildDiversityNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &rerank.Diversity{
		Limit: int(conv.ConfigGetInt64(cfg, "limit", 0)),
	}, nil
}
