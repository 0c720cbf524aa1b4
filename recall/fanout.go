package recall

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pipeline"
	"github.com/rushteam/shoprec/pkg/utils"
)

// Fanout 是一个 Recall Node:并发执行多个召回源并合并结果。
// 支持超时、限流、优先级合并策略。
type Fanout struct {
	Sources       []Source
	Dedup         bool
	Timeout       time.Duration // 每个召回源的超时时间
	MaxConcurrent int           // 最大并发数(0 表示无限制)
	MergeStrategy string        // 合并策略:first / union / priority(优先级按 Sources 顺序)
}

func (n *Fanout) Name() string        { return "recall.fanout" }
func (n *Fanout) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *Fanout) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Recommendation,
) ([]*core.Recommendation, error) {
	if len(n.Sources) == 0 {
		return nil, nil
	}

	var (
		mu    sync.Mutex
		all   []*core.Recommendation
		eg, _ = errgroup.WithContext(ctx)
	)

	// 限流:semaphore 控制并发数
	sem := make(chan struct{}, n.MaxConcurrent)
	if n.MaxConcurrent <= 0 {
		close(sem) // 无限制时直接关闭,避免阻塞
	}

	for i, src := range n.Sources {
		s := src
		priority := i // 索引越小优先级越高

		eg.Go(func() error {
			if n.MaxConcurrent > 0 {
				sem <- struct{}{}
				defer func() { <-sem }()
			}

			recallCtx := ctx
			if n.Timeout > 0 {
				var cancel context.CancelFunc
				recallCtx, cancel = context.WithTimeout(ctx, n.Timeout)
				defer cancel()
			}

			recs, err := s.Recall(recallCtx, rctx)
			if err != nil {
				// 单个召回源超时或出错时不中断其他召回源
				return nil
			}

			for _, rec := range recs {
				rec.PutLabel("recall_source", utils.Label{Value: s.Name(), Source: "recall"})
				rec.PutLabel("recall_priority", utils.Label{Value: strconv.Itoa(priority), Source: "recall"})
			}

			mu.Lock()
			all = append(all, recs...)
			mu.Unlock()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	switch n.MergeStrategy {
	case "priority":
		return n.mergeByPriority(all), nil
	case "union":
		return n.mergeUnion(all), nil
	default: // "first" 或默认
		return n.mergeFirst(all), nil
	}
}

// mergeFirst 按商品 ID 去重,保留第一个出现的(默认策略)。
func (n *Fanout) mergeFirst(all []*core.Recommendation) []*core.Recommendation {
	if !n.Dedup {
		return all
	}
	seen := make(map[string]*core.Recommendation, len(all))
	out := make([]*core.Recommendation, 0, len(all))
	for _, rec := range all {
		if rec == nil || rec.Product == nil {
			continue
		}
		if old, ok := seen[rec.Product.ID]; ok {
			for k, v := range rec.Labels {
				old.PutLabel(k, v)
			}
			continue
		}
		seen[rec.Product.ID] = rec
		out = append(out, rec)
	}
	return out
}

// mergeUnion 合并所有结果不去重(用于需要保留所有来源的场景)。
func (n *Fanout) mergeUnion(all []*core.Recommendation) []*core.Recommendation {
	return all
}

// mergeByPriority 按优先级合并:相同商品保留优先级更高的(索引更小)。
func (n *Fanout) mergeByPriority(all []*core.Recommendation) []*core.Recommendation {
	if !n.Dedup {
		return all
	}
	seen := make(map[string]*core.Recommendation, len(all))
	order := make([]string, 0, len(all))
	for _, rec := range all {
		if rec == nil || rec.Product == nil {
			continue
		}
		old, exists := seen[rec.Product.ID]
		if !exists {
			seen[rec.Product.ID] = rec
			order = append(order, rec.Product.ID)
			continue
		}
		if labelPriority(rec) < labelPriority(old) {
			seen[rec.Product.ID] = rec
		} else {
			for k, v := range rec.Labels {
				old.PutLabel(k, v)
			}
		}
	}
	out := make([]*core.Recommendation, 0, len(seen))
	for _, id := range order {
		out = append(out, seen[id])
	}
	return out
}

func labelPriority(rec *core.Recommendation) int {
	lbl, ok := rec.Labels["recall_priority"]
	if !ok {
		return 999
	}
	// 合并过的 Label 以 '|' 累积,首段是最初召回时的优先级
	val := lbl.Value
	if i := strings.IndexByte(val, '|'); i >= 0 {
		val = val[:i]
	}
	p, err := strconv.Atoi(val)
	if err != nil {
		return 999
	}
	return p
}
