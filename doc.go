// Package shoprec 是一个电商推荐引擎(Shop Recommender)。
//
// 设计要点:
// - 协同过滤与内容召回双路打分,混合引擎按策略融合(auto/hybrid/collaborative/content)
// - Pipeline-first: 召回/过滤/重排通过 Node 串联,可配置驱动
// - 结构化理由: 每条推荐携带可穷举的 Reason,解释层据此生成文案并带确定性兜底
package shoprec

import "github.com/rushteam/shoprec/pipeline"

// 轻量 facade:便于用户直接 import "shoprec" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindRank        = pipeline.KindRank
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
