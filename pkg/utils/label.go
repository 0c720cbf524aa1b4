package utils

// Label 记录一条推荐结果在链路中的来历：召回来源、命中的策略、
// 被哪个过滤器拦截等。Value 与 Source 的语义由写入方约定，
// 这里只提供标准化的合并规则。
type Label struct {
	Value  string `json:"value"`
	Source string `json:"source"` // recall / filter / rerank / strategy ...
}

// MergeLabel 合并同名 Label，保留历史以便追踪：
// 同一商品可能被多路召回命中，Value 以 '|' 累积，Source 以 ',' 累积。
func MergeLabel(existing Label, incoming Label) Label {
	if existing.Value == "" {
		return incoming
	}
	if incoming.Value == "" {
		return existing
	}

	merged := existing
	merged.Value = existing.Value + "|" + incoming.Value
	switch {
	case existing.Source == "":
		merged.Source = incoming.Source
	case incoming.Source == "":
		merged.Source = existing.Source
	default:
		merged.Source = existing.Source + "," + incoming.Source
	}
	return merged
}
