package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/shoprec/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
)

func initCELEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		cel.Variable("item", cel.DynType),
		cel.Variable("label", cel.DynType),
		cel.Variable("rctx", cel.DynType),
	)
	return env, err
}

func getCELEnv() (*cel.Env, error) {
	var err error
	celEnvOnce.Do(func() {
		celEnv, err = initCELEnv()
	})
	return celEnv, err
}

// Eval 是推荐结果上的规则解释器，使用 CEL (Common Expression Language) 实现。
//
// 表达式语法（CEL 标准语法）：
//   - 字段：item.score > 60 / item.category == "Electronics"
//   - 标签：label.recall_source == "recall.popular"
//   - 逻辑：item.price < 100.0 && item.rating >= 4.0
//   - 存在性：label.recall_source != null
//
// 示例：
//   - `item.category == "Electronics" && item.score > 50`
//   - `label.recall_source.contains("popular")`
type Eval struct {
	rec  *core.Recommendation
	rctx *core.RecommendContext
	env  *cel.Env
}

// NewEval 创建一个针对单条推荐结果的解释器。
func NewEval(rec *core.Recommendation, rctx *core.RecommendContext) *Eval {
	env, _ := getCELEnv()
	return &Eval{
		rec:  rec,
		rctx: rctx,
		env:  env,
	}
}

// Evaluate 解析并执行表达式，返回布尔结果。空表达式恒为 true。
func (e *Eval) Evaluate(expr string) (bool, error) {
	if expr == "" {
		return true, nil
	}
	if e.env == nil {
		return false, fmt.Errorf("cel env not initialized")
	}

	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return false, fmt.Errorf("compile error: %v", issues.Err())
	}

	prg, err := e.env.Program(ast)
	if err != nil {
		return false, fmt.Errorf("program error: %v", err)
	}

	out, _, err := prg.Eval(e.buildInput())
	if err != nil {
		// 访问不存在的 key 会报错；用 label.key != null 检查存在性
		return false, fmt.Errorf("eval error: %v", err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}

	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据。
func (e *Eval) buildInput() map[string]interface{} {
	labels := make(map[string]interface{})
	labelAccessor := make(map[string]interface{})
	for k, v := range e.rec.Labels {
		labels[k] = map[string]interface{}{
			"value":  v.Value,
			"source": v.Source,
		}
		// label.recall_source 直接返回 value，简化常见写法
		labelAccessor[k] = v.Value
	}

	item := map[string]interface{}{
		"id":     "",
		"score":  e.rec.Score,
		"reason": string(e.rec.Reason.Kind),
		"labels": labels,
	}
	if p := e.rec.Product; p != nil {
		item["id"] = p.ID
		item["category"] = p.Category
		item["subcategory"] = p.Subcategory
		item["brand"] = p.Brand
		item["price"] = p.Price
		item["rating"] = p.AverageRating
		item["available"] = p.Available
	}

	rctx := map[string]interface{}{}
	if e.rctx != nil {
		rctx["user_id"] = e.rctx.UserID
		rctx["scene"] = e.rctx.Scene
		rctx["params"] = e.rctx.Params
	}

	return map[string]interface{}{
		"item":  item,
		"label": labelAccessor,
		"rctx":  rctx,
	}
}
