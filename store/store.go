// Package store 提供 core.Store 的具体实现以及面向推荐域的 Adapter。
//
// 接口定义在 core 包：底层键值能力是 core.Store / core.KeyValueStore，
// 推荐域的读取走 core.InteractionStore / core.ProductCatalog。
//
// 典型用法：
//
//	mem := store.NewMemoryStore()
//	adapter := store.NewAdapter(mem, "rec")
//	_ = adapter.Seed(ctx, products, users, interactions)
//
// 生产环境把 MemoryStore 换成 NewRedisStore 即可，Adapter 不感知后端差异。
package store
