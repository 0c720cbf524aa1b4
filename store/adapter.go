package store

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/rushteam/shoprec/core"
)

// Adapter 把 core.Store（Memory/Redis）适配为引擎的协作方接口：
// core.InteractionStore 与 core.ProductCatalog。
//
// key 布局：
//   商品：        {prefix}:product:{productID}
//   商品全集：    {prefix}:products
//   用户：        {prefix}:user:{userID}
//   用户行为：    {prefix}:interactions:user:{userID}
//   商品倒排：    {prefix}:interactions:product:{productID} -> map[userID]交互数
//   热度：        {prefix}:popularity
type Adapter struct {
	store core.Store

	// KeyPrefix 是存储 key 的前缀
	KeyPrefix string
}

// NewAdapter 创建一个基于 core.Store 的协作方适配器。
func NewAdapter(s core.Store, keyPrefix string) *Adapter {
	if keyPrefix == "" {
		keyPrefix = "rec"
	}
	return &Adapter{
		store:     s,
		KeyPrefix: keyPrefix,
	}
}

func (a *Adapter) Name() string { return "store_adapter" }

// popularityEntry 是热度聚合的持久化形态（按热度降序存储）。
type popularityEntry struct {
	ProductID        string  `json:"product_id"`
	InteractionCount int     `json:"interaction_count"`
	AvgRating        float64 `json:"avg_rating"`
}

func (a *Adapter) getJSON(ctx context.Context, key string, v any) (bool, error) {
	data, err := a.store.Get(ctx, key)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, err
	}
	return true, nil
}

func (a *Adapter) setJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return a.store.Set(ctx, key, data)
}

// ListInteractions 实现 core.InteractionStore。
func (a *Adapter) ListInteractions(ctx context.Context, userID string) ([]core.Interaction, error) {
	var out []core.Interaction
	if _, err := a.getJSON(ctx, a.KeyPrefix+":interactions:user:"+userID, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountUsersWithProducts 实现 core.InteractionStore。
// 对每个目标商品读取倒排表，按"命中的不同商品数"聚合其他用户。
func (a *Adapter) CountUsersWithProducts(ctx context.Context, productIDs []string, excludeUserID string, minCount int) ([]core.UserOverlap, error) {
	common := make(map[string]int)
	for _, pid := range productIDs {
		var users map[string]int
		ok, err := a.getJSON(ctx, a.KeyPrefix+":interactions:product:"+pid, &users)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		for uid := range users {
			if uid == excludeUserID {
				continue
			}
			common[uid]++
		}
	}

	out := make([]core.UserOverlap, 0, len(common))
	for uid, cnt := range common {
		if cnt >= minCount {
			out = append(out, core.UserOverlap{UserID: uid, CommonCount: cnt})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CommonCount != out[j].CommonCount {
			return out[i].CommonCount > out[j].CommonCount
		}
		return out[i].UserID < out[j].UserID
	})
	return out, nil
}

// InteractedProductIDs 实现 core.InteractionStore。
func (a *Adapter) InteractedProductIDs(ctx context.Context, userID string) (map[string]struct{}, error) {
	interactions, err := a.ListInteractions(ctx, userID)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(interactions))
	for _, in := range interactions {
		set[in.ProductID] = struct{}{}
	}
	return set, nil
}

// GetProduct 实现 core.ProductCatalog。
func (a *Adapter) GetProduct(ctx context.Context, productID string) (*core.Product, error) {
	var p core.Product
	ok, err := a.getJSON(ctx, a.KeyPrefix+":product:"+productID, &p)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, core.ErrProductNotFound(productID)
	}
	return &p, nil
}

// GetUser 实现 core.ProductCatalog。
func (a *Adapter) GetUser(ctx context.Context, userID string) (*core.User, error) {
	var u core.User
	ok, err := a.getJSON(ctx, a.KeyPrefix+":user:"+userID, &u)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, core.ErrUserNotFound(userID)
	}
	return &u, nil
}

// ListAvailable 实现 core.ProductCatalog。
func (a *Adapter) ListAvailable(ctx context.Context, filter core.CatalogFilter) ([]*core.Product, error) {
	var ids []string
	if _, err := a.getJSON(ctx, a.KeyPrefix+":products", &ids); err != nil {
		return nil, err
	}

	var catSet map[string]struct{}
	if len(filter.Categories) > 0 {
		catSet = make(map[string]struct{}, len(filter.Categories))
		for _, c := range filter.Categories {
			catSet[c] = struct{}{}
		}
	}

	out := make([]*core.Product, 0, len(ids))
	for _, id := range ids {
		p, err := a.GetProduct(ctx, id)
		if err != nil {
			if core.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		if !p.Available {
			continue
		}
		if catSet != nil {
			if _, ok := catSet[p.Category]; !ok {
				continue
			}
		}
		if filter.PriceMax > 0 && (p.Price < filter.PriceMin || p.Price > filter.PriceMax) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// TopByPopularity 实现 core.ProductCatalog。
// 热度聚合在 Seed 时预计算并按（交互数, 平均评分）降序存储。
func (a *Adapter) TopByPopularity(ctx context.Context, limit int) ([]core.PopularProduct, error) {
	var entries []popularityEntry
	if _, err := a.getJSON(ctx, a.KeyPrefix+":popularity", &entries); err != nil {
		return nil, err
	}

	out := make([]core.PopularProduct, 0, limit)
	for _, e := range entries {
		if limit > 0 && len(out) >= limit {
			break
		}
		p, err := a.GetProduct(ctx, e.ProductID)
		if err != nil {
			if core.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		if !p.Available {
			continue
		}
		out = append(out, core.PopularProduct{
			Product:          p,
			InteractionCount: e.InteractionCount,
			AvgRating:        e.AvgRating,
		})
	}
	return out, nil
}

// Seed 把商品、用户与行为数据写入 Store，并构建倒排与热度聚合。
// 行为数据是不可变的，聚合在写入时一次性完成。
func (a *Adapter) Seed(ctx context.Context, products []*core.Product, users []*core.User, interactions []core.Interaction) error {
	productIDs := make([]string, 0, len(products))
	for _, p := range products {
		if err := a.setJSON(ctx, a.KeyPrefix+":product:"+p.ID, p); err != nil {
			return err
		}
		productIDs = append(productIDs, p.ID)
	}
	if err := a.setJSON(ctx, a.KeyPrefix+":products", productIDs); err != nil {
		return err
	}

	for _, u := range users {
		if err := a.setJSON(ctx, a.KeyPrefix+":user:"+u.ID, u); err != nil {
			return err
		}
	}

	byUser := make(map[string][]core.Interaction)
	byProduct := make(map[string]map[string]int)
	type stats struct {
		count       int
		ratingSum   float64
		ratingCount int
	}
	byProductStats := make(map[string]*stats)

	for _, in := range interactions {
		byUser[in.UserID] = append(byUser[in.UserID], in)
		if byProduct[in.ProductID] == nil {
			byProduct[in.ProductID] = make(map[string]int)
		}
		byProduct[in.ProductID][in.UserID]++

		st := byProductStats[in.ProductID]
		if st == nil {
			st = &stats{}
			byProductStats[in.ProductID] = st
		}
		st.count++
		if in.Rating > 0 {
			st.ratingSum += float64(in.Rating)
			st.ratingCount++
		}
	}

	for uid, list := range byUser {
		if err := a.setJSON(ctx, a.KeyPrefix+":interactions:user:"+uid, list); err != nil {
			return err
		}
	}
	for pid, users := range byProduct {
		if err := a.setJSON(ctx, a.KeyPrefix+":interactions:product:"+pid, users); err != nil {
			return err
		}
	}

	entries := make([]popularityEntry, 0, len(byProductStats))
	for pid, st := range byProductStats {
		avg := 0.0
		if st.ratingCount > 0 {
			avg = st.ratingSum / float64(st.ratingCount)
		}
		entries = append(entries, popularityEntry{
			ProductID:        pid,
			InteractionCount: st.count,
			AvgRating:        avg,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].InteractionCount != entries[j].InteractionCount {
			return entries[i].InteractionCount > entries[j].InteractionCount
		}
		if entries[i].AvgRating != entries[j].AvgRating {
			return entries[i].AvgRating > entries[j].AvgRating
		}
		return entries[i].ProductID < entries[j].ProductID
	})
	if err := a.setJSON(ctx, a.KeyPrefix+":popularity", entries); err != nil {
		return err
	}

	// 后端支持有序集合时同步写一份热度榜，便于外部直接 ZRange 查看
	if kv, ok := a.store.(core.KeyValueStore); ok {
		for _, e := range entries {
			if err := kv.ZAdd(ctx, a.KeyPrefix+":popular", float64(e.InteractionCount), e.ProductID); err != nil {
				if core.IsStoreNotSupported(err) {
					break
				}
				return err
			}
		}
	}

	return nil
}

// 确保 Adapter 实现协作方接口
var _ core.InteractionStore = (*Adapter)(nil)
var _ core.ProductCatalog = (*Adapter)(nil)
