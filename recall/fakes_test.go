package recall

import (
	"context"
	"sort"

	"github.com/rushteam/shoprec/core"
)

// fakeBackend implements core.InteractionStore and core.ProductCatalog in memory.
type fakeBackend struct {
	interactions map[string][]core.Interaction
	products     map[string]*core.Product
	users        map[string]*core.User
	popular      []core.PopularProduct
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		interactions: make(map[string][]core.Interaction),
		products:     make(map[string]*core.Product),
		users:        make(map[string]*core.User),
	}
}

func (f *fakeBackend) addProduct(p *core.Product) { f.products[p.ID] = p }

func (f *fakeBackend) addInteraction(userID, productID string, typ core.InteractionType, rating int) {
	f.interactions[userID] = append(f.interactions[userID], core.Interaction{
		UserID:    userID,
		ProductID: productID,
		Type:      typ,
		Rating:    rating,
	})
}

func (f *fakeBackend) ListInteractions(_ context.Context, userID string) ([]core.Interaction, error) {
	return f.interactions[userID], nil
}

func (f *fakeBackend) CountUsersWithProducts(_ context.Context, productIDs []string, excludeUserID string, minCount int) ([]core.UserOverlap, error) {
	target := make(map[string]struct{}, len(productIDs))
	for _, id := range productIDs {
		target[id] = struct{}{}
	}
	var out []core.UserOverlap
	for userID, ins := range f.interactions {
		if userID == excludeUserID {
			continue
		}
		seen := make(map[string]struct{})
		for _, in := range ins {
			if _, ok := target[in.ProductID]; ok {
				seen[in.ProductID] = struct{}{}
			}
		}
		if len(seen) >= minCount {
			out = append(out, core.UserOverlap{UserID: userID, CommonCount: len(seen)})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (f *fakeBackend) InteractedProductIDs(_ context.Context, userID string) (map[string]struct{}, error) {
	set := make(map[string]struct{})
	for _, in := range f.interactions[userID] {
		set[in.ProductID] = struct{}{}
	}
	return set, nil
}

func (f *fakeBackend) GetProduct(_ context.Context, productID string) (*core.Product, error) {
	p, ok := f.products[productID]
	if !ok {
		return nil, core.ErrProductNotFound(productID)
	}
	return p, nil
}

func (f *fakeBackend) GetUser(_ context.Context, userID string) (*core.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, core.ErrUserNotFound(userID)
	}
	return u, nil
}

func (f *fakeBackend) ListAvailable(_ context.Context, filter core.CatalogFilter) ([]*core.Product, error) {
	categories := make(map[string]struct{}, len(filter.Categories))
	for _, c := range filter.Categories {
		categories[c] = struct{}{}
	}
	ids := make([]string, 0, len(f.products))
	for id := range f.products {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var out []*core.Product
	for _, id := range ids {
		p := f.products[id]
		if !p.Available {
			continue
		}
		if len(categories) > 0 {
			if _, ok := categories[p.Category]; !ok {
				continue
			}
		}
		if p.Price < filter.PriceMin {
			continue
		}
		if filter.PriceMax > 0 && p.Price > filter.PriceMax {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeBackend) TopByPopularity(_ context.Context, limit int) ([]core.PopularProduct, error) {
	if limit > 0 && len(f.popular) > limit {
		return f.popular[:limit], nil
	}
	return f.popular, nil
}

var (
	_ core.InteractionStore = (*fakeBackend)(nil)
	_ core.ProductCatalog   = (*fakeBackend)(nil)
)
