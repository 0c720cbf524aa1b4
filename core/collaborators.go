package core

import "context"

// InteractionStore 是行为数据的协作方接口。引擎只读，不持有数据。
type InteractionStore interface {
	// ListInteractions 返回一个用户的全部行为记录
	ListInteractions(ctx context.Context, userID string) ([]Interaction, error)

	// CountUsersWithProducts 返回与给定商品集合有交集的其他用户：
	// 每个用户返回其命中的不同商品数，低于 minCount 的不返回。
	CountUsersWithProducts(ctx context.Context, productIDs []string, excludeUserID string, minCount int) ([]UserOverlap, error)

	// InteractedProductIDs 返回用户交互过的去重商品 ID 集合
	InteractedProductIDs(ctx context.Context, userID string) (map[string]struct{}, error)
}

// ProductCatalog 是商品目录的协作方接口。
type ProductCatalog interface {
	// GetProduct 按 ID 获取商品；不存在时返回 NOT_FOUND 的 DomainError
	GetProduct(ctx context.Context, productID string) (*Product, error)

	// GetUser 按 ID 获取用户；不存在时返回 NOT_FOUND 的 DomainError
	GetUser(ctx context.Context, userID string) (*User, error)

	// ListAvailable 按过滤条件列出在售商品
	ListAvailable(ctx context.Context, filter CatalogFilter) ([]*Product, error)

	// TopByPopularity 返回按（交互数, 平均评分）降序的在售商品
	TopByPopularity(ctx context.Context, limit int) ([]PopularProduct, error)
}

// PreferenceStore 提供用户显式声明的偏好（站内设置/特征服务）。
// 没有记录时返回空偏好而不是错误。
type PreferenceStore interface {
	GetExplicitPreferences(ctx context.Context, userID string) (*ExplicitPreferences, error)
}

// TextGenerator 是生成式文本协作方接口。
// 失败必须以 error 表达，不允许用空字符串冒充成功，
// 以便解释层能据此切换到确定性兜底模板。
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// TextGen 错误定义
var (
	// ErrTextGenUnavailable 表示文本生成服务不可用/未配置
	ErrTextGenUnavailable = NewDomainError(ModuleTextGen, ErrorCodeUnavailable, "textgen: service unavailable")

	// ErrTextGenRateLimited 表示文本生成服务触发限流
	ErrTextGenRateLimited = NewDomainError(ModuleTextGen, ErrorCodeRateLimited, "textgen: rate limited")
)

// ErrUserNotFound 构造用户不存在错误。
func ErrUserNotFound(userID string) *DomainError {
	return NewDomainError(ModuleCatalog, ErrorCodeNotFound, "catalog: user not found: "+userID)
}

// ErrProductNotFound 构造商品不存在错误。
func ErrProductNotFound(productID string) *DomainError {
	return NewDomainError(ModuleCatalog, ErrorCodeNotFound, "catalog: product not found: "+productID)
}
