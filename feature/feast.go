package feature

import (
	"context"
	"fmt"
	"strings"

	feastsdk "github.com/feast-dev/feast/sdk/go"
	feasttypes "github.com/feast-dev/feast/sdk/go/protos/feast/types"

	"github.com/rushteam/shoprec/core"
)

// Feast 在线特征服务中的偏好特征名
const (
	featurePreferredCategories = "user_preferences:preferred_categories"
	featurePreferredBrands     = "user_preferences:preferred_brands"
	featurePriceMin            = "user_preferences:price_range_min"
	featurePriceMax            = "user_preferences:price_range_max"

	defaultEntityKey = "user_id"
	defaultFeastPort = 6565
)

// FeastPreferences 通过 Feast Feature Server 读取用户显式偏好。
// 类目/品牌特征约定为逗号分隔的字符串。
type FeastPreferences struct {
	client  *feastsdk.GrpcClient
	project string

	// EntityKey 实体键名,默认 "user_id"
	EntityKey string
}

// NewFeastPreferences 创建 Feast 偏好提供方。port 为 0 时使用默认 gRPC 端口。
func NewFeastPreferences(host string, port int, project string) (*FeastPreferences, error) {
	if port == 0 {
		port = defaultFeastPort
	}
	client, err := feastsdk.NewGrpcClient(host, port)
	if err != nil {
		return nil, fmt.Errorf("feature: connect feast: %w", err)
	}
	return &FeastPreferences{
		client:    client,
		project:   project,
		EntityKey: defaultEntityKey,
	}, nil
}

// GetExplicitPreferences 实现 core.PreferenceStore。
// 特征缺失时返回空偏好;传输错误原样上抛。
func (f *FeastPreferences) GetExplicitPreferences(ctx context.Context, userID string) (*core.ExplicitPreferences, error) {
	entityKey := f.EntityKey
	if entityKey == "" {
		entityKey = defaultEntityKey
	}
	req := &feastsdk.OnlineFeaturesRequest{
		Features: []string{
			featurePreferredCategories,
			featurePreferredBrands,
			featurePriceMin,
			featurePriceMax,
		},
		Entities: []feastsdk.Row{
			{entityKey: feastsdk.StrVal(userID)},
		},
		Project: f.project,
	}
	resp, err := f.client.GetOnlineFeatures(ctx, req)
	if err != nil {
		return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeUnavailable,
			fmt.Sprintf("feature: feast online features: %v", err))
	}
	rows := resp.Rows()
	if len(rows) == 0 {
		return &core.ExplicitPreferences{}, nil
	}
	row := rows[0]
	return &core.ExplicitPreferences{
		Categories: splitCSV(stringFeature(row, featurePreferredCategories)),
		Brands:     splitCSV(stringFeature(row, featurePreferredBrands)),
		PriceMin:   floatFeature(row, featurePriceMin),
		PriceMax:   floatFeature(row, featurePriceMax),
	}, nil
}

func stringFeature(row feastsdk.Row, name string) string {
	if v, ok := row[name]; ok && v != nil {
		return v.GetStringVal()
	}
	return ""
}

func floatFeature(row feastsdk.Row, name string) float64 {
	v, ok := row[name]
	if !ok || v == nil {
		return 0
	}
	if _, isDouble := v.Val.(*feasttypes.Value_DoubleVal); isDouble {
		return v.GetDoubleVal()
	}
	if _, isFloat := v.Val.(*feasttypes.Value_FloatVal); isFloat {
		return float64(v.GetFloatVal())
	}
	return float64(v.GetInt64Val())
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

var _ core.PreferenceStore = (*FeastPreferences)(nil)
