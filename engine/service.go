package engine

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/explain"
	"github.com/rushteam/shoprec/recall"
)

const explainTopN = 3

// Service 是推荐服务门面:校验用户、调度引擎、补全解释文案并记录链路日志。
// 解释生成的失败只降级不报错;存储与目录的错误原样上抛。
type Service struct {
	hybrid    *Hybrid
	similar   *recall.SimilarProducts
	catalog   core.ProductCatalog
	explainer *explain.Adapter
	logger    zerolog.Logger
}

func NewService(hybrid *Hybrid, similar *recall.SimilarProducts, catalog core.ProductCatalog, explainer *explain.Adapter, logger zerolog.Logger) *Service {
	return &Service{
		hybrid:    hybrid,
		similar:   similar,
		catalog:   catalog,
		explainer: explainer,
		logger:    logger.With().Str("module", "engine").Logger(),
	}
}

// Recommend 为用户产出带解释文案的推荐列表。
// 用户不存在时返回 NOT_FOUND 领域错误。
func (s *Service) Recommend(ctx context.Context, userID string, limit int, strategy string) ([]*core.Recommendation, error) {
	log := s.logger.With().
		Str("request_id", uuid.NewString()).
		Str("user_id", userID).
		Str("strategy", strategy).
		Int("limit", limit).
		Logger()

	user, err := s.catalog.GetUser(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Msg("user lookup failed")
		return nil, err
	}

	recs, err := s.hybrid.Recommend(ctx, userID, limit, true, strategy)
	if err != nil {
		log.Error().Err(err).Msg("recommend failed")
		return nil, err
	}

	uc, err := s.userContext(ctx, user, recs)
	if err != nil {
		// 解释上下文缺失不影响推荐结果
		log.Debug().Err(err).Msg("user context build failed")
		uc = &explain.UserContext{Username: user.Username}
	}
	for _, rec := range recs {
		rec.Explanation = s.explainer.Explain(ctx, rec.Product, uc, rec.Reason)
	}

	log.Info().Int("count", len(recs)).Msg("recommendations served")
	return recs, nil
}

// RecommendWithDiversity 产出类目轮转重排后的推荐列表。
// diversityFactor <= 0 时等价于 hybrid 策略的 Recommend。
func (s *Service) RecommendWithDiversity(ctx context.Context, userID string, limit int, diversityFactor float64) ([]*core.Recommendation, error) {
	log := s.logger.With().
		Str("request_id", uuid.NewString()).
		Str("user_id", userID).
		Int("limit", limit).
		Logger()

	user, err := s.catalog.GetUser(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Msg("user lookup failed")
		return nil, err
	}
	recs, err := s.hybrid.RecommendWithDiversity(ctx, userID, limit, diversityFactor)
	if err != nil {
		log.Error().Err(err).Msg("diversity recommend failed")
		return nil, err
	}

	uc, ucErr := s.userContext(ctx, user, recs)
	if ucErr != nil {
		log.Debug().Err(ucErr).Msg("user context build failed")
		uc = &explain.UserContext{Username: user.Username}
	}
	for _, rec := range recs {
		rec.Explanation = s.explainer.Explain(ctx, rec.Product, uc, rec.Reason)
	}

	log.Info().Int("count", len(recs)).Msg("diverse recommendations served")
	return recs, nil
}

// SimilarProducts 返回与给定商品相似的商品,带解释文案。
// 源商品不存在时返回 NOT_FOUND 领域错误。
func (s *Service) SimilarProducts(ctx context.Context, productID string, limit int) ([]*core.Recommendation, error) {
	log := s.logger.With().
		Str("request_id", uuid.NewString()).
		Str("product_id", productID).
		Int("limit", limit).
		Logger()

	source, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		log.Warn().Err(err).Msg("product lookup failed")
		return nil, err
	}
	recs, err := s.similar.FindSimilar(ctx, productID, limit)
	if err != nil {
		log.Error().Err(err).Msg("similar products failed")
		return nil, err
	}
	for _, rec := range recs {
		rec.Explanation = s.explainer.ExplainSimilar(ctx, source, rec.Product, rec.Reason)
	}

	log.Info().Int("count", len(recs)).Msg("similar products served")
	return recs, nil
}

// userContext 汇总解释层需要的用户画像摘要。
func (s *Service) userContext(ctx context.Context, user *core.User, recs []*core.Recommendation) (*explain.UserContext, error) {
	uc := &explain.UserContext{Username: user.Username}

	profile, err := s.hybrid.Content.Profile(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	uc.TopCategories = profile.TopCategories(explainTopN)
	uc.TopBrands = profile.TopBrands(explainTopN)

	interactions, err := s.hybrid.Collaborative.Interactions.ListInteractions(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	summary := make(map[core.InteractionType]int)
	for _, it := range interactions {
		summary[it.Type]++
	}
	uc.InteractionSummary = summary

	// 邻居数直接取自推荐理由,避免重复查询
	for _, rec := range recs {
		switch rec.Reason.Kind {
		case core.ReasonCollaborative:
			if r := rec.Reason.Collaborative; r != nil {
				uc.SimilarUsersCount = r.SimilarUsersCount
			}
		case core.ReasonHybrid:
			if r := rec.Reason.Hybrid; r != nil {
				for _, d := range r.Details {
					if d.Reason.Kind == core.ReasonCollaborative && d.Reason.Collaborative != nil {
						uc.SimilarUsersCount = d.Reason.Collaborative.SimilarUsersCount
					}
				}
			}
		}
		if uc.SimilarUsersCount > 0 {
			break
		}
	}
	return uc, nil
}
