package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cloudwego/eino-ext/components/embedding/dashscope"
	"github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/eino/components/retriever"
	"github.com/redis/go-redis/v9"

	"github.com/ashwinyue/travel-planner/internal/config"
	"github.com/ashwinyue/travel-planner/internal/logger"
	"github.com/ashwinyue/travel-planner/internal/repository"
	"github.com/ashwinyue/travel-planner/internal/service/agent"
	"github.com/ashwinyue/travel-planner/internal/service/auth"
	"github.com/ashwinyue/travel-planner/internal/service/booking"
	"github.com/ashwinyue/travel-planner/internal/service/chat"
	"github.com/ashwinyue/travel-planner/internal/service/geocode"
	"github.com/ashwinyue/travel-planner/internal/service/hotel"
	"github.com/ashwinyue/travel-planner/internal/service/policy"
	"github.com/ashwinyue/travel-planner/internal/service/profile"
	"github.com/ashwinyue/travel-planner/internal/service/tools"
	"github.com/ashwinyue/travel-planner/internal/service/weather"
	"github.com/ashwinyue/travel-planner/internal/service/websearch"
)

// Services 服务集合
type Services struct {
	// 业务服务
	Chat    *chat.Service
	Booking *booking.Service
	Hotel   *hotel.Service
	Profile *profile.Service
	Policy  *policy.Service

	// 基础组件
	Auth   *auth.Verifier
	Agent  *agent.Orchestrator
	Tools  *tools.Catalog
	Config *config.Config
}

// NewServices 创建所有服务
// 推理模型是必需的，向量检索、网络搜索、Redis 与数据库缺失时对应能力降级
func NewServices(ctx context.Context, cfg *config.Config, repos *repository.Repositories, redisClient *redis.Client, log *logger.Logger) (*Services, error) {
	httpClient := &http.Client{}

	chatModel, err := agent.NewChatModel(ctx, cfg.AI, cfg.Agent.Temperature)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}
	policyModel, err := agent.NewChatModel(ctx, cfg.AI, cfg.Agent.PolicyTemperature)
	if err != nil {
		return nil, fmt.Errorf("failed to create policy model: %w", err)
	}

	var search websearch.Searcher
	if ddg, err := websearch.New(ctx, cfg.WebSearch); err != nil {
		if !errors.Is(err, websearch.ErrDisabled) {
			log.Warn("web search unavailable", "error", err)
		}
	} else {
		search = ddg
	}

	var linkSearch websearch.Searcher
	if cfg.Hotel.EnrichLinks {
		linkSearch = search
	}
	hotelCache := hotel.NewCache(redisClient, time.Duration(cfg.Hotel.CacheTTL)*time.Second, log)
	hotelSvc := hotel.NewService(hotel.NewClient(cfg.Hotel, httpClient, log), hotelCache, linkSearch, cfg.Hotel, log)

	var policyRetriever retriever.Retriever
	if embedder := NewEmbedder(ctx, cfg, log); embedder != nil {
		policyRetriever = newPolicyRetriever(ctx, cfg, embedder, log)
	}
	policySvc := policy.NewService(policyRetriever, policyModel, search, hotelSvc, cfg.Policy.TopK, log)

	var profileSvc *profile.Service
	if repos.Profile != nil {
		profileSvc = profile.NewService(repos.Profile)
	} else {
		profileSvc = profile.NewService(nil)
	}

	bookingSvc := booking.NewService(repos.Bookings, hotelSvc, log)

	catalog := tools.NewCatalog(tools.Deps{
		Profiles: profileSvc,
		Bookings: bookingSvc,
		Hotels:   hotelSvc,
		Policy:   policySvc,
		Geocoder: geocode.NewClient(cfg.Geocode, httpClient),
		Weather:  weather.NewClient(cfg.Weather, httpClient),
		Extra:    tools.NewExtraTools(ctx, cfg.Agent.WikiLanguage, log),
	}, log)

	orchestrator := agent.NewOrchestrator(chatModel, catalog, agent.Config{
		MaxIterations:   cfg.Agent.MaxIterations,
		ToolTimeout:     time.Duration(cfg.Agent.ToolTimeout) * time.Second,
		ToolConcurrency: cfg.Agent.ToolConcurrency,
	}, log)

	chatSvc := chat.NewService(repos.Sessions, orchestrator, bookingSvc, chat.Defaults{
		UserID:   cfg.Agent.DefaultUserID,
		UserName: cfg.Agent.DefaultUserName,
	}, log)

	return &Services{
		Chat:    chatSvc,
		Booking: bookingSvc,
		Hotel:   hotelSvc,
		Profile: profileSvc,
		Policy:  policySvc,

		Auth:   auth.NewVerifier(cfg.Auth, httpClient, log),
		Agent:  orchestrator,
		Tools:  catalog,
		Config: cfg,
	}, nil
}

// NewEmbedder 创建 Embedding 器，未配置时返回 nil
func NewEmbedder(ctx context.Context, cfg *config.Config, log *logger.Logger) embedding.Embedder {
	embCfg := cfg.AI.Embedding

	switch embCfg.Provider {
	case "alibaba", "qwen", "dashscope", "":
	default:
		log.Warn("unsupported embedding provider", "provider", embCfg.Provider)
		return nil
	}

	if embCfg.APIKey == "" {
		log.Warn("embedding api key is empty, policy documents disabled")
		return nil
	}

	model := embCfg.Model
	if model == "" {
		model = "text-embedding-v3"
	}

	embConfig := &dashscope.EmbeddingConfig{
		APIKey: embCfg.APIKey,
		Model:  model,
	}
	if embCfg.Timeout > 0 {
		embConfig.Timeout = time.Duration(embCfg.Timeout) * time.Second
	}
	if embCfg.Dimensions > 0 {
		dims := embCfg.Dimensions
		embConfig.Dimensions = &dims
	}

	embedder, err := dashscope.NewEmbedder(ctx, embConfig)
	if err != nil {
		log.Warn("failed to create embedder", "error", err)
		return nil
	}
	return embedder
}

// newPolicyRetriever 创建政策文档检索器，ES 不可用时返回 nil
func newPolicyRetriever(ctx context.Context, cfg *config.Config, embedder embedding.Embedder, log *logger.Logger) retriever.Retriever {
	if cfg.Elastic.Host == "" {
		log.Warn("elasticsearch host not configured, policy documents disabled")
		return nil
	}

	client, err := policy.NewESClient(cfg.Elastic)
	if err != nil {
		log.Warn("failed to create es client", "error", err)
		return nil
	}
	if _, err := policy.EnsureIndex(ctx, client, cfg.Policy.Index, cfg.AI.Embedding.Dimensions); err != nil {
		log.Warn("failed to ensure policy index", "index", cfg.Policy.Index, "error", err)
		return nil
	}
	r, err := policy.NewRetriever(ctx, client, cfg.Policy.Index, cfg.Policy.TopK, embedder)
	if err != nil {
		log.Warn("failed to create policy retriever", "error", err)
		return nil
	}
	return r
}
