// Package policy 酒店政策问答：向量检索优先，网络搜索兜底
package policy

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/retriever"
	"github.com/cloudwego/eino/schema"

	"github.com/ashwinyue/travel-planner/internal/apierr"
	"github.com/ashwinyue/travel-planner/internal/logger"
	"github.com/ashwinyue/travel-planner/internal/service/websearch"
)

// NoPolicyFound 没有任何政策来源时的回复
const NoPolicyFound = "No policy information found for that hotel."

const systemPrompt = "You are a hotel policy assistant. Answer only using the provided context. " +
	"If the answer is not in the context, say so."

// 答案来源
const (
	SourceDocuments = "policy_documents"
	SourceWeb       = "web_search"
	SourceNone      = "none"
)

// HotelResolver 酒店 ID 解析
type HotelResolver interface {
	ResolveHotelID(ctx context.Context, hotelID, hotelName string) (string, error)
	HotelName(ctx context.Context, hotelID string) string
}

// Answer 政策问答结果
type Answer struct {
	HotelID string   `json:"hotelId"`
	Answer  string   `json:"answer"`
	Source  string   `json:"source"`
	Sources []string `json:"sources,omitempty"`
}

// Service 政策问答服务
type Service struct {
	retriever retriever.Retriever
	llm       model.BaseChatModel
	search    websearch.Searcher
	hotels    HotelResolver
	topK      int
	log       *logger.Logger
}

// NewService 创建政策服务
// retriever 为 nil 时直接走网络搜索，search 为 nil 时不做兜底
func NewService(r retriever.Retriever, llm model.BaseChatModel, search websearch.Searcher, hotels HotelResolver, topK int, log *logger.Logger) *Service {
	if topK <= 0 {
		topK = 5
	}
	return &Service{
		retriever: r,
		llm:       llm,
		search:    search,
		hotels:    hotels,
		topK:      topK,
		log:       log,
	}
}

// Lookup 回答酒店政策问题
func (s *Service) Lookup(ctx context.Context, question, hotelID, hotelName string) (*Answer, error) {
	resolved, err := s.hotels.ResolveHotelID(ctx, hotelID, hotelName)
	if err != nil {
		name := strings.TrimSpace(hotelName)
		if name == "" {
			return nil, err
		}
		// 无法解析 ID 时没有检索过滤条件，只能按名称走网络搜索
		s.log.Warn("policy hotel resolution failed, using web search", "hotel_name", name, "error", err)
		return s.webAnswer(ctx, "", name, question)
	}

	contextText, err := s.retrieve(ctx, question, resolved)
	if err != nil {
		s.log.Warn("policy vector search failed, falling back to web", "hotel_id", resolved, "error", err)
	}
	if contextText != "" {
		answer, err := s.answer(ctx, question, contextText)
		if err != nil {
			return nil, err
		}
		return &Answer{HotelID: resolved, Answer: answer, Source: SourceDocuments}, nil
	}

	name := hotelName
	if name == "" {
		name = s.hotels.HotelName(ctx, resolved)
	}
	if name == "" {
		name = resolved
	}
	return s.webAnswer(ctx, resolved, name, question)
}

// WebSearch 直接在网络上搜索酒店政策
func (s *Service) WebSearch(ctx context.Context, hotelName, question string) ([]websearch.Result, error) {
	if s.search == nil {
		return nil, websearch.ErrDisabled
	}
	return s.search.Search(ctx, policyQuery(hotelName, question))
}

// retrieve 检索指定酒店的政策片段并拼接为上下文
func (s *Service) retrieve(ctx context.Context, question, hotelID string) (string, error) {
	if s.retriever == nil {
		return "", nil
	}
	docs, err := s.retriever.Retrieve(ctx, question, retriever.WithTopK(s.topK), withHotelFilter(hotelID))
	if err != nil {
		return "", err
	}

	chunks := make([]string, 0, len(docs))
	for _, d := range docs {
		if d == nil || strings.TrimSpace(d.Content) == "" {
			continue
		}
		if id, ok := d.MetaData[MetaHotelID].(string); ok && id != "" && id != hotelID {
			continue
		}
		chunks = append(chunks, d.Content)
	}
	return strings.Join(chunks, "\n\n"), nil
}

func (s *Service) webAnswer(ctx context.Context, hotelID, hotelName, question string) (*Answer, error) {
	none := &Answer{HotelID: hotelID, Answer: NoPolicyFound, Source: SourceNone}
	results, err := s.WebSearch(ctx, hotelName, question)
	if err != nil {
		if !errors.Is(err, websearch.ErrDisabled) {
			s.log.Warn("policy web search failed", "hotel_id", hotelID, "error", err)
		}
		return none, nil
	}
	if len(results) == 0 {
		return none, nil
	}

	var sb strings.Builder
	sources := make([]string, 0, len(results))
	for i, r := range results {
		fmt.Fprintf(&sb, "[%d] %s\nURL: %s\n%s\n\n", i+1, r.Title, r.URL, r.Summary)
		sources = append(sources, r.URL)
	}
	answer, err := s.answer(ctx, question, strings.TrimSpace(sb.String()))
	if err != nil {
		return nil, err
	}
	return &Answer{HotelID: hotelID, Answer: answer, Source: SourceWeb, Sources: sources}, nil
}

func (s *Service) answer(ctx context.Context, question, contextText string) (string, error) {
	msgs := []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(fmt.Sprintf("Question: %s\n\nContext:\n%s", question, contextText)),
	}
	resp, err := s.llm.Generate(ctx, msgs)
	if err != nil {
		return "", apierr.Upstream("POLICY_LLM_ERROR", fmt.Errorf("policy model failed: %w", err))
	}
	return resp.Content, nil
}

func policyQuery(hotelName, question string) string {
	return strings.TrimSpace(fmt.Sprintf("%s hotel policy %s", hotelName, question))
}
