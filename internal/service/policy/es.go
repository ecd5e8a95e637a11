package policy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/cloudwego/eino-ext/components/indexer/es8"
	es8retriever "github.com/cloudwego/eino-ext/components/retriever/es8"
	"github.com/cloudwego/eino-ext/components/retriever/es8/search_mode"
	"github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/eino/components/retriever"
	"github.com/cloudwego/eino/schema"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"

	"github.com/ashwinyue/travel-planner/internal/config"
)

// 索引字段
const (
	FieldContent   = "content"
	FieldVector    = "content_vector"
	MetaHotelID    = "hotel_id"
	MetaHotelName  = "hotel_name"
	MetaSourceFile = "source_file"
)

// NewESClient 创建 Elasticsearch 客户端
func NewESClient(cfg config.ElasticConfig) (*elasticsearch.Client, error) {
	return elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.Host},
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
}

// NewRetriever 创建基于余弦相似度的政策检索器
func NewRetriever(ctx context.Context, client *elasticsearch.Client, index string, topK int, embedder embedding.Embedder) (*es8retriever.Retriever, error) {
	r, err := es8retriever.NewRetriever(ctx, &es8retriever.RetrieverConfig{
		Client:     client,
		Index:      index,
		TopK:       topK,
		SearchMode: search_mode.SearchModeDenseVectorSimilarity(search_mode.DenseVectorSimilarityTypeCosineSimilarity, FieldVector),
		Embedding:  embedder,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create policy retriever: %w", err)
	}
	return r, nil
}

// withHotelFilter 按酒店 ID 过滤检索结果
func withHotelFilter(hotelID string) retriever.Option {
	return es8retriever.WithFilters([]types.Query{
		{Term: map[string]types.TermQuery{MetaHotelID: {Value: hotelID}}},
	})
}

// NewIndexer 创建政策文档索引器
func NewIndexer(ctx context.Context, client *elasticsearch.Client, index string, embedder embedding.Embedder) (*es8.Indexer, error) {
	idx, err := es8.NewIndexer(ctx, &es8.IndexerConfig{
		Client:    client,
		Index:     index,
		BatchSize: 10,
		Embedding: embedder,
		DocumentToFields: func(ctx context.Context, doc *schema.Document) (map[string]es8.FieldValue, error) {
			return documentToFields(doc), nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create policy indexer: %w", err)
	}
	return idx, nil
}

// documentToFields 正文写入向量字段，元数据原样存储
func documentToFields(doc *schema.Document) map[string]es8.FieldValue {
	fields := map[string]es8.FieldValue{
		FieldContent: {Value: doc.Content, EmbedKey: FieldVector},
	}
	for k, v := range doc.MetaData {
		fields[k] = es8.FieldValue{Value: v}
	}
	return fields
}

// EnsureIndex 索引不存在时按向量维度创建
func EnsureIndex(ctx context.Context, client *elasticsearch.Client, index string, dimensions int) (bool, error) {
	res, err := client.Indices.Exists([]string{index}, client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return false, fmt.Errorf("failed to check index existence: %w", err)
	}
	res.Body.Close()
	if res.StatusCode == 200 {
		return false, nil
	}

	if dimensions <= 0 {
		dimensions = 1024
	}
	mapping := map[string]interface{}{
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				FieldContent: map[string]interface{}{"type": "text"},
				FieldVector: map[string]interface{}{
					"type":       "dense_vector",
					"dims":       dimensions,
					"index":      true,
					"similarity": "cosine",
				},
				MetaHotelID:    map[string]interface{}{"type": "keyword"},
				MetaHotelName:  map[string]interface{}{"type": "keyword"},
				MetaSourceFile: map[string]interface{}{"type": "keyword"},
			},
		},
		"settings": map[string]interface{}{
			"number_of_shards":   1,
			"number_of_replicas": 0,
		},
	}
	body, err := json.Marshal(mapping)
	if err != nil {
		return false, fmt.Errorf("failed to marshal mapping: %w", err)
	}

	req := esapi.IndicesCreateRequest{Index: index, Body: bytes.NewReader(body)}
	res, err = req.Do(ctx, client)
	if err != nil {
		return false, fmt.Errorf("failed to create index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return false, fmt.Errorf("failed to create index: %s", res.String())
	}
	return true, nil
}
