package policy

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cloudwego/eino-ext/components/document/parser/docx"
	"github.com/cloudwego/eino-ext/components/document/parser/pdf"
	"github.com/cloudwego/eino-ext/components/document/transformer/splitter/recursive"
	"github.com/cloudwego/eino/components/document"
	einoparser "github.com/cloudwego/eino/components/document/parser"
	"github.com/cloudwego/eino/components/indexer"
	"github.com/cloudwego/eino/schema"
	"gopkg.in/yaml.v3"

	"github.com/ashwinyue/travel-planner/internal/logger"
)

// ManifestEntry 单个酒店政策文档
type ManifestEntry struct {
	HotelID   string `yaml:"hotelId"`
	HotelName string `yaml:"hotelName"`
	File      string `yaml:"file"`
}

// Manifest 政策文档清单
type Manifest struct {
	Documents []ManifestEntry `yaml:"documents"`
}

// LoadManifest 读取 YAML 清单，相对路径以清单所在目录为基准
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	base := filepath.Dir(path)
	for i, e := range m.Documents {
		if e.HotelID == "" || e.File == "" {
			return nil, fmt.Errorf("manifest entry %d: hotelId and file are required", i)
		}
		if !filepath.IsAbs(e.File) {
			m.Documents[i].File = filepath.Join(base, e.File)
		}
	}
	return &m, nil
}

// IngestResult 导入统计
type IngestResult struct {
	Documents int
	Chunks    int
	Failed    []string
}

// Ingestor 解析、分块并写入政策索引
type Ingestor struct {
	indexer  indexer.Indexer
	splitter document.Transformer
	log      *logger.Logger
}

// NewIngestor 创建导入器
func NewIngestor(ctx context.Context, idx indexer.Indexer, log *logger.Logger) (*Ingestor, error) {
	splitter, err := recursive.NewSplitter(ctx, &recursive.Config{
		ChunkSize:   512,
		OverlapSize: 50,
		Separators:  []string{"\n\n", "\n", ". ", "? ", "! ", "; ", ", ", " ", ""},
		KeepType:    recursive.KeepTypeNone,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create splitter: %w", err)
	}
	return &Ingestor{indexer: idx, splitter: splitter, log: log}, nil
}

// Ingest 导入清单中的全部文档，单个文档失败不影响其他文档
func (i *Ingestor) Ingest(ctx context.Context, m *Manifest) (*IngestResult, error) {
	result := &IngestResult{}
	for _, entry := range m.Documents {
		n, err := i.ingestOne(ctx, entry)
		if err != nil {
			i.log.Error("failed to ingest policy document", "hotel_id", entry.HotelID, "file", entry.File, "error", err)
			result.Failed = append(result.Failed, entry.File)
			continue
		}
		result.Documents++
		result.Chunks += n
		i.log.Info("policy document indexed", "hotel_id", entry.HotelID, "file", entry.File, "chunks", n)
	}
	if result.Documents == 0 && len(result.Failed) > 0 {
		return result, fmt.Errorf("all %d policy documents failed", len(result.Failed))
	}
	return result, nil
}

func (i *Ingestor) ingestOne(ctx context.Context, entry ManifestEntry) (int, error) {
	parser, err := newParser(ctx, entry.File)
	if err != nil {
		return 0, err
	}
	f, err := os.Open(entry.File)
	if err != nil {
		return 0, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	docs, err := parser.Parse(ctx, f)
	if err != nil {
		return 0, fmt.Errorf("parser failed: %w", err)
	}
	chunks, err := i.splitter.Transform(ctx, docs)
	if err != nil {
		return 0, fmt.Errorf("splitter failed: %w", err)
	}

	source := filepath.Base(entry.File)
	out := make([]*schema.Document, 0, len(chunks))
	for n, c := range chunks {
		if strings.TrimSpace(c.Content) == "" {
			continue
		}
		out = append(out, &schema.Document{
			ID:      fmt.Sprintf("%s_%s_%d", entry.HotelID, source, n),
			Content: c.Content,
			MetaData: map[string]any{
				MetaHotelID:    entry.HotelID,
				MetaHotelName:  entry.HotelName,
				MetaSourceFile: source,
			},
		})
	}
	if len(out) == 0 {
		return 0, fmt.Errorf("no content parsed from %s", source)
	}

	if _, err := i.indexer.Store(ctx, out); err != nil {
		return 0, fmt.Errorf("failed to store chunks: %w", err)
	}
	return len(out), nil
}

// newParser 按扩展名选择解析器
func newParser(ctx context.Context, path string) (einoparser.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return pdf.NewPDFParser(ctx, &pdf.Config{ToPages: false})
	case ".docx":
		return docx.NewDocxParser(ctx, &docx.Config{
			ToSections:      false,
			IncludeComments: false,
			IncludeHeaders:  true,
			IncludeFooters:  false,
			IncludeTables:   true,
		})
	case ".txt", ".md":
		return &textParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(path))
	}
}

// textParser 纯文本解析器
type textParser struct{}

func (p *textParser) Parse(_ context.Context, reader io.Reader, _ ...einoparser.Option) ([]*schema.Document, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read: %w", err)
	}
	if len(content) == 0 {
		return []*schema.Document{}, nil
	}
	return []*schema.Document{{Content: string(content), MetaData: map[string]any{}}}, nil
}
