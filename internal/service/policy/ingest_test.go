package policy

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cloudwego/eino/components/indexer"
	"github.com/cloudwego/eino/schema"

	"github.com/ashwinyue/travel-planner/internal/logger"
)

type captureIndexer struct {
	docs []*schema.Document
}

func (c *captureIndexer) Store(ctx context.Context, docs []*schema.Document, opts ...indexer.Option) ([]string, error) {
	c.docs = append(c.docs, docs...)
	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	return ids, nil
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadManifestAndIngest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "grand.txt"), "Check-in from 3 PM.\n\nPets up to 10kg are allowed for a fee.")
	writeFile(t, filepath.Join(dir, "manifest.yaml"), `documents:
  - hotelId: g-grand
    hotelName: Grand Plaza
    file: grand.txt
  - hotelId: g-missing
    file: missing.txt
  - hotelId: g-odd
    file: policy.xls
`)

	m, err := LoadManifest(filepath.Join(dir, "manifest.yaml"))
	if err != nil {
		t.Fatalf("LoadManifest() error = %v", err)
	}
	if len(m.Documents) != 3 || m.Documents[0].File != filepath.Join(dir, "grand.txt") {
		t.Fatalf("unexpected manifest %+v", m)
	}

	idx := &captureIndexer{}
	ing, err := NewIngestor(context.Background(), idx, logger.Nop())
	if err != nil {
		t.Fatalf("NewIngestor() error = %v", err)
	}
	res, err := ing.Ingest(context.Background(), m)
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if res.Documents != 1 || len(res.Failed) != 2 || res.Chunks == 0 {
		t.Errorf("unexpected result %+v", res)
	}
	for _, d := range idx.docs {
		if d.MetaData[MetaHotelID] != "g-grand" || d.MetaData[MetaSourceFile] != "grand.txt" || d.ID == "" {
			t.Errorf("unexpected chunk %+v", d)
		}
	}
}

func TestLoadManifest_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.yaml")
	writeFile(t, path, "documents:\n  - hotelName: No Id\n    file: a.txt\n")
	if _, err := LoadManifest(path); err == nil {
		t.Error("expected error for entry without hotelId")
	}
}

func TestDocumentToFields(t *testing.T) {
	fields := documentToFields(&schema.Document{
		Content:  "Late checkout until noon.",
		MetaData: map[string]any{MetaHotelID: "g-grand"},
	})
	if fields[FieldContent].EmbedKey != FieldVector || fields[MetaHotelID].Value != "g-grand" {
		t.Errorf("unexpected fields %+v", fields)
	}
}
