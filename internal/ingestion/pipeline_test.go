package ingestion

import (
	"context"
	"testing"

	"github.com/lawrag/lawrag/internal/corpus"
	"github.com/lawrag/lawrag/internal/rag"
)

// fakeEmbedder returns a fixed-size zero vector per text.
type fakeEmbedder struct {
	calls int
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	f.calls++
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = make([]float32, 4)
	}
	return out, nil
}

// captureStore records every upserted passage.
type captureStore struct {
	passages []rag.Passage
}

func (c *captureStore) Upsert(_ context.Context, passages []rag.Passage, embeddings [][]float32) error {
	c.passages = append(c.passages, passages...)
	return nil
}

func (c *captureStore) Search(context.Context, []float32, int) ([]rag.Passage, error) {
	return nil, nil
}

func (c *captureStore) Delete(context.Context, []string) error { return nil }
func (c *captureStore) Close() error                           { return nil }

func testLaw() *corpus.Law {
	return &corpus.Law{
		Title: "Labor Standards Act",
		Articles: []corpus.Article{
			article("LSA-1", "1", "Atomic article text."),
			article("LSA-24", "24", paragraphedContent),
		},
	}
}

func TestPipeline_IndexNaive(t *testing.T) {
	t.Parallel()

	store := &captureStore{}
	p, err := NewPipeline(&fakeEmbedder{}, store, nil)
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}

	if err := p.IndexNaive(context.Background(), []*corpus.Law{testLaw()}, nil); err != nil {
		t.Fatalf("IndexNaive: %v", err)
	}

	if len(store.passages) != 2 {
		t.Fatalf("want 2 passages (one per article), got %d", len(store.passages))
	}
	for _, pas := range store.passages {
		if pas.Metadata[rag.MetaArticleID] == "" {
			t.Errorf("passage %s missing article_id metadata", pas.ID)
		}
		if pas.Metadata[rag.MetaParentID] != "" {
			t.Errorf("naive passage %s should not carry parent_id", pas.ID)
		}
	}
}

func TestPipeline_IndexParentChild(t *testing.T) {
	t.Parallel()

	store := &captureStore{}
	p, _ := NewPipeline(&fakeEmbedder{}, store, nil)

	if err := p.IndexParentChild(context.Background(), []*corpus.Law{testLaw()}, GranularityCoarse, nil); err != nil {
		t.Fatalf("IndexParentChild: %v", err)
	}

	// Atomic article + two paragraphs.
	if len(store.passages) != 3 {
		t.Fatalf("want 3 passages, got %d", len(store.passages))
	}
	for _, pas := range store.passages {
		if pas.Metadata[rag.MetaParentID] == "" {
			t.Errorf("chunk passage %s missing parent_id metadata", pas.ID)
		}
		if pas.Metadata[rag.MetaChunkID] == "" {
			t.Errorf("chunk passage %s missing chunk_id metadata", pas.ID)
		}
	}
}

func TestPipeline_Batches(t *testing.T) {
	t.Parallel()

	emb := &fakeEmbedder{}
	store := &captureStore{}
	p, _ := NewPipeline(emb, store, &Config{BatchSize: 1})

	if err := p.IndexNaive(context.Background(), []*corpus.Law{testLaw()}, nil); err != nil {
		t.Fatalf("IndexNaive: %v", err)
	}
	if emb.calls != 2 {
		t.Errorf("batch size 1 over 2 articles: want 2 embed calls, got %d", emb.calls)
	}
}

func TestPassageID_Deterministic(t *testing.T) {
	t.Parallel()

	a := passageID("LSA-24-p1")
	b := passageID("LSA-24-p1")
	if a != b {
		t.Errorf("passage id must be deterministic: %q vs %q", a, b)
	}
	if a == passageID("LSA-24-p2") {
		t.Errorf("different keys must produce different ids")
	}
}
