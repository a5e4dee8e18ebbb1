package ingestion

import (
	"context"
	"crypto/sha256"
	"fmt"
	"strconv"
	"strings"

	"github.com/lawrag/lawrag/internal/corpus"
	"github.com/lawrag/lawrag/internal/rag"
)

// Config holds the configuration for the indexing pipeline.
type Config struct {
	// BatchSize is the number of passages embedded and upserted per
	// round trip. Defaults to 32 if zero.
	BatchSize int
}

// Pipeline orchestrates the chunk → embed → upsert flow from the loaded
// corpus into the vector store.
type Pipeline struct {
	// embedder converts passage text into dense vector embeddings.
	embedder rag.Embedder

	// store persists the embedded passages.
	store rag.VectorStore

	// cfg holds the resolved pipeline configuration.
	cfg *Config
}

// NewPipeline constructs a Pipeline from the provided dependencies and config.
func NewPipeline(embedder rag.Embedder, store rag.VectorStore, cfg *Config) (*Pipeline, error) {
	if embedder == nil {
		return nil, fmt.Errorf("ingestion: embedder must not be nil")
	}
	if store == nil {
		return nil, fmt.Errorf("ingestion: store must not be nil")
	}
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 32
	}

	return &Pipeline{embedder: embedder, store: store, cfg: cfg}, nil
}

// IndexNaive indexes every article whole, one passage per article, with the
// article_id metadata the naive strategy reads back. Progress is reported
// via the optional progress callback.
func (p *Pipeline) IndexNaive(ctx context.Context, laws []*corpus.Law, progress func(msg string)) error {
	if progress == nil {
		progress = func(string) {}
	}

	for _, law := range laws {
		passages := make([]rag.Passage, 0, len(law.Articles))
		for _, a := range law.Articles {
			passages = append(passages, rag.Passage{
				ID:      passageID(a.ID),
				Content: articleText(law.Title, a),
				Source:  a.URL,
				Metadata: map[string]string{
					rag.MetaArticleID: a.ID,
					"law_title":       law.Title,
					"article_no":      a.ArticleNo,
				},
			})
		}

		if err := p.indexBatches(ctx, passages); err != nil {
			return fmt.Errorf("ingestion: indexing %s: %w", law.Title, err)
		}
		progress(fmt.Sprintf("indexed %d articles from %s", len(passages), law.Title))
	}
	return nil
}

// IndexParentChild chunks every article at the given granularity and
// indexes the child chunks, each carrying its parent article id.
func (p *Pipeline) IndexParentChild(ctx context.Context, laws []*corpus.Law, g Granularity, progress func(msg string)) error {
	if progress == nil {
		progress = func(string) {}
	}

	chunker, err := NewChunker(g)
	if err != nil {
		return err
	}

	for _, law := range laws {
		chunks := chunker.ChunkLaw(law)
		progress(fmt.Sprintf("chunked %s into %d %s chunks", law.Title, len(chunks), g))

		passages := make([]rag.Passage, 0, len(chunks))
		for _, c := range chunks {
			meta := map[string]string{
				rag.MetaChunkID:  c.ID,
				rag.MetaParentID: c.ParentID,
				"law_title":      law.Title,
				"article_no":     c.ArticleNo,
			}
			if c.ParagraphNo > 0 {
				meta["paragraph_no"] = strconv.Itoa(c.ParagraphNo)
			}
			if c.SubparagraphNo > 0 {
				meta["subparagraph_no"] = strconv.Itoa(c.SubparagraphNo)
			}

			passages = append(passages, rag.Passage{
				ID:       passageID(c.ID),
				Content:  c.Citation + "\n" + c.Text,
				Metadata: meta,
			})
		}

		if err := p.indexBatches(ctx, passages); err != nil {
			return fmt.Errorf("ingestion: indexing %s: %w", law.Title, err)
		}
		progress(fmt.Sprintf("indexed %d chunks from %s", len(passages), law.Title))
	}
	return nil
}

// indexBatches embeds and upserts passages in cfg.BatchSize slices.
func (p *Pipeline) indexBatches(ctx context.Context, passages []rag.Passage) error {
	for start := 0; start < len(passages); start += p.cfg.BatchSize {
		end := start + p.cfg.BatchSize
		if end > len(passages) {
			end = len(passages)
		}
		batch := passages[start:end]

		texts := make([]string, len(batch))
		for i, pas := range batch {
			texts[i] = pas.Content
		}

		embeddings, err := p.embedder.Embed(ctx, texts)
		if err != nil {
			return fmt.Errorf("embedding batch: %w", err)
		}
		if len(embeddings) != len(batch) {
			return fmt.Errorf("embedder returned %d vectors for %d texts", len(embeddings), len(batch))
		}

		if err := p.store.Upsert(ctx, batch, embeddings); err != nil {
			return fmt.Errorf("upserting batch: %w", err)
		}
	}
	return nil
}

// articleText builds the embedded representation of a whole article:
// law title, chapter, article number, then the statute text.
func articleText(lawTitle string, a corpus.Article) string {
	parts := []string{"Law: " + lawTitle}
	if a.ChapterName != "" {
		parts = append(parts, "Chapter: "+a.ChapterName)
	}
	parts = append(parts, "Article: "+a.ArticleNo, "Text: "+strings.TrimSpace(a.Content))
	return strings.Join(parts, "\n")
}

// passageID generates a deterministic point id for a corpus unit so that
// re-ingesting upserts in place instead of duplicating.
func passageID(key string) string {
	h := sha256.Sum256([]byte(key))
	return fmt.Sprintf("%x-%x-%x-%x-%x", h[0:4], h[4:6], h[6:8], h[8:10], h[10:16])
}
