package ingestion

import (
	"strings"
	"testing"

	"github.com/lawrag/lawrag/internal/corpus"
)

func article(id, no, content string) corpus.Article {
	return corpus.Article{ID: id, ArticleNo: no, Content: content}
}

func TestChunkArticle_Atomic(t *testing.T) {
	t.Parallel()

	c, err := NewChunker(GranularityCoarse)
	if err != nil {
		t.Fatalf("NewChunker: %v", err)
	}

	a := article("LSA-1", "1", "This Act is enacted to provide minimum standards for working conditions.")
	chunks := c.ChunkArticle("Labor Standards Act", a)

	if len(chunks) != 1 {
		t.Fatalf("want 1 atomic chunk, got %d", len(chunks))
	}
	// The atomic chunk id must not collide with the parent article id.
	if chunks[0].ID == a.ID {
		t.Errorf("chunk id must differ from parent id")
	}
	if chunks[0].ParentID != "LSA-1" {
		t.Errorf("parent id: got %q", chunks[0].ParentID)
	}
	if chunks[0].ParagraphNo != 0 {
		t.Errorf("atomic chunk should have no paragraph number, got %d", chunks[0].ParagraphNo)
	}
}

const paragraphedContent = `(1) An employer shall pay overtime at the following rates:
1. For the first two hours, one and one-third times the regular rate.
2. For further hours, one and two-thirds times the regular rate.
(2) Work done on rest days shall be compensated separately.`

func TestChunkArticle_Coarse(t *testing.T) {
	t.Parallel()

	c, _ := NewChunker(GranularityCoarse)
	chunks := c.ChunkArticle("Labor Standards Act", article("LSA-24", "24", paragraphedContent))

	if len(chunks) != 2 {
		t.Fatalf("coarse: want 2 paragraph chunks, got %d", len(chunks))
	}
	if chunks[0].ID != "LSA-24-p1" || chunks[1].ID != "LSA-24-p2" {
		t.Errorf("chunk ids: got %q, %q", chunks[0].ID, chunks[1].ID)
	}
	for _, ch := range chunks {
		if ch.ParentID != "LSA-24" {
			t.Errorf("chunk %s: parent id %q", ch.ID, ch.ParentID)
		}
	}
	// Coarse keeps subparagraphs inside their paragraph.
	if !strings.Contains(chunks[0].Text, "one and one-third") {
		t.Errorf("paragraph 1 should contain its subparagraphs: %q", chunks[0].Text)
	}
}

func TestChunkArticle_Fine(t *testing.T) {
	t.Parallel()

	c, _ := NewChunker(GranularityFine)
	chunks := c.ChunkArticle("Labor Standards Act", article("LSA-24", "24", paragraphedContent))

	// Paragraph 1 splits into two subparagraphs; paragraph 2 stays whole.
	if len(chunks) != 3 {
		t.Fatalf("fine: want 3 chunks, got %d", len(chunks))
	}
	if chunks[0].ID != "LSA-24-p1-s1" || chunks[1].ID != "LSA-24-p1-s2" || chunks[2].ID != "LSA-24-p2" {
		t.Errorf("chunk ids: got %q, %q, %q", chunks[0].ID, chunks[1].ID, chunks[2].ID)
	}
	if chunks[1].SubparagraphNo != 2 {
		t.Errorf("subparagraph no: got %d", chunks[1].SubparagraphNo)
	}
	if !strings.Contains(chunks[0].Citation, "Paragraph 1, Subparagraph 1") {
		t.Errorf("citation: got %q", chunks[0].Citation)
	}
}

func TestChunkLaw(t *testing.T) {
	t.Parallel()

	law := &corpus.Law{
		Title: "Labor Standards Act",
		Articles: []corpus.Article{
			article("LSA-1", "1", "Atomic article."),
			article("LSA-24", "24", paragraphedContent),
		},
	}

	c, _ := NewChunker(GranularityCoarse)
	chunks := c.ChunkLaw(law)
	if len(chunks) != 3 {
		t.Fatalf("want 3 chunks, got %d", len(chunks))
	}
}

func TestNewChunker_UnknownGranularity(t *testing.T) {
	t.Parallel()

	if _, err := NewChunker(Granularity("medium")); err == nil {
		t.Errorf("want error for unknown granularity")
	}
}
