// Package ingestion turns the statutory corpus into indexed passages.
// Whole articles are indexed directly for naive retrieval; for parent-child
// retrieval each article is split into granular child chunks that carry
// their parent article id in metadata, at either fine (subparagraph) or
// coarse (paragraph) granularity. The pipeline embeds the resulting
// passages and upserts them into the vector store.
package ingestion

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lawrag/lawrag/internal/corpus"
)

// Granularity selects how deeply an article is split into child chunks.
type Granularity string

const (
	// GranularityFine splits paragraphs further into numbered
	// subparagraphs, producing the smallest retrievable units.
	GranularityFine Granularity = "fine"

	// GranularityCoarse stops at numbered paragraphs.
	GranularityCoarse Granularity = "coarse"
)

// Chunk is one granular child unit of a statutory article.
type Chunk struct {
	// ID uniquely identifies the chunk within the corpus.
	ID string

	// ParentID is the article id the chunk belongs to — the diversity key
	// and the ground-truth comparison unit.
	ParentID string

	// Text is the chunk's statute text.
	Text string

	// ArticleNo is the human-readable article number.
	ArticleNo string

	// ParagraphNo is the 1-based paragraph number, 0 for atomic chunks.
	ParagraphNo int

	// SubparagraphNo is the 1-based subparagraph number, 0 when the chunk
	// covers a whole paragraph or article.
	SubparagraphNo int

	// Citation is the human-readable reference (law title, article,
	// paragraph) prepended to the embedded text.
	Citation string
}

// paragraphPattern matches numbered paragraph markers "(1)", "(2)", ... at
// the start of a line.
var paragraphPattern = regexp.MustCompile(`(?m)^\s*\((\d+)\)`)

// subparagraphPattern matches numbered subitem markers "1.", "2.", ... at
// the start of a line.
var subparagraphPattern = regexp.MustCompile(`(?m)^\s*(\d+)\.\s`)

// Chunker splits articles into child chunks at a configured granularity.
type Chunker struct {
	// granularity controls the split depth.
	granularity Granularity
}

// NewChunker constructs a Chunker for the given granularity.
func NewChunker(g Granularity) (*Chunker, error) {
	switch g {
	case GranularityFine, GranularityCoarse:
		return &Chunker{granularity: g}, nil
	default:
		return nil, fmt.Errorf("ingestion: unknown granularity %q", g)
	}
}

// ChunkLaw splits every article of a law into child chunks.
func (c *Chunker) ChunkLaw(law *corpus.Law) []Chunk {
	var chunks []Chunk
	for _, a := range law.Articles {
		chunks = append(chunks, c.ChunkArticle(law.Title, a)...)
	}
	return chunks
}

// ChunkArticle splits one article. An article with no paragraph markers
// yields a single atomic chunk; its id gets a suffix so a chunk id never
// collides with its parent article id.
func (c *Chunker) ChunkArticle(lawTitle string, a corpus.Article) []Chunk {
	paragraphs := splitByPattern(a.Content, paragraphPattern)

	if len(paragraphs) == 0 {
		return []Chunk{{
			ID:        a.ID + "_chunk",
			ParentID:  a.ID,
			Text:      strings.TrimSpace(a.Content),
			ArticleNo: a.ArticleNo,
			Citation:  citation(lawTitle, a.ArticleNo, 0, 0),
		}}
	}

	var chunks []Chunk
	for i, para := range paragraphs {
		paraNo := i + 1

		if c.granularity == GranularityFine {
			subs := splitByPattern(para, subparagraphPattern)
			if len(subs) > 1 {
				for j, sub := range subs {
					chunks = append(chunks, Chunk{
						ID:             fmt.Sprintf("%s-p%d-s%d", a.ID, paraNo, j+1),
						ParentID:       a.ID,
						Text:           strings.TrimSpace(sub),
						ArticleNo:      a.ArticleNo,
						ParagraphNo:    paraNo,
						SubparagraphNo: j + 1,
						Citation:       citation(lawTitle, a.ArticleNo, paraNo, j+1),
					})
				}
				continue
			}
		}

		chunks = append(chunks, Chunk{
			ID:          fmt.Sprintf("%s-p%d", a.ID, paraNo),
			ParentID:    a.ID,
			Text:        strings.TrimSpace(para),
			ArticleNo:   a.ArticleNo,
			ParagraphNo: paraNo,
			Citation:    citation(lawTitle, a.ArticleNo, paraNo, 0),
		})
	}
	return chunks
}

// splitByPattern slices text at each match of pattern, keeping the marker
// with its section. Text before the first marker is dropped only when
// empty; otherwise it is not considered a numbered section and the whole
// text is treated as unmarked (returns nil for the caller to handle
// atomically).
func splitByPattern(text string, pattern *regexp.Regexp) []string {
	locs := pattern.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}

	// A non-empty preamble before the first marker means the text is not
	// cleanly sectioned; keep it attached to the first section.
	start := locs[0][0]
	preamble := strings.TrimSpace(text[:start])

	var sections []string
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		section := text[loc[0]:end]
		if i == 0 && preamble != "" {
			section = preamble + "\n" + section
		}
		sections = append(sections, strings.TrimSpace(section))
	}
	return sections
}

// citation builds the human-readable reference prepended to embedded text,
// e.g. "Labor Standards Act, Article 38, Paragraph 2".
func citation(lawTitle, articleNo string, paraNo, subNo int) string {
	parts := []string{lawTitle, "Article " + articleNo}
	if paraNo > 0 {
		parts = append(parts, fmt.Sprintf("Paragraph %d", paraNo))
	}
	if subNo > 0 {
		parts = append(parts, fmt.Sprintf("Subparagraph %d", subNo))
	}
	return strings.Join(parts, ", ")
}
