// Package corpus loads the fixed statutory-article corpus from disk.
// Each law is a JSON file produced by the scraping pipeline: a title plus a
// flat list of articles. The corpus is read-only at retrieval time; the
// ingestion pipeline turns it into indexed passages.
package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Article is one statutory article as scraped and cleaned.
type Article struct {
	// ID is the globally unique article identifier (e.g. "LSA-38") used
	// as the ground-truth comparison key.
	ID string `json:"id"`

	// ArticleNo is the human-readable article number within the law.
	ArticleNo string `json:"article_no"`

	// ChapterNo is the chapter number, when the law is chaptered.
	ChapterNo string `json:"chapter_no,omitempty"`

	// ChapterName is the chapter heading, when present.
	ChapterName string `json:"chapter_name,omitempty"`

	// Content is the cleaned full text of the article.
	Content string `json:"content"`

	// URL is the source page the article was scraped from.
	URL string `json:"url,omitempty"`
}

// Law is one statute: a title and its articles.
type Law struct {
	// Title is the official name of the law.
	Title string `json:"title"`

	// Articles lists the law's articles in statute order.
	Articles []Article `json:"articles"`
}

// LoadLaw reads and parses a single law JSON file.
func LoadLaw(path string) (*Law, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("corpus: reading law file %s: %w", path, err)
	}

	var law Law
	if err := json.Unmarshal(data, &law); err != nil {
		return nil, fmt.Errorf("corpus: parsing law file %s: %w", path, err)
	}
	if law.Title == "" {
		law.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return &law, nil
}

// LoadLaws reads every configured law file under dataDir. Missing files are
// skipped with an error only when nothing at all could be loaded, matching
// the scraper's incremental delivery of subsidiary laws.
func LoadLaws(dataDir string, files []string) ([]*Law, error) {
	var laws []*Law
	var missing []string

	for _, rel := range files {
		path := filepath.Join(dataDir, rel)
		if _, err := os.Stat(path); err != nil {
			missing = append(missing, rel)
			continue
		}
		law, err := LoadLaw(path)
		if err != nil {
			return nil, err
		}
		laws = append(laws, law)
	}

	if len(laws) == 0 {
		return nil, fmt.Errorf("corpus: no law files found under %s (missing: %v)", dataDir, missing)
	}
	return laws, nil
}

// Lookup maps article ids to their articles, used by reporting to show the
// statute text behind a failed case.
type Lookup struct {
	// byID indexes every loaded article by its unique id.
	byID map[string]Article
}

// NewLookup builds a Lookup over the given laws.
func NewLookup(laws []*Law) *Lookup {
	byID := make(map[string]Article)
	for _, law := range laws {
		for _, a := range law.Articles {
			byID[a.ID] = a
		}
	}
	return &Lookup{byID: byID}
}

// Article returns the article with the given id, and whether it exists.
func (l *Lookup) Article(id string) (Article, bool) {
	a, ok := l.byID[id]
	return a, ok
}

// Len returns the number of distinct articles in the lookup.
func (l *Lookup) Len() int {
	return len(l.byID)
}
