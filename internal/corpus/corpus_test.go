package corpus

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleLaw = `{
  "title": "Labor Standards Act",
  "articles": [
    {
      "id": "LSA-38",
      "article_no": "38",
      "chapter_name": "Working Hours, Recess and Holidays",
      "content": "A worker who has worked continually for the same employer ...",
      "url": "https://law.example/lsa/38"
    },
    {
      "id": "LSA-24",
      "article_no": "24",
      "content": "An employer extending working hours shall pay ..."
    }
  ]
}`

func TestLoadLaw(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "labor_standards_act.json")
	if err := os.WriteFile(path, []byte(sampleLaw), 0o644); err != nil {
		t.Fatal(err)
	}

	law, err := LoadLaw(path)
	if err != nil {
		t.Fatalf("LoadLaw: %v", err)
	}
	if law.Title != "Labor Standards Act" {
		t.Errorf("title: got %q", law.Title)
	}
	if len(law.Articles) != 2 {
		t.Fatalf("want 2 articles, got %d", len(law.Articles))
	}
	if law.Articles[0].ID != "LSA-38" {
		t.Errorf("article id: got %q", law.Articles[0].ID)
	}
}

func TestLoadLaws_SkipsMissingFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "act.json"), []byte(sampleLaw), 0o644); err != nil {
		t.Fatal(err)
	}

	laws, err := LoadLaws(dir, []string{"act.json", "subsidiary/enforcement_rules.json"})
	if err != nil {
		t.Fatalf("LoadLaws: %v", err)
	}
	if len(laws) != 1 {
		t.Errorf("want 1 law, got %d", len(laws))
	}

	// Nothing loadable at all is an error.
	if _, err := LoadLaws(dir, []string{"nope.json"}); err == nil {
		t.Errorf("want error when no law files exist")
	}
}

func TestLookup(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "act.json")
	if err := os.WriteFile(path, []byte(sampleLaw), 0o644); err != nil {
		t.Fatal(err)
	}
	law, err := LoadLaw(path)
	if err != nil {
		t.Fatal(err)
	}

	lookup := NewLookup([]*Law{law})
	if lookup.Len() != 2 {
		t.Errorf("want 2 articles, got %d", lookup.Len())
	}

	a, ok := lookup.Article("LSA-38")
	if !ok {
		t.Fatalf("LSA-38 not found")
	}
	if a.ArticleNo != "38" {
		t.Errorf("article no: got %q", a.ArticleNo)
	}
	if _, ok := lookup.Article("LSA-999"); ok {
		t.Errorf("unexpected hit for LSA-999")
	}
}
