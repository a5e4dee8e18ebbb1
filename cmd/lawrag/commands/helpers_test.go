package commands

import "testing"

func TestResolveVersion(t *testing.T) {
	t.Run("env applies when flag untouched", func(t *testing.T) {
		t.Setenv("LAWRAG_VERSION", "parent-child-fine")
		if got := resolveVersion(false, "naive"); got != "parent-child-fine" {
			t.Errorf("resolveVersion = %q, want parent-child-fine", got)
		}
	})

	t.Run("explicit flag wins over env", func(t *testing.T) {
		t.Setenv("LAWRAG_VERSION", "parent-child-fine")
		if got := resolveVersion(true, "naive"); got != "naive" {
			t.Errorf("resolveVersion = %q, want naive", got)
		}
	})

	t.Run("flag default without env", func(t *testing.T) {
		t.Setenv("LAWRAG_VERSION", "")
		if got := resolveVersion(false, "naive"); got != "naive" {
			t.Errorf("resolveVersion = %q, want naive", got)
		}
	})
}

func TestCollectionFor(t *testing.T) {
	t.Run("per-version default", func(t *testing.T) {
		t.Setenv("QDRANT_COLLECTION", "")
		if got := collectionFor("parent-child-coarse"); got != "lawrag-parent-child-coarse" {
			t.Errorf("collectionFor = %q", got)
		}
	})

	t.Run("env override", func(t *testing.T) {
		t.Setenv("QDRANT_COLLECTION", "labor-law")
		if got := collectionFor("naive"); got != "labor-law" {
			t.Errorf("collectionFor = %q, want labor-law", got)
		}
	})
}
