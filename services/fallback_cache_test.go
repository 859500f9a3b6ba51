package services

import (
	"fmt"
	"sync"
	"testing"

	"doc-summarizer-platform/models"
)

func TestFallbackCachePutGet(t *testing.T) {
	cache := NewFallbackCache()

	if _, ok := cache.Get("missing"); ok {
		t.Fatal("expected miss on empty cache")
	}

	cache.Put("doc-1", models.DocumentContent{Text: "hello", Chunks: []string{"hello"}})
	content, ok := cache.Get("doc-1")
	if !ok || content.Text != "hello" {
		t.Fatalf("round trip failed: ok=%v content=%+v", ok, content)
	}

	// Put overwrites.
	cache.Put("doc-1", models.DocumentContent{Text: "updated"})
	content, _ = cache.Get("doc-1")
	if content.Text != "updated" {
		t.Fatalf("expected overwrite, got %q", content.Text)
	}
	if cache.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", cache.Len())
	}
}

func TestFallbackCacheConcurrent(t *testing.T) {
	cache := NewFallbackCache()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("doc-%d", n)
			cache.Put(id, models.DocumentContent{Text: id})
		}(i)
		go func(n int) {
			defer wg.Done()
			cache.Get(fmt.Sprintf("doc-%d", n))
		}(i)
	}
	wg.Wait()

	if cache.Len() != 50 {
		t.Fatalf("expected 50 entries, got %d", cache.Len())
	}
	content, ok := cache.Get("doc-7")
	if !ok || content.Text != "doc-7" {
		t.Fatalf("unexpected entry: ok=%v content=%+v", ok, content)
	}
}
