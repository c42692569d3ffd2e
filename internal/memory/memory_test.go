package memory

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/goerr/v2"
)

func TestNormalizeVector(t *testing.T) {
	v := []float32{3, 4}
	normalizeVector(v)

	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	norm := math.Sqrt(sum)
	if math.Abs(norm-1.0) > 1e-5 {
		t.Errorf("normalizeVector: norm = %f, want 1.0", norm)
	}

	if math.Abs(float64(v[0])-0.6) > 1e-5 || math.Abs(float64(v[1])-0.8) > 1e-5 {
		t.Errorf("normalizeVector: got [%f, %f], want [0.6, 0.8]", v[0], v[1])
	}
}

func TestNormalizeZeroVector(t *testing.T) {
	v := []float32{0, 0, 0}
	normalizeVector(v) // Should not panic
	for _, x := range v {
		if x != 0 {
			t.Errorf("normalizeVector of zero vector: got %f, want 0", x)
		}
	}
}

func TestMockEmbedDeterministic(t *testing.T) {
	embed := NewMockEmbedFunc(64)
	ctx := context.Background()

	a, err := embed(ctx, "clipboard text")
	if err != nil {
		t.Fatal(err)
	}
	b, err := embed(ctx, "clipboard text")
	if err != nil {
		t.Fatal(err)
	}

	if len(a) != 64 {
		t.Fatalf("got %d dims, want 64", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("embedding not deterministic at dim %d: %f != %f", i, a[i], b[i])
		}
	}
}

func TestAddAndSearchSelfRetrieval(t *testing.T) {
	store, err := NewChromemStoreInMemory(NewMockEmbedFunc(64))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	ctx := context.Background()

	texts := []string{
		"func main() { fmt.Println(42) }",
		"https://go.dev/blog/errors-are-values",
		"TODO buy milk on the way home",
	}
	for _, text := range texts {
		if _, err := store.Add(ctx, text, "Notes", nil); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	// Each item is its own nearest neighbor.
	for _, text := range texts {
		results, err := store.Search(ctx, text, 3)
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		if len(results) == 0 {
			t.Fatalf("no results for %q", text)
		}
		if results[0].Item.Text != text {
			t.Errorf("top result for %q = %q, want the item itself", text, results[0].Item.Text)
		}
		if results[0].Similarity < 0.99 {
			t.Errorf("self similarity = %f, want ~1.0", results[0].Similarity)
		}
	}
}

func TestSearchEmptyStore(t *testing.T) {
	store, err := NewChromemStoreInMemory(NewMockEmbedFunc(64))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	results, err := store.Search(context.Background(), "anything", 5)
	if err != nil {
		t.Fatalf("Search on empty store: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("got %d results from empty store, want 0", len(results))
	}
}

func TestSearchExcludesSentinel(t *testing.T) {
	store, err := NewChromemStoreInMemory(NewMockEmbedFunc(64))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	ctx := context.Background()
	if _, err := store.Add(ctx, "some clipboard text", "Xcode", nil); err != nil {
		t.Fatal(err)
	}

	// Query with the sentinel's own text: its vector is the best match, but
	// it must never surface.
	results, err := store.Search(ctx, sentinelText, 10)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range results {
		if r.Item.ID == SentinelID {
			t.Fatal("sentinel item leaked into search results")
		}
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
}

func TestCountExcludesSentinel(t *testing.T) {
	store, err := NewChromemStoreInMemory(NewMockEmbedFunc(64))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.Ready(ctx); err != nil {
		t.Fatal(err)
	}
	if got := store.Count(); got != 0 {
		t.Fatalf("Count() after bootstrap = %d, want 0", got)
	}

	if _, err := store.Add(ctx, "one", "App", nil); err != nil {
		t.Fatal(err)
	}
	if got := store.Count(); got != 1 {
		t.Fatalf("Count() = %d, want 1", got)
	}
}

func TestBootstrapIdempotent(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	// First cold start creates the sentinel.
	first, err := NewChromemStore(dir, NewMockEmbedFunc(64))
	if err != nil {
		t.Fatal(err)
	}
	if err := first.Ready(ctx); err != nil {
		t.Fatalf("first bootstrap: %v", err)
	}
	if err := first.Ready(ctx); err != nil {
		t.Fatalf("repeated bootstrap in-process: %v", err)
	}
	if got := first.collection.Count(); got != 1 {
		t.Fatalf("collection count after bootstrap = %d, want 1 (sentinel)", got)
	}
	first.Close()

	// Second cold start detects the existing collection and skips creation.
	second, err := NewChromemStore(dir, NewMockEmbedFunc(64))
	if err != nil {
		t.Fatal(err)
	}
	defer second.Close()
	if err := second.Ready(ctx); err != nil {
		t.Fatalf("second bootstrap: %v", err)
	}
	if got := second.collection.Count(); got != 1 {
		t.Fatalf("collection count after restart = %d, want 1", got)
	}
}

func TestAddDimensionMismatch(t *testing.T) {
	calls := 0
	// First call (sentinel) yields 64 dims, later calls 32.
	embed := func(ctx context.Context, text string) ([]float32, error) {
		calls++
		dims := 64
		if calls > 1 {
			dims = 32
		}
		vec := make([]float32, dims)
		vec[0] = 1
		return vec, nil
	}

	store, err := NewChromemStoreInMemory(embed)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	_, err = store.Add(context.Background(), "short vector", "App", nil)
	if err == nil {
		t.Fatal("expected dimension mismatch error")
	}
	if !goerr.HasTag(err, ErrTagStore) {
		t.Errorf("error missing store tag: %v", err)
	}
}

func TestEmbeddingFailureTag(t *testing.T) {
	embed := func(ctx context.Context, text string) ([]float32, error) {
		return nil, goerr.New("embedding service down")
	}

	store, err := NewChromemStoreInMemory(embed)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	err = store.Ready(context.Background())
	if err == nil {
		t.Fatal("expected bootstrap failure")
	}
	if !goerr.HasTag(err, ErrTagEmbedding) {
		t.Errorf("error missing embedding tag: %v", err)
	}

	// The failure is sticky: the store never reports ready.
	if err := store.Ready(context.Background()); err == nil {
		t.Fatal("expected repeated Ready to keep failing")
	}
}

func TestAddSurfacesIndexWriteFailure(t *testing.T) {
	dir := t.TempDir()
	store, err := NewChromemStore(dir, NewMockEmbedFunc(64))
	if err != nil {
		t.Fatal(err)
	}

	// A directory squatting on the index path makes every index write fail.
	if err := os.Mkdir(filepath.Join(dir, "items_index.json"), 0755); err != nil {
		t.Fatal(err)
	}

	_, err = store.Add(context.Background(), "some text", "App", nil)
	if err == nil {
		t.Fatal("expected index write failure to surface")
	}
	if !goerr.HasTag(err, ErrTagStore) {
		t.Errorf("error missing store tag: %v", err)
	}

	if err := store.Close(); err == nil {
		t.Error("Close should report the failing index flush")
	}
}

func TestListNewestFirst(t *testing.T) {
	store, err := NewChromemStoreInMemory(NewMockEmbedFunc(64))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	ctx := context.Background()
	for _, text := range []string{"first", "second", "third"} {
		if _, err := store.Add(ctx, text, "App", nil); err != nil {
			t.Fatal(err)
		}
	}

	items, err := store.List(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].Timestamp.Before(items[1].Timestamp) {
		t.Error("List not sorted newest first")
	}
}
