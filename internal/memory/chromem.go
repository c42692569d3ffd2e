package memory

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/philippgille/chromem-go"
)

// SentinelID is the reserved id of the bootstrap item that pins the vector
// dimensionality of the collection. It never appears in search results.
const SentinelID = "00000000-0000-0000-0000-000000000000"

const sentinelText = "clipboard memory schema bootstrap"

const defaultSearchLimit = 5

// ChromemStore implements Store using chromem-go for vector persistence and
// cosine nearest-neighbor search.
type ChromemStore struct {
	db         *chromem.DB
	collection *chromem.Collection
	embed      EmbedFunc

	items      map[string]Item
	mu         sync.RWMutex
	persistDir string // empty for in-memory

	initOnce sync.Once
	initErr  error
	dim      int
}

// NewChromemStore creates a persistent ChromemStore rooted at persistDir.
// The schema bootstrap itself is lazy: it runs on first use, at most once
// per process.
func NewChromemStore(persistDir string, embed EmbedFunc) (*ChromemStore, error) {
	db, err := chromem.NewPersistentDB(persistDir, false)
	if err != nil {
		return nil, goerr.Wrap(err, "create persistent DB", goerr.T(ErrTagStore), goerr.V("dir", persistDir))
	}

	col, err := db.GetOrCreateCollection("clipboard_memory", nil, chromem.EmbeddingFunc(embed))
	if err != nil {
		return nil, goerr.Wrap(err, "get or create collection", goerr.T(ErrTagStore))
	}

	s := &ChromemStore{
		db:         db,
		collection: col,
		embed:      embed,
		items:      make(map[string]Item),
		persistDir: persistDir,
	}

	// Index may not exist yet on first run
	_ = s.loadIndex()

	return s, nil
}

// NewChromemStoreInMemory creates an in-memory ChromemStore for testing.
func NewChromemStoreInMemory(embed EmbedFunc) (*ChromemStore, error) {
	db := chromem.NewDB()
	col, err := db.GetOrCreateCollection("clipboard_memory", nil, chromem.EmbeddingFunc(embed))
	if err != nil {
		return nil, goerr.Wrap(err, "get or create collection", goerr.T(ErrTagStore))
	}

	return &ChromemStore{
		db:         db,
		collection: col,
		embed:      embed,
		items:      make(map[string]Item),
	}, nil
}

// Ready runs the lazy bootstrap and reports whether the store is usable.
func (s *ChromemStore) Ready(ctx context.Context) error {
	return s.ensureInit(ctx)
}

// ensureInit performs the schema bootstrap exactly once per process: it fixes
// the embedding dimensionality from a representative vector and, if the
// collection is empty, inserts the sentinel item. On later startups the
// existing collection is detected and creation is skipped.
func (s *ChromemStore) ensureInit(ctx context.Context) error {
	s.initOnce.Do(func() {
		vec, err := s.embed(ctx, sentinelText)
		if err != nil {
			s.initErr = goerr.Wrap(err, "embed sentinel", goerr.T(ErrTagEmbedding))
			return
		}
		s.dim = len(vec)

		if s.collection.Count() > 0 {
			return
		}

		doc := chromem.Document{
			ID:        SentinelID,
			Content:   sentinelText,
			Embedding: vec,
			Metadata:  map[string]string{"sentinel": "true"},
		}
		if err := s.collection.AddDocument(ctx, doc); err != nil {
			s.initErr = goerr.Wrap(err, "create collection sentinel", goerr.T(ErrTagStore))
		}
	})
	return s.initErr
}

func (s *ChromemStore) Add(ctx context.Context, text, sourceApp string, tags []string) (Item, error) {
	if err := s.ensureInit(ctx); err != nil {
		return Item{}, err
	}

	vec, err := s.embed(ctx, text)
	if err != nil {
		return Item{}, goerr.Wrap(err, "embed item text", goerr.T(ErrTagEmbedding))
	}
	if len(vec) != s.dim {
		return Item{}, goerr.New("embedding dimension mismatch",
			goerr.T(ErrTagStore), goerr.V("got", len(vec)), goerr.V("want", s.dim))
	}

	item := Item{
		ID:        uuid.New().String(),
		Text:      text,
		Timestamp: time.Now(),
		SourceApp: sourceApp,
		Tags:      tags,
		Embedding: vec,
	}

	doc := chromem.Document{
		ID:        item.ID,
		Content:   text,
		Embedding: vec,
		Metadata: map[string]string{
			"source_app": sourceApp,
			"tags":       strings.Join(tags, ","),
			"timestamp":  item.Timestamp.Format(time.RFC3339),
		},
	}

	if err := s.collection.AddDocument(ctx, doc); err != nil {
		return Item{}, goerr.Wrap(err, "add document", goerr.T(ErrTagStore))
	}

	s.mu.Lock()
	s.items[item.ID] = item
	s.mu.Unlock()

	// The index write is part of persistence: List and Count depend on it
	// after a restart.
	if err := s.saveIndex(); err != nil {
		return Item{}, err
	}
	return item, nil
}

func (s *ChromemStore) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if err := s.ensureInit(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	count := s.collection.Count()
	if count <= 1 {
		// Only the sentinel (or nothing) is stored
		return nil, nil
	}

	vec, err := s.embed(ctx, query)
	if err != nil {
		return nil, goerr.Wrap(err, "embed query", goerr.T(ErrTagEmbedding))
	}

	// Ask for one extra result so the sentinel can be dropped without
	// shrinking the caller's window.
	nResults := limit + 1
	if nResults > count {
		nResults = count
	}

	hits, err := s.collection.QueryEmbedding(ctx, vec, nResults, nil, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "query collection", goerr.T(ErrTagStore))
	}

	results := make([]Result, 0, len(hits))
	for _, hit := range hits {
		if hit.ID == SentinelID {
			continue
		}
		results = append(results, Result{
			Item:       s.itemFromResult(hit),
			Similarity: hit.Similarity,
		})
		if len(results) >= limit {
			break
		}
	}

	return results, nil
}

func (s *ChromemStore) List(_ context.Context, limit int) ([]Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]Item, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, item)
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].Timestamp.After(items[j].Timestamp)
	})

	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	return items, nil
}

func (s *ChromemStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *ChromemStore) Close() error {
	return s.saveIndex()
}

// itemFromResult reconstructs an Item from a chromem-go result, preferring
// the in-memory index and falling back to document metadata.
func (s *ChromemStore) itemFromResult(r chromem.Result) Item {
	s.mu.RLock()
	if item, ok := s.items[r.ID]; ok {
		s.mu.RUnlock()
		return item
	}
	s.mu.RUnlock()

	ts, _ := time.Parse(time.RFC3339, r.Metadata["timestamp"])
	var tags []string
	if raw := r.Metadata["tags"]; raw != "" {
		tags = strings.Split(raw, ",")
	}
	return Item{
		ID:        r.ID,
		Text:      r.Content,
		Timestamp: ts,
		SourceApp: r.Metadata["source_app"],
		Tags:      tags,
		Embedding: r.Embedding,
	}
}

// The item index is a JSON file alongside the chromem data.

func (s *ChromemStore) indexPath() string {
	if s.persistDir == "" {
		return ""
	}
	return filepath.Join(s.persistDir, "items_index.json")
}

func (s *ChromemStore) saveIndex() error {
	path := s.indexPath()
	if path == "" {
		return nil
	}

	s.mu.RLock()
	data, err := json.Marshal(s.items)
	s.mu.RUnlock()

	if err != nil {
		return goerr.Wrap(err, "marshal item index", goerr.T(ErrTagStore))
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return goerr.Wrap(err, "write item index", goerr.T(ErrTagStore), goerr.V("path", path))
	}
	return nil
}

func (s *ChromemStore) loadIndex() error {
	path := s.indexPath()
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return json.Unmarshal(data, &s.items)
}
