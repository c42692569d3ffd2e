package memory

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// Error tags distinguish failures of the embedding capability from failures
// of the persistence layer. The HTTP boundary maps both to server errors;
// callers can branch with goerr.HasTag.
var (
	ErrTagEmbedding = goerr.NewTag("embedding")
	ErrTagStore     = goerr.NewTag("store")
)

// Item is a unit of archival memory: one captured clipboard snippet with its
// embedding, fixed at insertion time and never recomputed.
type Item struct {
	ID        string
	Text      string
	Timestamp time.Time
	SourceApp string
	Tags      []string
	Embedding []float32
}

// Result pairs an item with its similarity to a search query.
type Result struct {
	Item       Item
	Similarity float32
}

// Store is the interface for the archival clipboard memory.
type Store interface {
	// Add embeds text and persists it as a new item, returning the stored item.
	Add(ctx context.Context, text, sourceApp string, tags []string) (Item, error)

	// Search returns up to limit items most similar to query, best first.
	// An empty store yields an empty result, not an error.
	Search(ctx context.Context, query string, limit int) ([]Result, error)

	// List returns items newest first, up to limit (0 = all).
	List(ctx context.Context, limit int) ([]Item, error)

	// Ready runs the lazy schema bootstrap if it has not happened yet and
	// reports whether the store is usable.
	Ready(ctx context.Context) error

	Count() int
	Close() error
}
