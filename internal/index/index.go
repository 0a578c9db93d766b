package index

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"

	"github.com/philippgille/chromem-go"
	"github.com/tmc/langchaingo/embeddings"

	"contractiq/internal/model"
)

// ErrNoChunks marks an attempt to build an index over an empty chunk set.
// Retrieval over zero vectors is undefined, so construction fails instead.
var ErrNoChunks = errors.New("no chunks to index")

const collectionName = "contract_chunks"

// Index is an immutable in-memory similarity index over one document set.
// A new upload builds a new Index; there is no incremental update.
type Index struct {
	collection *chromem.Collection
	embedder   embeddings.Embedder
	size       int
}

// Result is one retrieved chunk with its cosine similarity to the query.
type Result struct {
	Chunk      model.Chunk `json:"chunk"`
	Similarity float32     `json:"similarity"`
}

// Build embeds every chunk and inserts the (chunk, vector) pairs into a
// fresh chromem collection. Chunk IDs are deterministic, so rebuilding from
// the same chunk sequence yields equivalent retrieval behavior.
func Build(ctx context.Context, embedder embeddings.Embedder, chunks []model.Chunk) (*Index, error) {
	if len(chunks) == 0 {
		return nil, ErrNoChunks
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vectors, err := embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed chunks failed: %w", err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("embedding count mismatch: %d chunks, %d vectors", len(chunks), len(vectors))
	}

	db := chromem.NewDB()
	// Embeddings are always precomputed, so no embedding func is wired in.
	collection, err := db.GetOrCreateCollection(collectionName, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create collection failed: %w", err)
	}

	docs := make([]chromem.Document, len(chunks))
	for i, c := range chunks {
		docs[i] = chromem.Document{
			ID:      fmt.Sprintf("%s:%d", c.Document, c.Seq),
			Content: c.Text,
			Metadata: map[string]string{
				"document": c.Document,
				"seq":      strconv.Itoa(c.Seq),
			},
			Embedding: vectors[i],
		}
	}
	if err := collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return nil, fmt.Errorf("add documents failed: %w", err)
	}

	return &Index{collection: collection, embedder: embedder, size: len(chunks)}, nil
}

// Size returns the number of indexed chunks.
func (ix *Index) Size() int {
	return ix.size
}

// Search embeds the question with the same embedder used at build time and
// returns up to k chunks in similarity-descending order. k is clamped to the
// collection size; chromem rejects larger values.
func (ix *Index) Search(ctx context.Context, question string, k int) ([]Result, error) {
	if k <= 0 {
		return nil, fmt.Errorf("top-k must be positive, got %d", k)
	}
	if k > ix.size {
		k = ix.size
	}

	queryVec, err := ix.embedder.EmbedQuery(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question failed: %w", err)
	}

	hits, err := ix.collection.QueryWithOptions(ctx, chromem.QueryOptions{
		QueryEmbedding: queryVec,
		NResults:       k,
	})
	if err != nil {
		return nil, fmt.Errorf("similarity query failed: %w", err)
	}

	results := make([]Result, len(hits))
	for i, hit := range hits {
		seq, _ := strconv.Atoi(hit.Metadata["seq"])
		results[i] = Result{
			Chunk: model.Chunk{
				Document: hit.Metadata["document"],
				Seq:      seq,
				Text:     hit.Content,
			},
			Similarity: hit.Similarity,
		}
	}
	return results, nil
}
