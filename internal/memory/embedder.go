package memory

import (
	"context"
	"hash/fnv"
	"math"

	"github.com/m-mizutani/goerr/v2"
	openai "github.com/sashabaranov/go-openai"
)

// EmbedFunc is a function that produces a float32 embedding vector from text.
type EmbedFunc func(ctx context.Context, text string) ([]float32, error)

// NewOpenAIEmbedFunc returns an EmbedFunc backed by an OpenAI-compatible
// embeddings endpoint.
func NewOpenAIEmbedFunc(client *openai.Client, model string) EmbedFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		resp, err := client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input: []string{text},
			Model: openai.EmbeddingModel(model),
		})
		if err != nil {
			return nil, goerr.Wrap(err, "embedding request failed", goerr.T(ErrTagEmbedding))
		}
		if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
			return nil, goerr.New("embedding response is empty", goerr.T(ErrTagEmbedding), goerr.V("model", model))
		}
		return resp.Data[0].Embedding, nil
	}
}

// NewMockEmbedFunc returns a deterministic, offline EmbedFunc used when no
// model credential is configured. Vectors are derived from an FNV hash of the
// text, so identical text always maps to the identical unit vector.
func NewMockEmbedFunc(dims int) EmbedFunc {
	if dims <= 0 {
		dims = 64
	}
	return func(_ context.Context, text string) ([]float32, error) {
		vec := make([]float32, dims)
		h := fnv.New64a()
		h.Write([]byte(text))
		seed := h.Sum64()

		for i := range vec {
			bits := seed ^ (uint64(i) * 0x9E3779B97F4A7C15)
			vec[i] = float32(bits%1000) / 1000.0
		}

		normalizeVector(vec)
		return vec, nil
	}
}

// normalizeVector scales v to unit length in place. Zero vectors are left
// untouched.
func normalizeVector(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return
	}
	for i := range v {
		v[i] = float32(float64(v[i]) / norm)
	}
}
