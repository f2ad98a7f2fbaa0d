package classify

import "context"

// fakeEmbedder returns a caller-assigned vector for exact-match text and a
// default vector otherwise, so classifier tests can control similarity
// scores deterministically rather than rely on hash-embedding noise.
type fakeEmbedder struct {
	dims     int
	vectors  map[string][]float32
	fallback []float32
	err      error
}

func newFakeEmbedder(dims int) *fakeEmbedder {
	fallback := make([]float32, dims)
	fallback[0] = 1
	return &fakeEmbedder{dims: dims, vectors: make(map[string][]float32), fallback: fallback}
}

func (e *fakeEmbedder) set(text string, vec []float32) {
	e.vectors[text] = vec
}

func (e *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	if v, ok := e.vectors[text]; ok {
		return v, nil
	}
	return e.fallback, nil
}

func (e *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := e.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (e *fakeEmbedder) Dimensions() int { return e.dims }
func (e *fakeEmbedder) Close() error    { return nil }
