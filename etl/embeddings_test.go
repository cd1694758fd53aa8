package etl

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/charecktowa/thesis-match/ai/dashscope"
	"github.com/charecktowa/thesis-match/store"
)

type fakeEmbeddingStore struct {
	theses   []*store.ThesisDetail
	products []*store.ResearchProductDetail

	thesisVectors  map[int32][]float32
	productVectors map[int32][]float32
}

func newFakeEmbeddingStore() *fakeEmbeddingStore {
	return &fakeEmbeddingStore{
		thesisVectors:  make(map[int32][]float32),
		productVectors: make(map[int32][]float32),
	}
}

func (f *fakeEmbeddingStore) ListThesisDetails(_ context.Context, find *store.FindThesis) ([]*store.ThesisDetail, error) {
	var out []*store.ThesisDetail
	for _, t := range f.theses {
		if find != nil && find.HasEmbedding != nil {
			_, has := f.thesisVectors[t.ID]
			if has != *find.HasEmbedding {
				continue
			}
		}
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeEmbeddingStore) ListResearchProductDetails(_ context.Context, find *store.FindResearchProduct) ([]*store.ResearchProductDetail, error) {
	var out []*store.ResearchProductDetail
	for _, p := range f.products {
		if find != nil && find.HasEmbedding != nil {
			_, has := f.productVectors[p.ID]
			if has != *find.HasEmbedding {
				continue
			}
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeEmbeddingStore) UpdateThesisEmbedding(_ context.Context, id int32, embedding []float32) error {
	f.thesisVectors[id] = embedding
	return nil
}

func (f *fakeEmbeddingStore) UpdateResearchProductEmbedding(_ context.Context, id int32, embedding []float32) error {
	f.productVectors[id] = embedding
	return nil
}

// batchEmbedder records batch sizes and can fail specific batches.
type batchEmbedder struct {
	batches    [][]string
	failBatch  map[int]bool
	dimensions int
}

func (b *batchEmbedder) Embed(ctx context.Context, text string, textType dashscope.TextType) ([]float32, error) {
	vectors, err := b.EmbedBatch(ctx, []string{text}, textType)
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (b *batchEmbedder) EmbedBatch(_ context.Context, texts []string, _ dashscope.TextType) ([][]float32, error) {
	index := len(b.batches)
	b.batches = append(b.batches, texts)
	if b.failBatch[index] {
		return nil, errors.New("provider throttled")
	}
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{float32(len(texts[i])), 0, 1}
	}
	return vectors, nil
}

func (b *batchEmbedder) Dimensions() int { return b.dimensions }

func fastPacing() PopulatorOption {
	return WithPacing(rate.NewLimiter(rate.Inf, 1), time.Millisecond)
}

func TestPopulatorEmbedsPendingInBatches(t *testing.T) {
	st := newFakeEmbeddingStore()
	for i := int32(1); i <= 25; i++ {
		st.theses = append(st.theses, &store.ThesisDetail{ID: i, Title: "thesis title"})
	}
	// Already embedded items never reach the provider.
	st.thesisVectors[25] = []float32{1}

	embedder := &batchEmbedder{dimensions: 3}
	populator := NewPopulator(st, embedder, fastPacing())

	report, err := populator.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 24, report.ThesesEmbedded)
	require.Zero(t, report.FailedBatches)

	// 24 pending titles split at the batch size: 10 + 10 + 4.
	require.Len(t, embedder.batches, 3)
	require.Len(t, embedder.batches[0], 10)
	require.Len(t, embedder.batches[2], 4)
	require.Len(t, st.thesisVectors, 25)
}

func TestPopulatorSkipsEmptyTitles(t *testing.T) {
	st := newFakeEmbeddingStore()
	st.theses = []*store.ThesisDetail{
		{ID: 1, Title: "real title"},
		{ID: 2, Title: "  \n "},
		{ID: 3, Title: "\xff\xfe"},
	}

	embedder := &batchEmbedder{dimensions: 3}
	populator := NewPopulator(st, embedder, fastPacing())

	report, err := populator.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, report.ThesesEmbedded)
	require.Equal(t, 2, report.Skipped)
	require.Contains(t, st.thesisVectors, int32(1))
	require.NotContains(t, st.thesisVectors, int32(2))
	require.NotContains(t, st.thesisVectors, int32(3))
}

func TestPopulatorIsolatesBatchFailures(t *testing.T) {
	st := newFakeEmbeddingStore()
	for i := int32(1); i <= 20; i++ {
		st.theses = append(st.theses, &store.ThesisDetail{ID: i, Title: "thesis title"})
	}

	embedder := &batchEmbedder{dimensions: 3, failBatch: map[int]bool{0: true}}
	populator := NewPopulator(st, embedder, fastPacing())

	report, err := populator.Run(context.Background())
	require.NoError(t, err, "one failed batch never aborts the run")
	require.Equal(t, 1, report.FailedBatches)
	require.Equal(t, 10, report.ThesesEmbedded, "second batch still lands")
}

func TestPopulatorCoversBothCorpora(t *testing.T) {
	st := newFakeEmbeddingStore()
	st.theses = []*store.ThesisDetail{{ID: 1, Title: "thesis"}}
	st.products = []*store.ResearchProductDetail{
		{ID: 7, Title: "paper"},
		{ID: 8, Title: "another paper"},
	}

	embedder := &batchEmbedder{dimensions: 3}
	populator := NewPopulator(st, embedder, fastPacing())

	report, err := populator.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, report.ThesesEmbedded)
	require.Equal(t, 2, report.ProductsEmbedded)
	require.Len(t, st.productVectors, 2)
}

func TestPopulatorHonorsCancellation(t *testing.T) {
	st := newFakeEmbeddingStore()
	for i := int32(1); i <= 20; i++ {
		st.theses = append(st.theses, &store.ThesisDetail{ID: i, Title: "thesis title"})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	embedder := &batchEmbedder{dimensions: 3}
	// A zero-burst limiter blocks forever unless cancellation is honored.
	populator := NewPopulator(st, embedder, WithPacing(rate.NewLimiter(rate.Every(time.Hour), 1), time.Millisecond))

	_, err := populator.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
