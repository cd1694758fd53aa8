// Package etl holds the offline jobs that feed the recommendation corpus:
// embedding population and department website scraping.
package etl

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"github.com/charecktowa/thesis-match/ai"
	"github.com/charecktowa/thesis-match/ai/dashscope"
	"github.com/charecktowa/thesis-match/internal/metrics"
	"github.com/charecktowa/thesis-match/recommend"
	"github.com/charecktowa/thesis-match/store"
)

const (
	// embedBatchSize is how many titles go to the provider per request.
	embedBatchSize = 10

	// failureBackoff is how long the job pauses after a failed batch
	// before moving on to the next one.
	failureBackoff = 5 * time.Second
)

// EmbeddingStore is the slice of the store the population job touches.
type EmbeddingStore interface {
	ListThesisDetails(ctx context.Context, find *store.FindThesis) ([]*store.ThesisDetail, error)
	ListResearchProductDetails(ctx context.Context, find *store.FindResearchProduct) ([]*store.ResearchProductDetail, error)
	UpdateThesisEmbedding(ctx context.Context, id int32, embedding []float32) error
	UpdateResearchProductEmbedding(ctx context.Context, id int32, embedding []float32) error
}

// PopulationReport summarizes one population run.
type PopulationReport struct {
	ThesesEmbedded   int `json:"theses_embedded"`
	ProductsEmbedded int `json:"research_products_embedded"`
	Skipped          int `json:"skipped"`
	FailedBatches    int `json:"failed_batches"`
}

// Populator embeds every stored title that does not have a vector yet.
// It paces provider calls with a rate limiter and treats each batch as an
// independent unit of work: a provider failure costs that batch only.
type Populator struct {
	store    EmbeddingStore
	embedder ai.EmbeddingService
	metrics  *metrics.Exporter
	limiter  *rate.Limiter
	backoff  time.Duration
}

// PopulatorOption tunes the population job.
type PopulatorOption func(*Populator)

// WithMetrics wires a metrics exporter into the job.
func WithMetrics(exporter *metrics.Exporter) PopulatorOption {
	return func(p *Populator) { p.metrics = exporter }
}

// WithPacing overrides the provider pacing, mainly for tests.
func WithPacing(limiter *rate.Limiter, backoff time.Duration) PopulatorOption {
	return func(p *Populator) {
		p.limiter = limiter
		p.backoff = backoff
	}
}

// NewPopulator creates the embedding population job. The default pacing is
// one provider request per second.
func NewPopulator(st EmbeddingStore, embedder ai.EmbeddingService, opts ...PopulatorOption) *Populator {
	p := &Populator{
		store:    st,
		embedder: embedder,
		limiter:  rate.NewLimiter(rate.Every(time.Second), 1),
		backoff:  failureBackoff,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run embeds all pending theses, then all pending research products.
// It returns an error only when the pending items cannot be listed; provider
// failures are reported per batch in the returned report.
func (p *Populator) Run(ctx context.Context) (*PopulationReport, error) {
	report := &PopulationReport{}

	theses, err := p.store.ListThesisDetails(ctx, &store.FindThesis{HasEmbedding: boolPtr(false)})
	if err != nil {
		return nil, errors.Wrap(err, "list pending theses")
	}
	thesisItems := make([]pendingItem, 0, len(theses))
	for _, t := range theses {
		thesisItems = append(thesisItems, pendingItem{id: t.ID, title: t.Title})
	}
	if err := p.embedAll(ctx, thesisItems, p.store.UpdateThesisEmbedding, &report.ThesesEmbedded, report); err != nil {
		return report, err
	}
	slog.Info("thesis embeddings populated", "embedded", report.ThesesEmbedded, "pending", len(theses))

	products, err := p.store.ListResearchProductDetails(ctx, &store.FindResearchProduct{HasEmbedding: boolPtr(false)})
	if err != nil {
		return report, errors.Wrap(err, "list pending research products")
	}
	productItems := make([]pendingItem, 0, len(products))
	for _, rp := range products {
		productItems = append(productItems, pendingItem{id: rp.ID, title: rp.Title})
	}
	if err := p.embedAll(ctx, productItems, p.store.UpdateResearchProductEmbedding, &report.ProductsEmbedded, report); err != nil {
		return report, err
	}
	slog.Info("research product embeddings populated", "embedded", report.ProductsEmbedded, "pending", len(products))

	return report, nil
}

type pendingItem struct {
	id    int32
	title string
}

type updateFunc func(ctx context.Context, id int32, embedding []float32) error

func (p *Populator) embedAll(ctx context.Context, items []pendingItem, update updateFunc, embedded *int, report *PopulationReport) error {
	for start := 0; start < len(items); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(items) {
			end = len(items)
		}
		if err := p.embedBatch(ctx, items[start:end], update, embedded, report); err != nil {
			// Context cancellation aborts the run; provider failures
			// already cost only their own batch.
			return err
		}
	}
	return nil
}

func (p *Populator) embedBatch(ctx context.Context, batch []pendingItem, update updateFunc, embedded *int, report *PopulationReport) error {
	// Titles that normalize to nothing are skipped without burning a
	// provider slot, keeping ids and texts aligned.
	kept := make([]pendingItem, 0, len(batch))
	texts := make([]string, 0, len(batch))
	for _, item := range batch {
		cleaned := recommend.CleanText(item.title)
		if cleaned == "" {
			report.Skipped++
			continue
		}
		kept = append(kept, item)
		texts = append(texts, cleaned)
	}
	if len(kept) == 0 {
		return nil
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return errors.Wrap(err, "wait for provider slot")
	}

	began := time.Now()
	vectors, err := p.embedder.EmbedBatch(ctx, texts, dashscope.TextTypeDocument)
	if p.metrics != nil {
		p.metrics.RecordEmbeddingRequest(string(dashscope.TextTypeDocument), time.Since(began), err == nil)
	}
	if err != nil {
		report.FailedBatches++
		slog.Warn("embedding batch failed", "size", len(kept), "error", err)
		return p.sleep(ctx, p.backoff)
	}
	if len(vectors) != len(kept) {
		report.FailedBatches++
		slog.Warn("embedding batch returned wrong vector count", "want", len(kept), "got", len(vectors))
		return p.sleep(ctx, p.backoff)
	}

	stored := 0
	for i, item := range kept {
		if err := update(ctx, item.id, vectors[i]); err != nil {
			slog.Warn("store embedding failed", "id", item.id, "error", err)
			continue
		}
		stored++
	}
	*embedded += stored
	if p.metrics != nil && stored > 0 {
		p.metrics.RecordVectorsStored(stored)
	}
	return nil
}

func (p *Populator) sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func boolPtr(b bool) *bool { return &b }
