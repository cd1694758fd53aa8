package recommend

import (
	"context"

	"github.com/pkg/errors"

	"github.com/charecktowa/thesis-match/ai/dashscope"
	"github.com/charecktowa/thesis-match/store"
)

var errTest = errors.New("corpus unavailable")

// fakeCorpus implements Corpus over in-memory slices, applying the same
// filter semantics as the database drivers.
type fakeCorpus struct {
	theses   []*store.ThesisDetail
	products []*store.ResearchProductDetail
	stats    *store.RecommendationStats
	err      error
}

func (f *fakeCorpus) ListThesisDetails(_ context.Context, find *store.FindThesis) ([]*store.ThesisDetail, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*store.ThesisDetail
	for _, t := range f.theses {
		if find != nil {
			if find.ID != nil && t.ID != *find.ID {
				continue
			}
			if find.StudentID != nil && t.StudentID != *find.StudentID {
				continue
			}
			if find.AdvisorID != nil && t.Advisor1ID != *find.AdvisorID &&
				(t.Advisor2ID == nil || *t.Advisor2ID != *find.AdvisorID) {
				continue
			}
			if find.HasEmbedding != nil && (t.Embedding != nil) != *find.HasEmbedding {
				continue
			}
		}
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeCorpus) ListResearchProductDetails(_ context.Context, find *store.FindResearchProduct) ([]*store.ResearchProductDetail, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*store.ResearchProductDetail
	for _, p := range f.products {
		if find != nil {
			if find.ID != nil && p.ID != *find.ID {
				continue
			}
			if find.ProfessorID != nil && p.ProfessorID != *find.ProfessorID {
				continue
			}
			if find.MinYear != nil && p.Year < *find.MinYear {
				continue
			}
			if find.MaxYear != nil && p.Year > *find.MaxYear {
				continue
			}
			if find.HasEmbedding != nil && (p.Embedding != nil) != *find.HasEmbedding {
				continue
			}
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeCorpus) RecommendationStats(_ context.Context) (*store.RecommendationStats, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.stats != nil {
		return f.stats, nil
	}
	return &store.RecommendationStats{}, nil
}

// fakeEmbedder returns canned vectors keyed by input text.
type fakeEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (f *fakeEmbedder) Embed(_ context.Context, text string, _ dashscope.TextType) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.vectors[text], nil
}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string, _ dashscope.TextType) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = f.vectors[text]
	}
	return out, nil
}

func (f *fakeEmbedder) Dimensions() int { return 3 }

func strPtr(s string) *string { return &s }

func int32Ptr(v int32) *int32 { return &v }

func thesis(id int32, title string, embedding []float32) *store.ThesisDetail {
	return &store.ThesisDetail{
		ID:           id,
		Title:        title,
		StudentID:    id + 100,
		StudentName:  "Student",
		Advisor1ID:   1,
		Advisor1Name: "Advisor",
		Embedding:    embedding,
	}
}

func product(id int32, title string, year, professorID int32, embedding []float32) *store.ResearchProductDetail {
	return &store.ResearchProductDetail{
		ID:             id,
		Title:          title,
		Site:           "Journal",
		Year:           year,
		ProfessorID:    professorID,
		ProfessorName:  "Professor",
		LaboratoryName: "Lab",
		Embedding:      embedding,
	}
}
