package recommend

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/charecktowa/thesis-match/store"
)

// SearchType selects which corpora an id-based similarity lookup scans.
type SearchType string

const (
	SearchTheses           SearchType = "theses"
	SearchResearchProducts SearchType = "research_products"
	SearchBoth             SearchType = "both"
)

func (t SearchType) valid() bool {
	switch t {
	case SearchTheses, SearchResearchProducts, SearchBoth:
		return true
	}
	return false
}

// Reference identifies the item whose neighbors are requested. Exactly one
// of the two ids must be set.
type Reference struct {
	ThesisID          *int32
	ResearchProductID *int32
}

// SimilarItems is the result of an id-based similarity lookup. Message is
// set, with empty result lists, when the reference item has no embedding
// yet.
type SimilarItems struct {
	ReferenceID      int32          `json:"reference_id"`
	ReferenceTitle   string         `json:"reference_title,omitempty"`
	Theses           []ThesisMatch  `json:"theses,omitempty"`
	ResearchProducts []ProductMatch `json:"research_products,omitempty"`
	Message          string         `json:"message,omitempty"`
}

// FindSimilarByID looks up the stored embedding of the referenced item and
// ranks the requested corpora against it, excluding the reference itself
// from same-corpus results. A reference that is unknown, or that exists but
// has no embedding yet, is not an error: the result carries a message and
// empty lists.
func (e *Engine) FindSimilarByID(ctx context.Context, ref Reference, k int, searchType SearchType) (*SimilarItems, error) {
	if (ref.ThesisID == nil) == (ref.ResearchProductID == nil) {
		return nil, errors.Wrap(ErrInvalidInput, "exactly one of thesis_id and research_product_id must be provided")
	}
	if searchType == "" {
		searchType = SearchBoth
	}
	if !searchType.valid() {
		return nil, errors.Wrapf(ErrInvalidInput, "unknown search type %q", searchType)
	}

	var (
		referenceID     int32
		referenceTitle  string
		referenceVector []float32
		missingMessage  string
	)
	switch {
	case ref.ThesisID != nil:
		referenceID = *ref.ThesisID
		theses, err := e.corpus.ListThesisDetails(ctx, &store.FindThesis{ID: ref.ThesisID})
		if err != nil {
			return nil, errors.Wrap(err, "load reference thesis")
		}
		if len(theses) == 0 {
			return &SimilarItems{
				ReferenceID: referenceID,
				Message:     fmt.Sprintf("thesis %d not found", referenceID),
			}, nil
		}
		referenceTitle = theses[0].Title
		referenceVector = theses[0].Embedding
		missingMessage = fmt.Sprintf("thesis %d has no embedding yet", referenceID)
	default:
		referenceID = *ref.ResearchProductID
		products, err := e.corpus.ListResearchProductDetails(ctx, &store.FindResearchProduct{ID: ref.ResearchProductID})
		if err != nil {
			return nil, errors.Wrap(err, "load reference research product")
		}
		if len(products) == 0 {
			return &SimilarItems{
				ReferenceID: referenceID,
				Message:     fmt.Sprintf("research product %d not found", referenceID),
			}, nil
		}
		referenceTitle = products[0].Title
		referenceVector = products[0].Embedding
		missingMessage = fmt.Sprintf("research product %d has no embedding yet", referenceID)
	}

	result := &SimilarItems{ReferenceID: referenceID, ReferenceTitle: referenceTitle}
	if referenceVector == nil {
		result.Message = missingMessage
		return result, nil
	}

	if searchType == SearchTheses || searchType == SearchBoth {
		matches, err := e.SearchTheses(ctx, referenceVector, k)
		if err != nil {
			return nil, err
		}
		if ref.ThesisID != nil {
			matches = excludeThesis(matches, referenceID)
		}
		result.Theses = matches
	}
	if searchType == SearchResearchProducts || searchType == SearchBoth {
		matches, err := e.SearchResearchProducts(ctx, referenceVector, k, nil)
		if err != nil {
			return nil, err
		}
		if ref.ResearchProductID != nil {
			matches = excludeProduct(matches, referenceID)
		}
		result.ResearchProducts = matches
	}
	return result, nil
}

func excludeThesis(matches []ThesisMatch, id int32) []ThesisMatch {
	kept := matches[:0]
	for _, m := range matches {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	return kept
}

func excludeProduct(matches []ProductMatch, id int32) []ProductMatch {
	kept := matches[:0]
	for _, m := range matches {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	return kept
}
