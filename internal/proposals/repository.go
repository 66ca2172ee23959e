package proposals

import (
	"context"

	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/docstore"
)

// Collection is the document collection holding proposals.
const Collection = "proposals"

// Repository provides document store backed persistence.
type Repository struct {
	store docstore.Store
}

// NewRepository constructs a repository.
func NewRepository(store docstore.Store) *Repository {
	return &Repository{store: store}
}

// List returns the full collection snapshot; scope filtering happens in the
// service layer.
func (r *Repository) List(ctx context.Context) ([]Proposal, error) {
	docs, err := r.store.List(ctx, Collection)
	if err != nil {
		return nil, err
	}
	proposals := make([]Proposal, 0, len(docs))
	for _, doc := range docs {
		var proposal Proposal
		if err := docstore.Decode(doc, &proposal); err != nil {
			return nil, err
		}
		proposals = append(proposals, proposal)
	}
	return proposals, nil
}

// GetByID fetches a proposal.
func (r *Repository) GetByID(ctx context.Context, id string) (Proposal, error) {
	doc, err := r.store.GetByID(ctx, Collection, id)
	if err != nil {
		return Proposal{}, err
	}
	var proposal Proposal
	if err := docstore.Decode(doc, &proposal); err != nil {
		return Proposal{}, err
	}
	return proposal, nil
}

// Save upserts a proposal document.
func (r *Repository) Save(ctx context.Context, proposal Proposal) error {
	doc, err := docstore.Encode(proposal)
	if err != nil {
		return err
	}
	return r.store.Put(ctx, Collection, proposal.ID, doc)
}

// Delete removes a proposal document.
func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, Collection, id)
}
