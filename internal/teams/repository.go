package teams

import (
	"context"

	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/docstore"
)

// Collection is the document collection holding teams.
const Collection = "teams"

// Repository provides document store backed persistence.
type Repository struct {
	store docstore.Store
}

// NewRepository constructs a repository.
func NewRepository(store docstore.Store) *Repository {
	return &Repository{store: store}
}

// List returns all teams.
func (r *Repository) List(ctx context.Context) ([]Team, error) {
	docs, err := r.store.List(ctx, Collection)
	if err != nil {
		return nil, err
	}
	teams := make([]Team, 0, len(docs))
	for _, doc := range docs {
		var team Team
		if err := docstore.Decode(doc, &team); err != nil {
			return nil, err
		}
		teams = append(teams, team)
	}
	return teams, nil
}

// GetByID fetches a team.
func (r *Repository) GetByID(ctx context.Context, id string) (Team, error) {
	doc, err := r.store.GetByID(ctx, Collection, id)
	if err != nil {
		return Team{}, err
	}
	var team Team
	if err := docstore.Decode(doc, &team); err != nil {
		return Team{}, err
	}
	return team, nil
}

// Save upserts a team document.
func (r *Repository) Save(ctx context.Context, team Team) error {
	doc, err := docstore.Encode(team)
	if err != nil {
		return err
	}
	return r.store.Put(ctx, Collection, team.ID, doc)
}

// Delete removes a team document.
func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, Collection, id)
}
