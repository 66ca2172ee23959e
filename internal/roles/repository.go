package roles

import (
	"context"

	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/docstore"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/shared"
)

// Collection is the document collection holding roles.
const Collection = "roles"

// Repository provides document store backed persistence.
type Repository struct {
	store docstore.Store
}

// NewRepository constructs a repository.
func NewRepository(store docstore.Store) *Repository {
	return &Repository{store: store}
}

// List returns all roles.
func (r *Repository) List(ctx context.Context) ([]Role, error) {
	docs, err := r.store.List(ctx, Collection)
	if err != nil {
		return nil, err
	}
	roles := make([]Role, 0, len(docs))
	for _, doc := range docs {
		var role Role
		if err := docstore.Decode(doc, &role); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, nil
}

// GetByID fetches a role.
func (r *Repository) GetByID(ctx context.Context, id string) (Role, error) {
	doc, err := r.store.GetByID(ctx, Collection, id)
	if err != nil {
		return Role{}, err
	}
	var role Role
	if err := docstore.Decode(doc, &role); err != nil {
		return Role{}, err
	}
	return role, nil
}

// ByKey fetches a role by its stable key, first match wins.
func (r *Repository) ByKey(ctx context.Context, key string) (Role, error) {
	docs, err := r.store.QueryByField(ctx, Collection, "key", key)
	if err != nil {
		return Role{}, err
	}
	if len(docs) == 0 {
		return Role{}, shared.ErrNotFound
	}
	var role Role
	if err := docstore.Decode(docs[0], &role); err != nil {
		return Role{}, err
	}
	return role, nil
}

// Save upserts a role document.
func (r *Repository) Save(ctx context.Context, role Role) error {
	doc, err := docstore.Encode(role)
	if err != nil {
		return err
	}
	return r.store.Put(ctx, Collection, role.ID, doc)
}

// Delete removes a role document.
func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, Collection, id)
}
