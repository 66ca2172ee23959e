package clients

import (
	"context"

	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/docstore"
)

// Collection is the document collection holding client registrations.
const Collection = "clients"

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
func (r *Repository) List(ctx context.Context) ([]Client, error) {
	docs, err := r.store.List(ctx, Collection)
	if err != nil {
		return nil, err
	}
	return decodeClients(docs)
}

// GetByID fetches a client registration.
func (r *Repository) GetByID(ctx context.Context, id string) (Client, error) {
	doc, err := r.store.GetByID(ctx, Collection, id)
	if err != nil {
		return Client{}, err
	}
	var client Client
	if err := docstore.Decode(doc, &client); err != nil {
		return Client{}, err
	}
	return client, nil
}

// ByUserID returns registrations created under a user's own account.
func (r *Repository) ByUserID(ctx context.Context, userID string) ([]Client, error) {
	docs, err := r.store.QueryByField(ctx, Collection, "userId", userID)
	if err != nil {
		return nil, err
	}
	return decodeClients(docs)
}

// Save upserts a client document.
func (r *Repository) Save(ctx context.Context, client Client) error {
	doc, err := docstore.Encode(client)
	if err != nil {
		return err
	}
	return r.store.Put(ctx, Collection, client.ID, doc)
}

// Delete removes a client document.
func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, Collection, id)
}

func decodeClients(docs []docstore.Document) ([]Client, error) {
	records := make([]Client, 0, len(docs))
	for _, doc := range docs {
		var client Client
		if err := docstore.Decode(doc, &client); err != nil {
			return nil, err
		}
		records = append(records, client)
	}
	return records, nil
}
