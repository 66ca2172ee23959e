package users

import (
	"context"

	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/docstore"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/shared"
)

// Collection is the document collection holding user accounts.
const Collection = "users"

// Repository provides document store backed persistence.
type Repository struct {
	store docstore.Store
}

// NewRepository constructs a repository.
func NewRepository(store docstore.Store) *Repository {
	return &Repository{store: store}
}

// List returns all users.
func (r *Repository) List(ctx context.Context) ([]User, error) {
	docs, err := r.store.List(ctx, Collection)
	if err != nil {
		return nil, err
	}
	return decodeUsers(docs)
}

// GetByID fetches a user.
func (r *Repository) GetByID(ctx context.Context, id string) (User, error) {
	doc, err := r.store.GetByID(ctx, Collection, id)
	if err != nil {
		return User{}, err
	}
	var user User
	if err := docstore.Decode(doc, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

// ByEmail fetches a user by email, first match wins.
func (r *Repository) ByEmail(ctx context.Context, email string) (User, error) {
	docs, err := r.store.QueryByField(ctx, Collection, "email", email)
	if err != nil {
		return User{}, err
	}
	if len(docs) == 0 {
		return User{}, shared.ErrNotFound
	}
	var user User
	if err := docstore.Decode(docs[0], &user); err != nil {
		return User{}, err
	}
	return user, nil
}

// ByRoleID returns every user assigned the given role document.
func (r *Repository) ByRoleID(ctx context.Context, roleID string) ([]User, error) {
	docs, err := r.store.QueryByField(ctx, Collection, "roleId", roleID)
	if err != nil {
		return nil, err
	}
	return decodeUsers(docs)
}

// Save upserts a user document.
func (r *Repository) Save(ctx context.Context, user User) error {
	doc, err := docstore.Encode(user)
	if err != nil {
		return err
	}
	return r.store.Put(ctx, Collection, user.ID, doc)
}

// EmailsForIDs maps user ids to emails, skipping ids that do not resolve.
// Team-scope filtering uses this to match createdBy against team members.
func (r *Repository) EmailsForIDs(ctx context.Context, ids []string) ([]string, error) {
	emails := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		user, err := r.GetByID(ctx, id)
		if err != nil {
			continue
		}
		if user.Email != "" {
			emails = append(emails, user.Email)
		}
	}
	return emails, nil
}

func decodeUsers(docs []docstore.Document) ([]User, error) {
	users := make([]User, 0, len(docs))
	for _, doc := range docs {
		var user User
		if err := docstore.Decode(doc, &user); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}
