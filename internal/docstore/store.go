// Package docstore abstracts the document database the back office is built
// on. Records live in named collections and are addressed by id or by
// field-equality predicates; no richer query surface is assumed.
package docstore

import (
	"context"
	"encoding/json"
)

// Document is a single schemaless record.
type Document map[string]any

// Store is the narrow persistence collaborator shared by every module.
type Store interface {
	GetByID(ctx context.Context, collection, id string) (Document, error)
	QueryByField(ctx context.Context, collection, field, value string) ([]Document, error)
	List(ctx context.Context, collection string) ([]Document, error)
	Put(ctx context.Context, collection, id string, doc Document) error
	Delete(ctx context.Context, collection, id string) error
}

// String returns the value of a string field, or "" when absent or of another
// type. Historical documents are inconsistently populated, so missing fields
// are normal.
func (d Document) String(key string) string {
	v, _ := d[key].(string)
	return v
}

// Decode unmarshals a document into a typed struct via its JSON form.
func Decode(doc Document, dest any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

// Encode converts a typed struct into a Document.
func Encode(v any) (Document, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
