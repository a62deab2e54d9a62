package interfaces

import "context"

// Document is a schemaless record of the catalog store
type Document struct {
	ID     string
	Fields map[string]any
}

// CatalogStore is the remote document collection behind the product model.
// List fails with domain.ErrStoreConnectivity, writes with domain.ErrStoreWrite.
type CatalogStore interface {
	List(ctx context.Context, collection string) ([]Document, error)
	Create(ctx context.Context, collection string, fields map[string]any) (string, error)
	Update(ctx context.Context, collection, id string, patch map[string]any) error
	Delete(ctx context.Context, collection, id string) error
}
