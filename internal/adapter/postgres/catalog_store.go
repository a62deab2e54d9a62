package postgres

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/YelzhanWeb/storefront/internal/domain"
	"github.com/YelzhanWeb/storefront/internal/interfaces"
)

// CatalogStore keeps each product as a JSONB document keyed by collection and id
type CatalogStore struct {
	db DB
}

func NewCatalogStore(db DB) *CatalogStore {
	return &CatalogStore{db: db}
}

func (s *CatalogStore) List(ctx context.Context, collection string) ([]interfaces.Document, error) {
	query := `
		SELECT id, fields
		FROM documents
		WHERE collection = $1
		ORDER BY created_at, id`

	rows, err := s.db.Query(ctx, query, collection)
	if err != nil {
		return nil, errors.Wrapf(domain.ErrStoreConnectivity, "list %s: %v", collection, err)
	}
	defer rows.Close()

	var docs []interfaces.Document
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, errors.Wrapf(domain.ErrStoreConnectivity, "scan %s document: %v", collection, err)
		}
		fields := map[string]any{}
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, errors.Wrapf(domain.ErrStoreConnectivity, "decode %s/%s: %v", collection, id, err)
		}
		docs = append(docs, interfaces.Document{ID: id, Fields: fields})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(domain.ErrStoreConnectivity, "list %s: %v", collection, err)
	}
	return docs, nil
}

func (s *CatalogStore) Create(ctx context.Context, collection string, fields map[string]any) (string, error) {
	body, err := json.Marshal(fields)
	if err != nil {
		return "", errors.Wrapf(domain.ErrStoreWrite, "encode document: %v", err)
	}

	id := uuid.NewString()
	query := `INSERT INTO documents (collection, id, fields) VALUES ($1, $2, $3::jsonb)`
	if _, err := s.db.Exec(ctx, query, collection, id, string(body)); err != nil {
		return "", errors.Wrapf(domain.ErrStoreWrite, "create in %s: %v", collection, err)
	}
	return id, nil
}

// Update merges the patch into the stored fields; untouched fields are kept
func (s *CatalogStore) Update(ctx context.Context, collection, id string, patch map[string]any) error {
	body, err := json.Marshal(patch)
	if err != nil {
		return errors.Wrapf(domain.ErrStoreWrite, "encode patch: %v", err)
	}

	query := `
		UPDATE documents
		SET fields = fields || $3::jsonb
		WHERE collection = $1 AND id = $2`

	tag, err := s.db.Exec(ctx, query, collection, id, string(body))
	if err != nil {
		return errors.Wrapf(domain.ErrStoreWrite, "update %s/%s: %v", collection, id, err)
	}
	if tag.RowsAffected() == 0 {
		return errors.Wrapf(domain.ErrStoreWrite, "update %s/%s: no such document", collection, id)
	}
	return nil
}

// Delete of a missing document is not an error
func (s *CatalogStore) Delete(ctx context.Context, collection, id string) error {
	query := `DELETE FROM documents WHERE collection = $1 AND id = $2`
	if _, err := s.db.Exec(ctx, query, collection, id); err != nil {
		return errors.Wrapf(domain.ErrStoreWrite, "delete %s/%s: %v", collection, id, err)
	}
	return nil
}
