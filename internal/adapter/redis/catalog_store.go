package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/YelzhanWeb/storefront/internal/config"
	"github.com/YelzhanWeb/storefront/internal/domain"
	"github.com/YelzhanWeb/storefront/internal/interfaces"
)

// CatalogStore keeps a collection as a hash of JSON documents plus a sorted
// set scored by a per-collection counter, which keeps insertion order.
type CatalogStore struct {
	client    *redis.Client
	namespace string
}

func NewCatalogStore(cfg config.RedisConfig, namespace string) *CatalogStore {
	return &CatalogStore{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		namespace: namespace,
	}
}

func (s *CatalogStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *CatalogStore) Close() error {
	return s.client.Close()
}

func (s *CatalogStore) docsKey(collection string) string {
	return fmt.Sprintf("%s:%s:docs", s.namespace, collection)
}

func (s *CatalogStore) orderKey(collection string) string {
	return fmt.Sprintf("%s:%s:order", s.namespace, collection)
}

func (s *CatalogStore) seqKey(collection string) string {
	return fmt.Sprintf("%s:%s:seq", s.namespace, collection)
}

func (s *CatalogStore) List(ctx context.Context, collection string) ([]interfaces.Document, error) {
	ids, err := s.client.ZRange(ctx, s.orderKey(collection), 0, -1).Result()
	if err != nil {
		return nil, errors.Wrapf(domain.ErrStoreConnectivity, "list %s: %v", collection, err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	values, err := s.client.HMGet(ctx, s.docsKey(collection), ids...).Result()
	if err != nil {
		return nil, errors.Wrapf(domain.ErrStoreConnectivity, "list %s: %v", collection, err)
	}

	docs := make([]interfaces.Document, 0, len(ids))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// order entry without a document, left over by an interrupted delete
			continue
		}
		fields := map[string]any{}
		if err := json.Unmarshal([]byte(raw), &fields); err != nil {
			return nil, errors.Wrapf(domain.ErrStoreConnectivity, "decode %s/%s: %v", collection, ids[i], err)
		}
		docs = append(docs, interfaces.Document{ID: ids[i], Fields: fields})
	}
	return docs, nil
}

func (s *CatalogStore) Create(ctx context.Context, collection string, fields map[string]any) (string, error) {
	body, err := json.Marshal(fields)
	if err != nil {
		return "", errors.Wrapf(domain.ErrStoreWrite, "encode document: %v", err)
	}

	seq, err := s.client.Incr(ctx, s.seqKey(collection)).Result()
	if err != nil {
		return "", errors.Wrapf(domain.ErrStoreWrite, "create in %s: %v", collection, err)
	}

	id := uuid.NewString()
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.docsKey(collection), id, body)
		pipe.ZAdd(ctx, s.orderKey(collection), redis.Z{Score: float64(seq), Member: id})
		return nil
	})
	if err != nil {
		return "", errors.Wrapf(domain.ErrStoreWrite, "create in %s: %v", collection, err)
	}
	return id, nil
}

// Update merges the patch into the stored document under WATCH
func (s *CatalogStore) Update(ctx context.Context, collection, id string, patch map[string]any) error {
	key := s.docsKey(collection)

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.HGet(ctx, key, id).Result()
		if err == redis.Nil {
			return fmt.Errorf("no such document")
		}
		if err != nil {
			return err
		}

		fields := map[string]any{}
		if err := json.Unmarshal([]byte(raw), &fields); err != nil {
			return err
		}
		for k, v := range patch {
			fields[k] = v
		}
		body, err := json.Marshal(fields)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, id, body)
			return nil
		})
		return err
	}, key)
	if err != nil {
		return errors.Wrapf(domain.ErrStoreWrite, "update %s/%s: %v", collection, id, err)
	}
	return nil
}

func (s *CatalogStore) Delete(ctx context.Context, collection, id string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HDel(ctx, s.docsKey(collection), id)
		pipe.ZRem(ctx, s.orderKey(collection), id)
		return nil
	})
	if err != nil {
		return errors.Wrapf(domain.ErrStoreWrite, "delete %s/%s: %v", collection, id, err)
	}
	return nil
}
