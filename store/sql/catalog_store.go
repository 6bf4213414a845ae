package sqlstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-accounts/core"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

type CatalogStore struct {
	db   *bun.DB
	repo repository.Repository[*mediaCatalogItemRecord]
}

func NewCatalogStore(db *bun.DB) (*CatalogStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*mediaCatalogItemRecord](db, catalogHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid media catalog repository wiring: %w", err)
		}
	}
	return &CatalogStore{db: db, repo: repo}, nil
}

// FindByRatingKeys matches items on either the standard or the high
// definition rating key. Unknown keys are simply absent from the result.
func (s *CatalogStore) FindByRatingKeys(ctx context.Context, keys []string) ([]core.MediaCatalogItem, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("sqlstore: catalog store is not configured")
	}
	cleaned := make([]string, 0, len(keys))
	for _, key := range keys {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	if len(cleaned) == 0 {
		return []core.MediaCatalogItem{}, nil
	}

	records, _, err := s.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
				return q.
					Where("?TableAlias.rating_key IN (?)", bun.In(cleaned)).
					WhereOr("?TableAlias.rating_key_4k IN (?)", bun.In(cleaned))
			})
		}),
	)
	if err != nil {
		return nil, err
	}
	items := make([]core.MediaCatalogItem, 0, len(records))
	for _, record := range records {
		items = append(items, record.toDomain())
	}
	return items, nil
}

var _ core.CatalogStore = (*CatalogStore)(nil)
