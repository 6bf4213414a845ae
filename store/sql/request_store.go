package sqlstore

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/goliatone/go-accounts/core"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

type RequestStore struct {
	db   *bun.DB
	repo repository.Repository[*mediaRequestRecord]
}

func NewRequestStore(db *bun.DB) (*RequestStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*mediaRequestRecord](db, requestHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid media request repository wiring: %w", err)
		}
	}
	return &RequestStore{db: db, repo: repo}, nil
}

func (s *RequestStore) ListByAccount(ctx context.Context, accountID int64, take, skip int) ([]core.MediaRequest, int, error) {
	if s == nil || s.repo == nil {
		return nil, 0, fmt.Errorf("sqlstore: request store is not configured")
	}
	if take <= 0 {
		take = 10
	}
	if skip < 0 {
		skip = 0
	}
	records, total, err := s.repo.List(ctx,
		repository.SelectBy("account_id", "=", strconv.FormatInt(accountID, 10)),
		repository.OrderBy("created_at DESC"),
		repository.SelectPaginate(take, skip),
	)
	if err != nil {
		return nil, 0, err
	}
	requests := make([]core.MediaRequest, 0, len(records))
	for _, record := range records {
		requests = append(requests, record.toDomain())
	}
	return requests, total, nil
}

func (s *RequestStore) CountByAccountSince(ctx context.Context, accountID int64, kind core.MediaKind, since time.Time) (int, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("sqlstore: request store is not configured")
	}
	return s.db.NewSelect().
		Model((*mediaRequestRecord)(nil)).
		Where("account_id = ?", accountID).
		Where("media_kind = ?", string(kind)).
		Where("created_at >= ?", since.UTC()).
		Count(ctx)
}

func (s *RequestStore) DeleteByAccount(ctx context.Context, accountID int64) (int, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("sqlstore: request store is not configured")
	}
	result, err := s.db.NewDelete().
		Model((*mediaRequestRecord)(nil)).
		Where("account_id = ?", accountID).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	affected, _ := result.RowsAffected()
	return int(affected), nil
}

var _ core.RequestStore = (*RequestStore)(nil)
