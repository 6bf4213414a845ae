package sqlstore

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-accounts/core"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type WatchlistStore struct {
	db   *bun.DB
	repo repository.Repository[*watchlistEntryRecord]
}

func NewWatchlistStore(db *bun.DB) (*WatchlistStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*watchlistEntryRecord](db, watchlistHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid watchlist repository wiring: %w", err)
		}
	}
	return &WatchlistStore{db: db, repo: repo}, nil
}

func (s *WatchlistStore) ListByAccount(ctx context.Context, accountID int64, take, skip int) ([]core.WatchlistEntry, int, error) {
	if s == nil || s.repo == nil {
		return nil, 0, fmt.Errorf("sqlstore: watchlist store is not configured")
	}
	if take <= 0 {
		take = 20
	}
	if skip < 0 {
		skip = 0
	}
	records, total, err := s.repo.List(ctx,
		repository.SelectBy("account_id", "=", strconv.FormatInt(accountID, 10)),
		repository.OrderBy("position ASC"),
		repository.SelectPaginate(take, skip),
	)
	if err != nil {
		return nil, 0, err
	}
	entries := make([]core.WatchlistEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, record.toDomain())
	}
	return entries, total, nil
}

// ReplaceForAccount swaps the synced watchlist copy in one transaction so a
// reader never observes a half-written list. Entry order is preserved
// through the position column.
func (s *WatchlistStore) ReplaceForAccount(ctx context.Context, accountID int64, entries []core.WatchlistEntry) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: watchlist store is not configured")
	}
	now := time.Now().UTC()
	records := make([]*watchlistEntryRecord, 0, len(entries))
	for position, entry := range entries {
		id := strings.TrimSpace(entry.ID)
		if id == "" {
			id = uuid.NewString()
		}
		createdAt := entry.CreatedAt.UTC()
		if createdAt.IsZero() {
			createdAt = now
		}
		records = append(records, &watchlistEntryRecord{
			ID:        id,
			AccountID: accountID,
			RatingKey: strings.TrimSpace(entry.RatingKey),
			Title:     entry.Title,
			MediaKind: string(entry.MediaKind),
			CatalogID: strings.TrimSpace(entry.CatalogID),
			Position:  position,
			CreatedAt: createdAt,
		})
	}

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*watchlistEntryRecord)(nil)).
			Where("account_id = ?", accountID).
			Exec(ctx); err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		if _, err := tx.NewInsert().Model(&records).Exec(ctx); err != nil {
			return err
		}
		return nil
	})
}

var _ core.WatchlistStore = (*WatchlistStore)(nil)
