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

type ActivityStore struct {
	db   *bun.DB
	repo repository.Repository[*activityEntryRecord]
}

func NewActivityStore(db *bun.DB) (*ActivityStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*activityEntryRecord](db, activityHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid activity repository wiring: %w", err)
		}
	}
	return &ActivityStore{db: db, repo: repo}, nil
}

func (s *ActivityStore) Record(ctx context.Context, entry core.ActivityEntry) error {
	if s == nil || s.repo == nil {
		return fmt.Errorf("sqlstore: activity store is not configured")
	}
	if entry.AccountID <= 0 {
		return fmt.Errorf("sqlstore: activity account id is required")
	}
	action := strings.TrimSpace(entry.Action)
	if action == "" {
		return fmt.Errorf("sqlstore: activity action is required")
	}
	id := strings.TrimSpace(entry.ID)
	if id == "" {
		id = uuid.NewString()
	}
	createdAt := entry.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	record := &activityEntryRecord{
		ID:        id,
		AccountID: entry.AccountID,
		Action:    action,
		ActorID:   entry.ActorID,
		Detail:    copyAnyMap(entry.Detail),
		CreatedAt: createdAt,
	}
	_, err := s.repo.Create(ctx, record)
	return err
}

func (s *ActivityStore) List(ctx context.Context, in core.ListActivityInput) ([]core.ActivityEntry, int, error) {
	if s == nil || s.repo == nil {
		return nil, 0, fmt.Errorf("sqlstore: activity store is not configured")
	}
	take := in.Take
	if take <= 0 {
		take = 25
	}
	skip := in.Skip
	if skip < 0 {
		skip = 0
	}

	selectors := []repository.SelectCriteria{
		repository.OrderBy("created_at DESC"),
		repository.SelectPaginate(take, skip),
	}
	if in.AccountID > 0 {
		selectors = append(selectors, repository.SelectBy("account_id", "=", strconv.FormatInt(in.AccountID, 10)))
	}

	records, total, err := s.repo.List(ctx, selectors...)
	if err != nil {
		return nil, 0, err
	}
	entries := make([]core.ActivityEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, record.toDomain())
	}
	return entries, total, nil
}

var _ core.ActivityStore = (*ActivityStore)(nil)
