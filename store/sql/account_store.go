package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-accounts/core"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const requestCountSubquery = "(SELECT COUNT(*) FROM media_requests mr WHERE mr.account_id = a.id)"

// displayNameExpr mirrors core.Account.DisplayName for SQL ordering: local
// username first, then the provider usernames, then the email.
const displayNameExpr = "LOWER(COALESCE(NULLIF(TRIM(a.username), ''), NULLIF(TRIM(a.primary_username), ''), NULLIF(TRIM(a.alt_username), ''), a.email))"

type AccountStore struct {
	db *bun.DB
}

func NewAccountStore(db *bun.DB) (*AccountStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	return &AccountStore{db: db}, nil
}

func (s *AccountStore) Create(ctx context.Context, in core.CreateAccountInput) (core.Account, error) {
	if s == nil || s.db == nil {
		return core.Account{}, fmt.Errorf("sqlstore: account store is not configured")
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		return core.Account{}, fmt.Errorf("sqlstore: account email is required")
	}
	now := time.Now().UTC()
	record := &accountRecord{
		Email:             email,
		Username:          strings.TrimSpace(in.Username),
		PrimaryUsername:   strings.TrimSpace(in.PrimaryUsername),
		PrimaryExternalID: strings.TrimSpace(in.PrimaryExternalID),
		PrimaryToken:      in.PrimaryToken,
		AltUsername:       strings.TrimSpace(in.AltUsername),
		AltExternalID:     strings.TrimSpace(in.AltExternalID),
		AltDeviceID:       strings.TrimSpace(in.AltDeviceID),
		Kind:              string(in.Kind),
		Permissions:       int64(in.Permissions),
		AvatarURL:         strings.TrimSpace(in.AvatarURL),
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		exists, existsErr := tx.NewSelect().
			Model((*accountRecord)(nil)).
			Where("LOWER(a.email) = ?", email).
			Exists(ctx)
		if existsErr != nil {
			return existsErr
		}
		if exists {
			return fmt.Errorf("sqlstore: account with email %s already exists", email)
		}
		if _, insertErr := tx.NewInsert().Model(record).Exec(ctx); insertErr != nil {
			return insertErr
		}
		settings := &accountSettingsRecord{
			ID:        uuid.NewString(),
			AccountID: record.ID,
			Locale:    strings.TrimSpace(in.Locale),
			Region:    strings.TrimSpace(in.Region),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if _, insertErr := tx.NewInsert().Model(settings).Exec(ctx); insertErr != nil {
			return insertErr
		}
		return nil
	})
	if err != nil {
		return core.Account{}, err
	}
	return record.toDomain(), nil
}

func (s *AccountStore) Get(ctx context.Context, id int64) (core.Account, error) {
	if s == nil || s.db == nil {
		return core.Account{}, fmt.Errorf("sqlstore: account store is not configured")
	}
	record := &accountRecord{}
	err := s.db.NewSelect().
		Model(record).
		Where("a.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return core.Account{}, fmt.Errorf("sqlstore: account %d not found: %w", id, sql.ErrNoRows)
		}
		return core.Account{}, err
	}
	return record.toDomain(), nil
}

func (s *AccountStore) GetByEmail(ctx context.Context, email string) (core.Account, error) {
	return s.getByColumn(ctx, "LOWER(a.email) = ?", strings.ToLower(strings.TrimSpace(email)), "email "+email)
}

func (s *AccountStore) GetByPrimaryExternalID(ctx context.Context, externalID string) (core.Account, error) {
	return s.getByColumn(ctx, "a.primary_external_id = ?", strings.TrimSpace(externalID), "primary external id "+externalID)
}

func (s *AccountStore) GetByAltExternalID(ctx context.Context, externalID string) (core.Account, error) {
	return s.getByColumn(ctx, "a.alt_external_id = ?", strings.TrimSpace(externalID), "alt external id "+externalID)
}

func (s *AccountStore) getByColumn(ctx context.Context, where string, value string, label string) (core.Account, error) {
	if s == nil || s.db == nil {
		return core.Account{}, fmt.Errorf("sqlstore: account store is not configured")
	}
	if value == "" {
		return core.Account{}, fmt.Errorf("sqlstore: account with %s not found: %w", label, sql.ErrNoRows)
	}
	record := &accountRecord{}
	err := s.db.NewSelect().
		Model(record).
		Where(where, value).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return core.Account{}, fmt.Errorf("sqlstore: account with %s not found: %w", label, sql.ErrNoRows)
		}
		return core.Account{}, err
	}
	return record.toDomain(), nil
}

func (s *AccountStore) List(ctx context.Context, in core.ListAccountsInput) ([]core.AccountWithRequestCount, int, error) {
	if s == nil || s.db == nil {
		return nil, 0, fmt.Errorf("sqlstore: account store is not configured")
	}
	take := in.Take
	if take <= 0 {
		take = 10
	}
	skip := in.Skip
	if skip < 0 {
		skip = 0
	}

	records := []*accountRecord{}
	query := s.db.NewSelect().
		Model(&records).
		ColumnExpr("a.*").
		ColumnExpr(requestCountSubquery + " AS request_count").
		Limit(take).
		Offset(skip)

	switch in.Sort {
	case core.AccountSortUpdated:
		query = query.OrderExpr("a.updated_at DESC")
	case core.AccountSortDisplayName:
		query = query.OrderExpr(displayNameExpr + " ASC")
	case core.AccountSortRequests:
		query = query.OrderExpr(requestCountSubquery + " DESC")
	case core.AccountSortSubscriptionStatus:
		query = query.OrderExpr("a.subscription_status ASC")
	case core.AccountSortSubscriptionExpiration:
		query = query.
			OrderExpr("a.subscription_expires_at IS NULL").
			OrderExpr("a.subscription_expires_at ASC")
	case core.AccountSortSuspiciousActivity:
		query = query.OrderExpr("a.suspicious_activity_count ASC")
	default:
		query = query.OrderExpr("a.id ASC")
	}

	total, err := query.ScanAndCount(ctx)
	if err != nil {
		return nil, 0, err
	}
	out := make([]core.AccountWithRequestCount, 0, len(records))
	for _, record := range records {
		out = append(out, core.AccountWithRequestCount{
			Account:      record.toDomain(),
			RequestCount: record.RequestCount,
		})
	}
	return out, total, nil
}

func (s *AccountStore) Update(ctx context.Context, account core.Account) (core.Account, error) {
	if s == nil || s.db == nil {
		return core.Account{}, fmt.Errorf("sqlstore: account store is not configured")
	}
	if account.ID <= 0 {
		return core.Account{}, fmt.Errorf("sqlstore: account id is required")
	}
	record := newAccountRecord(account)
	record.Email = strings.ToLower(strings.TrimSpace(record.Email))
	record.UpdatedAt = time.Now().UTC()

	result, err := s.db.NewUpdate().
		Model(record).
		WherePK().
		ExcludeColumn("created_at").
		Exec(ctx)
	if err != nil {
		return core.Account{}, err
	}
	if affected, affectedErr := result.RowsAffected(); affectedErr == nil && affected == 0 {
		return core.Account{}, fmt.Errorf("sqlstore: account %d not found: %w", account.ID, sql.ErrNoRows)
	}
	return record.toDomain(), nil
}

func (s *AccountStore) Delete(ctx context.Context, id int64) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: account store is not configured")
	}
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*watchlistEntryRecord)(nil)).
			Where("account_id = ?", id).
			Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewDelete().
			Model((*accountSettingsRecord)(nil)).
			Where("account_id = ?", id).
			Exec(ctx); err != nil {
			return err
		}
		result, err := tx.NewDelete().
			Model((*accountRecord)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return err
		}
		if affected, affectedErr := result.RowsAffected(); affectedErr == nil && affected == 0 {
			return fmt.Errorf("sqlstore: account %d not found: %w", id, sql.ErrNoRows)
		}
		return nil
	})
}

func (s *AccountStore) GetSettings(ctx context.Context, accountID int64) (core.AccountSettings, error) {
	if s == nil || s.db == nil {
		return core.AccountSettings{}, fmt.Errorf("sqlstore: account store is not configured")
	}
	record := &accountSettingsRecord{}
	err := s.db.NewSelect().
		Model(record).
		Where("account_id = ?", accountID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return core.AccountSettings{}, fmt.Errorf("sqlstore: settings for account %d not found: %w", accountID, sql.ErrNoRows)
		}
		return core.AccountSettings{}, err
	}
	return record.toDomain(), nil
}

func (s *AccountStore) UpdateSettings(ctx context.Context, settings core.AccountSettings) (core.AccountSettings, error) {
	if s == nil || s.db == nil {
		return core.AccountSettings{}, fmt.Errorf("sqlstore: account store is not configured")
	}
	if settings.AccountID <= 0 {
		return core.AccountSettings{}, fmt.Errorf("sqlstore: settings account id is required")
	}
	now := time.Now().UTC()
	record := &accountSettingsRecord{}

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		scanErr := tx.NewSelect().
			Model(record).
			Where("account_id = ?", settings.AccountID).
			Limit(1).
			Scan(ctx)
		if scanErr != nil && scanErr != sql.ErrNoRows {
			return scanErr
		}
		if scanErr == sql.ErrNoRows {
			record = &accountSettingsRecord{
				ID:        uuid.NewString(),
				AccountID: settings.AccountID,
				CreatedAt: now,
			}
			record.Locale = strings.TrimSpace(settings.Locale)
			record.Region = strings.TrimSpace(settings.Region)
			record.UpdatedAt = now
			_, insertErr := tx.NewInsert().Model(record).Exec(ctx)
			return insertErr
		}
		record.Locale = strings.TrimSpace(settings.Locale)
		record.Region = strings.TrimSpace(settings.Region)
		record.UpdatedAt = now
		_, updateErr := tx.NewUpdate().
			Model(record).
			WherePK().
			Exec(ctx)
		return updateErr
	})
	if err != nil {
		return core.AccountSettings{}, err
	}
	return record.toDomain(), nil
}

var _ core.AccountStore = (*AccountStore)(nil)
