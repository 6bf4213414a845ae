package sync

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-accounts/core"
)

const defaultPageSize = 100

type ResyncResult struct {
	AccountID int64
	Entries   int
	// Skipped is set when the account has no stored provider credential;
	// its cached watchlist is left untouched.
	Skipped bool
}

type ResyncFailure struct {
	AccountID int64
	Err       error
}

type ResyncSummary struct {
	Scanned  int
	Synced   int
	Skipped  int
	Failures []ResyncFailure
}

// Orchestrator refreshes the locally cached watchlists from the primary
// provider. A resync is a wholesale replace: the provider copy wins.
type Orchestrator struct {
	Accounts  core.AccountStore
	Watchlist core.WatchlistStore
	Primary   core.PrimaryProviderClient
	Logger    core.Logger
	PageSize  int
	Now       func() time.Time
}

func NewOrchestrator(
	accounts core.AccountStore,
	watchlist core.WatchlistStore,
	primary core.PrimaryProviderClient,
) *Orchestrator {
	return &Orchestrator{
		Accounts:  accounts,
		Watchlist: watchlist,
		Primary:   primary,
		Now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// ResyncAccount pulls every watchlist page for one account and swaps the
// cached entries in a single replace. Accounts without a stored credential
// are skipped, not failed.
func (o *Orchestrator) ResyncAccount(ctx context.Context, accountID int64) (ResyncResult, error) {
	if err := o.validate(); err != nil {
		return ResyncResult{}, err
	}
	account, err := o.Accounts.Get(ctx, accountID)
	if err != nil {
		return ResyncResult{}, err
	}

	token := strings.TrimSpace(account.PrimaryToken)
	if token == "" {
		return ResyncResult{AccountID: account.ID, Skipped: true}, nil
	}

	entries, err := o.fetchAll(ctx, account.ID, token)
	if err != nil {
		return ResyncResult{}, fmt.Errorf("sync: fetching watchlist for account %d: %w", account.ID, err)
	}
	if err := o.Watchlist.ReplaceForAccount(ctx, account.ID, entries); err != nil {
		return ResyncResult{}, fmt.Errorf("sync: replacing watchlist for account %d: %w", account.ID, err)
	}

	o.logInfo("watchlist resynced", "account_id", account.ID, "entries", len(entries))
	return ResyncResult{AccountID: account.ID, Entries: len(entries)}, nil
}

// ResyncAll walks the account directory and resyncs every account holding a
// provider credential. Per-account failures are collected, not fatal; the
// sweep always finishes.
func (o *Orchestrator) ResyncAll(ctx context.Context) (ResyncSummary, error) {
	if err := o.validate(); err != nil {
		return ResyncSummary{}, err
	}
	pageSize := o.pageSize()
	summary := ResyncSummary{}

	skip := 0
	for {
		rows, total, err := o.Accounts.List(ctx, core.ListAccountsInput{
			Take: pageSize,
			Skip: skip,
			Sort: core.AccountSortCreated,
		})
		if err != nil {
			return summary, err
		}
		if len(rows) == 0 {
			break
		}
		for _, row := range rows {
			summary.Scanned++
			result, resyncErr := o.ResyncAccount(ctx, row.Account.ID)
			if resyncErr != nil {
				summary.Failures = append(summary.Failures, ResyncFailure{
					AccountID: row.Account.ID,
					Err:       resyncErr,
				})
				o.logError("watchlist resync failed", "account_id", row.Account.ID, "error", resyncErr.Error())
				continue
			}
			if result.Skipped {
				summary.Skipped++
				continue
			}
			summary.Synced++
		}
		skip += len(rows)
		if skip >= total {
			break
		}
	}

	o.logInfo("watchlist sweep finished",
		"scanned", summary.Scanned,
		"synced", summary.Synced,
		"skipped", summary.Skipped,
		"failed", len(summary.Failures),
	)
	return summary, nil
}

func (o *Orchestrator) fetchAll(ctx context.Context, accountID int64, token string) ([]core.WatchlistEntry, error) {
	pageSize := o.pageSize()
	entries := []core.WatchlistEntry{}

	offset := 0
	for {
		page, err := o.Primary.GetWatchlist(ctx, token, offset, pageSize)
		if err != nil {
			return nil, err
		}
		if len(page.Items) == 0 {
			break
		}
		for _, item := range page.Items {
			entries = append(entries, core.WatchlistEntry{
				AccountID: accountID,
				RatingKey: strings.TrimSpace(item.RatingKey),
				Title:     item.Title,
				MediaKind: core.MediaKindFromProviderTag(item.MediaTag),
				CatalogID: strings.TrimSpace(item.CatalogID),
			})
		}
		offset += len(page.Items)
		if page.TotalSize > 0 && offset >= page.TotalSize {
			break
		}
	}
	return entries, nil
}

func (o *Orchestrator) validate() error {
	if o == nil || o.Accounts == nil || o.Watchlist == nil || o.Primary == nil {
		return fmt.Errorf("sync: orchestrator requires account store, watchlist store, and primary client")
	}
	return nil
}

func (o *Orchestrator) pageSize() int {
	if o != nil && o.PageSize > 0 {
		return o.PageSize
	}
	return defaultPageSize
}

func (o *Orchestrator) logInfo(message string, args ...any) {
	if o == nil || o.Logger == nil {
		return
	}
	o.Logger.Info(message, args...)
}

func (o *Orchestrator) logError(message string, args ...any) {
	if o == nil || o.Logger == nil {
		return
	}
	o.Logger.Error(message, args...)
}
