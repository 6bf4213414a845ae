package core

import (
	"context"
)

type WatchlistItem struct {
	RatingKey string    `json:"ratingKey"`
	Title     string    `json:"title"`
	MediaKind MediaKind `json:"mediaType"`
	CatalogID string    `json:"catalogId,omitempty"`
}

type WatchlistPage struct {
	Page         int             `json:"page"`
	TotalPages   int             `json:"totalPages"`
	TotalResults int             `json:"totalResults"`
	Items        []WatchlistItem `json:"results"`
}

// Watchlist returns one page of an account's provider watchlist. The
// locally synced copy is authoritative whenever it holds anything for the
// account; only accounts with no synced rows and a stored credential fall
// through to a live provider fetch. Accounts with neither get a valid
// empty page.
func (s *Service) Watchlist(ctx context.Context, actor Actor, accountID int64, pageNumber int) (page WatchlistPage, err error) {
	startedAt := s.now()
	fields := map[string]any{
		"actor_id":   actor.ID,
		"account_id": accountID,
		"page":       pageNumber,
	}
	defer func() {
		s.observeOperation(ctx, startedAt, "watchlist", err, fields)
	}()

	if !s.guard.CanViewWatchlist(actor, accountID) {
		err = s.mapError(forbiddenError("not allowed to view this account's watchlist"))
		return WatchlistPage{}, err
	}

	if pageNumber <= 0 {
		pageNumber = 1
	}
	offset := (pageNumber - 1) * watchlistPageSize

	account, getErr := s.accounts.Get(ctx, accountID)
	if getErr != nil {
		err = s.mapError(getErr)
		return WatchlistPage{}, err
	}

	cached, total, cacheErr := s.watchlist.ListByAccount(ctx, accountID, watchlistPageSize, offset)
	if cacheErr != nil {
		err = s.mapError(cacheErr)
		return WatchlistPage{}, err
	}
	if total > 0 {
		items := make([]WatchlistItem, 0, len(cached))
		for _, entry := range cached {
			items = append(items, WatchlistItem{
				RatingKey: entry.RatingKey,
				Title:     entry.Title,
				MediaKind: entry.MediaKind,
				CatalogID: entry.CatalogID,
			})
		}
		return WatchlistPage{
			Page:         pageNumber,
			TotalPages:   pagesFor(total),
			TotalResults: total,
			Items:        items,
		}, nil
	}

	token := account.PrimaryToken
	if token == "" || s.primary == nil {
		return emptyWatchlistPage(), nil
	}

	remote, fetchErr := s.primary.GetWatchlist(ctx, token, offset, watchlistPageSize)
	if fetchErr != nil {
		err = s.mapError(upstreamError(fetchErr, "fetching provider watchlist failed"))
		return WatchlistPage{}, err
	}
	items := make([]WatchlistItem, 0, len(remote.Items))
	for _, item := range remote.Items {
		items = append(items, WatchlistItem{
			RatingKey: item.RatingKey,
			Title:     item.Title,
			MediaKind: MediaKindFromProviderTag(item.MediaTag),
			CatalogID: item.CatalogID,
		})
	}
	return WatchlistPage{
		Page:         pageNumber,
		TotalPages:   pagesFor(remote.TotalSize),
		TotalResults: remote.TotalSize,
		Items:        items,
	}, nil
}

func emptyWatchlistPage() WatchlistPage {
	return WatchlistPage{
		Page:         1,
		TotalPages:   1,
		TotalResults: 0,
		Items:        []WatchlistItem{},
	}
}

func pagesFor(total int) int {
	pages := total / watchlistPageSize
	if total%watchlistPageSize != 0 {
		pages++
	}
	if pages == 0 {
		pages = 1
	}
	return pages
}
