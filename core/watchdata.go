package core

import (
	"context"
	"sort"
)

type WatchData struct {
	PlayCount       int                `json:"playCount"`
	RecentlyWatched []MediaCatalogItem `json:"recentlyWatched"`
}

// WatchData aggregates playback statistics for one account: the lifetime
// play count plus locally known titles ordered by how recently the account
// watched them. Requires both the analytics connection and a linked
// provider identity on the account.
func (s *Service) WatchData(ctx context.Context, actor Actor, accountID int64) (data WatchData, err error) {
	startedAt := s.now()
	fields := map[string]any{
		"actor_id":   actor.ID,
		"account_id": accountID,
	}
	defer func() {
		s.observeOperation(ctx, startedAt, "watch_data", err, fields)
	}()

	if !s.guard.CanViewWatchData(actor, accountID) {
		err = s.mapError(forbiddenError("not allowed to view this account's watch data"))
		return WatchData{}, err
	}
	if !s.config.Analytics.Configured() || s.analytics == nil {
		err = s.mapError(notConfiguredError("watch analytics is not configured"))
		return WatchData{}, err
	}
	account, getErr := s.accounts.Get(ctx, accountID)
	if getErr != nil {
		err = s.mapError(getErr)
		return WatchData{}, err
	}
	if !account.HasLinkedIdentity() {
		err = s.mapError(notFoundError("account has no linked provider identity"))
		return WatchData{}, err
	}

	ref := AnalyticsAccountRef{ExternalID: account.PrimaryExternalID}
	playCount, countErr := s.analytics.GetPlayCount(ctx, ref)
	if countErr != nil {
		err = s.mapError(upstreamError(countErr, "fetching play count failed"))
		return WatchData{}, err
	}
	history, historyErr := s.analytics.GetWatchHistory(ctx, ref)
	if historyErr != nil {
		err = s.mapError(upstreamError(historyErr, "fetching watch history failed"))
		return WatchData{}, err
	}

	recent, recentErr := s.recentlyWatched(ctx, history)
	if recentErr != nil {
		err = s.mapError(recentErr)
		return WatchData{}, err
	}
	return WatchData{
		PlayCount:       playCount,
		RecentlyWatched: recent,
	}, nil
}

// recentlyWatched resolves history records against the local catalog and
// orders the matches by the first position each title appears at in the
// history. History arrives most recent first, so a lower first position
// means watched more recently.
func (s *Service) recentlyWatched(ctx context.Context, history []WatchHistoryRecord) ([]MediaCatalogItem, error) {
	keys := make([]string, 0, len(history))
	seen := map[string]struct{}{}
	for _, record := range history {
		key := record.SubjectRatingKey()
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return []MediaCatalogItem{}, nil
	}

	items, err := s.catalog.FindByRatingKeys(ctx, keys)
	if err != nil {
		return nil, err
	}

	position := make(map[string]int, len(keys))
	for index, key := range keys {
		position[key] = index
	}
	firstSeen := func(item MediaCatalogItem) int {
		best := len(keys)
		for _, key := range []string{item.RatingKey, item.RatingKey4K} {
			if at, ok := position[key]; ok && at < best {
				best = at
			}
		}
		return best
	}

	ordered := append([]MediaCatalogItem(nil), items...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return firstSeen(ordered[i]) < firstSeen(ordered[j])
	})
	return ordered, nil
}
