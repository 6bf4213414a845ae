package devkit

import (
	"time"

	"github.com/goliatone/go-accounts/core"
)

// SampleSharedAccounts returns a deterministic set of primary-provider
// accounts suitable for import tests.
func SampleSharedAccounts() []core.RemotePrimaryAccount {
	return []core.RemotePrimaryAccount{
		{ExternalID: "ext-1", Email: "amy@example.com", Username: "amy", AvatarURL: "https://img.example.com/amy.png"},
		{ExternalID: "ext-2", Email: "ben@example.com", Username: "ben"},
		{ExternalID: "ext-3", Email: "cleo@example.com", Username: "cleo"},
	}
}

// SampleWatchlist returns a deterministic remote watchlist mixing movies and
// series.
func SampleWatchlist() []core.RemoteWatchlistItem {
	return []core.RemoteWatchlistItem{
		{RatingKey: "rk-100", Title: "The Long Haul", MediaTag: "movie", CatalogID: "cat-100"},
		{RatingKey: "rk-200", Title: "Harbor Lights", MediaTag: "show", CatalogID: "cat-200"},
		{RatingKey: "rk-300", Title: "Second Wind", MediaTag: "movie", CatalogID: "cat-300"},
	}
}

// SampleWatchHistory returns a watch history with one movie play and one
// episode play so aggregation tests cover both key paths.
func SampleWatchHistory(ref time.Time) []core.WatchHistoryRecord {
	return []core.WatchHistoryRecord{
		{Kind: "movie", RatingKey: "rk-100", WatchedAt: ref.Add(-2 * time.Hour)},
		{Kind: "episode", RatingKey: "rk-201", GrandparentRatingKey: "rk-200", WatchedAt: ref.Add(-time.Hour)},
	}
}
