package core

import (
	"context"
	"testing"
)

func analyticsConfig() Config {
	return Config{
		Analytics: AnalyticsConfig{URL: "https://tautulli.example.com", APIKey: "key"},
	}
}

func TestWatchDataRequiresAnalyticsConfig(t *testing.T) {
	env := newTestService(t, Config{})
	account := env.accounts.seed(Account{Email: "w@example.com", PrimaryExternalID: "p-1"})

	_, err := env.service.WatchData(context.Background(), adminActor(1), account.ID)
	assertTextCode(t, err, AccountsErrorNotConfigured)
}

func TestWatchDataRequiresLinkedIdentity(t *testing.T) {
	env := newTestService(t, analyticsConfig())
	account := env.accounts.seed(Account{Email: "local@example.com"})

	_, err := env.service.WatchData(context.Background(), adminActor(1), account.ID)
	assertTextCode(t, err, AccountsErrorNotFound)
}

func TestWatchDataOrdersByMostRecentHistoryPosition(t *testing.T) {
	env := newTestService(t, analyticsConfig())
	ctx := context.Background()
	account := env.accounts.seed(Account{Email: "w@example.com", PrimaryExternalID: "p-1"})

	env.catalog.items = []MediaCatalogItem{
		{ID: "older", Title: "Older Movie", MediaKind: MediaKindMovie, RatingKey: "20"},
		{ID: "newer", Title: "Newer Movie", MediaKind: MediaKindMovie, RatingKey: "10"},
	}
	env.analytics.playCount = 42
	env.analytics.history = []WatchHistoryRecord{
		{Kind: WatchHistoryKindMovie, RatingKey: "10"},
		{Kind: WatchHistoryKindMovie, RatingKey: "20"},
		{Kind: WatchHistoryKindMovie, RatingKey: "10"},
	}

	data, err := env.service.WatchData(ctx, adminActor(1), account.ID)
	if err != nil {
		t.Fatalf("WatchData: %v", err)
	}
	if data.PlayCount != 42 {
		t.Fatalf("playCount = %d, want 42", data.PlayCount)
	}
	if len(data.RecentlyWatched) != 2 {
		t.Fatalf("recentlyWatched = %d items, want 2", len(data.RecentlyWatched))
	}
	if data.RecentlyWatched[0].ID != "newer" || data.RecentlyWatched[1].ID != "older" {
		t.Fatalf("order = [%s %s], want [newer older]", data.RecentlyWatched[0].ID, data.RecentlyWatched[1].ID)
	}
}

func TestWatchDataMatchesEpisodesBySeriesAndHighDefKeys(t *testing.T) {
	env := newTestService(t, analyticsConfig())
	account := env.accounts.seed(Account{Email: "w@example.com", PrimaryExternalID: "p-1"})

	env.catalog.items = []MediaCatalogItem{
		{ID: "series", Title: "A Series", MediaKind: MediaKindTV, RatingKey: "300"},
		{ID: "uhd-movie", Title: "UHD Movie", MediaKind: MediaKindMovie, RatingKey: "77", RatingKey4K: "477"},
	}
	env.analytics.history = []WatchHistoryRecord{
		{Kind: WatchHistoryKindEpisode, RatingKey: "3001", GrandparentRatingKey: "300"},
		{Kind: WatchHistoryKindMovie, RatingKey: "477"},
	}

	data, err := env.service.WatchData(context.Background(), adminActor(1), account.ID)
	if err != nil {
		t.Fatalf("WatchData: %v", err)
	}
	if len(data.RecentlyWatched) != 2 {
		t.Fatalf("recentlyWatched = %d items, want 2", len(data.RecentlyWatched))
	}
	if data.RecentlyWatched[0].ID != "series" || data.RecentlyWatched[1].ID != "uhd-movie" {
		t.Fatalf("order = [%s %s], want [series uhd-movie]",
			data.RecentlyWatched[0].ID, data.RecentlyWatched[1].ID)
	}
}

func TestWatchDataEmptyHistory(t *testing.T) {
	env := newTestService(t, analyticsConfig())
	account := env.accounts.seed(Account{Email: "w@example.com", PrimaryExternalID: "p-1"})

	data, err := env.service.WatchData(context.Background(), adminActor(1), account.ID)
	if err != nil {
		t.Fatalf("WatchData: %v", err)
	}
	if len(data.RecentlyWatched) != 0 {
		t.Fatalf("recentlyWatched should be empty, got %d", len(data.RecentlyWatched))
	}
}

func TestWatchDataUpstreamFailure(t *testing.T) {
	env := newTestService(t, analyticsConfig())
	account := env.accounts.seed(Account{Email: "w@example.com", PrimaryExternalID: "p-1"})
	env.analytics.playErr = errFake("analytics down")

	_, err := env.service.WatchData(context.Background(), adminActor(1), account.ID)
	assertTextCode(t, err, AccountsErrorUpstreamFailed)
}

type errFake string

func (e errFake) Error() string { return string(e) }

func TestWatchDataViewRules(t *testing.T) {
	env := newTestService(t, analyticsConfig())
	ctx := context.Background()
	account := env.accounts.seed(Account{Email: "w@example.com", PrimaryExternalID: "ext-1"})

	_, err := env.service.WatchData(ctx, Actor{ID: 99, Permissions: PermissionManageAccounts}, account.ID)
	assertTextCode(t, err, AccountsErrorForbidden)

	if _, err := env.service.WatchData(ctx, Actor{ID: account.ID}, account.ID); err != nil {
		t.Fatalf("account holder reading own watch data: %v", err)
	}
	if _, err := env.service.WatchData(ctx, Actor{ID: 99, Permissions: PermissionAdmin}, account.ID); err != nil {
		t.Fatalf("admin reading watch data: %v", err)
	}
}
