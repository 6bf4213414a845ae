package devkit

import (
	"context"
	"fmt"
	"sync"

	"github.com/goliatone/go-accounts/core"
)

// FakeAnalyticsClient implements core.AnalyticsClient with playback state
// keyed by the watched account's primary external id.
type FakeAnalyticsClient struct {
	mu      sync.Mutex
	counts  map[string]int
	history map[string][]core.WatchHistoryRecord
	failure error
}

func NewFakeAnalyticsClient() *FakeAnalyticsClient {
	return &FakeAnalyticsClient{
		counts:  map[string]int{},
		history: map[string][]core.WatchHistoryRecord{},
	}
}

// SeedPlayback registers the play count and watch history for an external id.
func (c *FakeAnalyticsClient) SeedPlayback(externalID string, playCount int, history ...core.WatchHistoryRecord) *FakeAnalyticsClient {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[externalID] = playCount
	c.history[externalID] = append([]core.WatchHistoryRecord(nil), history...)
	return c
}

// Fail makes every operation return err until Fail(nil).
func (c *FakeAnalyticsClient) Fail(err error) *FakeAnalyticsClient {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failure = err
	return c
}

func (c *FakeAnalyticsClient) GetPlayCount(_ context.Context, ref core.AnalyticsAccountRef) (int, error) {
	if c == nil {
		return 0, fmt.Errorf("devkit: fake analytics client is nil")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failure != nil {
		return 0, c.failure
	}
	return c.counts[ref.ExternalID], nil
}

func (c *FakeAnalyticsClient) GetWatchHistory(_ context.Context, ref core.AnalyticsAccountRef) ([]core.WatchHistoryRecord, error) {
	if c == nil {
		return nil, fmt.Errorf("devkit: fake analytics client is nil")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failure != nil {
		return nil, c.failure
	}
	return append([]core.WatchHistoryRecord(nil), c.history[ref.ExternalID]...), nil
}

var _ core.AnalyticsClient = (*FakeAnalyticsClient)(nil)
