// Package devkit ships deterministic in-memory fakes for the provider
// contracts. They back the module's own tests and give host applications
// something to wire during integration testing without real media servers.
package devkit

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-accounts/core"
)

// FakePrimaryClient implements core.PrimaryProviderClient against scripted
// in-memory state keyed by credential token.
type FakePrimaryClient struct {
	mu         sync.Mutex
	shared     map[string][]core.RemotePrimaryAccount
	access     map[string]map[string]bool
	watchlists map[string][]core.RemoteWatchlistItem
	failures   map[string]error
	calls      []string
}

func NewFakePrimaryClient() *FakePrimaryClient {
	return &FakePrimaryClient{
		shared:     map[string][]core.RemotePrimaryAccount{},
		access:     map[string]map[string]bool{},
		watchlists: map[string][]core.RemoteWatchlistItem{},
		failures:   map[string]error{},
	}
}

// SeedSharedAccounts registers the account list returned for a token.
func (c *FakePrimaryClient) SeedSharedAccounts(token string, accounts ...core.RemotePrimaryAccount) *FakePrimaryClient {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shared[token] = append([]core.RemotePrimaryAccount(nil), accounts...)
	return c
}

// GrantAccess marks an external id as having live server access for a token.
func (c *FakePrimaryClient) GrantAccess(token string, externalIDs ...string) *FakePrimaryClient {
	c.mu.Lock()
	defer c.mu.Unlock()
	grants, ok := c.access[token]
	if !ok {
		grants = map[string]bool{}
		c.access[token] = grants
	}
	for _, id := range externalIDs {
		grants[strings.TrimSpace(id)] = true
	}
	return c
}

// SeedWatchlist registers the full remote watchlist for a token. GetWatchlist
// pages over it.
func (c *FakePrimaryClient) SeedWatchlist(token string, items ...core.RemoteWatchlistItem) *FakePrimaryClient {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.watchlists[token] = append([]core.RemoteWatchlistItem(nil), items...)
	return c
}

// FailToken makes every operation for a token return err.
func (c *FakePrimaryClient) FailToken(token string, err error) *FakePrimaryClient {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures[token] = err
	return c
}

func (c *FakePrimaryClient) ListSharedAccounts(_ context.Context, token string) ([]core.RemotePrimaryAccount, error) {
	if c == nil {
		return nil, fmt.Errorf("devkit: fake primary client is nil")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, "list_shared:"+token)
	if err := c.failures[token]; err != nil {
		return nil, err
	}
	return append([]core.RemotePrimaryAccount(nil), c.shared[token]...), nil
}

func (c *FakePrimaryClient) VerifyAccess(_ context.Context, token string, externalID string) (bool, error) {
	if c == nil {
		return false, fmt.Errorf("devkit: fake primary client is nil")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, "verify:"+token+":"+externalID)
	if err := c.failures[token]; err != nil {
		return false, err
	}
	return c.access[token][strings.TrimSpace(externalID)], nil
}

func (c *FakePrimaryClient) GetWatchlist(_ context.Context, token string, offset, limit int) (core.RemoteWatchlistPage, error) {
	if c == nil {
		return core.RemoteWatchlistPage{}, fmt.Errorf("devkit: fake primary client is nil")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, fmt.Sprintf("watchlist:%s:%d", token, offset))
	if err := c.failures[token]; err != nil {
		return core.RemoteWatchlistPage{}, err
	}
	items := c.watchlists[token]
	page := core.RemoteWatchlistPage{TotalSize: len(items), Offset: offset}
	if offset < 0 || offset >= len(items) {
		return page, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(items) {
		end = len(items)
	}
	page.Items = append([]core.RemoteWatchlistItem(nil), items[offset:end]...)
	return page, nil
}

// Calls returns the operations recorded so far, oldest first.
func (c *FakePrimaryClient) Calls() []string {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

var _ core.PrimaryProviderClient = (*FakePrimaryClient)(nil)
