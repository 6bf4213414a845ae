package devkit

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-accounts/core"
)

// FakeAltClient implements core.AltProviderClient over an in-memory user
// table. Created users get sequential external ids.
type FakeAltClient struct {
	mu        sync.Mutex
	users     map[string]core.RemoteAltUser
	passwords map[string]string
	nextID    int
	failure   error
	deleted   []string
}

func NewFakeAltClient() *FakeAltClient {
	return &FakeAltClient{
		users:     map[string]core.RemoteAltUser{},
		passwords: map[string]string{},
		nextID:    1,
	}
}

// SeedUser registers an existing remote user.
func (c *FakeAltClient) SeedUser(user core.RemoteAltUser) *FakeAltClient {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.users[user.ExternalID] = user
	return c
}

// Fail makes every operation return err until Fail(nil).
func (c *FakeAltClient) Fail(err error) *FakeAltClient {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failure = err
	return c
}

func (c *FakeAltClient) ListUsers(context.Context) ([]core.RemoteAltUser, error) {
	if c == nil {
		return nil, fmt.Errorf("devkit: fake alt client is nil")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failure != nil {
		return nil, c.failure
	}
	out := make([]core.RemoteAltUser, 0, len(c.users))
	for _, user := range c.users {
		out = append(out, user)
	}
	return out, nil
}

func (c *FakeAltClient) CreateUser(_ context.Context, username, password string) (core.RemoteAltUser, error) {
	if c == nil {
		return core.RemoteAltUser{}, fmt.Errorf("devkit: fake alt client is nil")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failure != nil {
		return core.RemoteAltUser{}, c.failure
	}
	username = strings.TrimSpace(username)
	for _, user := range c.users {
		if strings.EqualFold(user.Username, username) {
			return core.RemoteAltUser{}, fmt.Errorf("devkit: alt user %q already exists", username)
		}
	}
	user := core.RemoteAltUser{
		ExternalID: fmt.Sprintf("alt-%d", c.nextID),
		Username:   username,
	}
	c.nextID++
	c.users[user.ExternalID] = user
	c.passwords[user.ExternalID] = password
	return user, nil
}

func (c *FakeAltClient) DeleteUser(_ context.Context, externalID string) error {
	if c == nil {
		return fmt.Errorf("devkit: fake alt client is nil")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failure != nil {
		return c.failure
	}
	if _, ok := c.users[externalID]; !ok {
		return fmt.Errorf("devkit: alt user %q: %w", externalID, core.ErrRemoteNotFound)
	}
	delete(c.users, externalID)
	delete(c.passwords, externalID)
	c.deleted = append(c.deleted, externalID)
	return nil
}

func (c *FakeAltClient) ResetPassword(_ context.Context, externalID, password string) error {
	if c == nil {
		return fmt.Errorf("devkit: fake alt client is nil")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failure != nil {
		return c.failure
	}
	if _, ok := c.users[externalID]; !ok {
		return fmt.Errorf("devkit: alt user %q: %w", externalID, core.ErrRemoteNotFound)
	}
	c.passwords[externalID] = password
	return nil
}

// Password reports the last password stored for an external id.
func (c *FakeAltClient) Password(externalID string) string {
	if c == nil {
		return ""
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.passwords[externalID]
}

// Deleted returns the external ids removed so far, oldest first.
func (c *FakeAltClient) Deleted() []string {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.deleted...)
}

var _ core.AltProviderClient = (*FakeAltClient)(nil)
