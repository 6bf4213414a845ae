package core

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

type memoryAccountStore struct {
	mu            sync.Mutex
	next          int64
	accounts      map[int64]Account
	settings      map[int64]AccountSettings
	requestCounts map[int64]int
}

func newMemoryAccountStore() *memoryAccountStore {
	return &memoryAccountStore{
		accounts:      map[int64]Account{},
		settings:      map[int64]AccountSettings{},
		requestCounts: map[int64]int{},
	}
}

func (s *memoryAccountStore) seed(account Account) Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	if account.ID == 0 {
		s.next++
		account.ID = s.next
	} else if account.ID > s.next {
		s.next = account.ID
	}
	if account.Kind == "" {
		account.Kind = AccountKindLocal
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = testNow
	}
	if account.UpdatedAt.IsZero() {
		account.UpdatedAt = account.CreatedAt
	}
	s.accounts[account.ID] = account
	return account
}

func (s *memoryAccountStore) Create(_ context.Context, in CreateAccountInput) (Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email := strings.ToLower(strings.TrimSpace(in.Email))
	for _, existing := range s.accounts {
		if strings.EqualFold(existing.Email, email) {
			return Account{}, conflictError("an account with this email already exists")
		}
	}
	s.next++
	account := Account{
		ID:                s.next,
		Email:             email,
		Username:          in.Username,
		PrimaryUsername:   in.PrimaryUsername,
		PrimaryExternalID: in.PrimaryExternalID,
		PrimaryToken:      in.PrimaryToken,
		AltUsername:       in.AltUsername,
		AltExternalID:     in.AltExternalID,
		AltDeviceID:       in.AltDeviceID,
		Kind:              in.Kind,
		Permissions:       in.Permissions,
		AvatarURL:         in.AvatarURL,
		CreatedAt:         testNow,
		UpdatedAt:         testNow,
	}
	s.accounts[account.ID] = account
	s.settings[account.ID] = AccountSettings{
		ID:        fmt.Sprintf("settings-%d", account.ID),
		AccountID: account.ID,
		Locale:    in.Locale,
		Region:    in.Region,
		CreatedAt: testNow,
		UpdatedAt: testNow,
	}
	return account, nil
}

func (s *memoryAccountStore) Get(_ context.Context, id int64) (Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[id]
	if !ok {
		return Account{}, notFoundError(fmt.Sprintf("account %d not found", id))
	}
	return account, nil
}

func (s *memoryAccountStore) GetByEmail(_ context.Context, email string) (Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, account := range s.accounts {
		if strings.EqualFold(account.Email, strings.TrimSpace(email)) {
			return account, nil
		}
	}
	return Account{}, notFoundError("account not found by email")
}

func (s *memoryAccountStore) GetByPrimaryExternalID(_ context.Context, externalID string) (Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, account := range s.accounts {
		if account.PrimaryExternalID != "" && account.PrimaryExternalID == externalID {
			return account, nil
		}
	}
	return Account{}, notFoundError("account not found by primary external id")
}

func (s *memoryAccountStore) GetByAltExternalID(_ context.Context, externalID string) (Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, account := range s.accounts {
		if account.AltExternalID != "" && account.AltExternalID == externalID {
			return account, nil
		}
	}
	return Account{}, notFoundError("account not found by alt external id")
}

func (s *memoryAccountStore) List(_ context.Context, in ListAccountsInput) ([]AccountWithRequestCount, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := make([]AccountWithRequestCount, 0, len(s.accounts))
	for id, account := range s.accounts {
		rows = append(rows, AccountWithRequestCount{
			Account:      account,
			RequestCount: s.requestCounts[id],
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		switch in.Sort {
		case AccountSortUpdated:
			return a.Account.UpdatedAt.After(b.Account.UpdatedAt)
		case AccountSortDisplayName:
			return strings.ToLower(a.Account.DisplayName()) < strings.ToLower(b.Account.DisplayName())
		case AccountSortRequests:
			return a.RequestCount > b.RequestCount
		case AccountSortSubscriptionStatus:
			return a.Account.SubscriptionStatus < b.Account.SubscriptionStatus
		case AccountSortSubscriptionExpiration:
			at, bt := a.Account.SubscriptionExpiresAt, b.Account.SubscriptionExpiresAt
			switch {
			case at == nil:
				return false
			case bt == nil:
				return true
			}
			return at.Before(*bt)
		case AccountSortSuspiciousActivity:
			return a.Account.SuspiciousActivityCount < b.Account.SuspiciousActivityCount
		default:
			return a.Account.ID < b.Account.ID
		}
	})
	total := len(rows)
	if in.Skip >= total {
		return []AccountWithRequestCount{}, total, nil
	}
	rows = rows[in.Skip:]
	if in.Take > 0 && in.Take < len(rows) {
		rows = rows[:in.Take]
	}
	return rows, total, nil
}

func (s *memoryAccountStore) Update(_ context.Context, account Account) (Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[account.ID]; !ok {
		return Account{}, notFoundError(fmt.Sprintf("account %d not found", account.ID))
	}
	s.accounts[account.ID] = account
	return account, nil
}

func (s *memoryAccountStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[id]; !ok {
		return notFoundError(fmt.Sprintf("account %d not found", id))
	}
	delete(s.accounts, id)
	delete(s.settings, id)
	return nil
}

func (s *memoryAccountStore) GetSettings(_ context.Context, accountID int64) (AccountSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	settings, ok := s.settings[accountID]
	if !ok {
		return AccountSettings{}, notFoundError(fmt.Sprintf("settings for account %d not found", accountID))
	}
	return settings, nil
}

func (s *memoryAccountStore) UpdateSettings(_ context.Context, settings AccountSettings) (AccountSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.settings[settings.AccountID]; !ok {
		return AccountSettings{}, notFoundError(fmt.Sprintf("settings for account %d not found", settings.AccountID))
	}
	s.settings[settings.AccountID] = settings
	return settings, nil
}

type memoryRequestStore struct {
	mu       sync.Mutex
	requests map[int64][]MediaRequest
	failWith error
}

func newMemoryRequestStore() *memoryRequestStore {
	return &memoryRequestStore{requests: map[int64][]MediaRequest{}}
}

func (s *memoryRequestStore) seed(request MediaRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if request.ID == "" {
		request.ID = fmt.Sprintf("request-%d", len(s.requests[request.AccountID])+1)
	}
	s.requests[request.AccountID] = append(s.requests[request.AccountID], request)
}

func (s *memoryRequestStore) ListByAccount(_ context.Context, accountID int64, take, skip int) ([]MediaRequest, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, 0, s.failWith
	}
	all := s.requests[accountID]
	total := len(all)
	if skip >= total {
		return []MediaRequest{}, total, nil
	}
	page := all[skip:]
	if take > 0 && take < len(page) {
		page = page[:take]
	}
	return append([]MediaRequest(nil), page...), total, nil
}

func (s *memoryRequestStore) CountByAccountSince(_ context.Context, accountID int64, kind MediaKind, since time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return 0, s.failWith
	}
	count := 0
	for _, request := range s.requests[accountID] {
		if request.MediaKind == kind && !request.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (s *memoryRequestStore) DeleteByAccount(_ context.Context, accountID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return 0, s.failWith
	}
	deleted := len(s.requests[accountID])
	delete(s.requests, accountID)
	return deleted, nil
}

type memoryWatchlistStore struct {
	mu      sync.Mutex
	entries map[int64][]WatchlistEntry
}

func newMemoryWatchlistStore() *memoryWatchlistStore {
	return &memoryWatchlistStore{entries: map[int64][]WatchlistEntry{}}
}

func (s *memoryWatchlistStore) seed(entry WatchlistEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.AccountID] = append(s.entries[entry.AccountID], entry)
}

func (s *memoryWatchlistStore) ListByAccount(_ context.Context, accountID int64, take, skip int) ([]WatchlistEntry, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.entries[accountID]
	total := len(all)
	if skip >= total {
		return []WatchlistEntry{}, total, nil
	}
	page := all[skip:]
	if take > 0 && take < len(page) {
		page = page[:take]
	}
	return append([]WatchlistEntry(nil), page...), total, nil
}

func (s *memoryWatchlistStore) ReplaceForAccount(_ context.Context, accountID int64, entries []WatchlistEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[accountID] = append([]WatchlistEntry(nil), entries...)
	return nil
}

type memoryCatalogStore struct {
	mu    sync.Mutex
	items []MediaCatalogItem
}

func newMemoryCatalogStore(items ...MediaCatalogItem) *memoryCatalogStore {
	return &memoryCatalogStore{items: items}
}

func (s *memoryCatalogStore) FindByRatingKeys(_ context.Context, keys []string) ([]MediaCatalogItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wanted := map[string]struct{}{}
	for _, key := range keys {
		wanted[key] = struct{}{}
	}
	var found []MediaCatalogItem
	for _, item := range s.items {
		if _, ok := wanted[item.RatingKey]; ok {
			found = append(found, item)
			continue
		}
		if _, ok := wanted[item.RatingKey4K]; ok {
			found = append(found, item)
		}
	}
	return found, nil
}

type memoryActivitySink struct {
	mu      sync.Mutex
	entries []ActivityEntry
}

func (s *memoryActivitySink) Record(_ context.Context, entry ActivityEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

func (s *memoryActivitySink) byAction(action string) []ActivityEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []ActivityEntry
	for _, entry := range s.entries {
		if entry.Action == action {
			matched = append(matched, entry)
		}
	}
	return matched
}

type fakePrimaryClient struct {
	mu             sync.Mutex
	shared         []RemotePrimaryAccount
	accessDenied   map[string]bool
	watchlist      RemoteWatchlistPage
	listErr        error
	verifyCalls    []string
	watchlistCalls int
}

func (c *fakePrimaryClient) ListSharedAccounts(_ context.Context, token string) ([]RemotePrimaryAccount, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.listErr != nil {
		return nil, c.listErr
	}
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("fake primary: token required")
	}
	return append([]RemotePrimaryAccount(nil), c.shared...), nil
}

func (c *fakePrimaryClient) VerifyAccess(_ context.Context, _ string, externalID string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.verifyCalls = append(c.verifyCalls, externalID)
	return !c.accessDenied[externalID], nil
}

func (c *fakePrimaryClient) GetWatchlist(_ context.Context, _ string, offset, _ int) (RemoteWatchlistPage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.watchlistCalls++
	page := c.watchlist
	page.Offset = offset
	return page, nil
}

type fakeAltClient struct {
	mu         sync.Mutex
	users      []RemoteAltUser
	nextID     int
	deleted    []string
	resets     map[string]string
	deleteErr  error
	createErr  error
	missingIDs map[string]bool
}

func newFakeAltClient(users ...RemoteAltUser) *fakeAltClient {
	return &fakeAltClient{
		users:      users,
		resets:     map[string]string{},
		missingIDs: map[string]bool{},
	}
}

func (c *fakeAltClient) ListUsers(context.Context) ([]RemoteAltUser, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]RemoteAltUser(nil), c.users...), nil
}

func (c *fakeAltClient) CreateUser(_ context.Context, username, password string) (RemoteAltUser, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.createErr != nil {
		return RemoteAltUser{}, c.createErr
	}
	if strings.TrimSpace(password) == "" {
		return RemoteAltUser{}, fmt.Errorf("fake alt: password required")
	}
	c.nextID++
	user := RemoteAltUser{
		ExternalID: fmt.Sprintf("alt-%d", c.nextID),
		Username:   username,
		DeviceID:   fmt.Sprintf("device-%d", c.nextID),
	}
	c.users = append(c.users, user)
	return user, nil
}

func (c *fakeAltClient) DeleteUser(_ context.Context, externalID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.deleteErr != nil {
		return c.deleteErr
	}
	if c.missingIDs[externalID] {
		return fmt.Errorf("fake alt: user %s: %w", externalID, ErrRemoteNotFound)
	}
	c.deleted = append(c.deleted, externalID)
	return nil
}

func (c *fakeAltClient) ResetPassword(_ context.Context, externalID, password string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resets[externalID] = password
	return nil
}

type fakeAnalyticsClient struct {
	playCount  int
	history    []WatchHistoryRecord
	playErr    error
	historyErr error
}

func (c *fakeAnalyticsClient) GetPlayCount(context.Context, AnalyticsAccountRef) (int, error) {
	if c.playErr != nil {
		return 0, c.playErr
	}
	return c.playCount, nil
}

func (c *fakeAnalyticsClient) GetWatchHistory(context.Context, AnalyticsAccountRef) ([]WatchHistoryRecord, error) {
	if c.historyErr != nil {
		return nil, c.historyErr
	}
	return append([]WatchHistoryRecord(nil), c.history...), nil
}

type fakeNotificationSender struct {
	sent chan NotificationMessage
	err  error
}

func newFakeNotificationSender() *fakeNotificationSender {
	return &fakeNotificationSender{sent: make(chan NotificationMessage, 8)}
}

func (c *fakeNotificationSender) Send(_ context.Context, msg NotificationMessage) error {
	c.sent <- msg
	return c.err
}

func (c *fakeNotificationSender) wait(t *testing.T) NotificationMessage {
	t.Helper()
	select {
	case msg := <-c.sent:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatalf("expected a notification to be sent")
		return NotificationMessage{}
	}
}

func (c *fakeNotificationSender) expectNone(t *testing.T) {
	t.Helper()
	select {
	case msg := <-c.sent:
		t.Fatalf("unexpected notification: %+v", msg)
	case <-time.After(100 * time.Millisecond):
	}
}

type testServiceEnv struct {
	service   *Service
	accounts  *memoryAccountStore
	requests  *memoryRequestStore
	watchlist *memoryWatchlistStore
	catalog   *memoryCatalogStore
	activity  *memoryActivitySink
	primary   *fakePrimaryClient
	alt       *fakeAltClient
	analytics *fakeAnalyticsClient
	notifier  *fakeNotificationSender
}

func newTestService(t *testing.T, cfg Config, extra ...Option) *testServiceEnv {
	t.Helper()
	env := &testServiceEnv{
		accounts:  newMemoryAccountStore(),
		requests:  newMemoryRequestStore(),
		watchlist: newMemoryWatchlistStore(),
		catalog:   newMemoryCatalogStore(),
		activity:  &memoryActivitySink{},
		primary:   &fakePrimaryClient{accessDenied: map[string]bool{}},
		alt:       newFakeAltClient(),
		analytics: &fakeAnalyticsClient{},
		notifier:  newFakeNotificationSender(),
	}
	options := []Option{
		WithAccountStore(env.accounts),
		WithRequestStore(env.requests),
		WithWatchlistStore(env.watchlist),
		WithCatalogStore(env.catalog),
		WithActivitySink(env.activity),
		WithPrimaryProviderClient(env.primary),
		WithAltProviderClient(env.alt),
		WithAnalyticsClient(env.analytics),
		WithNotificationSender(env.notifier),
		WithClock(func() time.Time { return testNow }),
	}
	options = append(options, extra...)
	service, err := NewService(cfg, options...)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	env.service = service
	return env
}

func adminActor(id int64) Actor {
	return Actor{ID: id, Permissions: PermissionAdmin}
}
