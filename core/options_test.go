package core

import (
	"context"
	stderrors "errors"
	"testing"
)

type fixedConfigProvider struct {
	cfg Config
	err error
}

func (p *fixedConfigProvider) Load(context.Context, Config) (Config, error) {
	if p.err != nil {
		return Config{}, p.err
	}
	return p.cfg, nil
}

type fixedOptionsResolver struct {
	cfg Config
}

func (r *fixedOptionsResolver) Resolve(Config, Config, Config) (Config, error) {
	return r.cfg, nil
}

type fixedStoreProvider struct {
	accounts  AccountStore
	requests  RequestStore
	watchlist WatchlistStore
	catalog   CatalogStore
	activity  ActivityStore
}

func (p *fixedStoreProvider) AccountStore() AccountStore     { return p.accounts }
func (p *fixedStoreProvider) RequestStore() RequestStore     { return p.requests }
func (p *fixedStoreProvider) WatchlistStore() WatchlistStore { return p.watchlist }
func (p *fixedStoreProvider) CatalogStore() CatalogStore     { return p.catalog }
func (p *fixedStoreProvider) ActivityStore() ActivityStore   { return p.activity }

type recordingStoreFactory struct {
	provider *fixedStoreProvider
	client   any
	calls    int
}

func (f *recordingStoreFactory) BuildStores(persistenceClient any) (AccountStoreProvider, error) {
	f.calls++
	f.client = persistenceClient
	return f.provider, nil
}

type memoryActivityStore struct {
	memoryActivitySink
}

func (s *memoryActivityStore) List(_ context.Context, in ListActivityInput) ([]ActivityEntry, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	matched := []ActivityEntry{}
	for _, entry := range s.entries {
		if in.AccountID == 0 || entry.AccountID == in.AccountID {
			matched = append(matched, entry)
		}
	}
	total := len(matched)
	skip := in.Skip
	if skip > total {
		skip = total
	}
	matched = matched[skip:]
	if in.Take > 0 && len(matched) > in.Take {
		matched = matched[:in.Take]
	}
	return matched, total, nil
}

func TestNewService_DefaultDependencies(t *testing.T) {
	svc, err := NewService(Config{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	deps := svc.Dependencies()
	if deps.Logger == nil {
		t.Fatalf("expected default logger")
	}
	if deps.ErrorFactory == nil {
		t.Fatalf("expected default error factory")
	}
	if deps.ErrorMapper == nil {
		t.Fatalf("expected default error mapper")
	}
	if deps.ConfigProvider == nil {
		t.Fatalf("expected default config provider")
	}
	if deps.OptionsResolver == nil {
		t.Fatalf("expected default options resolver")
	}
	if got := svc.Config().ServiceName; got != "accounts" {
		t.Fatalf("default service name = %q", got)
	}
	if got := svc.Guard().OwnerID(); got != 1 {
		t.Fatalf("default owner id = %d", got)
	}
}

func TestNewService_BuildsStoresFromRepositoryFactory(t *testing.T) {
	factory := &recordingStoreFactory{
		provider: &fixedStoreProvider{
			accounts:  newMemoryAccountStore(),
			requests:  newMemoryRequestStore(),
			watchlist: newMemoryWatchlistStore(),
			catalog:   newMemoryCatalogStore(),
			activity:  &memoryActivityStore{},
		},
	}
	client := &struct{ Name string }{Name: "persistence"}

	svc, err := NewService(Config{},
		WithPersistenceClient(client),
		WithRepositoryFactory(factory),
	)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if factory.calls != 1 {
		t.Fatalf("factory calls = %d", factory.calls)
	}
	if factory.client != client {
		t.Fatalf("persistence client not passed to factory")
	}
	deps := svc.Dependencies()
	if deps.AccountStore != factory.provider.accounts {
		t.Fatalf("account store not wired from factory")
	}
	if deps.RequestStore != factory.provider.requests {
		t.Fatalf("request store not wired from factory")
	}
	if deps.ActivitySink != factory.provider.activity {
		t.Fatalf("activity sink not wired from factory")
	}
}

func TestNewService_ExplicitStoresWinOverFactory(t *testing.T) {
	explicit := newMemoryAccountStore()
	factory := &recordingStoreFactory{provider: &fixedStoreProvider{accounts: newMemoryAccountStore()}}

	svc, err := NewService(Config{},
		WithAccountStore(explicit),
		WithRepositoryFactory(factory),
	)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if factory.calls != 0 {
		t.Fatalf("factory should not run when an account store is supplied")
	}
	if svc.Dependencies().AccountStore != explicit {
		t.Fatalf("explicit account store was replaced")
	}
}

func TestNewService_ConfigProviderFailureIsMapped(t *testing.T) {
	provider := &fixedConfigProvider{err: stderrors.New("config backend not found")}
	_, err := NewService(Config{}, WithConfigProvider(provider))
	if err == nil {
		t.Fatalf("expected config load failure")
	}
	assertTextCode(t, err, AccountsErrorNotFound)
}

func TestCfgxConfigProvider_MergesRawOverDefaults(t *testing.T) {
	provider := NewCfgxConfigProvider(staticRawConfigLoader{Values: map[string]any{
		"owner_account_id": int64(7),
		"default_locale":   "de",
	}})
	cfg, err := provider.Load(context.Background(), DefaultConfig())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.OwnerAccountID != 7 {
		t.Fatalf("owner id = %d", cfg.OwnerAccountID)
	}
	if cfg.DefaultLocale != "de" {
		t.Fatalf("locale = %q", cfg.DefaultLocale)
	}
	if cfg.ServiceName != "accounts" {
		t.Fatalf("defaults should fill unset fields, got service name %q", cfg.ServiceName)
	}
}

func TestGoOptionsResolver_RuntimeWinsOverLoaded(t *testing.T) {
	defaults := DefaultConfig()
	loaded := Config{DefaultLocale: "de", ApplicationURL: "http://loaded.local"}
	runtime := Config{DefaultLocale: "fr"}

	resolved, err := GoOptionsResolver{}.Resolve(defaults, loaded, runtime)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.DefaultLocale != "fr" {
		t.Fatalf("locale = %q, want runtime value", resolved.DefaultLocale)
	}
	if resolved.ApplicationURL != "http://loaded.local" {
		t.Fatalf("application url = %q, want loaded value", resolved.ApplicationURL)
	}
	if resolved.ServiceName != "accounts" {
		t.Fatalf("service name = %q, want default", resolved.ServiceName)
	}
	if resolved.OwnerAccountID != 1 {
		t.Fatalf("owner id = %d, want default", resolved.OwnerAccountID)
	}
}

func TestGoOptionsResolver_ZeroRuntimeKeepsDefaults(t *testing.T) {
	resolved, err := GoOptionsResolver{}.Resolve(DefaultConfig(), Config{}, Config{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved != DefaultConfig() {
		t.Fatalf("resolved = %+v, want defaults", resolved)
	}
}

func TestGoOptionsResolver_RejectsInvalidMerge(t *testing.T) {
	_, err := GoOptionsResolver{}.Resolve(DefaultConfig(), Config{}, Config{AltServerMode: "bogus"})
	if err == nil {
		t.Fatalf("expected validation failure for unknown alt server mode")
	}
}
