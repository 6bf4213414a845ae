package sqlstore

import (
	"fmt"

	"github.com/goliatone/go-accounts/core"
	persistence "github.com/goliatone/go-persistence-bun"
	repositorycache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
)

type RepositoryFactory struct {
	db           *bun.DB
	catalogCache repositorycache.CacheService

	accountStore   *AccountStore
	requestStore   *RequestStore
	watchlistStore *WatchlistStore
	catalogStore   core.CatalogStore
	activityStore  *ActivityStore
}

type FactoryOption func(*RepositoryFactory)

// WithCatalogCache wraps the catalog store with a read-through cache.
func WithCatalogCache(cacheService repositorycache.CacheService) FactoryOption {
	return func(f *RepositoryFactory) {
		f.catalogCache = cacheService
	}
}

func NewRepositoryFactory(options ...FactoryOption) *RepositoryFactory {
	factory := &RepositoryFactory{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(factory)
	}
	return factory
}

func NewRepositoryFactoryFromPersistence(client *persistence.Client, options ...FactoryOption) (*RepositoryFactory, error) {
	factory := NewRepositoryFactory(options...)
	if _, err := factory.BuildStores(client); err != nil {
		return nil, err
	}
	return factory, nil
}

func NewRepositoryFactoryFromDB(db *bun.DB, options ...FactoryOption) (*RepositoryFactory, error) {
	factory := NewRepositoryFactory(options...)
	if _, err := factory.BuildStores(db); err != nil {
		return nil, err
	}
	return factory, nil
}

func (f *RepositoryFactory) BuildStores(persistenceClient any) (core.AccountStoreProvider, error) {
	if f == nil {
		return nil, fmt.Errorf("sqlstore: repository factory is nil")
	}
	if f.db == nil {
		db, err := resolveBunDB(persistenceClient)
		if err != nil {
			return nil, err
		}
		f.db = db
	}
	if f.accountStore != nil {
		return f, nil
	}
	if err := f.initStores(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *RepositoryFactory) DB() *bun.DB {
	if f == nil {
		return nil
	}
	return f.db
}

func (f *RepositoryFactory) AccountStore() core.AccountStore {
	if f == nil {
		return nil
	}
	return f.accountStore
}

func (f *RepositoryFactory) RequestStore() core.RequestStore {
	if f == nil {
		return nil
	}
	return f.requestStore
}

func (f *RepositoryFactory) WatchlistStore() core.WatchlistStore {
	if f == nil {
		return nil
	}
	return f.watchlistStore
}

func (f *RepositoryFactory) CatalogStore() core.CatalogStore {
	if f == nil {
		return nil
	}
	return f.catalogStore
}

func (f *RepositoryFactory) ActivityStore() core.ActivityStore {
	if f == nil {
		return nil
	}
	return f.activityStore
}

func (f *RepositoryFactory) initStores() error {
	accountStore, err := NewAccountStore(f.db)
	if err != nil {
		return err
	}
	f.accountStore = accountStore

	requestStore, err := NewRequestStore(f.db)
	if err != nil {
		return err
	}
	f.requestStore = requestStore

	watchlistStore, err := NewWatchlistStore(f.db)
	if err != nil {
		return err
	}
	f.watchlistStore = watchlistStore

	catalogStore, err := NewCatalogStore(f.db)
	if err != nil {
		return err
	}
	f.catalogStore = catalogStore
	if f.catalogCache != nil {
		cached, cacheErr := NewCachedCatalogStore(catalogStore, f.catalogCache)
		if cacheErr != nil {
			return cacheErr
		}
		f.catalogStore = cached
	}

	activityStore, err := NewActivityStore(f.db)
	if err != nil {
		return err
	}
	f.activityStore = activityStore

	return nil
}

func resolveBunDB(candidate any) (*bun.DB, error) {
	switch typed := candidate.(type) {
	case nil:
		return nil, fmt.Errorf("sqlstore: persistence client is required")
	case *bun.DB:
		return typed, nil
	case interface{ DB() *bun.DB }:
		db := typed.DB()
		if db == nil {
			return nil, fmt.Errorf("sqlstore: persistence client returned nil bun db")
		}
		return db, nil
	default:
		return nil, fmt.Errorf("sqlstore: unsupported persistence client type %T", candidate)
	}
}
