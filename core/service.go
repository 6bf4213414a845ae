package core

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
)

// Service is the account administration core: directory listings, identity
// imports, permission changes, provisioning, and the per-account media
// surfaces (watch data, watchlist, quota).
type Service struct {
	config             Config
	logger             Logger
	loggerProvider     LoggerProvider
	metricsRecorder    MetricsRecorder
	errorFactory       ErrorFactory
	errorMapper        ErrorMapper
	persistenceClient  any
	repositoryFactory  any
	configProvider     ConfigProvider
	optionsResolver    OptionsResolver
	accounts           AccountStore
	requests           RequestStore
	watchlist          WatchlistStore
	catalog            CatalogStore
	activity           ActivitySink
	primary            PrimaryProviderClient
	alt                AltProviderClient
	analytics          AnalyticsClient
	notifications      NotificationSender
	guard              PermissionGuard
	clock              func() time.Time
}

type ServiceDependencies struct {
	Logger             Logger
	LoggerProvider     LoggerProvider
	MetricsRecorder    MetricsRecorder
	ErrorFactory       ErrorFactory
	ErrorMapper        ErrorMapper
	PersistenceClient  any
	RepositoryFactory  any
	ConfigProvider     ConfigProvider
	OptionsResolver    OptionsResolver
	AccountStore       AccountStore
	RequestStore       RequestStore
	WatchlistStore     WatchlistStore
	CatalogStore       CatalogStore
	ActivitySink       ActivitySink
	PrimaryClient      PrimaryProviderClient
	AltClient          AltProviderClient
	AnalyticsClient    AnalyticsClient
	NotificationSender NotificationSender
}

func NewService(cfg Config, options ...Option) (*Service, error) {
	builder := defaultServiceBuilder(cfg)
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	provider, logger := glog.Resolve("accounts", builder.loggerProvider, builder.logger)
	logger = glog.Ensure(logger)
	if provider != nil {
		if named := provider.GetLogger("accounts"); named != nil {
			logger = glog.Ensure(named)
		}
	}

	if builder.errorFactory == nil {
		builder.errorFactory = goerrors.New
	}
	if builder.metricsRecorder == nil {
		builder.metricsRecorder = NopMetricsRecorder{}
	}
	if builder.errorMapper == nil {
		builder.errorMapper = defaultErrorMapper
	}
	if builder.configProvider == nil {
		builder.configProvider = NewCfgxConfigProvider(nil)
	}
	if builder.optionsResolver == nil {
		builder.optionsResolver = GoOptionsResolver{}
	}
	if builder.clock == nil {
		builder.clock = time.Now
	}

	defaults := DefaultConfig()
	loaded, err := builder.configProvider.Load(context.Background(), defaults)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}
	finalConfig, err := builder.optionsResolver.Resolve(defaults, loaded, builder.runtimeConfig)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}

	if builder.accountStore == nil && builder.repositoryFactory != nil {
		if storeFactory, ok := builder.repositoryFactory.(RepositoryStoreFactory); ok {
			storeProvider, buildErr := storeFactory.BuildStores(builder.persistenceClient)
			if buildErr != nil {
				return nil, mapBuildError(builder.errorMapper, buildErr)
			}
			if storeProvider != nil {
				builder.accountStore = storeProvider.AccountStore()
				if builder.requestStore == nil {
					builder.requestStore = storeProvider.RequestStore()
				}
				if builder.watchlistStore == nil {
					builder.watchlistStore = storeProvider.WatchlistStore()
				}
				if builder.catalogStore == nil {
					builder.catalogStore = storeProvider.CatalogStore()
				}
				if builder.activitySink == nil {
					builder.activitySink = storeProvider.ActivityStore()
				}
			}
		} else if storeProvider, ok := builder.repositoryFactory.(AccountStoreProvider); ok {
			builder.accountStore = storeProvider.AccountStore()
			if builder.requestStore == nil {
				builder.requestStore = storeProvider.RequestStore()
			}
			if builder.watchlistStore == nil {
				builder.watchlistStore = storeProvider.WatchlistStore()
			}
			if builder.catalogStore == nil {
				builder.catalogStore = storeProvider.CatalogStore()
			}
			if builder.activitySink == nil {
				builder.activitySink = storeProvider.ActivityStore()
			}
		}
	}

	return &Service{
		config:            finalConfig,
		logger:            logger,
		loggerProvider:    provider,
		metricsRecorder:   builder.metricsRecorder,
		errorFactory:      builder.errorFactory,
		errorMapper:       builder.errorMapper,
		persistenceClient: builder.persistenceClient,
		repositoryFactory: builder.repositoryFactory,
		configProvider:    builder.configProvider,
		optionsResolver:   builder.optionsResolver,
		accounts:          builder.accountStore,
		requests:          builder.requestStore,
		watchlist:         builder.watchlistStore,
		catalog:           builder.catalogStore,
		activity:          builder.activitySink,
		primary:           builder.primaryClient,
		alt:               builder.altClient,
		analytics:         builder.analyticsClient,
		notifications:     builder.notificationSender,
		guard:             NewPermissionGuard(finalConfig.OwnerAccountID),
		clock:             builder.clock,
	}, nil
}

func Setup(cfg Config, options ...Option) (*Service, error) {
	return NewService(cfg, options...)
}

func mapBuildError(mapper ErrorMapper, err error) error {
	if err == nil {
		return nil
	}
	if mapper == nil {
		return err
	}
	mapped := mapper(err)
	if mapped == nil {
		return err
	}
	return mapped
}

func (s *Service) Config() Config {
	if s == nil {
		return Config{}
	}
	return s.config
}

func (s *Service) Guard() PermissionGuard {
	if s == nil {
		return NewPermissionGuard(0)
	}
	return s.guard
}

func (s *Service) Dependencies() ServiceDependencies {
	if s == nil {
		return ServiceDependencies{}
	}
	return ServiceDependencies{
		Logger:             s.logger,
		LoggerProvider:     s.loggerProvider,
		MetricsRecorder:    s.metricsRecorder,
		ErrorFactory:       s.errorFactory,
		ErrorMapper:        s.errorMapper,
		PersistenceClient:  s.persistenceClient,
		RepositoryFactory:  s.repositoryFactory,
		ConfigProvider:     s.configProvider,
		OptionsResolver:    s.optionsResolver,
		AccountStore:       s.accounts,
		RequestStore:       s.requests,
		WatchlistStore:     s.watchlist,
		CatalogStore:       s.catalog,
		ActivitySink:       s.activity,
		PrimaryClient:      s.primary,
		AltClient:          s.alt,
		AnalyticsClient:    s.analytics,
		NotificationSender: s.notifications,
	}
}

func (s *Service) mapError(err error) error {
	if err == nil {
		return nil
	}
	if s == nil || s.errorMapper == nil {
		return err
	}
	mapped := s.errorMapper(err)
	if mapped == nil {
		return err
	}
	return mapped
}

func (s *Service) now() time.Time {
	if s == nil || s.clock == nil {
		return time.Now().UTC()
	}
	return s.clock().UTC()
}

func (s *Service) recordActivity(ctx context.Context, entry ActivityEntry) {
	if s == nil || s.activity == nil {
		return
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now()
	}
	if len(entry.Detail) > 0 {
		entry.Detail = RedactSensitiveMap(entry.Detail)
	}
	if err := s.activity.Record(ctx, entry); err != nil {
		s.logError(ctx, "activity record failed", map[string]any{
			"account_id": entry.AccountID,
			"action":     entry.Action,
			"error":      err.Error(),
		})
	}
}
