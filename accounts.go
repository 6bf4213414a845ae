package accounts

import "github.com/goliatone/go-accounts/core"

type Config = core.Config

type QuotaConfig = core.QuotaConfig

type Option = core.Option

type Service = core.Service

type ServiceDependencies = core.ServiceDependencies
type AccountStore = core.AccountStore
type RequestStore = core.RequestStore
type WatchlistStore = core.WatchlistStore
type CatalogStore = core.CatalogStore
type ActivityStore = core.ActivityStore
type PrimaryProviderClient = core.PrimaryProviderClient
type AltProviderClient = core.AltProviderClient
type AnalyticsClient = core.AnalyticsClient
type NotificationSender = core.NotificationSender

type Actor = core.Actor
type Account = core.Account
type AccountView = core.AccountView
type Permission = core.Permission

type CreateLocalAccountRequest = core.CreateLocalAccountRequest
type UpdatePermissionsRequest = core.UpdatePermissionsRequest
type UpdateAccountRequest = core.UpdateAccountRequest
type ImportFromPrimaryRequest = core.ImportFromPrimaryRequest
type ImportFromAltRequest = core.ImportFromAltRequest
type ProvisionLinkedAccountRequest = core.ProvisionLinkedAccountRequest
type ListAccountsRequest = core.ListAccountsRequest
type ListAccountRequestsRequest = core.ListAccountRequestsRequest

var (
	WithLogger                = core.WithLogger
	WithLoggerProvider        = core.WithLoggerProvider
	WithMetricsRecorder       = core.WithMetricsRecorder
	WithErrorFactory          = core.WithErrorFactory
	WithErrorMapper           = core.WithErrorMapper
	WithPersistenceClient     = core.WithPersistenceClient
	WithRepositoryFactory     = core.WithRepositoryFactory
	WithConfigProvider        = core.WithConfigProvider
	WithOptionsResolver       = core.WithOptionsResolver
	WithAccountStore          = core.WithAccountStore
	WithRequestStore          = core.WithRequestStore
	WithWatchlistStore        = core.WithWatchlistStore
	WithCatalogStore          = core.WithCatalogStore
	WithActivitySink          = core.WithActivitySink
	WithPrimaryProviderClient = core.WithPrimaryProviderClient
	WithAltProviderClient     = core.WithAltProviderClient
	WithAnalyticsClient       = core.WithAnalyticsClient
	WithNotificationSender    = core.WithNotificationSender
	WithClock                 = core.WithClock
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}

func NewService(cfg Config, opts ...Option) (*Service, error) {
	return core.NewService(cfg, opts...)
}

func Setup(cfg Config, opts ...Option) (*Service, error) {
	return core.Setup(cfg, opts...)
}
