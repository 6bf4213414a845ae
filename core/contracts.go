package core

import (
	"context"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

// Actor identifies the authenticated caller of an operation. Authentication
// itself happens upstream; operations only consume the resolved identity.
type Actor struct {
	ID          int64
	Permissions Permission
}

func (a Actor) Can(flag Permission) bool {
	return a.Permissions.Has(flag)
}

type CreateAccountInput struct {
	Email             string
	Username          string
	PrimaryUsername   string
	PrimaryExternalID string
	PrimaryToken      string
	AltUsername       string
	AltExternalID     string
	AltDeviceID       string
	Kind              AccountKind
	Permissions       Permission
	AvatarURL         string
	Locale            string
	Region            string
}

type UpdateAccountInput struct {
	ID              int64
	Username        *string
	Email           *string
	Permissions     *Permission
	AvatarURL       *string
	MovieQuotaLimit *int
	MovieQuotaDays  *int
	TVQuotaLimit    *int
	TVQuotaDays     *int
}

type AccountSortKey string

const (
	AccountSortCreated                AccountSortKey = "created"
	AccountSortUpdated                AccountSortKey = "updated"
	AccountSortDisplayName            AccountSortKey = "displayname"
	AccountSortRequests               AccountSortKey = "requests"
	AccountSortSubscriptionStatus     AccountSortKey = "subscription_status"
	AccountSortSubscriptionExpiration AccountSortKey = "subscription_expiration"
	AccountSortSuspiciousActivity     AccountSortKey = "suspicious_activity"
)

type ListAccountsInput struct {
	Take int
	Skip int
	Sort AccountSortKey
}

// AccountWithRequestCount pairs an account with its lifetime request count
// so directory listings do not issue one count query per row.
type AccountWithRequestCount struct {
	Account      Account
	RequestCount int
}

// AccountStore persists accounts and their settings. Create writes the
// account row and its settings row in one transaction.
type AccountStore interface {
	Create(ctx context.Context, in CreateAccountInput) (Account, error)
	Get(ctx context.Context, id int64) (Account, error)
	GetByEmail(ctx context.Context, email string) (Account, error)
	GetByPrimaryExternalID(ctx context.Context, externalID string) (Account, error)
	GetByAltExternalID(ctx context.Context, externalID string) (Account, error)
	List(ctx context.Context, in ListAccountsInput) ([]AccountWithRequestCount, int, error)
	Update(ctx context.Context, account Account) (Account, error)
	Delete(ctx context.Context, id int64) error
	GetSettings(ctx context.Context, accountID int64) (AccountSettings, error)
	UpdateSettings(ctx context.Context, settings AccountSettings) (AccountSettings, error)
}

type RequestStore interface {
	ListByAccount(ctx context.Context, accountID int64, take, skip int) ([]MediaRequest, int, error)
	CountByAccountSince(ctx context.Context, accountID int64, kind MediaKind, since time.Time) (int, error)
	DeleteByAccount(ctx context.Context, accountID int64) (int, error)
}

type WatchlistStore interface {
	ListByAccount(ctx context.Context, accountID int64, take, skip int) ([]WatchlistEntry, int, error)
	ReplaceForAccount(ctx context.Context, accountID int64, entries []WatchlistEntry) error
}

type CatalogStore interface {
	FindByRatingKeys(ctx context.Context, keys []string) ([]MediaCatalogItem, error)
}

type ActivitySink interface {
	Record(ctx context.Context, entry ActivityEntry) error
}

type ListActivityInput struct {
	AccountID int64
	Take      int
	Skip      int
}

type ActivityStore interface {
	ActivitySink
	List(ctx context.Context, in ListActivityInput) ([]ActivityEntry, int, error)
}

// RemotePrimaryAccount is an account visible on the primary media provider
// through the owner's credential.
type RemotePrimaryAccount struct {
	ExternalID string
	Email      string
	Username   string
	AvatarURL  string
}

type RemoteWatchlistItem struct {
	RatingKey string
	Title     string
	// MediaTag is the provider's raw media type tag ("show", "movie").
	MediaTag  string
	CatalogID string
}

type RemoteWatchlistPage struct {
	Items     []RemoteWatchlistItem
	TotalSize int
	Offset    int
}

// PrimaryProviderClient talks to the primary media provider on behalf of a
// stored account credential.
type PrimaryProviderClient interface {
	ListSharedAccounts(ctx context.Context, token string) ([]RemotePrimaryAccount, error)
	VerifyAccess(ctx context.Context, token string, externalID string) (bool, error)
	GetWatchlist(ctx context.Context, token string, offset, limit int) (RemoteWatchlistPage, error)
}

type RemoteAltUser struct {
	ExternalID string
	Username   string
	DeviceID   string
}

// AltProviderClient manages user records on the alternative media server.
// DeleteUser returns an error matching ErrRemoteNotFound when the remote
// user is already gone.
type AltProviderClient interface {
	ListUsers(ctx context.Context) ([]RemoteAltUser, error)
	CreateUser(ctx context.Context, username, password string) (RemoteAltUser, error)
	DeleteUser(ctx context.Context, externalID string) error
	ResetPassword(ctx context.Context, externalID, password string) error
}

type AnalyticsAccountRef struct {
	ExternalID string
}

// AnalyticsClient reads playback statistics from the watch analytics
// service.
type AnalyticsClient interface {
	GetPlayCount(ctx context.Context, ref AnalyticsAccountRef) (int, error)
	GetWatchHistory(ctx context.Context, ref AnalyticsAccountRef) ([]WatchHistoryRecord, error)
}

type NotificationMessage struct {
	Type      string
	Recipient string
	Subject   string
	Fields    map[string]string
}

const (
	NotificationTypeWelcome       = "account.welcome"
	NotificationTypePasswordReset = "account.password_reset"
)

// NotificationSender delivers account lifecycle notifications. Delivery is
// best effort; callers log failures and move on.
type NotificationSender interface {
	Send(ctx context.Context, msg NotificationMessage) error
}

// AccountStoreProvider exposes the persistence-backed stores built by a
// repository factory.
type AccountStoreProvider interface {
	AccountStore() AccountStore
	RequestStore() RequestStore
	WatchlistStore() WatchlistStore
	CatalogStore() CatalogStore
	ActivityStore() ActivityStore
}

type RepositoryStoreFactory interface {
	BuildStores(persistenceClient any) (AccountStoreProvider, error)
}

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}

type JobExecutionMessage struct {
	JobID          string
	ScriptPath     string
	Parameters     map[string]any
	IdempotencyKey string
	DedupPolicy    string
}

type JobNackOptions struct {
	Delay      time.Duration
	Requeue    bool
	DeadLetter bool
	Reason     string
}

type JobEnqueuer interface {
	Enqueue(ctx context.Context, msg *JobExecutionMessage) error
}

type JobDelivery interface {
	Message() *JobExecutionMessage
	Ack(ctx context.Context) error
	Nack(ctx context.Context, opts JobNackOptions) error
}

type JobDequeuer interface {
	Dequeue(ctx context.Context) (JobDelivery, error)
}

type JobWorkerHook interface {
	OnStart(ctx context.Context, event JobWorkerEvent)
	OnSuccess(ctx context.Context, event JobWorkerEvent)
	OnFailure(ctx context.Context, event JobWorkerEvent)
	OnRetry(ctx context.Context, event JobWorkerEvent)
}

type JobWorkerEvent struct {
	Message   *JobExecutionMessage
	Attempt   int
	Delay     time.Duration
	Err       error
	StartedAt time.Time
	Duration  time.Duration
}
