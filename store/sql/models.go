package sqlstore

import (
	"time"

	"github.com/uptrace/bun"
)

type accountRecord struct {
	bun.BaseModel `bun:"table:accounts,alias:a"`

	ID                      int64      `bun:"id,pk,autoincrement"`
	Email                   string     `bun:"email,notnull"`
	Username                string     `bun:"username"`
	PrimaryUsername         string     `bun:"primary_username"`
	PrimaryExternalID       string     `bun:"primary_external_id"`
	PrimaryToken            string     `bun:"primary_token"`
	AltUsername             string     `bun:"alt_username"`
	AltExternalID           string     `bun:"alt_external_id"`
	AltDeviceID             string     `bun:"alt_device_id"`
	Kind                    string     `bun:"kind,notnull"`
	Permissions             int64      `bun:"permissions,notnull"`
	AvatarURL               string     `bun:"avatar_url"`
	SubscriptionStatus      string     `bun:"subscription_status"`
	SubscriptionExpiresAt   *time.Time `bun:"subscription_expires_at,nullzero"`
	SuspiciousActivityCount int        `bun:"suspicious_activity_count,notnull"`
	MovieQuotaLimit         int        `bun:"movie_quota_limit,notnull"`
	MovieQuotaDays          int        `bun:"movie_quota_days,notnull"`
	TVQuotaLimit            int        `bun:"tv_quota_limit,notnull"`
	TVQuotaDays             int        `bun:"tv_quota_days,notnull"`
	CreatedAt               time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt               time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp"`

	// Populated by the directory listing subquery; never written.
	RequestCount int `bun:"request_count,scanonly"`
}

type accountSettingsRecord struct {
	bun.BaseModel `bun:"table:account_settings,alias:as"`

	ID        string    `bun:"id,pk"`
	AccountID int64     `bun:"account_id,notnull,unique"`
	Locale    string    `bun:"locale,notnull"`
	Region    string    `bun:"region"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

type mediaRequestRecord struct {
	bun.BaseModel `bun:"table:media_requests,alias:mr"`

	ID        string    `bun:"id,pk"`
	AccountID int64     `bun:"account_id,notnull"`
	MediaKind string    `bun:"media_kind,notnull"`
	Title     string    `bun:"title"`
	Status    string    `bun:"status,notnull"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

type watchlistEntryRecord struct {
	bun.BaseModel `bun:"table:watchlist_entries,alias:we"`

	ID        string    `bun:"id,pk"`
	AccountID int64     `bun:"account_id,notnull"`
	RatingKey string    `bun:"rating_key,notnull"`
	Title     string    `bun:"title"`
	MediaKind string    `bun:"media_kind,notnull"`
	CatalogID string    `bun:"catalog_id"`
	Position  int       `bun:"position,notnull"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

type mediaCatalogItemRecord struct {
	bun.BaseModel `bun:"table:media_catalog_items,alias:mci"`

	ID          string    `bun:"id,pk"`
	Title       string    `bun:"title,notnull"`
	MediaKind   string    `bun:"media_kind,notnull"`
	RatingKey   string    `bun:"rating_key,notnull"`
	RatingKey4K string    `bun:"rating_key_4k"`
	CatalogID   string    `bun:"catalog_id"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

type activityEntryRecord struct {
	bun.BaseModel `bun:"table:account_activity_entries,alias:aae"`

	ID        string         `bun:"id,pk"`
	AccountID int64          `bun:"account_id,notnull"`
	Action    string         `bun:"action,notnull"`
	ActorID   int64          `bun:"actor_id,notnull"`
	Detail    map[string]any `bun:"detail,type:jsonb"`
	CreatedAt time.Time      `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}
