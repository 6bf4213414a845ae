package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidAccountKind           = errors.New("core: invalid account kind")
	ErrInvalidAccountKindTransition = errors.New("core: invalid account kind transition")
	ErrInvalidMediaKind             = errors.New("core: invalid media kind")
	ErrRemoteNotFound               = errors.New("core: remote resource not found")
)

// AccountKind records which identity source owns an account. Local accounts
// may be promoted to a provider kind exactly once; provider-backed accounts
// never change kind again.
type AccountKind string

const (
	AccountKindLocal      AccountKind = "local"
	AccountKindPrimary    AccountKind = "primary"
	AccountKindAlt        AccountKind = "alt"
	AccountKindAltVariant AccountKind = "alt_variant"
)

func (k AccountKind) Validate() error {
	switch k {
	case AccountKindLocal, AccountKindPrimary, AccountKindAlt, AccountKindAltVariant:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidAccountKind, string(k))
}

func accountKindTransitionAllowed(current, next AccountKind) bool {
	allowed := map[AccountKind]map[AccountKind]struct{}{
		AccountKindLocal: {
			AccountKindPrimary:    {},
			AccountKindAlt:        {},
			AccountKindAltVariant: {},
		},
	}
	_, ok := allowed[current][next]
	return ok
}

// Permission is a bitmask of account capabilities.
type Permission uint32

const (
	PermissionNone           Permission = 0
	PermissionAdmin          Permission = 1 << 1
	PermissionManageAccounts Permission = 1 << 2
	PermissionManageRequests Permission = 1 << 3
	PermissionRequest        Permission = 1 << 4
	PermissionAutoApprove    Permission = 1 << 5
	PermissionViewRequests   Permission = 1 << 6
	PermissionViewWatchlists Permission = 1 << 7
)

func (p Permission) Has(flag Permission) bool {
	if p&PermissionAdmin != 0 {
		return true
	}
	return p&flag == flag
}

// HasExactly ignores the admin wildcard and checks the raw bits.
func (p Permission) HasExactly(flag Permission) bool {
	return p&flag == flag
}

func (p Permission) Add(flag Permission) Permission {
	return p | flag
}

func (p Permission) Remove(flag Permission) Permission {
	return p &^ flag
}

type MediaKind string

const (
	MediaKindMovie MediaKind = "movie"
	MediaKindTV    MediaKind = "tv"
)

func (k MediaKind) Validate() error {
	switch k {
	case MediaKindMovie, MediaKindTV:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidMediaKind, string(k))
}

// MediaKindFromProviderTag maps the primary provider's raw media tag onto
// the local kind: "show" means a series, everything else a movie.
func MediaKindFromProviderTag(tag string) MediaKind {
	if strings.EqualFold(strings.TrimSpace(tag), "show") {
		return MediaKindTV
	}
	return MediaKindMovie
}

type Account struct {
	ID                      int64
	Email                   string
	Username                string
	PrimaryUsername         string
	PrimaryExternalID       string
	PrimaryToken            string
	AltUsername             string
	AltExternalID           string
	AltDeviceID             string
	Kind                    AccountKind
	Permissions             Permission
	AvatarURL               string
	SubscriptionStatus      string
	SubscriptionExpiresAt   *time.Time
	SuspiciousActivityCount int
	MovieQuotaLimit         int
	MovieQuotaDays          int
	TVQuotaLimit            int
	TVQuotaDays             int
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// DisplayName resolves the name shown for an account: the locally set
// username wins, then the primary provider username, then the alt provider
// username, then the email address.
func (a Account) DisplayName() string {
	for _, candidate := range []string{a.Username, a.PrimaryUsername, a.AltUsername} {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}
	return a.Email
}

// PromoteKind moves a local account onto a provider identity. Promotion is
// one way: once an account is provider backed its kind is frozen.
func (a *Account) PromoteKind(next AccountKind, now time.Time) error {
	if a == nil {
		return nil
	}
	if err := next.Validate(); err != nil {
		return err
	}
	if a.Kind == next {
		return nil
	}
	if !accountKindTransitionAllowed(a.Kind, next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidAccountKindTransition, a.Kind, next)
	}
	a.Kind = next
	a.UpdatedAt = now
	return nil
}

// HasLinkedIdentity reports whether the account carries an external
// provider identity usable for watch data and watchlist lookups.
func (a Account) HasLinkedIdentity() bool {
	return strings.TrimSpace(a.PrimaryExternalID) != ""
}

type AccountSettings struct {
	ID        string
	AccountID int64
	Locale    string
	Region    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type MediaRequest struct {
	ID        string
	AccountID int64
	MediaKind MediaKind
	Title     string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type WatchlistEntry struct {
	ID        string
	AccountID int64
	RatingKey string
	Title     string
	MediaKind MediaKind
	CatalogID string
	CreatedAt time.Time
}

// MediaCatalogItem is a locally known media title keyed by the provider
// rating keys discovered during library scans. RatingKey4K is set when the
// title also exists in a high definition library section.
type MediaCatalogItem struct {
	ID          string
	Title       string
	MediaKind   MediaKind
	RatingKey   string
	RatingKey4K string
	CatalogID   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// MatchesRatingKey reports whether key identifies this item in either the
// standard or the high definition library section.
func (m MediaCatalogItem) MatchesRatingKey(key string) bool {
	key = strings.TrimSpace(key)
	if key == "" {
		return false
	}
	return key == m.RatingKey || key == m.RatingKey4K
}

const (
	WatchHistoryKindMovie   = "movie"
	WatchHistoryKindEpisode = "episode"
)

// WatchHistoryRecord is one playback event reported by the analytics
// service, most recent first.
type WatchHistoryRecord struct {
	Kind                 string
	RatingKey            string
	GrandparentRatingKey string
	WatchedAt            time.Time
}

// SubjectRatingKey picks the key that identifies the watched title: the
// item itself for movies, the owning series for episodes.
func (r WatchHistoryRecord) SubjectRatingKey() string {
	if r.Kind == WatchHistoryKindEpisode {
		return r.GrandparentRatingKey
	}
	return r.RatingKey
}

type ActivityEntry struct {
	ID        string
	AccountID int64
	Action    string
	ActorID   int64
	Detail    map[string]any
	CreatedAt time.Time
}

type ActivityPage struct {
	PageInfo PageInfo        `json:"pageInfo"`
	Results  []ActivityEntry `json:"results"`
}
