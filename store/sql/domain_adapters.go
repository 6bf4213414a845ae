package sqlstore

import (
	"time"

	"github.com/goliatone/go-accounts/core"
)

func newAccountRecord(account core.Account) *accountRecord {
	return &accountRecord{
		ID:                      account.ID,
		Email:                   account.Email,
		Username:                account.Username,
		PrimaryUsername:         account.PrimaryUsername,
		PrimaryExternalID:       account.PrimaryExternalID,
		PrimaryToken:            account.PrimaryToken,
		AltUsername:             account.AltUsername,
		AltExternalID:           account.AltExternalID,
		AltDeviceID:             account.AltDeviceID,
		Kind:                    string(account.Kind),
		Permissions:             int64(account.Permissions),
		AvatarURL:               account.AvatarURL,
		SubscriptionStatus:      account.SubscriptionStatus,
		SubscriptionExpiresAt:   cloneTimePointer(account.SubscriptionExpiresAt),
		SuspiciousActivityCount: account.SuspiciousActivityCount,
		MovieQuotaLimit:         account.MovieQuotaLimit,
		MovieQuotaDays:          account.MovieQuotaDays,
		TVQuotaLimit:            account.TVQuotaLimit,
		TVQuotaDays:             account.TVQuotaDays,
		CreatedAt:               account.CreatedAt,
		UpdatedAt:               account.UpdatedAt,
	}
}

func (r *accountRecord) toDomain() core.Account {
	if r == nil {
		return core.Account{}
	}
	return core.Account{
		ID:                      r.ID,
		Email:                   r.Email,
		Username:                r.Username,
		PrimaryUsername:         r.PrimaryUsername,
		PrimaryExternalID:       r.PrimaryExternalID,
		PrimaryToken:            r.PrimaryToken,
		AltUsername:             r.AltUsername,
		AltExternalID:           r.AltExternalID,
		AltDeviceID:             r.AltDeviceID,
		Kind:                    core.AccountKind(r.Kind),
		Permissions:             core.Permission(r.Permissions),
		AvatarURL:               r.AvatarURL,
		SubscriptionStatus:      r.SubscriptionStatus,
		SubscriptionExpiresAt:   cloneTimePointer(r.SubscriptionExpiresAt),
		SuspiciousActivityCount: r.SuspiciousActivityCount,
		MovieQuotaLimit:         r.MovieQuotaLimit,
		MovieQuotaDays:          r.MovieQuotaDays,
		TVQuotaLimit:            r.TVQuotaLimit,
		TVQuotaDays:             r.TVQuotaDays,
		CreatedAt:               r.CreatedAt,
		UpdatedAt:               r.UpdatedAt,
	}
}

func (r *accountSettingsRecord) toDomain() core.AccountSettings {
	if r == nil {
		return core.AccountSettings{}
	}
	return core.AccountSettings{
		ID:        r.ID,
		AccountID: r.AccountID,
		Locale:    r.Locale,
		Region:    r.Region,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func (r *mediaRequestRecord) toDomain() core.MediaRequest {
	if r == nil {
		return core.MediaRequest{}
	}
	return core.MediaRequest{
		ID:        r.ID,
		AccountID: r.AccountID,
		MediaKind: core.MediaKind(r.MediaKind),
		Title:     r.Title,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func (r *watchlistEntryRecord) toDomain() core.WatchlistEntry {
	if r == nil {
		return core.WatchlistEntry{}
	}
	return core.WatchlistEntry{
		ID:        r.ID,
		AccountID: r.AccountID,
		RatingKey: r.RatingKey,
		Title:     r.Title,
		MediaKind: core.MediaKind(r.MediaKind),
		CatalogID: r.CatalogID,
		CreatedAt: r.CreatedAt,
	}
}

func (r *mediaCatalogItemRecord) toDomain() core.MediaCatalogItem {
	if r == nil {
		return core.MediaCatalogItem{}
	}
	return core.MediaCatalogItem{
		ID:          r.ID,
		Title:       r.Title,
		MediaKind:   core.MediaKind(r.MediaKind),
		RatingKey:   r.RatingKey,
		RatingKey4K: r.RatingKey4K,
		CatalogID:   r.CatalogID,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func (r *activityEntryRecord) toDomain() core.ActivityEntry {
	if r == nil {
		return core.ActivityEntry{}
	}
	return core.ActivityEntry{
		ID:        r.ID,
		AccountID: r.AccountID,
		Action:    r.Action,
		ActorID:   r.ActorID,
		Detail:    copyAnyMap(r.Detail),
		CreatedAt: r.CreatedAt,
	}
}

func cloneTimePointer(input *time.Time) *time.Time {
	if input == nil {
		return nil
	}
	value := input.UTC()
	return &value
}

func copyAnyMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}
