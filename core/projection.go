package core

import "time"

// AccountView is the caller-facing projection of an account. Fields marked
// privileged are zeroed unless the caller holds account management rights
// or is looking at their own record. Credential material never leaves the
// core.
type AccountView struct {
	ID                      int64       `json:"id"`
	DisplayName             string      `json:"displayName"`
	AvatarURL               string      `json:"avatar,omitempty"`
	Kind                    AccountKind `json:"kind"`
	RequestCount            int         `json:"requestCount"`
	CreatedAt               time.Time   `json:"createdAt"`
	UpdatedAt               time.Time   `json:"updatedAt"`
	Email                   string      `json:"email,omitempty"`
	Username                string      `json:"username,omitempty"`
	PrimaryUsername         string      `json:"primaryUsername,omitempty"`
	Permissions             *Permission `json:"permissions,omitempty"`
	SubscriptionStatus      string      `json:"subscriptionStatus,omitempty"`
	SubscriptionExpiresAt   *time.Time  `json:"subscriptionExpiresAt,omitempty"`
	SuspiciousActivityCount *int        `json:"suspiciousActivityCount,omitempty"`
}

// ProjectAccount renders an account for the given caller. Elevated callers
// and the account holder see the full record; everyone else gets the
// public subset.
func ProjectAccount(account Account, requestCount int, caller Actor) AccountView {
	view := AccountView{
		ID:           account.ID,
		DisplayName:  account.DisplayName(),
		AvatarURL:    account.AvatarURL,
		Kind:         account.Kind,
		RequestCount: requestCount,
		CreatedAt:    account.CreatedAt,
		UpdatedAt:    account.UpdatedAt,
	}
	if !callerSeesPrivileged(account, caller) {
		return view
	}
	permissions := account.Permissions
	suspicious := account.SuspiciousActivityCount
	view.Email = account.Email
	view.Username = account.Username
	view.PrimaryUsername = account.PrimaryUsername
	view.Permissions = &permissions
	view.SubscriptionStatus = account.SubscriptionStatus
	view.SubscriptionExpiresAt = account.SubscriptionExpiresAt
	view.SuspiciousActivityCount = &suspicious
	return view
}

func callerSeesPrivileged(account Account, caller Actor) bool {
	if caller.ID == account.ID {
		return true
	}
	return caller.Can(PermissionManageAccounts)
}
