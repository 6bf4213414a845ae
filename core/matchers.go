package core

import (
	"context"
	"strings"
	"unicode"
)

// RemoteIdentity is a provider-side account as seen during an import run.
type RemoteIdentity struct {
	ExternalID string
	Email      string
	Username   string
	AvatarURL  string
	DeviceID   string
}

// matchPrimaryIdentity finds the local account for a primary provider
// identity: first by stored external id, then by case-insensitive email.
// The email fallback is what lets a pre-existing local account adopt a
// provider identity instead of spawning a duplicate.
func matchPrimaryIdentity(ctx context.Context, store AccountStore, remote RemoteIdentity) (Account, bool, error) {
	if externalID := strings.TrimSpace(remote.ExternalID); externalID != "" {
		account, err := store.GetByPrimaryExternalID(ctx, externalID)
		if err == nil {
			return account, true, nil
		}
		if !isNotFound(err) {
			return Account{}, false, err
		}
	}
	if email := normalizeEmail(remote.Email); email != "" {
		account, err := store.GetByEmail(ctx, email)
		if err == nil {
			return account, true, nil
		}
		if !isNotFound(err) {
			return Account{}, false, err
		}
	}
	return Account{}, false, nil
}

// matchAltIdentity finds the local account for an alt server identity by
// its stored external id. Alt servers do not expose emails, so there is no
// email fallback.
func matchAltIdentity(ctx context.Context, store AccountStore, remote RemoteIdentity) (Account, bool, error) {
	externalID := strings.TrimSpace(remote.ExternalID)
	if externalID == "" {
		return Account{}, false, nil
	}
	account, err := store.GetByAltExternalID(ctx, externalID)
	if err == nil {
		return account, true, nil
	}
	if !isNotFound(err) {
		return Account{}, false, err
	}
	return Account{}, false, nil
}

// DeriveDisplayName turns an alt server login into a readable name. Dotted
// logins are treated as first.last: "john.doe" becomes "John DOE". Logins
// without a dot just get their first letter capitalized.
func DeriveDisplayName(username string) string {
	username = strings.TrimSpace(username)
	if username == "" {
		return ""
	}
	if !strings.Contains(username, ".") {
		return capitalizeFirst(username)
	}
	parts := strings.Split(username, ".")
	first := capitalizeFirst(parts[0])
	last := strings.ToUpper(parts[len(parts)-1])
	switch {
	case first == "":
		return last
	case last == "":
		return first
	}
	return first + " " + last
}

func capitalizeFirst(value string) string {
	if value == "" {
		return ""
	}
	runes := []rune(value)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
