package core

import (
	"context"
	"strings"
)

type ImportFromPrimaryRequest struct {
	Actor Actor
	// ExternalIDs limits the import to the listed provider accounts. Empty
	// means import every shared account that passes the access check.
	ExternalIDs []string
}

// ImportFromPrimary pulls the accounts shared with the owner on the
// primary provider. Known identities are refreshed in place, local
// accounts matching by email are promoted onto their provider identity,
// and unknown identities are created after a live access check. Only newly
// created accounts are returned.
func (s *Service) ImportFromPrimary(ctx context.Context, req ImportFromPrimaryRequest) (created []Account, err error) {
	startedAt := s.now()
	fields := map[string]any{
		"actor_id": req.Actor.ID,
		"kind":     string(AccountKindPrimary),
	}
	defer func() {
		s.observeOperation(ctx, startedAt, "import_from_primary", err, fields)
	}()

	if !s.guard.CanAdministerAccounts(req.Actor) {
		err = s.mapError(forbiddenError("importing accounts requires account management"))
		return nil, err
	}
	if s.primary == nil {
		err = s.mapError(notConfiguredError("primary provider is not configured"))
		return nil, err
	}
	owner, getErr := s.accounts.Get(ctx, s.config.OwnerAccountID)
	if getErr != nil {
		err = s.mapError(getErr)
		return nil, err
	}
	token := strings.TrimSpace(owner.PrimaryToken)
	if token == "" {
		err = s.mapError(notConfiguredError("owner account has no linked provider credential"))
		return nil, err
	}

	remotes, listErr := s.primary.ListSharedAccounts(ctx, token)
	if listErr != nil {
		err = s.mapError(upstreamError(listErr, "listing shared accounts failed"))
		return nil, err
	}

	requested := map[string]struct{}{}
	for _, id := range req.ExternalIDs {
		if id = strings.TrimSpace(id); id != "" {
			requested[id] = struct{}{}
		}
	}

	created = []Account{}
	for _, remote := range remotes {
		if normalizeEmail(remote.Email) == "" {
			continue
		}
		identity := RemoteIdentity{
			ExternalID: remote.ExternalID,
			Email:      remote.Email,
			Username:   remote.Username,
			AvatarURL:  remote.AvatarURL,
		}

		existing, matched, matchErr := matchPrimaryIdentity(ctx, s.accounts, identity)
		if matchErr != nil {
			err = s.mapError(matchErr)
			return nil, err
		}
		if matched {
			if refreshErr := s.refreshPrimaryIdentity(ctx, existing, identity); refreshErr != nil {
				err = s.mapError(refreshErr)
				return nil, err
			}
			continue
		}

		if len(requested) > 0 {
			if _, wanted := requested[strings.TrimSpace(remote.ExternalID)]; !wanted {
				continue
			}
		}

		hasAccess, verifyErr := s.primary.VerifyAccess(ctx, token, remote.ExternalID)
		if verifyErr != nil {
			err = s.mapError(upstreamError(verifyErr, "verifying provider access failed"))
			return nil, err
		}
		if !hasAccess {
			continue
		}

		account, createErr := s.accounts.Create(ctx, CreateAccountInput{
			Email:             normalizeEmail(remote.Email),
			PrimaryUsername:   remote.Username,
			PrimaryExternalID: remote.ExternalID,
			AvatarURL:         remote.AvatarURL,
			Kind:              AccountKindPrimary,
			Permissions:       Permission(s.config.DefaultPermissions),
			Locale:            s.config.ResolveLocale(""),
		})
		if createErr != nil {
			err = s.mapError(createErr)
			return nil, err
		}
		created = append(created, account)
		s.recordActivity(ctx, ActivityEntry{
			AccountID: account.ID,
			ActorID:   req.Actor.ID,
			Action:    ActivityActionImported,
			Detail:    map[string]any{"kind": string(AccountKindPrimary)},
		})
	}
	fields["created"] = len(created)
	return created, nil
}

// refreshPrimaryIdentity updates a matched account with the latest
// provider profile, promoting local accounts onto the provider identity.
func (s *Service) refreshPrimaryIdentity(ctx context.Context, account Account, remote RemoteIdentity) error {
	if account.Kind == AccountKindLocal {
		if err := (&account).PromoteKind(AccountKindPrimary, s.now()); err != nil {
			return err
		}
	}
	account.PrimaryExternalID = strings.TrimSpace(remote.ExternalID)
	account.PrimaryUsername = remote.Username
	if avatar := strings.TrimSpace(remote.AvatarURL); avatar != "" {
		account.AvatarURL = avatar
	}
	if email := normalizeEmail(remote.Email); email != "" {
		account.Email = email
	}
	account.UpdatedAt = s.now()
	_, err := s.accounts.Update(ctx, account)
	return err
}

type ImportFromAltRequest struct {
	Actor Actor
	// ExternalIDs selects which alt server users to import.
	ExternalIDs []string
	// Email overrides the synthesized address for single-user imports.
	Email  string
	Locale string
}

// ImportFromAlt imports the selected users from the alternative media
// server. Alt servers expose no email, so the login doubles as the address
// unless an override is supplied; the display name is derived from the
// login. Users already imported are skipped.
func (s *Service) ImportFromAlt(ctx context.Context, req ImportFromAltRequest) (created []Account, err error) {
	kind := s.config.AltServerMode.AccountKind()
	startedAt := s.now()
	fields := map[string]any{
		"actor_id": req.Actor.ID,
		"kind":     string(kind),
	}
	defer func() {
		s.observeOperation(ctx, startedAt, "import_from_alt", err, fields)
	}()

	if !s.guard.CanAdministerAccounts(req.Actor) {
		err = s.mapError(forbiddenError("importing accounts requires account management"))
		return nil, err
	}
	if s.alt == nil {
		err = s.mapError(notConfiguredError("alt provider is not configured"))
		return nil, err
	}
	if len(req.ExternalIDs) == 0 {
		err = s.mapError(badInputError("at least one external id is required"))
		return nil, err
	}

	remotes, listErr := s.alt.ListUsers(ctx)
	if listErr != nil {
		err = s.mapError(upstreamError(listErr, "listing alt server users failed"))
		return nil, err
	}
	byID := make(map[string]RemoteAltUser, len(remotes))
	for _, remote := range remotes {
		byID[strings.TrimSpace(remote.ExternalID)] = remote
	}

	created = []Account{}
	for _, externalID := range req.ExternalIDs {
		externalID = strings.TrimSpace(externalID)
		if externalID == "" {
			continue
		}
		remote, known := byID[externalID]
		if !known {
			err = s.mapError(notFoundError("alt server user not found: " + externalID))
			return nil, err
		}

		_, matched, matchErr := matchAltIdentity(ctx, s.accounts, RemoteIdentity{ExternalID: externalID})
		if matchErr != nil {
			err = s.mapError(matchErr)
			return nil, err
		}
		if matched {
			continue
		}

		email := normalizeEmail(req.Email)
		if email == "" {
			email = normalizeEmail(remote.Username)
		}
		account, createErr := s.accounts.Create(ctx, CreateAccountInput{
			Email:         email,
			Username:      DeriveDisplayName(remote.Username),
			AltUsername:   remote.Username,
			AltExternalID: externalID,
			AltDeviceID:   remote.DeviceID,
			Kind:          kind,
			Permissions:   Permission(s.config.DefaultPermissions),
			Locale:        s.config.ResolveLocale(req.Locale),
		})
		if createErr != nil {
			err = s.mapError(createErr)
			return nil, err
		}
		created = append(created, account)
		s.recordActivity(ctx, ActivityEntry{
			AccountID: account.ID,
			ActorID:   req.Actor.ID,
			Action:    ActivityActionImported,
			Detail:    map[string]any{"kind": string(kind)},
		})
	}
	fields["created"] = len(created)
	return created, nil
}
