package core

import (
	"context"
	"strings"
)

const (
	ActivityActionCreated            = "account.created"
	ActivityActionUpdated            = "account.updated"
	ActivityActionPermissionsChanged = "account.permissions_changed"
	ActivityActionImported           = "account.imported"
	ActivityActionProvisioned        = "account.provisioned"
	ActivityActionPasswordReset      = "account.password_reset"
	ActivityActionDeleted            = "account.deleted"
)

type CreateLocalAccountRequest struct {
	Actor       Actor
	Email       string
	Username    string
	Permissions *Permission
	Locale      string
}

// CreateLocalAccount registers an application-managed account. The account
// row and its settings row are written together; a duplicate email is a
// conflict.
func (s *Service) CreateLocalAccount(ctx context.Context, req CreateLocalAccountRequest) (account Account, err error) {
	startedAt := s.now()
	fields := map[string]any{
		"actor_id": req.Actor.ID,
		"kind":     string(AccountKindLocal),
	}
	defer func() {
		s.observeOperation(ctx, startedAt, "create_local_account", err, fields)
	}()

	if !s.guard.CanAdministerAccounts(req.Actor) {
		err = s.mapError(forbiddenError("creating accounts requires account management"))
		return Account{}, err
	}

	email := normalizeEmail(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		err = s.mapError(badInputError("a valid email address is required"))
		return Account{}, err
	}

	permissions := Permission(s.config.DefaultPermissions)
	if req.Permissions != nil {
		permissions = *req.Permissions
	}
	if !s.guard.CanGrant(permissions, req.Actor) {
		err = s.mapError(forbiddenError("only the owner may grant admin"))
		return Account{}, err
	}

	if _, getErr := s.accounts.GetByEmail(ctx, email); getErr == nil {
		err = s.mapError(conflictError("an account with this email already exists"))
		return Account{}, err
	}

	account, createErr := s.accounts.Create(ctx, CreateAccountInput{
		Email:       email,
		Username:    strings.TrimSpace(req.Username),
		Kind:        AccountKindLocal,
		Permissions: permissions,
		Locale:      s.config.ResolveLocale(req.Locale),
	})
	if createErr != nil {
		err = s.mapError(createErr)
		return Account{}, err
	}
	fields["account_id"] = account.ID

	s.recordActivity(ctx, ActivityEntry{
		AccountID: account.ID,
		ActorID:   req.Actor.ID,
		Action:    ActivityActionCreated,
		Detail:    map[string]any{"kind": string(account.Kind)},
	})
	return account, nil
}

type UpdatePermissionsRequest struct {
	Actor       Actor
	AccountIDs  []int64
	Permissions Permission
}

type UpdatePermissionsResult struct {
	UpdatedIDs []int64
}

// UpdatePermissions applies one permission set to a batch of accounts. The
// owner account is silently skipped so admins can select-all without the
// batch failing; granting the admin bit remains reserved for the owner.
func (s *Service) UpdatePermissions(ctx context.Context, req UpdatePermissionsRequest) (result UpdatePermissionsResult, err error) {
	startedAt := s.now()
	fields := map[string]any{
		"actor_id": req.Actor.ID,
		"targets":  len(req.AccountIDs),
	}
	defer func() {
		s.observeOperation(ctx, startedAt, "update_permissions", err, fields)
	}()

	if !s.guard.CanAdministerAccounts(req.Actor) {
		err = s.mapError(forbiddenError("editing permissions requires account management"))
		return UpdatePermissionsResult{}, err
	}
	if len(req.AccountIDs) == 0 {
		err = s.mapError(badInputError("at least one account id is required"))
		return UpdatePermissionsResult{}, err
	}
	if !s.guard.CanGrant(req.Permissions, req.Actor) {
		err = s.mapError(forbiddenError("only the owner may grant admin"))
		return UpdatePermissionsResult{}, err
	}

	targets := s.guard.FilterBulkTargets(req.AccountIDs, req.Actor)
	updated := make([]int64, 0, len(targets))
	for _, id := range targets {
		account, getErr := s.accounts.Get(ctx, id)
		if getErr != nil {
			err = s.mapError(getErr)
			return UpdatePermissionsResult{}, err
		}
		account.Permissions = req.Permissions
		account.UpdatedAt = s.now()
		if _, updateErr := s.accounts.Update(ctx, account); updateErr != nil {
			err = s.mapError(updateErr)
			return UpdatePermissionsResult{}, err
		}
		updated = append(updated, id)
		s.recordActivity(ctx, ActivityEntry{
			AccountID: id,
			ActorID:   req.Actor.ID,
			Action:    ActivityActionPermissionsChanged,
			Detail:    map[string]any{"permissions": uint32(req.Permissions)},
		})
	}
	fields["updated"] = len(updated)
	return UpdatePermissionsResult{UpdatedIDs: updated}, nil
}

type UpdateAccountRequest struct {
	Actor Actor
	Patch UpdateAccountInput
}

// UpdateAccount applies a partial edit to a single account. Unlike the
// bulk path, targeting the owner account without being the owner is a hard
// rejection.
func (s *Service) UpdateAccount(ctx context.Context, req UpdateAccountRequest) (account Account, err error) {
	startedAt := s.now()
	fields := map[string]any{
		"actor_id":   req.Actor.ID,
		"account_id": req.Patch.ID,
	}
	defer func() {
		s.observeOperation(ctx, startedAt, "update_account", err, fields)
	}()

	if !s.guard.CanAdministerAccounts(req.Actor) {
		err = s.mapError(forbiddenError("editing accounts requires account management"))
		return Account{}, err
	}
	if !s.guard.CanModify(req.Patch.ID, req.Actor) {
		err = s.mapError(forbiddenError("only the owner may modify the owner account"))
		return Account{}, err
	}
	if req.Patch.Permissions != nil && !s.guard.CanGrant(*req.Patch.Permissions, req.Actor) {
		err = s.mapError(forbiddenError("only the owner may grant admin"))
		return Account{}, err
	}

	account, getErr := s.accounts.Get(ctx, req.Patch.ID)
	if getErr != nil {
		err = s.mapError(getErr)
		return Account{}, err
	}

	if req.Patch.Email != nil {
		email := normalizeEmail(*req.Patch.Email)
		if email == "" || !strings.Contains(email, "@") {
			err = s.mapError(badInputError("a valid email address is required"))
			return Account{}, err
		}
		if existing, lookupErr := s.accounts.GetByEmail(ctx, email); lookupErr == nil && existing.ID != account.ID {
			err = s.mapError(conflictError("an account with this email already exists"))
			return Account{}, err
		}
		account.Email = email
	}
	if req.Patch.Username != nil {
		account.Username = strings.TrimSpace(*req.Patch.Username)
	}
	if req.Patch.Permissions != nil {
		account.Permissions = *req.Patch.Permissions
	}
	if req.Patch.AvatarURL != nil {
		account.AvatarURL = strings.TrimSpace(*req.Patch.AvatarURL)
	}
	if req.Patch.MovieQuotaLimit != nil {
		account.MovieQuotaLimit = *req.Patch.MovieQuotaLimit
	}
	if req.Patch.MovieQuotaDays != nil {
		account.MovieQuotaDays = *req.Patch.MovieQuotaDays
	}
	if req.Patch.TVQuotaLimit != nil {
		account.TVQuotaLimit = *req.Patch.TVQuotaLimit
	}
	if req.Patch.TVQuotaDays != nil {
		account.TVQuotaDays = *req.Patch.TVQuotaDays
	}
	account.UpdatedAt = s.now()

	updated, updateErr := s.accounts.Update(ctx, account)
	if updateErr != nil {
		err = s.mapError(updateErr)
		return Account{}, err
	}
	s.recordActivity(ctx, ActivityEntry{
		AccountID: updated.ID,
		ActorID:   req.Actor.ID,
		Action:    ActivityActionUpdated,
	})
	return updated, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
