package core

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const generatedPasswordLength = 16

const passwordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func generatePassword() (string, error) {
	out := make([]byte, generatedPasswordLength)
	max := big.NewInt(int64(len(passwordAlphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("core: password generation failed: %w", err)
		}
		out[i] = passwordAlphabet[n.Int64()]
	}
	return string(out), nil
}

type ProvisionLinkedAccountRequest struct {
	Actor    Actor
	Username string
	Email    string
	// Password is optional; one is generated when empty.
	Password string
	Locale   string
}

type ProvisionLinkedAccountResult struct {
	Account  Account
	Password string
	// PasswordGenerated reports whether the returned password was minted
	// here rather than supplied by the caller.
	PasswordGenerated bool
	// Locale is the resolved locale the account was created with.
	Locale string
}

// ProvisionLinkedAccount creates a user on the alt media server and the
// matching local account in one operation. When the caller supplied an
// email address, a welcome notification is dispatched asynchronously;
// delivery failures are logged, never surfaced.
func (s *Service) ProvisionLinkedAccount(ctx context.Context, req ProvisionLinkedAccountRequest) (result ProvisionLinkedAccountResult, err error) {
	kind := s.config.AltServerMode.AccountKind()
	startedAt := s.now()
	fields := map[string]any{
		"actor_id": req.Actor.ID,
		"kind":     string(kind),
	}
	defer func() {
		s.observeOperation(ctx, startedAt, "provision_linked_account", err, fields)
	}()

	if !s.guard.CanAdministerAccounts(req.Actor) {
		err = s.mapError(forbiddenError("provisioning accounts requires account management"))
		return ProvisionLinkedAccountResult{}, err
	}
	if s.alt == nil {
		err = s.mapError(notConfiguredError("alt provider is not configured"))
		return ProvisionLinkedAccountResult{}, err
	}
	username := strings.TrimSpace(req.Username)
	if username == "" {
		err = s.mapError(badInputError("username is required"))
		return ProvisionLinkedAccountResult{}, err
	}
	// Alt servers carry no addresses, so the login stands in for the email
	// column when the caller supplies none. Only a real caller-supplied
	// address is ever mailed to.
	suppliedEmail := normalizeEmail(req.Email)
	email := suppliedEmail
	if email == "" {
		email = normalizeEmail(username)
	}
	if existing, lookupErr := s.accounts.GetByEmail(ctx, email); lookupErr == nil && existing.ID != 0 {
		err = s.mapError(conflictError("an account with this email already exists"))
		return ProvisionLinkedAccountResult{}, err
	}

	password := req.Password
	generated := false
	if strings.TrimSpace(password) == "" {
		password, err = generatePassword()
		if err != nil {
			err = s.mapError(err)
			return ProvisionLinkedAccountResult{}, err
		}
		generated = true
	}

	remote, createErr := s.alt.CreateUser(ctx, username, password)
	if createErr != nil {
		err = s.mapError(upstreamError(createErr, "creating alt server user failed"))
		return ProvisionLinkedAccountResult{}, err
	}

	locale := s.config.ResolveLocale(req.Locale)
	account, storeErr := s.accounts.Create(ctx, CreateAccountInput{
		Email:         email,
		Username:      DeriveDisplayName(username),
		AltUsername:   username,
		AltExternalID: remote.ExternalID,
		AltDeviceID:   remote.DeviceID,
		Kind:          kind,
		Permissions:   Permission(s.config.DefaultPermissions),
		Locale:        locale,
	})
	if storeErr != nil {
		err = s.mapError(storeErr)
		return ProvisionLinkedAccountResult{}, err
	}
	fields["account_id"] = account.ID

	s.recordActivity(ctx, ActivityEntry{
		AccountID: account.ID,
		ActorID:   req.Actor.ID,
		Action:    ActivityActionProvisioned,
		Detail:    map[string]any{"kind": string(kind)},
	})
	if suppliedEmail != "" {
		s.dispatchNotification(ctx, NotificationMessage{
			Type:      NotificationTypeWelcome,
			Recipient: suppliedEmail,
			Subject:   "Your media account is ready",
			Fields: map[string]string{
				"username":        username,
				"password":        password,
				"locale":          locale,
				"application_url": s.config.ApplicationURL,
			},
		})
	}

	return ProvisionLinkedAccountResult{
		Account:           account,
		Password:          password,
		PasswordGenerated: generated,
		Locale:            locale,
	}, nil
}

// ResetAndNotify sets a freshly generated password on the account's alt
// server user and emails it to the account holder.
func (s *Service) ResetAndNotify(ctx context.Context, actor Actor, accountID int64) (err error) {
	startedAt := s.now()
	fields := map[string]any{
		"actor_id":   actor.ID,
		"account_id": accountID,
	}
	defer func() {
		s.observeOperation(ctx, startedAt, "reset_and_notify", err, fields)
	}()

	if !actor.Can(PermissionAdmin) {
		err = s.mapError(forbiddenError("resetting passwords requires admin"))
		return err
	}
	if s.alt == nil {
		err = s.mapError(notConfiguredError("alt provider is not configured"))
		return err
	}
	account, getErr := s.accounts.Get(ctx, accountID)
	if getErr != nil {
		err = s.mapError(getErr)
		return err
	}
	if account.Kind != AccountKindAlt && account.Kind != AccountKindAltVariant {
		err = s.mapError(badInputError("account is not an alt server account"))
		return err
	}
	if strings.TrimSpace(account.AltExternalID) == "" {
		err = s.mapError(badInputError("account has no linked alt server user"))
		return err
	}

	password, genErr := generatePassword()
	if genErr != nil {
		err = s.mapError(genErr)
		return err
	}
	if resetErr := s.alt.ResetPassword(ctx, account.AltExternalID, password); resetErr != nil {
		err = s.mapError(upstreamError(resetErr, "resetting alt server password failed"))
		return err
	}

	locale := fallbackLocale
	if settings, settingsErr := s.accounts.GetSettings(ctx, accountID); settingsErr == nil {
		locale = s.config.ResolveLocale(settings.Locale)
	}
	s.recordActivity(ctx, ActivityEntry{
		AccountID: accountID,
		ActorID:   actor.ID,
		Action:    ActivityActionPasswordReset,
	})
	s.dispatchNotification(ctx, NotificationMessage{
		Type:      NotificationTypePasswordReset,
		Recipient: account.Email,
		Subject:   "Your media account password was reset",
		Fields: map[string]string{
			"username":        account.AltUsername,
			"password":        password,
			"locale":          locale,
			"application_url": s.config.ApplicationURL,
		},
	})
	return nil
}

// dispatchNotification delivers best effort in the background so slow mail
// transports never block the calling operation.
func (s *Service) dispatchNotification(ctx context.Context, msg NotificationMessage) {
	if s == nil || s.notifications == nil {
		return
	}
	background := context.WithoutCancel(ctx)
	go func() {
		if err := s.notifications.Send(background, msg); err != nil {
			s.logError(background, "notification delivery failed", map[string]any{
				"type":      msg.Type,
				"recipient": msg.Recipient,
				"error":     err.Error(),
			})
		}
	}()
}
