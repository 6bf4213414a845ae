package command

import (
	"strings"

	"github.com/goliatone/go-accounts/core"
)

const (
	TypeCreateLocalAccount = "accounts.command.account.create_local"
	TypeUpdatePermissions  = "accounts.command.account.update_permissions"
	TypeUpdateAccount      = "accounts.command.account.update"
	TypeDeleteAccount      = "accounts.command.account.delete"
	TypeImportFromPrimary  = "accounts.command.import.primary"
	TypeImportFromAlt      = "accounts.command.import.alt"
	TypeProvisionAccount   = "accounts.command.account.provision"
	TypeResetPassword      = "accounts.command.account.reset_password"
)

type CreateLocalAccountMessage struct {
	Request core.CreateLocalAccountRequest
}

func (CreateLocalAccountMessage) Type() string { return TypeCreateLocalAccount }

func (m CreateLocalAccountMessage) Validate() error {
	if err := validateActor(m.Request.Actor); err != nil {
		return err
	}
	if strings.TrimSpace(m.Request.Email) == "" {
		return commandInvalidInputError("command: account email is required")
	}
	return nil
}

type UpdatePermissionsMessage struct {
	Request core.UpdatePermissionsRequest
}

func (UpdatePermissionsMessage) Type() string { return TypeUpdatePermissions }

func (m UpdatePermissionsMessage) Validate() error {
	if err := validateActor(m.Request.Actor); err != nil {
		return err
	}
	if len(m.Request.AccountIDs) == 0 {
		return commandInvalidInputError("command: at least one account id is required")
	}
	for _, id := range m.Request.AccountIDs {
		if id <= 0 {
			return commandInvalidInputError("command: account ids must be positive")
		}
	}
	return nil
}

type UpdateAccountMessage struct {
	Request core.UpdateAccountRequest
}

func (UpdateAccountMessage) Type() string { return TypeUpdateAccount }

func (m UpdateAccountMessage) Validate() error {
	if err := validateActor(m.Request.Actor); err != nil {
		return err
	}
	if m.Request.Patch.ID <= 0 {
		return commandInvalidInputError("command: account id is required")
	}
	return nil
}

type DeleteAccountMessage struct {
	Actor     core.Actor
	AccountID int64
}

func (DeleteAccountMessage) Type() string { return TypeDeleteAccount }

func (m DeleteAccountMessage) Validate() error {
	if err := validateActor(m.Actor); err != nil {
		return err
	}
	if m.AccountID <= 0 {
		return commandInvalidInputError("command: account id is required")
	}
	return nil
}

type ImportFromPrimaryMessage struct {
	Request core.ImportFromPrimaryRequest
}

func (ImportFromPrimaryMessage) Type() string { return TypeImportFromPrimary }

func (m ImportFromPrimaryMessage) Validate() error {
	if err := validateActor(m.Request.Actor); err != nil {
		return err
	}
	return validateExternalIDs(m.Request.ExternalIDs)
}

type ImportFromAltMessage struct {
	Request core.ImportFromAltRequest
}

func (ImportFromAltMessage) Type() string { return TypeImportFromAlt }

func (m ImportFromAltMessage) Validate() error {
	if err := validateActor(m.Request.Actor); err != nil {
		return err
	}
	if len(m.Request.ExternalIDs) == 0 {
		return commandInvalidInputError("command: at least one external id is required")
	}
	if err := validateExternalIDs(m.Request.ExternalIDs); err != nil {
		return err
	}
	if strings.TrimSpace(m.Request.Email) != "" && len(m.Request.ExternalIDs) > 1 {
		return commandInvalidInputError("command: email override only applies to single-user imports")
	}
	return nil
}

type ProvisionAccountMessage struct {
	Request core.ProvisionLinkedAccountRequest
}

func (ProvisionAccountMessage) Type() string { return TypeProvisionAccount }

func (m ProvisionAccountMessage) Validate() error {
	if err := validateActor(m.Request.Actor); err != nil {
		return err
	}
	if strings.TrimSpace(m.Request.Username) == "" {
		return commandInvalidInputError("command: username is required")
	}
	return nil
}

type ResetPasswordMessage struct {
	Actor     core.Actor
	AccountID int64
}

func (ResetPasswordMessage) Type() string { return TypeResetPassword }

func (m ResetPasswordMessage) Validate() error {
	if err := validateActor(m.Actor); err != nil {
		return err
	}
	if m.AccountID <= 0 {
		return commandInvalidInputError("command: account id is required")
	}
	return nil
}

func validateActor(actor core.Actor) error {
	if actor.ID <= 0 {
		return commandInvalidInputError("command: actor id is required")
	}
	return nil
}

func validateExternalIDs(ids []string) error {
	for _, id := range ids {
		if strings.TrimSpace(id) == "" {
			return commandInvalidInputError("command: external ids must not be blank")
		}
	}
	return nil
}
