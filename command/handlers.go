package command

import (
	"context"

	"github.com/goliatone/go-accounts/core"
	gocmd "github.com/goliatone/go-command"
)

type MutatingService interface {
	CreateLocalAccount(ctx context.Context, req core.CreateLocalAccountRequest) (core.Account, error)
	UpdatePermissions(ctx context.Context, req core.UpdatePermissionsRequest) (core.UpdatePermissionsResult, error)
	UpdateAccount(ctx context.Context, req core.UpdateAccountRequest) (core.Account, error)
	DeleteAccount(ctx context.Context, actor core.Actor, accountID int64) (core.DeletionReport, error)
	ImportFromPrimary(ctx context.Context, req core.ImportFromPrimaryRequest) ([]core.Account, error)
	ImportFromAlt(ctx context.Context, req core.ImportFromAltRequest) ([]core.Account, error)
	ProvisionLinkedAccount(ctx context.Context, req core.ProvisionLinkedAccountRequest) (core.ProvisionLinkedAccountResult, error)
	ResetAndNotify(ctx context.Context, actor core.Actor, accountID int64) error
}

type CreateLocalAccountCommand struct {
	service MutatingService
}

func NewCreateLocalAccountCommand(service MutatingService) *CreateLocalAccountCommand {
	return &CreateLocalAccountCommand{service: service}
}

func (c *CreateLocalAccountCommand) Execute(ctx context.Context, msg CreateLocalAccountMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: account service is required")
	}
	out, err := c.service.CreateLocalAccount(ctx, msg.Request)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type UpdatePermissionsCommand struct {
	service MutatingService
}

func NewUpdatePermissionsCommand(service MutatingService) *UpdatePermissionsCommand {
	return &UpdatePermissionsCommand{service: service}
}

func (c *UpdatePermissionsCommand) Execute(ctx context.Context, msg UpdatePermissionsMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: account service is required")
	}
	out, err := c.service.UpdatePermissions(ctx, msg.Request)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type UpdateAccountCommand struct {
	service MutatingService
}

func NewUpdateAccountCommand(service MutatingService) *UpdateAccountCommand {
	return &UpdateAccountCommand{service: service}
}

func (c *UpdateAccountCommand) Execute(ctx context.Context, msg UpdateAccountMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: account service is required")
	}
	out, err := c.service.UpdateAccount(ctx, msg.Request)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type DeleteAccountCommand struct {
	service MutatingService
}

func NewDeleteAccountCommand(service MutatingService) *DeleteAccountCommand {
	return &DeleteAccountCommand{service: service}
}

func (c *DeleteAccountCommand) Execute(ctx context.Context, msg DeleteAccountMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: account service is required")
	}
	out, err := c.service.DeleteAccount(ctx, msg.Actor, msg.AccountID)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type ImportFromPrimaryCommand struct {
	service MutatingService
}

func NewImportFromPrimaryCommand(service MutatingService) *ImportFromPrimaryCommand {
	return &ImportFromPrimaryCommand{service: service}
}

func (c *ImportFromPrimaryCommand) Execute(ctx context.Context, msg ImportFromPrimaryMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: import service is required")
	}
	out, err := c.service.ImportFromPrimary(ctx, msg.Request)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type ImportFromAltCommand struct {
	service MutatingService
}

func NewImportFromAltCommand(service MutatingService) *ImportFromAltCommand {
	return &ImportFromAltCommand{service: service}
}

func (c *ImportFromAltCommand) Execute(ctx context.Context, msg ImportFromAltMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: import service is required")
	}
	out, err := c.service.ImportFromAlt(ctx, msg.Request)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type ProvisionAccountCommand struct {
	service MutatingService
}

func NewProvisionAccountCommand(service MutatingService) *ProvisionAccountCommand {
	return &ProvisionAccountCommand{service: service}
}

func (c *ProvisionAccountCommand) Execute(ctx context.Context, msg ProvisionAccountMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: provisioning service is required")
	}
	out, err := c.service.ProvisionLinkedAccount(ctx, msg.Request)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type ResetPasswordCommand struct {
	service MutatingService
}

func NewResetPasswordCommand(service MutatingService) *ResetPasswordCommand {
	return &ResetPasswordCommand{service: service}
}

func (c *ResetPasswordCommand) Execute(ctx context.Context, msg ResetPasswordMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: provisioning service is required")
	}
	return c.service.ResetAndNotify(ctx, msg.Actor, msg.AccountID)
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
