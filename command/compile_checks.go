package command

import gocmd "github.com/goliatone/go-command"

var (
	_ gocmd.Commander[CreateLocalAccountMessage] = (*CreateLocalAccountCommand)(nil)
	_ gocmd.Commander[UpdatePermissionsMessage]  = (*UpdatePermissionsCommand)(nil)
	_ gocmd.Commander[UpdateAccountMessage]      = (*UpdateAccountCommand)(nil)
	_ gocmd.Commander[DeleteAccountMessage]      = (*DeleteAccountCommand)(nil)
	_ gocmd.Commander[ImportFromPrimaryMessage]  = (*ImportFromPrimaryCommand)(nil)
	_ gocmd.Commander[ImportFromAltMessage]      = (*ImportFromAltCommand)(nil)
	_ gocmd.Commander[ProvisionAccountMessage]   = (*ProvisionAccountCommand)(nil)
	_ gocmd.Commander[ResetPasswordMessage]      = (*ResetPasswordCommand)(nil)
)
