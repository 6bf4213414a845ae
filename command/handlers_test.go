package command

import (
	"context"
	"fmt"
	"testing"

	"github.com/goliatone/go-accounts/core"
	gocmd "github.com/goliatone/go-command"
)

func TestCreateLocalAccountCommand_ExecuteDelegatesAndStoresResult(t *testing.T) {
	expected := core.Account{ID: 12, Email: "alice@example.com", Kind: core.AccountKindLocal}
	called := false

	svc := stubMutatingService{
		createLocalAccountFn: func(_ context.Context, req core.CreateLocalAccountRequest) (core.Account, error) {
			called = true
			if req.Email != "alice@example.com" {
				t.Fatalf("expected alice@example.com, got %q", req.Email)
			}
			return expected, nil
		},
	}

	cmd := NewCreateLocalAccountCommand(svc)
	collector := gocmd.NewResult[core.Account]()
	ctx := gocmd.ContextWithResult(context.Background(), collector)

	err := cmd.Execute(ctx, CreateLocalAccountMessage{Request: core.CreateLocalAccountRequest{
		Actor: core.Actor{ID: 1, Permissions: core.PermissionAdmin},
		Email: "alice@example.com",
	}})
	if err != nil {
		t.Fatalf("execute create local account: %v", err)
	}
	if !called {
		t.Fatalf("expected account service invocation")
	}
	result, ok := collector.Load()
	if !ok {
		t.Fatalf("expected result to be stored")
	}
	if result.ID != expected.ID || result.Email != expected.Email {
		t.Fatalf("unexpected result: %#v", result)
	}
}

func TestMutationCommands_DelegateToService(t *testing.T) {
	actor := core.Actor{ID: 1, Permissions: core.PermissionAdmin}

	t.Run("update permissions", func(t *testing.T) {
		called := false
		svc := stubMutatingService{
			updatePermissionsFn: func(_ context.Context, req core.UpdatePermissionsRequest) (core.UpdatePermissionsResult, error) {
				called = true
				if len(req.AccountIDs) != 2 {
					t.Fatalf("unexpected account ids: %v", req.AccountIDs)
				}
				return core.UpdatePermissionsResult{UpdatedIDs: req.AccountIDs}, nil
			},
		}
		cmd := NewUpdatePermissionsCommand(svc)
		collector := gocmd.NewResult[core.UpdatePermissionsResult]()
		ctx := gocmd.ContextWithResult(context.Background(), collector)
		err := cmd.Execute(ctx, UpdatePermissionsMessage{Request: core.UpdatePermissionsRequest{
			Actor:       actor,
			AccountIDs:  []int64{4, 9},
			Permissions: core.PermissionRequest,
		}})
		if err != nil {
			t.Fatalf("execute update permissions: %v", err)
		}
		if !called {
			t.Fatalf("expected update permissions invocation")
		}
		stored, ok := collector.Load()
		if !ok {
			t.Fatalf("expected update permissions result")
		}
		if len(stored.UpdatedIDs) != 2 {
			t.Fatalf("unexpected result: %#v", stored)
		}
	})

	t.Run("update account", func(t *testing.T) {
		called := false
		username := "carol"
		svc := stubMutatingService{
			updateAccountFn: func(_ context.Context, req core.UpdateAccountRequest) (core.Account, error) {
				called = true
				if req.Patch.ID != 7 || req.Patch.Username == nil || *req.Patch.Username != "carol" {
					t.Fatalf("unexpected patch: %#v", req.Patch)
				}
				return core.Account{ID: 7, Username: "carol"}, nil
			},
		}
		cmd := NewUpdateAccountCommand(svc)
		collector := gocmd.NewResult[core.Account]()
		ctx := gocmd.ContextWithResult(context.Background(), collector)
		err := cmd.Execute(ctx, UpdateAccountMessage{Request: core.UpdateAccountRequest{
			Actor: actor,
			Patch: core.UpdateAccountInput{ID: 7, Username: &username},
		}})
		if err != nil {
			t.Fatalf("execute update account: %v", err)
		}
		if !called {
			t.Fatalf("expected update account invocation")
		}
		if _, ok := collector.Load(); !ok {
			t.Fatalf("expected update account result")
		}
	})

	t.Run("delete account", func(t *testing.T) {
		called := false
		svc := stubMutatingService{
			deleteAccountFn: func(_ context.Context, a core.Actor, accountID int64) (core.DeletionReport, error) {
				called = true
				if a.ID != actor.ID || accountID != 7 {
					t.Fatalf("unexpected delete payload: %d %d", a.ID, accountID)
				}
				return core.DeletionReport{AccountID: accountID}, nil
			},
		}
		cmd := NewDeleteAccountCommand(svc)
		collector := gocmd.NewResult[core.DeletionReport]()
		ctx := gocmd.ContextWithResult(context.Background(), collector)
		if err := cmd.Execute(ctx, DeleteAccountMessage{Actor: actor, AccountID: 7}); err != nil {
			t.Fatalf("execute delete account: %v", err)
		}
		if !called {
			t.Fatalf("expected delete invocation")
		}
		stored, ok := collector.Load()
		if !ok {
			t.Fatalf("expected deletion report")
		}
		if stored.AccountID != 7 {
			t.Fatalf("unexpected report: %#v", stored)
		}
	})

	t.Run("import commands", func(t *testing.T) {
		calledPrimary := false
		calledAlt := false
		svc := stubMutatingService{
			importFromPrimaryFn: func(_ context.Context, req core.ImportFromPrimaryRequest) ([]core.Account, error) {
				calledPrimary = true
				if len(req.ExternalIDs) != 1 || req.ExternalIDs[0] != "ext-1" {
					t.Fatalf("unexpected primary import: %#v", req)
				}
				return []core.Account{{ID: 20}}, nil
			},
			importFromAltFn: func(_ context.Context, req core.ImportFromAltRequest) ([]core.Account, error) {
				calledAlt = true
				if len(req.ExternalIDs) != 1 || req.ExternalIDs[0] != "alt-1" {
					t.Fatalf("unexpected alt import: %#v", req)
				}
				return []core.Account{{ID: 21}}, nil
			},
		}

		primaryCollector := gocmd.NewResult[[]core.Account]()
		primaryCtx := gocmd.ContextWithResult(context.Background(), primaryCollector)
		if err := NewImportFromPrimaryCommand(svc).Execute(primaryCtx, ImportFromPrimaryMessage{
			Request: core.ImportFromPrimaryRequest{Actor: actor, ExternalIDs: []string{"ext-1"}},
		}); err != nil {
			t.Fatalf("execute import from primary: %v", err)
		}
		if !calledPrimary {
			t.Fatalf("expected primary import invocation")
		}
		if _, ok := primaryCollector.Load(); !ok {
			t.Fatalf("expected primary import result")
		}

		altCollector := gocmd.NewResult[[]core.Account]()
		altCtx := gocmd.ContextWithResult(context.Background(), altCollector)
		if err := NewImportFromAltCommand(svc).Execute(altCtx, ImportFromAltMessage{
			Request: core.ImportFromAltRequest{Actor: actor, ExternalIDs: []string{"alt-1"}},
		}); err != nil {
			t.Fatalf("execute import from alt: %v", err)
		}
		if !calledAlt {
			t.Fatalf("expected alt import invocation")
		}
		if _, ok := altCollector.Load(); !ok {
			t.Fatalf("expected alt import result")
		}
	})

	t.Run("provision and reset", func(t *testing.T) {
		calledProvision := false
		calledReset := false
		svc := stubMutatingService{
			provisionLinkedAccountFn: func(_ context.Context, req core.ProvisionLinkedAccountRequest) (core.ProvisionLinkedAccountResult, error) {
				calledProvision = true
				if req.Username != "dave" {
					t.Fatalf("unexpected provision username %q", req.Username)
				}
				return core.ProvisionLinkedAccountResult{
					Account:           core.Account{ID: 30, Username: "dave"},
					Password:          "generated",
					PasswordGenerated: true,
				}, nil
			},
			resetAndNotifyFn: func(_ context.Context, a core.Actor, accountID int64) error {
				calledReset = true
				if accountID != 30 {
					t.Fatalf("unexpected reset target %d", accountID)
				}
				return nil
			},
		}

		provisionCollector := gocmd.NewResult[core.ProvisionLinkedAccountResult]()
		provisionCtx := gocmd.ContextWithResult(context.Background(), provisionCollector)
		if err := NewProvisionAccountCommand(svc).Execute(provisionCtx, ProvisionAccountMessage{
			Request: core.ProvisionLinkedAccountRequest{Actor: actor, Username: "dave"},
		}); err != nil {
			t.Fatalf("execute provision: %v", err)
		}
		if !calledProvision {
			t.Fatalf("expected provision invocation")
		}
		stored, ok := provisionCollector.Load()
		if !ok {
			t.Fatalf("expected provision result")
		}
		if !stored.PasswordGenerated || stored.Account.ID != 30 {
			t.Fatalf("unexpected provision result: %#v", stored)
		}

		if err := NewResetPasswordCommand(svc).Execute(context.Background(), ResetPasswordMessage{
			Actor:     actor,
			AccountID: 30,
		}); err != nil {
			t.Fatalf("execute reset password: %v", err)
		}
		if !calledReset {
			t.Fatalf("expected reset invocation")
		}
	})
}

func TestMessageValidation(t *testing.T) {
	actor := core.Actor{ID: 1, Permissions: core.PermissionAdmin}

	tests := []struct {
		name    string
		msg     interface{ Validate() error }
		wantErr bool
	}{
		{
			name: "create local valid",
			msg: CreateLocalAccountMessage{Request: core.CreateLocalAccountRequest{
				Actor: actor,
				Email: "alice@example.com",
			}},
			wantErr: false,
		},
		{
			name:    "create local missing email",
			msg:     CreateLocalAccountMessage{Request: core.CreateLocalAccountRequest{Actor: actor}},
			wantErr: true,
		},
		{
			name: "create local missing actor",
			msg: CreateLocalAccountMessage{Request: core.CreateLocalAccountRequest{
				Email: "alice@example.com",
			}},
			wantErr: true,
		},
		{
			name: "update permissions valid",
			msg: UpdatePermissionsMessage{Request: core.UpdatePermissionsRequest{
				Actor:      actor,
				AccountIDs: []int64{4, 9},
			}},
			wantErr: false,
		},
		{
			name:    "update permissions empty batch",
			msg:     UpdatePermissionsMessage{Request: core.UpdatePermissionsRequest{Actor: actor}},
			wantErr: true,
		},
		{
			name: "update account missing id",
			msg: UpdateAccountMessage{Request: core.UpdateAccountRequest{
				Actor: actor,
				Patch: core.UpdateAccountInput{},
			}},
			wantErr: true,
		},
		{
			name:    "delete account valid",
			msg:     DeleteAccountMessage{Actor: actor, AccountID: 7},
			wantErr: false,
		},
		{
			name:    "delete account missing id",
			msg:     DeleteAccountMessage{Actor: actor},
			wantErr: true,
		},
		{
			name:    "import primary empty selection is valid",
			msg:     ImportFromPrimaryMessage{Request: core.ImportFromPrimaryRequest{Actor: actor}},
			wantErr: false,
		},
		{
			name: "import primary blank external id",
			msg: ImportFromPrimaryMessage{Request: core.ImportFromPrimaryRequest{
				Actor:       actor,
				ExternalIDs: []string{"ext-1", "  "},
			}},
			wantErr: true,
		},
		{
			name:    "import alt requires selection",
			msg:     ImportFromAltMessage{Request: core.ImportFromAltRequest{Actor: actor}},
			wantErr: true,
		},
		{
			name: "import alt email override needs single user",
			msg: ImportFromAltMessage{Request: core.ImportFromAltRequest{
				Actor:       actor,
				ExternalIDs: []string{"alt-1", "alt-2"},
				Email:       "override@example.com",
			}},
			wantErr: true,
		},
		{
			name: "provision missing username",
			msg: ProvisionAccountMessage{Request: core.ProvisionLinkedAccountRequest{
				Actor: actor,
			}},
			wantErr: true,
		},
		{
			name:    "reset password valid",
			msg:     ResetPasswordMessage{Actor: actor, AccountID: 7},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.msg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

type stubMutatingService struct {
	createLocalAccountFn     func(ctx context.Context, req core.CreateLocalAccountRequest) (core.Account, error)
	updatePermissionsFn      func(ctx context.Context, req core.UpdatePermissionsRequest) (core.UpdatePermissionsResult, error)
	updateAccountFn          func(ctx context.Context, req core.UpdateAccountRequest) (core.Account, error)
	deleteAccountFn          func(ctx context.Context, actor core.Actor, accountID int64) (core.DeletionReport, error)
	importFromPrimaryFn      func(ctx context.Context, req core.ImportFromPrimaryRequest) ([]core.Account, error)
	importFromAltFn          func(ctx context.Context, req core.ImportFromAltRequest) ([]core.Account, error)
	provisionLinkedAccountFn func(ctx context.Context, req core.ProvisionLinkedAccountRequest) (core.ProvisionLinkedAccountResult, error)
	resetAndNotifyFn         func(ctx context.Context, actor core.Actor, accountID int64) error
}

func (s stubMutatingService) CreateLocalAccount(ctx context.Context, req core.CreateLocalAccountRequest) (core.Account, error) {
	if s.createLocalAccountFn == nil {
		return core.Account{}, fmt.Errorf("create local account not configured")
	}
	return s.createLocalAccountFn(ctx, req)
}

func (s stubMutatingService) UpdatePermissions(ctx context.Context, req core.UpdatePermissionsRequest) (core.UpdatePermissionsResult, error) {
	if s.updatePermissionsFn == nil {
		return core.UpdatePermissionsResult{}, fmt.Errorf("update permissions not configured")
	}
	return s.updatePermissionsFn(ctx, req)
}

func (s stubMutatingService) UpdateAccount(ctx context.Context, req core.UpdateAccountRequest) (core.Account, error) {
	if s.updateAccountFn == nil {
		return core.Account{}, fmt.Errorf("update account not configured")
	}
	return s.updateAccountFn(ctx, req)
}

func (s stubMutatingService) DeleteAccount(ctx context.Context, actor core.Actor, accountID int64) (core.DeletionReport, error) {
	if s.deleteAccountFn == nil {
		return core.DeletionReport{}, fmt.Errorf("delete account not configured")
	}
	return s.deleteAccountFn(ctx, actor, accountID)
}

func (s stubMutatingService) ImportFromPrimary(ctx context.Context, req core.ImportFromPrimaryRequest) ([]core.Account, error) {
	if s.importFromPrimaryFn == nil {
		return nil, fmt.Errorf("import from primary not configured")
	}
	return s.importFromPrimaryFn(ctx, req)
}

func (s stubMutatingService) ImportFromAlt(ctx context.Context, req core.ImportFromAltRequest) ([]core.Account, error) {
	if s.importFromAltFn == nil {
		return nil, fmt.Errorf("import from alt not configured")
	}
	return s.importFromAltFn(ctx, req)
}

func (s stubMutatingService) ProvisionLinkedAccount(ctx context.Context, req core.ProvisionLinkedAccountRequest) (core.ProvisionLinkedAccountResult, error) {
	if s.provisionLinkedAccountFn == nil {
		return core.ProvisionLinkedAccountResult{}, fmt.Errorf("provision not configured")
	}
	return s.provisionLinkedAccountFn(ctx, req)
}

func (s stubMutatingService) ResetAndNotify(ctx context.Context, actor core.Actor, accountID int64) error {
	if s.resetAndNotifyFn == nil {
		return fmt.Errorf("reset not configured")
	}
	return s.resetAndNotifyFn(ctx, actor, accountID)
}

var _ MutatingService = stubMutatingService{}
