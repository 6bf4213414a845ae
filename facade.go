package accounts

import (
	"fmt"
	"reflect"

	accountscommand "github.com/goliatone/go-accounts/command"
	"github.com/goliatone/go-accounts/core"
	accountsquery "github.com/goliatone/go-accounts/query"
)

// CommandQueryService is what the facade wraps. *core.Service satisfies it.
type CommandQueryService interface {
	accountscommand.MutatingService
	accountsquery.DirectoryReader
	accountsquery.QuotaReader
	accountsquery.WatchDataReader
	accountsquery.WatchlistReader
}

type Commands struct {
	CreateLocalAccount *accountscommand.CreateLocalAccountCommand
	UpdatePermissions  *accountscommand.UpdatePermissionsCommand
	UpdateAccount      *accountscommand.UpdateAccountCommand
	DeleteAccount      *accountscommand.DeleteAccountCommand
	ImportFromPrimary  *accountscommand.ImportFromPrimaryCommand
	ImportFromAlt      *accountscommand.ImportFromAltCommand
	ProvisionAccount   *accountscommand.ProvisionAccountCommand
	ResetPassword      *accountscommand.ResetPasswordCommand
}

type Queries struct {
	ListAccounts        *accountsquery.ListAccountsQuery
	GetAccount          *accountsquery.GetAccountQuery
	ListAccountRequests *accountsquery.ListAccountRequestsQuery
	GetQuota            *accountsquery.GetQuotaQuery
	WatchData           *accountsquery.WatchDataQuery
	Watchlist           *accountsquery.WatchlistQuery
	ListActivity        *accountsquery.ListActivityQuery
}

type Facade struct {
	service  CommandQueryService
	commands Commands
	queries  Queries
}

type FacadeOption func(*facadeOptions)

type facadeOptions struct {
	activityReader accountsquery.AccountActivityReader
}

func WithActivityReader(reader accountsquery.AccountActivityReader) FacadeOption {
	return func(options *facadeOptions) {
		options.activityReader = reader
	}
}

// NewFacade builds the command/query surface around a service. The activity
// query is wired from an explicit reader, or resolved from the service's
// repository factory when it exposes an ActivityStore.
func NewFacade(service CommandQueryService, opts ...FacadeOption) (*Facade, error) {
	if service == nil {
		return nil, fmt.Errorf("accounts: command/query service is required")
	}
	cfg := facadeOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	reader := cfg.activityReader
	if reader == nil {
		reader = resolveActivityReader(service)
	}

	facade := &Facade{service: service}
	facade.commands = Commands{
		CreateLocalAccount: accountscommand.NewCreateLocalAccountCommand(service),
		UpdatePermissions:  accountscommand.NewUpdatePermissionsCommand(service),
		UpdateAccount:      accountscommand.NewUpdateAccountCommand(service),
		DeleteAccount:      accountscommand.NewDeleteAccountCommand(service),
		ImportFromPrimary:  accountscommand.NewImportFromPrimaryCommand(service),
		ImportFromAlt:      accountscommand.NewImportFromAltCommand(service),
		ProvisionAccount:   accountscommand.NewProvisionAccountCommand(service),
		ResetPassword:      accountscommand.NewResetPasswordCommand(service),
	}
	facade.queries = Queries{
		ListAccounts:        accountsquery.NewListAccountsQuery(service),
		GetAccount:          accountsquery.NewGetAccountQuery(service),
		ListAccountRequests: accountsquery.NewListAccountRequestsQuery(service),
		GetQuota:            accountsquery.NewGetQuotaQuery(service),
		WatchData:           accountsquery.NewWatchDataQuery(service),
		Watchlist:           accountsquery.NewWatchlistQuery(service),
		ListActivity:        accountsquery.NewListActivityQuery(reader),
	}

	return facade, nil
}

func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

func (f *Facade) Service() CommandQueryService {
	if f == nil {
		return nil
	}
	return f.service
}

func resolveActivityReader(service CommandQueryService) accountsquery.AccountActivityReader {
	if service == nil {
		return nil
	}
	if reader, ok := service.(accountsquery.AccountActivityReader); ok {
		return reader
	}
	provider, ok := service.(interface {
		Dependencies() core.ServiceDependencies
	})
	if !ok {
		return nil
	}
	deps := provider.Dependencies()
	if deps.RepositoryFactory == nil {
		return nil
	}

	factoryValue := reflect.ValueOf(deps.RepositoryFactory)
	if !factoryValue.IsValid() {
		return nil
	}
	if factoryValue.Kind() == reflect.Ptr && factoryValue.IsNil() {
		return nil
	}
	method := factoryValue.MethodByName("ActivityStore")
	if !method.IsValid() || method.Type().NumIn() != 0 || method.Type().NumOut() != 1 {
		return nil
	}

	results, ok := safeReflectCall(method)
	if !ok {
		return nil
	}
	if len(results) != 1 {
		return nil
	}
	candidate := results[0]
	if !candidate.IsValid() {
		return nil
	}
	if candidate.Kind() == reflect.Ptr && candidate.IsNil() {
		return nil
	}
	reader, ok := candidate.Interface().(accountsquery.AccountActivityReader)
	if !ok {
		return nil
	}
	return reader
}

func safeReflectCall(method reflect.Value) (_ []reflect.Value, ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return method.Call(nil), true
}
