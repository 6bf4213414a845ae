package query

import (
	"github.com/goliatone/go-accounts/core"
	gocmd "github.com/goliatone/go-command"
)

var (
	_ gocmd.Querier[ListAccountsMessage, core.AccountPage]        = (*ListAccountsQuery)(nil)
	_ gocmd.Querier[GetAccountMessage, core.AccountView]          = (*GetAccountQuery)(nil)
	_ gocmd.Querier[ListAccountRequestsMessage, core.RequestPage] = (*ListAccountRequestsQuery)(nil)
	_ gocmd.Querier[GetQuotaMessage, core.QuotaStatus]            = (*GetQuotaQuery)(nil)
	_ gocmd.Querier[WatchDataMessage, core.WatchData]             = (*WatchDataQuery)(nil)
	_ gocmd.Querier[WatchlistMessage, core.WatchlistPage]         = (*WatchlistQuery)(nil)
	_ gocmd.Querier[ListActivityMessage, core.ActivityPage]       = (*ListActivityQuery)(nil)
)
