package query

import (
	"github.com/goliatone/go-accounts/core"
)

const (
	TypeListAccounts        = "accounts.query.account.list"
	TypeGetAccount          = "accounts.query.account.get"
	TypeListAccountRequests = "accounts.query.requests.list"
	TypeGetQuota            = "accounts.query.quota.get"
	TypeWatchData           = "accounts.query.watch_data.get"
	TypeWatchlist           = "accounts.query.watchlist.get"
	TypeListActivity        = "accounts.query.activity.list"
)

type ListAccountsMessage struct {
	Request core.ListAccountsRequest
}

func (ListAccountsMessage) Type() string { return TypeListAccounts }

func (m ListAccountsMessage) Validate() error {
	if m.Request.Take < 0 {
		return queryInvalidInputError("query: take must be >= 0")
	}
	if m.Request.Skip < 0 {
		return queryInvalidInputError("query: skip must be >= 0")
	}
	return nil
}

type GetAccountMessage struct {
	Actor     core.Actor
	AccountID int64
}

func (GetAccountMessage) Type() string { return TypeGetAccount }

func (m GetAccountMessage) Validate() error {
	if m.AccountID <= 0 {
		return queryInvalidInputError("query: account id is required")
	}
	return nil
}

type ListAccountRequestsMessage struct {
	Request core.ListAccountRequestsRequest
}

func (ListAccountRequestsMessage) Type() string { return TypeListAccountRequests }

func (m ListAccountRequestsMessage) Validate() error {
	if m.Request.AccountID <= 0 {
		return queryInvalidInputError("query: account id is required")
	}
	if m.Request.Take < 0 {
		return queryInvalidInputError("query: take must be >= 0")
	}
	if m.Request.Skip < 0 {
		return queryInvalidInputError("query: skip must be >= 0")
	}
	return nil
}

type GetQuotaMessage struct {
	Actor     core.Actor
	AccountID int64
}

func (GetQuotaMessage) Type() string { return TypeGetQuota }

func (m GetQuotaMessage) Validate() error {
	if m.AccountID <= 0 {
		return queryInvalidInputError("query: account id is required")
	}
	return nil
}

type WatchDataMessage struct {
	Actor     core.Actor
	AccountID int64
}

func (WatchDataMessage) Type() string { return TypeWatchData }

func (m WatchDataMessage) Validate() error {
	if m.AccountID <= 0 {
		return queryInvalidInputError("query: account id is required")
	}
	return nil
}

// ListActivityMessage pages through the audit trail. AccountID zero means
// all accounts.
type ListActivityMessage struct {
	Actor     core.Actor
	AccountID int64
	Take      int
	Skip      int
}

func (ListActivityMessage) Type() string { return TypeListActivity }

func (m ListActivityMessage) Validate() error {
	if m.AccountID < 0 {
		return queryInvalidInputError("query: account id must be >= 0")
	}
	if m.Take < 0 {
		return queryInvalidInputError("query: take must be >= 0")
	}
	if m.Skip < 0 {
		return queryInvalidInputError("query: skip must be >= 0")
	}
	return nil
}

type WatchlistMessage struct {
	Actor     core.Actor
	AccountID int64
	Page      int
}

func (WatchlistMessage) Type() string { return TypeWatchlist }

func (m WatchlistMessage) Validate() error {
	if m.AccountID <= 0 {
		return queryInvalidInputError("query: account id is required")
	}
	if m.Page < 0 {
		return queryInvalidInputError("query: page must be >= 0")
	}
	return nil
}
