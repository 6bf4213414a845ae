package query

import (
	"context"

	"github.com/goliatone/go-accounts/core"
)

type DirectoryReader interface {
	ListAccounts(ctx context.Context, req core.ListAccountsRequest) (core.AccountPage, error)
	GetAccount(ctx context.Context, actor core.Actor, accountID int64) (core.AccountView, error)
	ListAccountRequests(ctx context.Context, req core.ListAccountRequestsRequest) (core.RequestPage, error)
}

type QuotaReader interface {
	GetQuota(ctx context.Context, actor core.Actor, accountID int64) (core.QuotaStatus, error)
}

type WatchDataReader interface {
	WatchData(ctx context.Context, actor core.Actor, accountID int64) (core.WatchData, error)
}

type WatchlistReader interface {
	Watchlist(ctx context.Context, actor core.Actor, accountID int64, pageNumber int) (core.WatchlistPage, error)
}

type ListAccountsQuery struct {
	reader DirectoryReader
}

func NewListAccountsQuery(reader DirectoryReader) *ListAccountsQuery {
	return &ListAccountsQuery{reader: reader}
}

func (q *ListAccountsQuery) Query(ctx context.Context, msg ListAccountsMessage) (core.AccountPage, error) {
	if q == nil || q.reader == nil {
		return core.AccountPage{}, queryDependencyError("query: directory reader is required")
	}
	return q.reader.ListAccounts(ctx, msg.Request)
}

type GetAccountQuery struct {
	reader DirectoryReader
}

func NewGetAccountQuery(reader DirectoryReader) *GetAccountQuery {
	return &GetAccountQuery{reader: reader}
}

func (q *GetAccountQuery) Query(ctx context.Context, msg GetAccountMessage) (core.AccountView, error) {
	if q == nil || q.reader == nil {
		return core.AccountView{}, queryDependencyError("query: directory reader is required")
	}
	return q.reader.GetAccount(ctx, msg.Actor, msg.AccountID)
}

type ListAccountRequestsQuery struct {
	reader DirectoryReader
}

func NewListAccountRequestsQuery(reader DirectoryReader) *ListAccountRequestsQuery {
	return &ListAccountRequestsQuery{reader: reader}
}

func (q *ListAccountRequestsQuery) Query(
	ctx context.Context,
	msg ListAccountRequestsMessage,
) (core.RequestPage, error) {
	if q == nil || q.reader == nil {
		return core.RequestPage{}, queryDependencyError("query: directory reader is required")
	}
	return q.reader.ListAccountRequests(ctx, msg.Request)
}

type GetQuotaQuery struct {
	reader QuotaReader
}

func NewGetQuotaQuery(reader QuotaReader) *GetQuotaQuery {
	return &GetQuotaQuery{reader: reader}
}

func (q *GetQuotaQuery) Query(ctx context.Context, msg GetQuotaMessage) (core.QuotaStatus, error) {
	if q == nil || q.reader == nil {
		return core.QuotaStatus{}, queryDependencyError("query: quota reader is required")
	}
	return q.reader.GetQuota(ctx, msg.Actor, msg.AccountID)
}

type WatchDataQuery struct {
	reader WatchDataReader
}

func NewWatchDataQuery(reader WatchDataReader) *WatchDataQuery {
	return &WatchDataQuery{reader: reader}
}

func (q *WatchDataQuery) Query(ctx context.Context, msg WatchDataMessage) (core.WatchData, error) {
	if q == nil || q.reader == nil {
		return core.WatchData{}, queryDependencyError("query: watch data reader is required")
	}
	return q.reader.WatchData(ctx, msg.Actor, msg.AccountID)
}

// AccountActivityReader is satisfied by the sql store's activity store.
type AccountActivityReader interface {
	List(ctx context.Context, in core.ListActivityInput) ([]core.ActivityEntry, int, error)
}

type ListActivityQuery struct {
	reader AccountActivityReader
}

func NewListActivityQuery(reader AccountActivityReader) *ListActivityQuery {
	return &ListActivityQuery{reader: reader}
}

func (q *ListActivityQuery) Query(ctx context.Context, msg ListActivityMessage) (core.ActivityPage, error) {
	if q == nil || q.reader == nil {
		return core.ActivityPage{}, queryDependencyError("query: account activity reader is required")
	}
	take := msg.Take
	if take <= 0 {
		take = 25
	}
	skip := msg.Skip
	if skip < 0 {
		skip = 0
	}
	entries, total, err := q.reader.List(ctx, core.ListActivityInput{
		AccountID: msg.AccountID,
		Take:      take,
		Skip:      skip,
	})
	if err != nil {
		return core.ActivityPage{}, err
	}
	pages := total / take
	if total%take != 0 {
		pages++
	}
	if pages == 0 {
		pages = 1
	}
	return core.ActivityPage{
		PageInfo: core.PageInfo{
			Page:     skip/take + 1,
			Pages:    pages,
			PageSize: take,
			Results:  total,
		},
		Results: entries,
	}, nil
}

type WatchlistQuery struct {
	reader WatchlistReader
}

func NewWatchlistQuery(reader WatchlistReader) *WatchlistQuery {
	return &WatchlistQuery{reader: reader}
}

func (q *WatchlistQuery) Query(ctx context.Context, msg WatchlistMessage) (core.WatchlistPage, error) {
	if q == nil || q.reader == nil {
		return core.WatchlistPage{}, queryDependencyError("query: watchlist reader is required")
	}
	return q.reader.Watchlist(ctx, msg.Actor, msg.AccountID, msg.Page)
}
