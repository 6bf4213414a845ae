package core

import (
	"context"
	"strings"
)

const defaultDirectoryPageSize = 10

type ListAccountsRequest struct {
	Actor Actor
	Take  int
	Skip  int
	Sort  AccountSortKey
}

type PageInfo struct {
	Page     int `json:"page"`
	Pages    int `json:"pages"`
	PageSize int `json:"pageSize"`
	Results  int `json:"results"`
}

type AccountPage struct {
	PageInfo PageInfo      `json:"pageInfo"`
	Results  []AccountView `json:"results"`
}

var accountSortKeys = map[AccountSortKey]struct{}{
	AccountSortCreated:                {},
	AccountSortUpdated:                {},
	AccountSortDisplayName:            {},
	AccountSortRequests:               {},
	AccountSortSubscriptionStatus:     {},
	AccountSortSubscriptionExpiration: {},
	AccountSortSuspiciousActivity:     {},
}

// ListAccounts returns one page of the account directory, sorted by the
// requested key and projected for the calling actor.
func (s *Service) ListAccounts(ctx context.Context, req ListAccountsRequest) (page AccountPage, err error) {
	startedAt := s.now()
	fields := map[string]any{
		"actor_id": req.Actor.ID,
		"sort":     string(req.Sort),
		"take":     req.Take,
		"skip":     req.Skip,
	}
	defer func() {
		s.observeOperation(ctx, startedAt, "list_accounts", err, fields)
	}()

	if !s.guard.CanAdministerAccounts(req.Actor) {
		err = s.mapError(forbiddenError("listing accounts requires account management"))
		return AccountPage{}, err
	}

	take := req.Take
	if take <= 0 {
		take = defaultDirectoryPageSize
	}
	skip := req.Skip
	if skip < 0 {
		skip = 0
	}
	sortKey := AccountSortKey(strings.TrimSpace(strings.ToLower(string(req.Sort))))
	if sortKey == "" {
		sortKey = AccountSortCreated
	}
	if _, ok := accountSortKeys[sortKey]; !ok {
		err = s.mapError(badInputError("invalid sort key: " + string(req.Sort)))
		return AccountPage{}, err
	}

	rows, total, listErr := s.accounts.List(ctx, ListAccountsInput{
		Take: take,
		Skip: skip,
		Sort: sortKey,
	})
	if listErr != nil {
		err = s.mapError(listErr)
		return AccountPage{}, err
	}

	results := make([]AccountView, 0, len(rows))
	for _, row := range rows {
		results = append(results, ProjectAccount(row.Account, row.RequestCount, req.Actor))
	}

	pages := total / take
	if total%take != 0 {
		pages++
	}
	if pages == 0 {
		pages = 1
	}
	return AccountPage{
		PageInfo: PageInfo{
			Page:     skip/take + 1,
			Pages:    pages,
			PageSize: take,
			Results:  total,
		},
		Results: results,
	}, nil
}

// GetAccount fetches a single account projected for the calling actor.
func (s *Service) GetAccount(ctx context.Context, actor Actor, accountID int64) (view AccountView, err error) {
	startedAt := s.now()
	fields := map[string]any{
		"actor_id":   actor.ID,
		"account_id": accountID,
	}
	defer func() {
		s.observeOperation(ctx, startedAt, "get_account", err, fields)
	}()

	if !s.guard.CanReadAccount(actor, accountID) {
		err = s.mapError(forbiddenError("not allowed to view this account"))
		return AccountView{}, err
	}

	account, getErr := s.accounts.Get(ctx, accountID)
	if getErr != nil {
		err = s.mapError(getErr)
		return AccountView{}, err
	}
	_, total, countErr := s.requests.ListByAccount(ctx, accountID, 1, 0)
	if countErr != nil {
		err = s.mapError(countErr)
		return AccountView{}, err
	}
	return ProjectAccount(account, total, actor), nil
}

type ListAccountRequestsRequest struct {
	Actor     Actor
	AccountID int64
	Take      int
	Skip      int
}

type RequestPage struct {
	PageInfo PageInfo       `json:"pageInfo"`
	Results  []MediaRequest `json:"results"`
}

// ListAccountRequests pages through the media requests submitted by one
// account. The account must exist; an unknown id is a not found error, not
// an empty page.
func (s *Service) ListAccountRequests(ctx context.Context, req ListAccountRequestsRequest) (page RequestPage, err error) {
	startedAt := s.now()
	fields := map[string]any{
		"actor_id":   req.Actor.ID,
		"account_id": req.AccountID,
	}
	defer func() {
		s.observeOperation(ctx, startedAt, "list_account_requests", err, fields)
	}()

	if !s.guard.CanReadAccount(req.Actor, req.AccountID) {
		err = s.mapError(forbiddenError("not allowed to view this account's requests"))
		return RequestPage{}, err
	}

	if _, getErr := s.accounts.Get(ctx, req.AccountID); getErr != nil {
		err = s.mapError(getErr)
		return RequestPage{}, err
	}

	take := req.Take
	if take <= 0 {
		take = defaultDirectoryPageSize
	}
	skip := req.Skip
	if skip < 0 {
		skip = 0
	}
	requests, total, listErr := s.requests.ListByAccount(ctx, req.AccountID, take, skip)
	if listErr != nil {
		err = s.mapError(listErr)
		return RequestPage{}, err
	}
	pages := total / take
	if total%take != 0 {
		pages++
	}
	if pages == 0 {
		pages = 1
	}
	return RequestPage{
		PageInfo: PageInfo{
			Page:     skip/take + 1,
			Pages:    pages,
			PageSize: take,
			Results:  total,
		},
		Results: requests,
	}, nil
}
