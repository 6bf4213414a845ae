package core

import (
	"context"
	"time"
)

type QuotaDetail struct {
	Limit      int  `json:"limit"`
	Days       int  `json:"days"`
	Used       int  `json:"used"`
	Remaining  int  `json:"remaining"`
	Restricted bool `json:"restricted"`
}

type QuotaStatus struct {
	Movie QuotaDetail `json:"movie"`
	TV    QuotaDetail `json:"tv"`
}

// GetQuota computes the rolling request quota for an account. Per-account
// overrides win over the configured defaults; a limit of zero means
// unlimited.
func (s *Service) GetQuota(ctx context.Context, actor Actor, accountID int64) (status QuotaStatus, err error) {
	startedAt := s.now()
	fields := map[string]any{
		"actor_id":   actor.ID,
		"account_id": accountID,
	}
	defer func() {
		s.observeOperation(ctx, startedAt, "get_quota", err, fields)
	}()

	if !s.guard.CanViewQuota(actor, accountID) {
		err = s.mapError(forbiddenError("not allowed to view this account's quota"))
		return QuotaStatus{}, err
	}

	account, getErr := s.accounts.Get(ctx, accountID)
	if getErr != nil {
		err = s.mapError(getErr)
		return QuotaStatus{}, err
	}

	movie, movieErr := s.quotaDetail(ctx, account, MediaKindMovie,
		account.MovieQuotaLimit, account.MovieQuotaDays,
		s.config.Quota.MovieLimit, s.config.Quota.MovieDays)
	if movieErr != nil {
		err = s.mapError(movieErr)
		return QuotaStatus{}, err
	}
	tv, tvErr := s.quotaDetail(ctx, account, MediaKindTV,
		account.TVQuotaLimit, account.TVQuotaDays,
		s.config.Quota.TVLimit, s.config.Quota.TVDays)
	if tvErr != nil {
		err = s.mapError(tvErr)
		return QuotaStatus{}, err
	}
	return QuotaStatus{Movie: movie, TV: tv}, nil
}

func (s *Service) quotaDetail(
	ctx context.Context,
	account Account,
	kind MediaKind,
	overrideLimit, overrideDays int,
	defaultLimit, defaultDays int,
) (QuotaDetail, error) {
	limit := defaultLimit
	days := defaultDays
	if overrideLimit > 0 {
		limit = overrideLimit
	}
	if overrideDays > 0 {
		days = overrideDays
	}
	detail := QuotaDetail{Limit: limit, Days: days}
	if limit <= 0 {
		return detail, nil
	}

	since := s.now().Add(-time.Duration(days) * 24 * time.Hour)
	used, err := s.requests.CountByAccountSince(ctx, account.ID, kind, since)
	if err != nil {
		return QuotaDetail{}, err
	}
	detail.Used = used
	detail.Remaining = limit - used
	if detail.Remaining < 0 {
		detail.Remaining = 0
	}
	detail.Restricted = used >= limit
	return detail, nil
}
