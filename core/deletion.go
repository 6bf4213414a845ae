package core

import (
	"context"
	"errors"
	"strconv"
	"strings"
)

type DeletionStepName string

const (
	DeletionStepDeprovisionExternal DeletionStepName = "deprovision_external"
	DeletionStepDeleteRequests      DeletionStepName = "delete_requests"
	DeletionStepDeleteAccount       DeletionStepName = "delete_account"
)

type DeletionStepStatus string

const (
	DeletionStatusSucceeded            DeletionStepStatus = "succeeded"
	DeletionStatusSkippedNotApplicable DeletionStepStatus = "skipped_not_applicable"
	DeletionStatusSkippedAlreadyAbsent DeletionStepStatus = "skipped_already_absent"
	DeletionStatusFailed               DeletionStepStatus = "failed"
)

type DeletionStep struct {
	Name   DeletionStepName   `json:"name"`
	Status DeletionStepStatus `json:"status"`
	Detail string             `json:"detail,omitempty"`
}

type DeletionReport struct {
	AccountID int64          `json:"accountId"`
	Steps     []DeletionStep `json:"steps"`
}

// DeleteAccount runs the removal saga: deprovision the external alt server
// user, purge the account's requests, then delete the account row. The
// steps are not one transaction; each outcome is reported so operators can
// see exactly how far a partial run got. A remote user that is already
// gone does not fail the run.
func (s *Service) DeleteAccount(ctx context.Context, actor Actor, accountID int64) (report DeletionReport, err error) {
	startedAt := s.now()
	fields := map[string]any{
		"actor_id":   actor.ID,
		"account_id": accountID,
	}
	defer func() {
		s.observeOperation(ctx, startedAt, "delete_account", err, fields)
	}()

	if !s.guard.CanAdministerAccounts(actor) {
		err = s.mapError(forbiddenError("deleting accounts requires account management"))
		return DeletionReport{}, err
	}
	// The owner account is never deletable, not even by the owner itself.
	if s.guard.IsOwner(accountID) {
		err = s.mapError(forbiddenError("the owner account cannot be deleted"))
		return DeletionReport{}, err
	}
	account, getErr := s.accounts.Get(ctx, accountID)
	if getErr != nil {
		err = s.mapError(getErr)
		return DeletionReport{}, err
	}

	report = DeletionReport{AccountID: accountID}

	report.Steps = append(report.Steps, s.deprovisionExternal(ctx, account))

	deleted, purgeErr := s.requests.DeleteByAccount(ctx, accountID)
	if purgeErr != nil {
		report.Steps = append(report.Steps, DeletionStep{
			Name:   DeletionStepDeleteRequests,
			Status: DeletionStatusFailed,
			Detail: purgeErr.Error(),
		})
		err = s.mapError(purgeErr)
		return report, err
	}
	report.Steps = append(report.Steps, DeletionStep{
		Name:   DeletionStepDeleteRequests,
		Status: DeletionStatusSucceeded,
		Detail: pluralize(deleted, "request"),
	})

	if deleteErr := s.accounts.Delete(ctx, accountID); deleteErr != nil {
		report.Steps = append(report.Steps, DeletionStep{
			Name:   DeletionStepDeleteAccount,
			Status: DeletionStatusFailed,
			Detail: deleteErr.Error(),
		})
		err = s.mapError(deleteErr)
		return report, err
	}
	report.Steps = append(report.Steps, DeletionStep{
		Name:   DeletionStepDeleteAccount,
		Status: DeletionStatusSucceeded,
	})

	s.recordActivity(ctx, ActivityEntry{
		AccountID: accountID,
		ActorID:   actor.ID,
		Action:    ActivityActionDeleted,
	})
	return report, nil
}

func (s *Service) deprovisionExternal(ctx context.Context, account Account) DeletionStep {
	step := DeletionStep{Name: DeletionStepDeprovisionExternal}
	externalID := strings.TrimSpace(account.AltExternalID)
	if externalID == "" || s.alt == nil {
		step.Status = DeletionStatusSkippedNotApplicable
		return step
	}
	deleteErr := s.alt.DeleteUser(ctx, externalID)
	switch {
	case deleteErr == nil:
		step.Status = DeletionStatusSucceeded
	case errors.Is(deleteErr, ErrRemoteNotFound):
		step.Status = DeletionStatusSkippedAlreadyAbsent
	default:
		step.Status = DeletionStatusFailed
		step.Detail = deleteErr.Error()
		s.logError(ctx, "alt server deprovision failed", map[string]any{
			"account_id": account.ID,
			"error":      deleteErr.Error(),
		})
	}
	return step
}

func pluralize(count int, noun string) string {
	if count == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(count) + " " + noun + "s"
}
