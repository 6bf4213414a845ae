package sync

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-accounts/core"
)

// JobIDWatchlistResync is the queue identifier hosts register the resync
// task under.
const JobIDWatchlistResync = "accounts.watchlist.resync"

// ParamAccountID selects a single account; without it the task sweeps the
// whole directory.
const ParamAccountID = "account_id"

type ResyncTask struct {
	orchestrator *Orchestrator
}

func NewResyncTask(orchestrator *Orchestrator) *ResyncTask {
	return &ResyncTask{orchestrator: orchestrator}
}

func (t *ResyncTask) JobID() string { return JobIDWatchlistResync }

func (t *ResyncTask) Execute(ctx context.Context, msg *core.JobExecutionMessage) error {
	if t == nil || t.orchestrator == nil {
		return fmt.Errorf("sync: resync task requires an orchestrator")
	}
	if msg != nil {
		if accountID, ok := accountIDParameter(msg.Parameters); ok {
			_, err := t.orchestrator.ResyncAccount(ctx, accountID)
			return err
		}
	}
	summary, err := t.orchestrator.ResyncAll(ctx)
	if err != nil {
		return err
	}
	if len(summary.Failures) > 0 {
		return fmt.Errorf("sync: %d of %d accounts failed to resync", len(summary.Failures), summary.Scanned)
	}
	return nil
}

func accountIDParameter(params map[string]any) (int64, bool) {
	raw, ok := params[ParamAccountID]
	if !ok {
		return 0, false
	}
	switch value := raw.(type) {
	case int64:
		return value, value > 0
	case int:
		return int64(value), value > 0
	case float64:
		return int64(value), value > 0
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return 0, false
		}
		return parsed, parsed > 0
	}
	return 0, false
}
