package core

// PermissionGuard enforces the access and escalation rules around accounts.
// Only the owner may mint new admins, and the owner account is untouchable
// by anyone but the owner.
type PermissionGuard struct {
	ownerID int64
}

func NewPermissionGuard(ownerID int64) PermissionGuard {
	if ownerID <= 0 {
		ownerID = defaultOwnerAccountID
	}
	return PermissionGuard{ownerID: ownerID}
}

func (g PermissionGuard) OwnerID() int64 {
	return g.ownerID
}

func (g PermissionGuard) IsOwner(accountID int64) bool {
	return accountID == g.ownerID
}

// CanGrant reports whether actor may assign the requested permission set.
// The admin bit is reserved: only the owner may hand it out, no matter what
// the actor itself holds.
func (g PermissionGuard) CanGrant(requested Permission, actor Actor) bool {
	if requested.HasExactly(PermissionAdmin) {
		return g.IsOwner(actor.ID)
	}
	return true
}

// CanAdministerAccounts reports whether actor holds the account management
// privilege required to read the directory or mutate other accounts.
func (g PermissionGuard) CanAdministerAccounts(actor Actor) bool {
	return actor.Can(PermissionManageAccounts)
}

// CanReadAccount lets account holders read their own record and elevated
// actors read any record.
func (g PermissionGuard) CanReadAccount(actor Actor, targetID int64) bool {
	return actor.ID == targetID || g.CanAdministerAccounts(actor)
}

// CanViewWatchData restricts playback history to the account holder and
// admins.
func (g PermissionGuard) CanViewWatchData(actor Actor, targetID int64) bool {
	return actor.ID == targetID || actor.Can(PermissionAdmin)
}

// CanViewWatchlist allows the account holder, elevated actors, and actors
// holding the watchlist view privilege.
func (g PermissionGuard) CanViewWatchlist(actor Actor, targetID int64) bool {
	if actor.ID == targetID {
		return true
	}
	return g.CanAdministerAccounts(actor) || actor.Can(PermissionViewWatchlists)
}

// CanViewQuota allows the account holder, or an elevated actor that also
// manages requests.
func (g PermissionGuard) CanViewQuota(actor Actor, targetID int64) bool {
	if actor.ID == targetID {
		return true
	}
	return g.CanAdministerAccounts(actor) && actor.Can(PermissionManageRequests)
}

// CanModify reports whether actor may change the target account at all.
// The owner account can only be modified by the owner.
func (g PermissionGuard) CanModify(targetID int64, actor Actor) bool {
	if g.IsOwner(targetID) {
		return g.IsOwner(actor.ID)
	}
	return true
}

// FilterBulkTargets drops ids the actor may not modify from a bulk edit.
// The owner account is silently excluded rather than failing the batch.
func (g PermissionGuard) FilterBulkTargets(ids []int64, actor Actor) []int64 {
	filtered := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !g.CanModify(id, actor) {
			continue
		}
		filtered = append(filtered, id)
	}
	return filtered
}
