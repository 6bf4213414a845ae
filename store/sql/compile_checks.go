package sqlstore

import "github.com/goliatone/go-accounts/core"

var (
	_ core.AccountStoreProvider   = (*RepositoryFactory)(nil)
	_ core.RepositoryStoreFactory = (*RepositoryFactory)(nil)
)
