// Package accounts persists registered accounts and their profiles.
//
// A Repository is bound to a dbx.DBTX, so the same implementation works on
// *sql.DB and inside a dbx.WithTx unit of work. Unique-constraint failures
// are reported as common.ErrorDuplicateUsername (accounts.username) and
// common.ErrorDuplicateEmail (profiles.email); missing rows as
// common.ErrorNotFound.
//
//	repo := accounts.NewSQLiteRepository(tx)
//	_ = repo.CreateProfile(ctx, &acc.Profile)
//	acc.ProfileID = acc.Profile.ID
//	_ = repo.Create(ctx, acc)
package accounts
