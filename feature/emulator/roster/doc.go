// Package roster binds the emulator database to the reconciliation engine.
//
// Provider implements reconcile.RosterProvider by selecting every user whose
// online flag is '1' from the emulator's user table. LinkStore implements
// reconcile.LinkingService on the presence_links table.
//
// # Usage
//
//	provider, err := roster.NewProvider(db, "arcturus")
//	links := roster.NewLinkStore(db)
//	if err := links.EnsureSchema(ctx); err != nil {
//	    return err
//	}
package roster
