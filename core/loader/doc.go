// Package loader mounts feature route groups on the Fiber app.
//
// A feature (presence, integrity, archive) implements Feature and is
// registered with a Manager. LoadAll mounts the enabled ones in registration
// order and logs disabled ones; the archive feature, for instance, reports
// itself disabled when storage is off, so /archive is simply not mounted.
//
//	mgr := loader.NewManager(log)
//	mgr.Register(presence.NewFeature(addon, links, log))
//	if err := mgr.LoadAll(app); err != nil {
//	    return err
//	}
package loader
