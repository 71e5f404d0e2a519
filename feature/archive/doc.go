// Package archive keeps an audit trail of reconciliation passes in object storage.
//
// Every pass that changed the roster produces a reconcile.PassReport. The
// Recorder queues it from the engine's pass callback and a background worker
// uploads it to passes/YYYY/MM/DD/<pass-id>.json in the configured bucket.
//
// # Usage
//
//	rec := archive.NewRecorder(client, cfg.Storage.Bucket, log, 0)
//	if err := rec.EnsureBucket(ctx); err != nil {
//	    return err
//	}
//	go rec.Run(ctx)
//	deps.OnPass = rec.Hook()
//
// The feature exposes GET /archive/passes to list one day's reports.
package archive
