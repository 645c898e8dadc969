// Tally - User Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tally

/*
Package services adapts Tally components to suture's Service interface:

	type Service interface {
	    Serve(ctx context.Context) error
	}

Each wrapper blocks in Serve until its context is canceled, returns an
error when the component fails so the supervisor can restart it, and
implements fmt.Stringer so supervisor events name the service.

HTTPServerService:
  - runs *http.Server.ListenAndServe
  - drains connections with Shutdown on cancellation

CheckpointService:
  - runs CHECKPOINT against the event store on an interval
  - logs failures and keeps running
  - checkpoints once more on shutdown

Both are registered by cmd/server:

	tree.AddDataService(services.NewCheckpointService(db, cfg.Database.CheckpointInterval))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
*/
package services
