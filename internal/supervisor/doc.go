// Tally - User Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tally

/*
Package supervisor provides process supervision for Tally using suture v4.

Long-running services are arranged in a two-layer tree so a failure in one
layer restarts that layer alone:

	RootSupervisor ("tally")
	├── DataSupervisor ("data-layer")
	│   └── CheckpointService (if DUCKDB_CHECKPOINT_INTERVAL > 0)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services restart with suture's backoff once FailureThreshold
failures accumulate (decaying at FailureDecay per second). Supervisor
events are logged through sutureslog on top of the zerolog slog adapter.

Usage in main.go:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
	    ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddDataService(services.NewCheckpointService(db, cfg.Database.CheckpointInterval))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	err = tree.Serve(ctx)

Service wrappers live in the services subpackage.
*/
package supervisor
