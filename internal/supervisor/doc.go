// CineRec - Item-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

/*
Package supervisor runs the long-lived services of CineRec under a suture v4
supervisor tree.

	RootSupervisor ("cinerec")
	├── DataSupervisor ("data-layer")
	│   └── SnapshotService (startup build, scheduled rebuilds)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A failing snapshot rebuild never takes the HTTP server down: requests keep
being served from the last published snapshot while the data layer restarts.

Supervisor events are logged through sutureslog, fed by the zerolog-backed
slog handler from the logging package:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddDataService(services.NewSnapshotService(engine, snapCfg, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	err = tree.Serve(ctx)
*/
package supervisor
