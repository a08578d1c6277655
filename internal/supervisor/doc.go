// LocalRailwayServerForTheGame - Fish Tank Event Hub
// Copyright 2026 JawdatTayfourAKAJay
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame

/*
Package supervisor runs the hub's long-lived services under suture v4.

	RootSupervisor ("fishtank-hub")
	├── DataSupervisor ("data-layer")
	│   └── DedupJanitorService
	├── MessagingSupervisor ("messaging-layer")
	│   └── WebSocketHubService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services restart with backoff; a restart of the HTTP server leaves
display connections alone, and the other way round. Supervisor events go to
slog through sutureslog, which main points at the zerolog adapter.

A service returning suture.ErrTerminateSupervisorTree stops the whole tree.
The HTTP service does this when it cannot bind its port.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddMessagingService(services.NewWebSocketHubService(hub))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	return tree.Serve(ctx)
*/
package supervisor
