// Package server manages the HTTP server lifecycle with graceful shutdown.
//
// It wraps [net/http.Server] and handles OS signal interception (SIGINT,
// SIGTERM), in-flight request draining, and ordered cleanup of external
// resources such as the resource store.
//
// Basic usage:
//
//	srv := server.New(app, server.WithHost(":8080"))
//	if err := srv.Run(ctx); err != nil {
//		log.Fatal(err)
//	}
//
// Registering shutdown hooks, which run once requests have drained:
//
//	srv := server.New(app,
//		server.WithShutdownFunc(func(ctx context.Context) error {
//			return st.Close()
//		}),
//	)
package server
