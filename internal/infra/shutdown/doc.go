// Package shutdown coordinates process termination for rwmap-bench.
//
// A Handler turns SIGINT and SIGTERM into context cancellation and runs
// registered cleanup hooks, newest first, under a timeout:
//
//	h := shutdown.NewHandler(5 * time.Second)
//	ctx, stop := h.Context(context.Background())
//	defer stop()
//	h.OnShutdown(srv.Shutdown)
//	runWorkload(ctx)
//	err := h.Shutdown()
package shutdown
