// Package httpserver runs an http.Handler with timeouts and graceful
// shutdown, and provides liveness and readiness handlers.
//
// Run binds the listener, serves until its context is canceled and then
// calls http.Server.Shutdown with the configured deadline. Signal handling
// belongs to the caller, typically via signal.NotifyContext.
//
// # Usage
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//	    log.Error("server failed", logger.Error(err))
//	}
//
// Readiness takes named checks such as mongo.Healthcheck or
// redis.Healthcheck and reports each one as "up" or "down".
package httpserver
