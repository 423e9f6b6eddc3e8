// Package httpserver runs an HTTP server whose lifetime is bound to a
// context, plus liveness and readiness handlers.
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//
//	srv := httpserver.New(httpserver.WithAddr(":8080"), httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//	    log.Error("server failed", logger.Error(err))
//	}
//
// Run returns nil after a graceful shutdown. Start failures are wrapped with
// ErrStart, shutdown failures with ErrShutdown.
//
// ReadinessHandler runs named checks under a timeout and answers 503 when
// any of them fails:
//
//	r.Get("/readyz", httpserver.ReadinessHandler(log, 2*time.Second, map[string]httpserver.Check{
//	    "backend": pingBackend,
//	}))
package httpserver
