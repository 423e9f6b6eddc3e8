// Package logger builds *slog.Logger instances for the client and keeps
// attribute names consistent across packages.
//
// New picks a JSON or text handler, applies static attributes and wraps the
// handler so registered ContextExtractor callbacks can add request-scoped
// values (the request id, for example) to every record:
//
//	log := logger.New(
//	    logger.WithFormat(logger.ParseFormat(cfg.LogFormat)),
//	    logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//
//	log.InfoContext(ctx, "login succeeded",
//	    logger.Component("auth"),
//	    logger.UserID(u.ID),
//	)
//
// Attribute helpers drop themselves when given empty input, so calls such as
// logger.Error(err) need no nil check. Secrets are never passed to the logger:
// Cookie records a cookie name only.
package logger
