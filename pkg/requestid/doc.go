// Package requestid carries a correlation id from an inbound request to the
// outbound API calls made on its behalf.
//
// Middleware accepts a well-formed X-Request-ID from the caller or generates
// a UUID, echoes it back and stores it in the request context. The transport
// calls Inject so the backend sees the same id, and LoggerExtractor plugs it
// into every log record:
//
//	log := logger.New(logger.WithContextExtractors(requestid.LoggerExtractor()))
//	http.ListenAndServe(":8080", requestid.Middleware(mux))
//
// Client-supplied ids longer than 128 characters or containing anything other
// than letters, digits, '-' and '_' are replaced.
package requestid
