// Package auth orchestrates the session flows of a cookie-session client:
// login, logout and cold-start restore, plus route guards for
// authenticated-only and guest-only pages.
//
// A Service works on one execution context. It talks to the backend through
// an API (normally *transport.Transport), writes the session.Store of that
// context and asks a Navigator to move to another page.
//
//	svc := auth.New(tr, store, nav)
//	target, err := svc.Login(ctx, auth.Credentials{Identifier: "a@b.com", Secret: "pw"}, r.URL.Query())
//	if err != nil {
//	    for _, fe := range transport.FieldErrors(err) {
//	        // show fe.Message next to fe.Field
//	    }
//	}
//
// Login is a no-op when a user is present. Logout always leaves the store
// empty and never fails. BootstrapSession never returns an error; a 401 is
// the normal answer for an anonymous visitor.
//
// The guards read the per-request store from the request context:
//
//	r.With(auth.RequireAuth("/login")).Get("/dashboard", dashboard)
//	r.With(auth.GuestOnly("/")).Get("/login", loginPage)
package auth
