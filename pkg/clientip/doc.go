// Package clientip resolves the address of the browser behind a request and
// carries it to outbound calls made on that browser's behalf.
//
// A backend that throttles login attempts per address would otherwise see
// every browser as the server-side renderer. The forwarding transport uses
// AppendForwardedFor to pass the resolved address on:
//
//	ip := clientip.FromRequest(r)
//	clientip.AppendForwardedFor(outbound.Header, ip)
//
// Only deploy behind a proxy that overwrites X-Forwarded-For; the header is
// trusted as sent.
package clientip
