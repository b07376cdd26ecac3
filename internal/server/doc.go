// Package server provides HTTP routing, middleware, and the handlers on both ends of the PKCE login.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Callback Handler
//
// [CallbackHandler] runs inside the CLI on the redirect URI. It checks the echoed state (CSRF protection),
// completes the login through the broker, and sends the result through a channel.
// It only processes one callback to prevent replay attacks.
//
// # Exchange Handler
//
// [ExchangeHandler] is the trusted backend: it holds the client secret and trades
// {code, code_verifier} for {access_token} on the CLI's behalf.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
