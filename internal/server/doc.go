// Package server runs the local OAuth callback used to authorize playlist writes.
//
// # Router
//
// [BasicRouter] implements [Router] on top of [http.ServeMux] with method filtering.
// [Middleware] is applied in reverse order, so the first one added is the outermost.
//
// # Authorization
//
// [Login] starts a temporary server for the redirect URI, opens the Google consent page
// and waits for [OAuthHandler] to exchange the code. The handler validates the state
// parameter and accepts a single callback.
//
// Tokens are stored as JSON by [SaveToken] and read back by [AccessToken], which refreshes
// expired tokens through the config's token source.
package server
