// Package middleware provides net/http integration for authcore.
//
// Guard performs stateless access-token authentication only. It never
// touches the session store; refresh and logout stay with the application's
// own handlers.
package middleware
