// Package identity provides authenticated actor management for requests.
//
// An Actor combines verified JWT claims (subject, role id, role name) with
// request-specific context such as the client IP.
//
// # Basic Usage
//
//	// Create an actor from verified claims
//	actor := identity.FromClaims(claims)
//
//	// Add request context
//	actor.WithRemoteIP(clientIP)
//
//	// Store in request context
//	ctx = identity.Set(ctx, actor)
//
//	// Retrieve from context
//	actor, ok := identity.Get(ctx)
//
// The token only pins the actor's role identity; permission bundles are
// always re-read from the store when a guard evaluates, so an admin edit to
// a role takes effect on the next request without reissuing tokens.
package identity
