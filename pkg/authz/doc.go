// Package authz answers boolean permission questions for an actor and
// provides the two enforcement gates consumed by the request layer.
//
// The decision service re-reads the role's permission bundle from the store
// on every query rather than trusting a role object loaded at login time, so
// an admin edit to a role takes effect on the next request. A missing actor
// or role is never an error: the engine fails closed and answers false.
//
// The gates are independent and composable. The role gate compares declared
// role names case-insensitively and lets the configured super role through
// unconditionally; the permission gate requires the actor's role to hold
// every declared permission.
package authz
