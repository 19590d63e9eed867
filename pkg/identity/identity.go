package identity

import (
	"context"
	"net"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// Key is the context key for Actor.
	Key ContextKey = "actor"
)

// Claims are the JWT claims carried by an actor token. The role id and name
// are resolved at token issue time; guards re-read the role's permission
// bundle from the store on every decision, so a stale name only affects the
// role gate, never the permission gate.
type Claims struct {
	RoleID   string `json:"role_id"`
	RoleName string `json:"role_name"`
	jwt.RegisteredClaims
}

// Actor represents the authenticated actor for a request.
// It combines token claims with request-specific context.
type Actor struct {
	// Token claims
	Subject   string
	RoleID    string
	RoleName  string
	IssuedAt  time.Time
	ExpiresAt time.Time

	// Request context
	RemoteIP net.IP // Client IP address
}

// FromClaims creates an Actor from verified token claims.
func FromClaims(claims *Claims) *Actor {
	actor := &Actor{
		Subject:  claims.Subject,
		RoleID:   claims.RoleID,
		RoleName: claims.RoleName,
	}
	if claims.IssuedAt != nil {
		actor.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		actor.ExpiresAt = claims.ExpiresAt.Time
	}
	return actor
}

// WithRemoteIP sets the remote IP address.
func (a *Actor) WithRemoteIP(ip net.IP) *Actor {
	a.RemoteIP = ip
	return a
}

// ClientIP returns the remote IP as a string, or "" if unknown.
func (a *Actor) ClientIP() string {
	if a.RemoteIP == nil {
		return ""
	}
	return a.RemoteIP.String()
}

// Get retrieves the Actor from context.
func Get(ctx context.Context) (*Actor, bool) {
	actor, ok := ctx.Value(Key).(*Actor)
	return actor, ok
}

// Set stores the Actor in context.
func Set(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, Key, actor)
}
