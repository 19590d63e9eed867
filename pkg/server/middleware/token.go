package middleware

import (
	"fmt"
	"net"
	"net/http"
	"regexp"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taskhub/rbac/pkg/config"
	"github.com/taskhub/rbac/pkg/identity"
)

var bearerRegex = regexp.MustCompile(`^Bearer (\S+)$`)

// TokenVerifier is middleware that validates actor JWTs and stores the
// resulting Actor in the request context.
type TokenVerifier struct {
	key []byte
	cfg *config.Config
}

// NewTokenVerifier creates a TokenVerifier for an HMAC signing key.
func NewTokenVerifier(key []byte, cfg *config.Config) *TokenVerifier {
	return &TokenVerifier{key: key, cfg: cfg}
}

// Middleware returns an HTTP middleware that validates actor tokens
func (v *TokenVerifier) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")

		if len(authHeader) == 0 {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Authorization missing"))
			return
		}

		tokenMatches := bearerRegex.FindStringSubmatch(authHeader)

		if len(tokenMatches) != 2 {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Malformed authorization header"))
			return
		}

		claims := &identity.Claims{}
		_, err := jwt.ParseWithClaims(tokenMatches[1], claims, v.keyFunc,
			jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Invalid authorization token"))
			return
		}

		actor := identity.FromClaims(claims).WithRemoteIP(v.remoteIP(r))
		r = r.WithContext(identity.Set(r.Context(), actor))

		next.ServeHTTP(w, r)
	})
}

func (v *TokenVerifier) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return v.key, nil
}

// remoteIP resolves the client IP, honoring X-Forwarded-For only when the
// direct peer is a trusted proxy.
func (v *TokenVerifier) remoteIP(r *http.Request) net.IP {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	if v.cfg != nil && v.cfg.IsTrustedProxy(host) {
		if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			first := strings.TrimSpace(strings.Split(forwarded, ",")[0])
			if ip := net.ParseIP(first); ip != nil {
				return ip
			}
		}
	}

	return net.ParseIP(host)
}
