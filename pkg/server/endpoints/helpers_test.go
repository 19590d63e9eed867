package endpoints

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/taskhub/rbac/pkg/audit"
	"github.com/taskhub/rbac/pkg/config"
	"github.com/taskhub/rbac/pkg/identity"
	"github.com/taskhub/rbac/pkg/server"
	"github.com/taskhub/rbac/pkg/store"
	"github.com/taskhub/rbac/pkg/store/storetest"
)

const signingKey = "endpoint-test-key"

func init() {
	audit.SetEnabled(false)
}

func newTestServer(t *testing.T) (*server.Server, *storetest.Memory) {
	t.Helper()
	mem := storetest.New()
	cfg := &config.Config{
		SuperRoleName:   "admin",
		TokenSigningKey: signingKey,
	}
	s := server.NewServer(cfg, mem, log.New(io.Discard, "", 0), "localhost", "0")
	RegisterAll(s)
	return s, mem
}

func token(t *testing.T, subject, roleID, roleName string) string {
	t.Helper()
	claims := &identity.Claims{
		RoleID:   roleID,
		RoleName: roleName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(signingKey))
	require.NoError(t, err)
	return signed
}

func adminToken(t *testing.T) string {
	return token(t, "alice", "role-admin", "admin")
}

func doJSON(t *testing.T, s *server.Server, method, path, tok string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = "192.0.2.1:50000"
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	recorder := httptest.NewRecorder()
	s.Router.ServeHTTP(recorder, req)
	return recorder
}

func decode(t *testing.T, recorder *httptest.ResponseRecorder, into interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), into))
}

func mustCreatePermission(t *testing.T, mem *storetest.Memory, name string) store.Permission {
	t.Helper()
	p := &store.Permission{Name: name, Group: "Tasks"}
	require.NoError(t, mem.Permissions().CreatePermission(p))
	return *p
}

func mustCreateRole(t *testing.T, mem *storetest.Memory, name string, system bool, permissions ...store.Permission) store.Role {
	t.Helper()
	role := &store.Role{Name: name, IsSystemRole: system, Permissions: permissions}
	require.NoError(t, mem.Roles().CreateRole(role))
	return *role
}
