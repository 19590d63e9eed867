package authz

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhub/rbac/pkg/store"
)

// fakeRolesStore is an in-memory store.RolesStore for decision tests.
type fakeRolesStore struct {
	roles map[string]*store.Role
	err   error
}

func newFakeRolesStore(roles ...store.Role) *fakeRolesStore {
	f := &fakeRolesStore{roles: make(map[string]*store.Role)}
	for i := range roles {
		f.roles[roles[i].ID] = &roles[i]
	}
	return f
}

func (f *fakeRolesStore) ListRoles() ([]store.Role, error) {
	out := make([]store.Role, 0, len(f.roles))
	for _, r := range f.roles {
		out = append(out, *r)
	}
	return out, f.err
}

func (f *fakeRolesStore) GetRole(id string) (*store.Role, error) {
	if f.err != nil {
		return nil, f.err
	}
	r, ok := f.roles[id]
	if !ok {
		return nil, nil
	}
	copied := *r
	return &copied, nil
}

func (f *fakeRolesStore) GetRoleByName(name string) (*store.Role, error) {
	for _, r := range f.roles {
		if r.Name == name {
			copied := *r
			return &copied, nil
		}
	}
	return nil, f.err
}

func (f *fakeRolesStore) CreateRole(role *store.Role) error { return f.err }
func (f *fakeRolesStore) UpdateRole(role *store.Role) error { return f.err }
func (f *fakeRolesStore) ReplacePermissions(roleID string, permissionIDs []string) error {
	return f.err
}
func (f *fakeRolesStore) AddPermission(roleID, permissionID string) error { return f.err }
func (f *fakeRolesStore) RemovePermission(roleID, permissionID string) (bool, error) {
	return false, f.err
}
func (f *fakeRolesStore) DeleteRole(id string) error { return f.err }

func standardUser() store.Role {
	return store.Role{
		ID:   "role-std",
		Name: "Standard User",
		Permissions: []store.Permission{
			{ID: "p1", Name: "task:view:own"},
		},
	}
}

func TestHasPermission(t *testing.T) {
	d := NewDecider(newFakeRolesStore(standardUser()))

	ok, err := d.HasPermission("role-std", "task:view:own")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = d.HasPermission("role-std", "task:create")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasPermissionMissingRole(t *testing.T) {
	d := NewDecider(newFakeRolesStore())

	ok, err := d.HasPermission("no-such-role", "task:create")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = d.HasPermission("", "task:create")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasAllPermissions(t *testing.T) {
	d := NewDecider(newFakeRolesStore(standardUser()))

	ok, err := d.HasAllPermissions("role-std", []string{"task:view:own"})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = d.HasAllPermissions("role-std", []string{"task:view:own", "task:create"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasAnyPermission(t *testing.T) {
	d := NewDecider(newFakeRolesStore(standardUser()))

	ok, err := d.HasAnyPermission("role-std", []string{"task:create", "task:view:own"})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = d.HasAnyPermission("role-std", []string{"task:create", "task:delete:own"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEmptyRequirementListIsVacuouslyTrue(t *testing.T) {
	empty := store.Role{ID: "role-empty", Name: "No Permissions"}
	d := NewDecider(newFakeRolesStore(empty))

	ok, err := d.HasAllPermissions("role-empty", nil)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = d.HasAnyPermission("role-empty", []string{})
	require.NoError(t, err)
	assert.True(t, ok)

	// Vacuous truth holds even for an unknown role: no restriction declared.
	ok, err = d.HasAllPermissions("no-such-role", nil)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBundleChangeIsVisibleWithoutInvalidation(t *testing.T) {
	fake := newFakeRolesStore(standardUser())
	d := NewDecider(fake)

	ok, err := d.HasPermission("role-std", "task:create")
	require.NoError(t, err)
	assert.False(t, ok)

	// Admin grants task:create; next query must see it.
	fake.roles["role-std"].Permissions = append(fake.roles["role-std"].Permissions,
		store.Permission{ID: "p2", Name: "task:create"})

	ok, err = d.HasPermission("role-std", "task:create")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStoreErrorPropagates(t *testing.T) {
	fake := newFakeRolesStore(standardUser())
	fake.err = errors.New("connection reset")
	d := NewDecider(fake)

	_, err := d.HasPermission("role-std", "task:create")
	assert.Error(t, err)
}

func TestMissingPermissions(t *testing.T) {
	d := NewDecider(newFakeRolesStore(standardUser()))

	missing, err := d.MissingPermissions("role-std", []string{"task:view:own", "task:create"})
	require.NoError(t, err)
	assert.Equal(t, []string{"task:create"}, missing)

	missing, err = d.MissingPermissions("no-such-role", []string{"task:create"})
	require.NoError(t, err)
	assert.Equal(t, []string{"task:create"}, missing)

	missing, err = d.MissingPermissions("role-std", nil)
	require.NoError(t, err)
	assert.Empty(t, missing)
}
