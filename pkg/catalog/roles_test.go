package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhub/rbac/pkg/apperror"
	"github.com/taskhub/rbac/pkg/store"
	"github.com/taskhub/rbac/pkg/store/storetest"
)

func seedPermissions(t *testing.T, mem *storetest.Memory, names ...string) []store.Permission {
	t.Helper()
	perms := make([]store.Permission, 0, len(names))
	for _, name := range names {
		p := store.Permission{Name: name, Group: "Tasks"}
		require.NoError(t, mem.Permissions().CreatePermission(&p))
		perms = append(perms, p)
	}
	return perms
}

func TestCreateRole(t *testing.T) {
	mem := storetest.New()
	perms := seedPermissions(t, mem, "task:create", "task:view:own")
	svc := NewRoleService(mem)

	role, err := svc.Create(CreateRoleInput{
		Name:          "Ops",
		Description:   "Operations team",
		PermissionIDs: []string{perms[0].ID, perms[1].ID},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, role.ID)
	assert.False(t, role.IsSystemRole)
	assert.Len(t, role.Permissions, 2)
}

func TestCreateRoleEmptyPermissionSet(t *testing.T) {
	svc := NewRoleService(storetest.New())

	role, err := svc.Create(CreateRoleInput{Name: "Ops"})
	require.NoError(t, err)
	assert.Empty(t, role.Permissions)
}

func TestCreateRoleDuplicateName(t *testing.T) {
	mem := storetest.New()
	svc := NewRoleService(mem)

	_, err := svc.Create(CreateRoleInput{Name: "Ops"})
	require.NoError(t, err)

	_, err = svc.Create(CreateRoleInput{Name: "Ops"})
	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))

	roles, err := svc.List()
	require.NoError(t, err)
	assert.Len(t, roles, 1)
}

func TestCreateRoleUnresolvablePermission(t *testing.T) {
	mem := storetest.New()
	perms := seedPermissions(t, mem, "task:create")
	svc := NewRoleService(mem)

	_, err := svc.Create(CreateRoleInput{
		Name:          "Ops",
		PermissionIDs: []string{perms[0].ID, "bogus-id"},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidInput(err))
}

func TestListRolesSortedByName(t *testing.T) {
	svc := NewRoleService(storetest.New())
	for _, name := range []string{"zeta", "alpha", "mid"} {
		_, err := svc.Create(CreateRoleInput{Name: name})
		require.NoError(t, err)
	}

	roles, err := svc.List()
	require.NoError(t, err)
	require.Len(t, roles, 3)
	assert.Equal(t, "alpha", roles[0].Name)
	assert.Equal(t, "mid", roles[1].Name)
	assert.Equal(t, "zeta", roles[2].Name)
}

func TestGetRoleNotFound(t *testing.T) {
	svc := NewRoleService(storetest.New())

	_, err := svc.Get("nope")
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestUpdateRole(t *testing.T) {
	mem := storetest.New()
	perms := seedPermissions(t, mem, "task:create", "task:view:own")
	svc := NewRoleService(mem)

	role, err := svc.Create(CreateRoleInput{Name: "Ops", PermissionIDs: []string{perms[0].ID}})
	require.NoError(t, err)

	newName := "Operations"
	newDesc := "renamed"
	ids := []string{perms[1].ID}
	updated, err := svc.Update(role.ID, UpdateRoleInput{
		Name:          &newName,
		Description:   &newDesc,
		PermissionIDs: &ids,
	})
	require.NoError(t, err)
	assert.Equal(t, "Operations", updated.Name)
	assert.Equal(t, "renamed", updated.Description)
	require.Len(t, updated.Permissions, 1)
	assert.Equal(t, "task:view:own", updated.Permissions[0].Name)
}

func TestUpdateRoleOmittedVsEmptyPermissions(t *testing.T) {
	mem := storetest.New()
	perms := seedPermissions(t, mem, "task:create")
	svc := NewRoleService(mem)

	role, err := svc.Create(CreateRoleInput{Name: "Ops", PermissionIDs: []string{perms[0].ID}})
	require.NoError(t, err)

	// Omitted: bundle untouched.
	desc := "still has permissions"
	updated, err := svc.Update(role.ID, UpdateRoleInput{Description: &desc})
	require.NoError(t, err)
	assert.Len(t, updated.Permissions, 1)

	// Present but empty: bundle cleared.
	empty := []string{}
	updated, err = svc.Update(role.ID, UpdateRoleInput{PermissionIDs: &empty})
	require.NoError(t, err)
	assert.Empty(t, updated.Permissions)
}

func TestUpdateRoleNameConflict(t *testing.T) {
	svc := NewRoleService(storetest.New())

	_, err := svc.Create(CreateRoleInput{Name: "Ops"})
	require.NoError(t, err)
	other, err := svc.Create(CreateRoleInput{Name: "Support"})
	require.NoError(t, err)

	taken := "Ops"
	_, err = svc.Update(other.ID, UpdateRoleInput{Name: &taken})
	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
}

func TestSystemRoleIsImmutable(t *testing.T) {
	mem := storetest.New()
	perms := seedPermissions(t, mem, "task:create")
	system := &store.Role{Name: "admin", IsSystemRole: true, Permissions: perms}
	require.NoError(t, mem.Roles().CreateRole(system))
	svc := NewRoleService(mem)

	name := "renamed"
	_, err := svc.Update(system.ID, UpdateRoleInput{Name: &name})
	assert.True(t, apperror.IsForbidden(err))

	err = svc.Delete(system.ID)
	assert.True(t, apperror.IsForbidden(err))

	_, err = svc.AddPermission(system.ID, perms[0].ID)
	assert.True(t, apperror.IsForbidden(err))

	_, err = svc.RemovePermission(system.ID, perms[0].ID)
	assert.True(t, apperror.IsForbidden(err))

	// The stored bundle is unchanged after the failed attempts.
	current, err := svc.Get(system.ID)
	require.NoError(t, err)
	assert.Equal(t, "admin", current.Name)
	assert.Len(t, current.Permissions, 1)
}

func TestDeleteRole(t *testing.T) {
	svc := NewRoleService(storetest.New())

	role, err := svc.Create(CreateRoleInput{Name: "Ops"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(role.ID))

	err = svc.Delete(role.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestAddPermissionIdempotent(t *testing.T) {
	mem := storetest.New()
	perms := seedPermissions(t, mem, "task:create")
	svc := NewRoleService(mem)

	role, err := svc.Create(CreateRoleInput{Name: "Ops"})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		updated, err := svc.AddPermission(role.ID, perms[0].ID)
		require.NoError(t, err)
		assert.Len(t, updated.Permissions, 1)
	}
}

func TestAddPermissionUnknownPermission(t *testing.T) {
	svc := NewRoleService(storetest.New())

	role, err := svc.Create(CreateRoleInput{Name: "Ops"})
	require.NoError(t, err)

	_, err = svc.AddPermission(role.ID, "bogus")
	assert.True(t, apperror.IsNotFound(err))
}

func TestRemovePermissionNotGranted(t *testing.T) {
	mem := storetest.New()
	perms := seedPermissions(t, mem, "task:create")
	svc := NewRoleService(mem)

	role, err := svc.Create(CreateRoleInput{Name: "Ops"})
	require.NoError(t, err)

	_, err = svc.RemovePermission(role.ID, perms[0].ID)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestRemovePermission(t *testing.T) {
	mem := storetest.New()
	perms := seedPermissions(t, mem, "task:create")
	svc := NewRoleService(mem)

	role, err := svc.Create(CreateRoleInput{Name: "Ops", PermissionIDs: []string{perms[0].ID}})
	require.NoError(t, err)

	updated, err := svc.RemovePermission(role.ID, perms[0].ID)
	require.NoError(t, err)
	assert.Empty(t, updated.Permissions)
}
