package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhub/rbac/pkg/apperror"
	"github.com/taskhub/rbac/pkg/store"
	"github.com/taskhub/rbac/pkg/store/storetest"
)

func TestRunAgainstEmptyStore(t *testing.T) {
	mem := storetest.New()
	defs := Defaults()

	res, err := NewSeeder(mem, nil).Run(defs)
	require.NoError(t, err)
	assert.Equal(t, len(defs.Permissions), res.PermissionsCreated)
	assert.Equal(t, len(defs.Roles), res.RolesCreated)
	assert.Zero(t, res.RolesRepaired)

	roles, err := mem.Roles().ListRoles()
	require.NoError(t, err)
	require.Len(t, roles, len(defs.Roles))
	for _, r := range roles {
		assert.True(t, r.IsSystemRole, r.Name)
	}

	superAdmin, err := mem.Roles().GetRoleByName("Super Admin")
	require.NoError(t, err)
	require.NotNil(t, superAdmin)
	assert.Len(t, superAdmin.Permissions, len(defs.Permissions))

	user, err := mem.Roles().GetRoleByName("user")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Len(t, user.Permissions, 15)
}

func TestRunIsIdempotent(t *testing.T) {
	mem := storetest.New()
	seeder := NewSeeder(mem, nil)

	_, err := seeder.Run(Defaults())
	require.NoError(t, err)
	written := mem.RowsWritten

	res, err := seeder.Run(Defaults())
	require.NoError(t, err)
	assert.False(t, res.Changed())
	assert.Equal(t, written, mem.RowsWritten, "second run must not write")
}

func TestRunRepairsSystemRole(t *testing.T) {
	mem := storetest.New()
	seeder := NewSeeder(mem, nil)

	_, err := seeder.Run(Defaults())
	require.NoError(t, err)

	// Drift the stored bundle both ways: drop everything, grant one stray.
	user, err := mem.Roles().GetRoleByName("user")
	require.NoError(t, err)
	stray, err := mem.Permissions().GetPermissionByName("settings:edit:system")
	require.NoError(t, err)
	require.NoError(t, mem.Roles().ReplacePermissions(user.ID, []string{stray.ID}))

	res, err := seeder.Run(Defaults())
	require.NoError(t, err)
	assert.Equal(t, 1, res.RolesRepaired)

	repaired, err := mem.Roles().GetRoleByName("user")
	require.NoError(t, err)
	assert.Len(t, repaired.Permissions, 15)
	assert.NotContains(t, repaired.PermissionNames(), "settings:edit:system")
}

func TestRunRepairsExtendedCanonicalSet(t *testing.T) {
	mem := storetest.New()

	trimmed := Defaults()
	for i := range trimmed.Roles {
		if trimmed.Roles[i].Name == "user" {
			trimmed.Roles[i].Permissions = trimmed.Roles[i].Permissions[:3]
		}
	}
	_, err := NewSeeder(mem, nil).Run(trimmed)
	require.NoError(t, err)

	res, err := NewSeeder(mem, nil).Run(Defaults())
	require.NoError(t, err)
	assert.Equal(t, 1, res.RolesRepaired)

	user, err := mem.Roles().GetRoleByName("user")
	require.NoError(t, err)
	assert.Len(t, user.Permissions, 15)
}

func TestRunNeverTouchesNonSystemRoles(t *testing.T) {
	mem := storetest.New()

	defs := Defaults()
	defs.Roles = append(defs.Roles, RoleDefinition{
		Name:        "auditor",
		Description: "Read-only reviewer.",
		SystemRole:  false,
		Permissions: []string{"task:view:all", "note:view"},
	})
	_, err := NewSeeder(mem, nil).Run(defs)
	require.NoError(t, err)

	// An administrator trims the role down to one permission.
	auditor, err := mem.Roles().GetRoleByName("auditor")
	require.NoError(t, err)
	noteView, err := mem.Permissions().GetPermissionByName("note:view")
	require.NoError(t, err)
	require.NoError(t, mem.Roles().ReplacePermissions(auditor.ID, []string{noteView.ID}))

	res, err := NewSeeder(mem, nil).Run(defs)
	require.NoError(t, err)
	assert.Zero(t, res.RolesRepaired)

	auditor, err = mem.Roles().GetRoleByName("auditor")
	require.NoError(t, err)
	assert.Equal(t, []string{"note:view"}, auditor.PermissionNames())
}

func TestRunDropsUnresolvablePermissionNames(t *testing.T) {
	mem := storetest.New()

	defs := &Definitions{
		Permissions: []PermissionDefinition{
			{Name: "task:create", Group: "Tasks"},
		},
		Roles: []RoleDefinition{
			{
				Name:        "ghost",
				SystemRole:  true,
				Permissions: []string{"task:create", "task:retired"},
			},
		},
	}
	_, err := NewSeeder(mem, nil).Run(defs)
	require.NoError(t, err)

	ghost, err := mem.Roles().GetRoleByName("ghost")
	require.NoError(t, err)
	assert.Equal(t, []string{"task:create"}, ghost.PermissionNames())

	// Unresolvable names do not count as missing on re-runs either.
	res, err := NewSeeder(mem, nil).Run(defs)
	require.NoError(t, err)
	assert.False(t, res.Changed())
}

func TestRunResumesAfterPartialSeed(t *testing.T) {
	mem := storetest.New()
	defs := Defaults()

	// Permissions already seeded, roles not: the role phase still converges.
	staged := make([]store.Permission, 0, len(defs.Permissions))
	for _, p := range defs.Permissions {
		staged = append(staged, store.Permission{Name: p.Name, Description: p.Description, Group: p.Group})
	}
	require.NoError(t, mem.Permissions().CreatePermissions(staged))

	res, err := NewSeeder(mem, nil).Run(defs)
	require.NoError(t, err)
	assert.Zero(t, res.PermissionsCreated)
	assert.Equal(t, len(defs.Roles), res.RolesCreated)
}

func TestDefaultsAreValid(t *testing.T) {
	require.NoError(t, Defaults().Validate())
}

func TestValidateRejectsBadDefinitions(t *testing.T) {
	bad := []Definitions{
		{Permissions: []PermissionDefinition{{Name: "nodelimiter"}}},
		{Permissions: []PermissionDefinition{{Name: "task:create"}, {Name: "task:create"}}},
		{Roles: []RoleDefinition{{Name: ""}}},
		{Roles: []RoleDefinition{{Name: "ops"}, {Name: "ops"}}},
		{Roles: []RoleDefinition{{Name: "ops", Permissions: []string{"task:create"}}}},
	}
	for i := range bad {
		err := bad[i].Validate()
		require.Error(t, err, i)
		assert.True(t, apperror.IsInvalidInput(err), i)
	}
}

func TestLoadDefinitionsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
permissions:
  - name: task:create
    description: Create new tasks
    group: Tasks
  - name: task:view:own
    group: Tasks
roles:
  - name: Standard User
    description: Basic access.
    system_role: true
    permissions:
      - task:view:own
`), 0o600))

	defs, err := Load(path)
	require.NoError(t, err)
	require.Len(t, defs.Permissions, 2)
	require.Len(t, defs.Roles, 1)
	assert.True(t, defs.Roles[0].SystemRole)
	assert.Equal(t, []string{"task:view:own"}, defs.Roles[0].Permissions)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
}
