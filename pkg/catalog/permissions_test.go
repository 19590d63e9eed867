package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhub/rbac/pkg/apperror"
	"github.com/taskhub/rbac/pkg/store/storetest"
)

func TestValidPermissionName(t *testing.T) {
	valid := []string{
		"task:create",
		"task:view:own",
		"task:view:counts.own",
		"user:manage_2fa:any",
		"page:view:admin-dashboard",
	}
	for _, name := range valid {
		assert.True(t, ValidPermissionName(name), name)
	}

	invalid := []string{
		"badname",
		"task:",
		":create",
		"task create",
		"task::create ",
		"",
	}
	for _, name := range invalid {
		assert.False(t, ValidPermissionName(name), name)
	}
}

func TestCreatePermission(t *testing.T) {
	svc := NewPermissionService(storetest.New())

	p, err := svc.Create(CreatePermissionInput{
		Name:        "task:create",
		Description: "Create new tasks",
		Group:       "Tasks",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "task:create", p.Name)
}

func TestCreatePermissionMalformedName(t *testing.T) {
	svc := NewPermissionService(storetest.New())

	_, err := svc.Create(CreatePermissionInput{Name: "badname"})
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidInput(err))
}

func TestCreatePermissionDuplicateName(t *testing.T) {
	svc := NewPermissionService(storetest.New())

	_, err := svc.Create(CreatePermissionInput{Name: "task:create"})
	require.NoError(t, err)

	_, err = svc.Create(CreatePermissionInput{Name: "task:create"})
	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
}

func TestListPermissionsSortedByGroupThenName(t *testing.T) {
	mem := storetest.New()
	svc := NewPermissionService(mem)

	for _, in := range []CreatePermissionInput{
		{Name: "user:create", Group: "Users"},
		{Name: "task:view:own", Group: "Tasks"},
		{Name: "task:create", Group: "Tasks"},
	} {
		_, err := svc.Create(in)
		require.NoError(t, err)
	}

	perms, err := svc.List()
	require.NoError(t, err)
	require.Len(t, perms, 3)
	assert.Equal(t, "task:create", perms[0].Name)
	assert.Equal(t, "task:view:own", perms[1].Name)
	assert.Equal(t, "user:create", perms[2].Name)
}

func TestGetPermissionByName(t *testing.T) {
	svc := NewPermissionService(storetest.New())

	created, err := svc.Create(CreatePermissionInput{Name: "task:create"})
	require.NoError(t, err)

	found, err := svc.GetByName("task:create")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = svc.GetByName("task:delete")
	assert.True(t, apperror.IsNotFound(err))
}

func TestFindByNamesOmitsUnknown(t *testing.T) {
	svc := NewPermissionService(storetest.New())

	_, err := svc.Create(CreatePermissionInput{Name: "task:create"})
	require.NoError(t, err)

	found, err := svc.FindByNames([]string{"task:create", "task:unknown"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "task:create", found[0].Name)
}

func TestUpdatePermission(t *testing.T) {
	svc := NewPermissionService(storetest.New())

	p, err := svc.Create(CreatePermissionInput{Name: "task:create", Group: "Tasks"})
	require.NoError(t, err)

	newName := "task:create:any"
	newGroup := "Admin"
	updated, err := svc.Update(p.ID, UpdatePermissionInput{Name: &newName, Group: &newGroup})
	require.NoError(t, err)
	assert.Equal(t, "task:create:any", updated.Name)
	assert.Equal(t, "Admin", updated.Group)
}

func TestUpdatePermissionRejectsMalformedAndDuplicateNames(t *testing.T) {
	svc := NewPermissionService(storetest.New())

	p, err := svc.Create(CreatePermissionInput{Name: "task:create"})
	require.NoError(t, err)
	_, err = svc.Create(CreatePermissionInput{Name: "task:delete"})
	require.NoError(t, err)

	bad := "nodelimiter"
	_, err = svc.Update(p.ID, UpdatePermissionInput{Name: &bad})
	assert.True(t, apperror.IsInvalidInput(err))

	taken := "task:delete"
	_, err = svc.Update(p.ID, UpdatePermissionInput{Name: &taken})
	assert.True(t, apperror.IsConflict(err))
}

func TestDeletePermissionRemovesFromBundles(t *testing.T) {
	mem := storetest.New()
	permSvc := NewPermissionService(mem)
	roleSvc := NewRoleService(mem)

	p, err := permSvc.Create(CreatePermissionInput{Name: "task:create"})
	require.NoError(t, err)
	role, err := roleSvc.Create(CreateRoleInput{Name: "Ops", PermissionIDs: []string{p.ID}})
	require.NoError(t, err)

	require.NoError(t, permSvc.Delete(p.ID))

	refreshed, err := roleSvc.Get(role.ID)
	require.NoError(t, err)
	assert.Empty(t, refreshed.Permissions)

	err = permSvc.Delete(p.ID)
	assert.True(t, apperror.IsNotFound(err))
}
