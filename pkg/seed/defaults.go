package seed

// The compiled-in baseline for a task-management deployment. Deployments can
// replace it wholesale with a definitions file (see Load).
var defaultPermissions = []PermissionDefinition{
	// Tasks
	{Name: "task:create", Description: "Create new tasks", Group: "Tasks"},
	{Name: "task:view:own", Description: "View own created, assigned or delegated tasks", Group: "Tasks"},
	{Name: "task:view:department", Description: "View tasks assigned to own departments", Group: "Tasks"},
	{Name: "task:view:all", Description: "View all tasks", Group: "Tasks"},
	{Name: "task:view:recyclebin", Description: "View deleted tasks in the recycle bin", Group: "Tasks"},
	{Name: "task:view:counts:own", Description: "View own task counts by status", Group: "Tasks"},
	{Name: "task:view:counts:department", Description: "View task counts for a department", Group: "Tasks"},
	{Name: "task:view:counts:user", Description: "View task counts for any user", Group: "Tasks"},
	{Name: "task:update:details:own", Description: "Update details of own created tasks", Group: "Tasks"},
	{Name: "task:update:details:all", Description: "Update details of any task", Group: "Tasks"},
	{Name: "task:update:status:own", Description: "Update status of own created or assigned tasks", Group: "Tasks"},
	{Name: "task:update:status:all", Description: "Update status of any task", Group: "Tasks"},
	{Name: "task:update:priority:own", Description: "Update priority of own created or assigned tasks", Group: "Tasks"},
	{Name: "task:update:priority:all", Description: "Update priority of any task", Group: "Tasks"},
	{Name: "task:delete:soft:own", Description: "Move own created tasks to the recycle bin", Group: "Tasks"},
	{Name: "task:delete:soft:all", Description: "Move any task to the recycle bin", Group: "Tasks"},
	{Name: "task:delete:permanent", Description: "Permanently delete tasks", Group: "Tasks"},
	{Name: "task:restore", Description: "Restore tasks from the recycle bin", Group: "Tasks"},
	{Name: "task:delegate:own", Description: "Delegate own created or assigned tasks", Group: "Tasks"},
	{Name: "task:delegate:all", Description: "Delegate any task", Group: "Tasks"},

	// Notes
	{Name: "note:add", Description: "Add notes to tasks", Group: "Notes"},
	{Name: "note:view", Description: "View notes", Group: "Notes"},
	{Name: "note:edit:own", Description: "Edit own notes", Group: "Notes"},
	{Name: "note:delete:own", Description: "Delete own notes", Group: "Notes"},

	// Departments
	{Name: "department:create", Description: "Create new departments", Group: "Departments"},
	{Name: "department:view", Description: "View departments", Group: "Departments"},
	{Name: "department:edit", Description: "Edit departments", Group: "Departments"},
	{Name: "department:delete", Description: "Delete departments", Group: "Departments"},
	{Name: "department:assign_users", Description: "Assign users to departments", Group: "Departments"},

	// Users
	{Name: "user:create", Description: "Create new users", Group: "Users"},
	{Name: "user:view:profile", Description: "View user profiles", Group: "Users"},
	{Name: "user:view:list", Description: "View the list of users", Group: "Users"},
	{Name: "user:edit:own_profile", Description: "Edit own user profile", Group: "Users"},
	{Name: "user:edit:any", Description: "Edit any user profile", Group: "Users"},
	{Name: "user:delete", Description: "Delete users", Group: "Users"},
	{Name: "user:assign_role", Description: "Assign roles to users", Group: "Users"},
	{Name: "user:manage_2fa:own", Description: "Manage own 2FA settings", Group: "Users"},
	{Name: "user:manage_2fa:any", Description: "Manage any user's 2FA settings", Group: "Users"},

	// Provinces
	{Name: "province:create", Description: "Create new provinces", Group: "Provinces"},
	{Name: "province:view", Description: "View provinces", Group: "Provinces"},
	{Name: "province:edit", Description: "Edit provinces", Group: "Provinces"},
	{Name: "province:delete", Description: "Delete provinces", Group: "Provinces"},

	// Settings
	{Name: "settings:view:system", Description: "View system settings", Group: "Settings"},
	{Name: "settings:edit:system", Description: "Edit system settings", Group: "Settings"},

	// Admin pages
	{Name: "page:view:admin_dashboard", Description: "View the admin dashboard page", Group: "Admin Pages"},
	{Name: "page:view:user_management", Description: "View the user management page", Group: "Admin Pages"},
	{Name: "page:view:department_management", Description: "View the department management page", Group: "Admin Pages"},
	{Name: "page:view:role_management", Description: "View the role management page", Group: "Admin Pages"},
	{Name: "page:view:activity_logs", Description: "View the activity logs page", Group: "Admin Pages"},
	{Name: "page:view:backup_restore", Description: "View the backup and restore page", Group: "Admin Pages"},
	{Name: "page:view:recycle_bin", Description: "View the recycle bin page", Group: "Admin Pages"},

	// Access control management
	{Name: "role:create", Description: "Create new roles", Group: "RBAC"},
	{Name: "role:edit", Description: "Edit existing roles", Group: "RBAC"},
	{Name: "role:delete", Description: "Delete roles", Group: "RBAC"},
	{Name: "permission:assign", Description: "Assign permissions to roles", Group: "RBAC"},
}

// Defaults returns the compiled-in baseline. The returned value is a fresh
// copy; callers may modify it.
func Defaults() *Definitions {
	permissions := append([]PermissionDefinition(nil), defaultPermissions...)
	return &Definitions{
		Permissions: permissions,
		Roles: []RoleDefinition{
			{
				Name:        "Super Admin",
				Description: "Has all permissions, system role.",
				SystemRole:  true,
				Permissions: allPermissionNames(),
			},
			{
				Name:        "admin",
				Description: "Administrator role with full access to the system.",
				SystemRole:  true,
				Permissions: allPermissionNames("user:edit:own_profile"),
			},
			{
				Name:        "leadership",
				Description: "Leadership role with access to departmental management and reporting.",
				SystemRole:  true,
				Permissions: []string{
					"task:create", "task:view:own", "task:view:department", "task:view:all", "task:view:recyclebin",
					"task:view:counts:own", "task:view:counts:department", "task:view:counts:user",
					"task:update:details:own", "task:update:details:all",
					"task:update:status:own", "task:update:status:all",
					"task:update:priority:own", "task:update:priority:all",
					"task:delete:soft:own", "task:delete:soft:all",
					"task:restore",
					"task:delegate:own", "task:delegate:all",
					"note:add", "note:view", "note:edit:own", "note:delete:own",
					"department:create", "department:view", "department:edit", "department:assign_users",
					"user:view:profile", "user:view:list",
					"user:manage_2fa:own",
					"province:view",
					"page:view:admin_dashboard", "page:view:department_management",
				},
			},
			{
				Name:        "user",
				Description: "Standard user role with basic access.",
				SystemRole:  true,
				Permissions: []string{
					"task:create",
					"task:view:own",
					"task:view:counts:own",
					"task:update:details:own",
					"task:update:status:own",
					"task:update:priority:own",
					"task:delete:soft:own",
					"task:delegate:own",
					"note:add", "note:view", "note:edit:own", "note:delete:own",
					"user:view:profile", "user:edit:own_profile",
					"user:manage_2fa:own",
				},
			},
		},
	}
}

func allPermissionNames(except ...string) []string {
	skip := make(map[string]bool, len(except))
	for _, name := range except {
		skip[name] = true
	}
	names := make([]string, 0, len(defaultPermissions))
	for _, p := range defaultPermissions {
		if skip[p.Name] {
			continue
		}
		names = append(names, p.Name)
	}
	return names
}
