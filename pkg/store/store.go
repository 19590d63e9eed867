package store

// Permission is an atomic named capability.
type Permission struct {
	ID          string
	Name        string
	Description string
	Group       string
}

// Role is a named permission bundle.
type Role struct {
	ID           string
	Name         string
	Description  string
	IsSystemRole bool
	Permissions  []Permission
}

// PermissionNames returns the names of the role's permissions.
func (r *Role) PermissionNames() []string {
	names := make([]string, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		names = append(names, p.Name)
	}
	return names
}

// Workflow is an ordered business process.
type Workflow struct {
	ID          string
	Name        string
	Slug        string
	Description string
	Steps       []WorkflowStep
}

// WorkflowStep is one step of a workflow, sorted by StepOrder.
type WorkflowStep struct {
	ID                   string
	WorkflowID           string
	Name                 string
	Description          string
	StepOrder            int
	PermissionIdentifier string
}

// StepOverride is an explicit allow/deny for a (role, workflow step) pair.
type StepOverride struct {
	RoleID         string
	WorkflowStepID string
	HasPermission  bool
}

// RolesStore persists roles and their permission bundles.
type RolesStore interface {
	// ListRoles returns all roles with permissions attached, sorted by name.
	ListRoles() ([]Role, error)

	// GetRole returns a role with its permissions, or nil if absent.
	GetRole(id string) (*Role, error)

	// GetRoleByName returns a role with its permissions, or nil if absent.
	GetRoleByName(name string) (*Role, error)

	// CreateRole persists a new role and its permission set, filling in the
	// generated ID.
	CreateRole(role *Role) error

	// UpdateRole updates the role's name, description and system flag.
	UpdateRole(role *Role) error

	// ReplacePermissions replaces the role's entire permission set.
	ReplacePermissions(roleID string, permissionIDs []string) error

	// AddPermission grants a permission to a role. Adding an already-present
	// permission is a no-op.
	AddPermission(roleID, permissionID string) error

	// RemovePermission revokes a permission from a role. Returns false if
	// the pairing did not exist.
	RemovePermission(roleID, permissionID string) (bool, error)

	// DeleteRole removes a role and its join rows.
	DeleteRole(id string) error
}

// PermissionsStore persists the permission catalog.
type PermissionsStore interface {
	// ListPermissions returns all permissions sorted by (group, name).
	ListPermissions() ([]Permission, error)

	// GetPermission returns a permission by id, or nil if absent.
	GetPermission(id string) (*Permission, error)

	// GetPermissionByName returns a permission by name, or nil if absent.
	GetPermissionByName(name string) (*Permission, error)

	// FindPermissionsByIDs returns the subset of permissions whose ids
	// exist; unknown ids are omitted.
	FindPermissionsByIDs(ids []string) ([]Permission, error)

	// FindPermissionsByNames returns the subset of permissions whose names
	// exist; unknown names are omitted.
	FindPermissionsByNames(names []string) ([]Permission, error)

	// CreatePermission persists a new permission, filling in the ID.
	CreatePermission(p *Permission) error

	// CreatePermissions bulk-inserts permissions, skipping names that
	// already exist.
	CreatePermissions(ps []Permission) error

	// UpdatePermission updates name, description and group.
	UpdatePermission(p *Permission) error

	// DeletePermission removes a permission and its role associations.
	DeletePermission(id string) error
}

// WorkflowsStore persists workflows and their steps.
type WorkflowsStore interface {
	// GetWorkflowBySlug returns a workflow with steps sorted by step order,
	// or nil if absent.
	GetWorkflowBySlug(slug string) (*Workflow, error)

	// GetStep returns a workflow step by id, or nil if absent.
	GetStep(id string) (*WorkflowStep, error)

	// CreateWorkflow persists a workflow together with its steps.
	CreateWorkflow(wf *Workflow) error
}

// OverridesStore persists the sparse (role, workflow step) override matrix.
type OverridesStore interface {
	// ListOverridesForSteps returns all overrides touching the given steps.
	ListOverridesForSteps(stepIDs []string) ([]StepOverride, error)

	// GetOverride returns the override for a (role, step) pair, or nil.
	GetOverride(roleID, stepID string) (*StepOverride, error)

	// UpsertOverride inserts or updates the override for the pair; at most
	// one row per pair ever exists.
	UpsertOverride(o *StepOverride) error
}

// Store groups the per-entity stores and provides transactions.
type Store interface {
	Roles() RolesStore
	Permissions() PermissionsStore
	Workflows() WorkflowsStore
	Overrides() OverridesStore

	// Transaction runs fn against a transactional view of the store,
	// committing if fn returns nil and rolling back otherwise.
	Transaction(fn func(Store) error) error
}
