// Package storetest provides an in-memory store.Store for service tests.
//
// The fake enforces the same uniqueness rules as the SQL schema (role and
// permission names, workflow name/slug) and returns the same Conflict kind
// the GORM store maps constraint violations to. RowsWritten counts rows
// actually inserted, updated or deleted, which lets seeding tests assert
// idempotency without a database.
package storetest

import (
	"fmt"
	"sort"
	"sync"

	"github.com/taskhub/rbac/pkg/apperror"
	"github.com/taskhub/rbac/pkg/store"
)

// Memory is an in-memory store.Store.
type Memory struct {
	mu     sync.Mutex
	nextID int

	roles       map[string]*store.Role
	permissions map[string]*store.Permission
	workflows   map[string]*store.Workflow
	steps       map[string]*store.WorkflowStep
	overrides   map[string]*store.StepOverride

	// RowsWritten counts rows inserted, updated or deleted.
	RowsWritten int
}

// New creates an empty Memory store.
func New() *Memory {
	return &Memory{
		roles:       make(map[string]*store.Role),
		permissions: make(map[string]*store.Permission),
		workflows:   make(map[string]*store.Workflow),
		steps:       make(map[string]*store.WorkflowStep),
		overrides:   make(map[string]*store.StepOverride),
	}
}

func (m *Memory) Roles() store.RolesStore             { return (*memRoles)(m) }
func (m *Memory) Permissions() store.PermissionsStore { return (*memPermissions)(m) }
func (m *Memory) Workflows() store.WorkflowsStore     { return (*memWorkflows)(m) }
func (m *Memory) Overrides() store.OverridesStore     { return (*memOverrides)(m) }

// Transaction runs fn against the same store. The fake does not roll back;
// tests exercising rollback semantics belong in the integration suite.
func (m *Memory) Transaction(fn func(store.Store) error) error {
	return fn(m)
}

func (m *Memory) id(prefix string) string {
	m.nextID++
	return fmt.Sprintf("%s-%04d", prefix, m.nextID)
}

type memRoles Memory

func (m *memRoles) ListRoles() ([]store.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]store.Role, 0, len(m.roles))
	for _, r := range m.roles {
		out = append(out, copyRole(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memRoles) GetRole(id string) (*store.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.roles[id]
	if !ok {
		return nil, nil
	}
	copied := copyRole(r)
	return &copied, nil
}

func (m *memRoles) GetRoleByName(name string) (*store.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.roles {
		if r.Name == name {
			copied := copyRole(r)
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memRoles) CreateRole(role *store.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.roles {
		if r.Name == role.Name {
			return apperror.Conflict("failed to create role %q: duplicate name", role.Name)
		}
	}
	role.ID = (*Memory)(m).id("role")
	copied := copyRole(role)
	m.roles[role.ID] = &copied
	m.RowsWritten += 1 + len(role.Permissions)
	return nil
}

func (m *memRoles) UpdateRole(role *store.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.roles[role.ID]
	if !ok {
		return nil
	}
	for _, r := range m.roles {
		if r.ID != role.ID && r.Name == role.Name {
			return apperror.Conflict("failed to update role %q: duplicate name", role.ID)
		}
	}
	existing.Name = role.Name
	existing.Description = role.Description
	existing.IsSystemRole = role.IsSystemRole
	m.RowsWritten++
	return nil
}

func (m *memRoles) ReplacePermissions(roleID string, permissionIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	role, ok := m.roles[roleID]
	if !ok {
		return nil
	}
	m.RowsWritten += len(role.Permissions) + len(permissionIDs)
	role.Permissions = nil
	for _, pid := range permissionIDs {
		if p, ok := m.permissions[pid]; ok {
			role.Permissions = append(role.Permissions, *p)
		}
	}
	return nil
}

func (m *memRoles) AddPermission(roleID, permissionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	role, ok := m.roles[roleID]
	if !ok {
		return nil
	}
	for _, p := range role.Permissions {
		if p.ID == permissionID {
			return nil
		}
	}
	p, ok := m.permissions[permissionID]
	if !ok {
		return fmt.Errorf("foreign key violation: permission %q", permissionID)
	}
	role.Permissions = append(role.Permissions, *p)
	m.RowsWritten++
	return nil
}

func (m *memRoles) RemovePermission(roleID, permissionID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	role, ok := m.roles[roleID]
	if !ok {
		return false, nil
	}
	for i, p := range role.Permissions {
		if p.ID == permissionID {
			role.Permissions = append(role.Permissions[:i], role.Permissions[i+1:]...)
			m.RowsWritten++
			return true, nil
		}
	}
	return false, nil
}

func (m *memRoles) DeleteRole(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.roles[id]; !ok {
		return nil
	}
	delete(m.roles, id)
	for key, o := range m.overrides {
		if o.RoleID == id {
			delete(m.overrides, key)
		}
	}
	m.RowsWritten++
	return nil
}

type memPermissions Memory

func (m *memPermissions) ListPermissions() ([]store.Permission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]store.Permission, 0, len(m.permissions))
	for _, p := range m.permissions {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Group != out[j].Group {
			return out[i].Group < out[j].Group
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (m *memPermissions) GetPermission(id string) (*store.Permission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.permissions[id]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (m *memPermissions) GetPermissionByName(name string) (*store.Permission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.permissions {
		if p.Name == name {
			copied := *p
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memPermissions) FindPermissionsByIDs(ids []string) ([]store.Permission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []store.Permission{}
	for _, id := range ids {
		if p, ok := m.permissions[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memPermissions) FindPermissionsByNames(names []string) ([]store.Permission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	byName := make(map[string]*store.Permission, len(m.permissions))
	for _, p := range m.permissions {
		byName[p.Name] = p
	}
	out := []store.Permission{}
	for _, name := range names {
		if p, ok := byName[name]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memPermissions) CreatePermission(p *store.Permission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.permissions {
		if existing.Name == p.Name {
			return apperror.Conflict("failed to create permission %q: duplicate name", p.Name)
		}
	}
	p.ID = (*Memory)(m).id("perm")
	copied := *p
	m.permissions[p.ID] = &copied
	m.RowsWritten++
	return nil
}

func (m *memPermissions) CreatePermissions(ps []store.Permission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing := make(map[string]bool, len(m.permissions))
	for _, p := range m.permissions {
		existing[p.Name] = true
	}
	for _, p := range ps {
		if existing[p.Name] {
			continue
		}
		p.ID = (*Memory)(m).id("perm")
		copied := p
		m.permissions[p.ID] = &copied
		existing[p.Name] = true
		m.RowsWritten++
	}
	return nil
}

func (m *memPermissions) UpdatePermission(p *store.Permission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.permissions[p.ID]
	if !ok {
		return nil
	}
	for _, other := range m.permissions {
		if other.ID != p.ID && other.Name == p.Name {
			return apperror.Conflict("failed to update permission %q: duplicate name", p.ID)
		}
	}
	*existing = *p
	m.RowsWritten++

	// Mirror the FK-backed join rows: roles hold copies.
	for _, role := range m.roles {
		for i := range role.Permissions {
			if role.Permissions[i].ID == p.ID {
				role.Permissions[i] = *p
			}
		}
	}
	return nil
}

func (m *memPermissions) DeletePermission(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.permissions[id]; !ok {
		return nil
	}
	delete(m.permissions, id)
	for _, role := range m.roles {
		for i := range role.Permissions {
			if role.Permissions[i].ID == id {
				role.Permissions = append(role.Permissions[:i], role.Permissions[i+1:]...)
				break
			}
		}
	}
	m.RowsWritten++
	return nil
}

type memWorkflows Memory

func (m *memWorkflows) GetWorkflowBySlug(slug string) (*store.Workflow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wf, ok := m.workflows[slug]
	if !ok {
		return nil, nil
	}
	copied := *wf
	copied.Steps = append([]store.WorkflowStep(nil), wf.Steps...)
	sort.Slice(copied.Steps, func(i, j int) bool {
		return copied.Steps[i].StepOrder < copied.Steps[j].StepOrder
	})
	return &copied, nil
}

func (m *memWorkflows) GetStep(id string) (*store.WorkflowStep, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	step, ok := m.steps[id]
	if !ok {
		return nil, nil
	}
	copied := *step
	return &copied, nil
}

func (m *memWorkflows) CreateWorkflow(wf *store.Workflow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.workflows[wf.Slug]; ok {
		return apperror.Conflict("failed to create workflow %q: duplicate slug", wf.Slug)
	}
	for _, existing := range m.workflows {
		if existing.Name == wf.Name {
			return apperror.Conflict("failed to create workflow %q: duplicate name", wf.Name)
		}
	}
	wf.ID = (*Memory)(m).id("wf")
	for i := range wf.Steps {
		wf.Steps[i].ID = (*Memory)(m).id("step")
		wf.Steps[i].WorkflowID = wf.ID
		copied := wf.Steps[i]
		m.steps[copied.ID] = &copied
	}
	copied := *wf
	copied.Steps = append([]store.WorkflowStep(nil), wf.Steps...)
	m.workflows[wf.Slug] = &copied
	m.RowsWritten += 1 + len(wf.Steps)
	return nil
}

type memOverrides Memory

func overrideKey(roleID, stepID string) string {
	return roleID + "|" + stepID
}

func (m *memOverrides) ListOverridesForSteps(stepIDs []string) ([]store.StepOverride, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := make(map[string]bool, len(stepIDs))
	for _, id := range stepIDs {
		want[id] = true
	}
	out := []store.StepOverride{}
	for _, o := range m.overrides {
		if want[o.WorkflowStepID] {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].WorkflowStepID != out[j].WorkflowStepID {
			return out[i].WorkflowStepID < out[j].WorkflowStepID
		}
		return out[i].RoleID < out[j].RoleID
	})
	return out, nil
}

func (m *memOverrides) GetOverride(roleID, stepID string) (*store.StepOverride, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.overrides[overrideKey(roleID, stepID)]
	if !ok {
		return nil, nil
	}
	copied := *o
	return &copied, nil
}

func (m *memOverrides) UpsertOverride(o *store.StepOverride) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *o
	m.overrides[overrideKey(o.RoleID, o.WorkflowStepID)] = &copied
	m.RowsWritten++
	return nil
}

// OverrideCount reports the number of override rows (test assertions).
func (m *Memory) OverrideCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.overrides)
}

func copyRole(r *store.Role) store.Role {
	copied := *r
	copied.Permissions = append([]store.Permission(nil), r.Permissions...)
	return copied
}
