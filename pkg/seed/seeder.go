package seed

import (
	"log"

	"github.com/taskhub/rbac/pkg/apperror"
	"github.com/taskhub/rbac/pkg/store"
)

// Result reports what a seeding run changed.
type Result struct {
	PermissionsCreated int
	RolesCreated       int
	RolesRepaired      int
}

// Changed reports whether the run wrote anything.
func (r *Result) Changed() bool {
	return r.PermissionsCreated+r.RolesCreated+r.RolesRepaired > 0
}

// Seeder converges the catalog to a set of definitions.
type Seeder struct {
	store  store.Store
	logger *log.Logger
}

// NewSeeder creates a Seeder. A nil logger falls back to the default logger.
func NewSeeder(st store.Store, logger *log.Logger) *Seeder {
	if logger == nil {
		logger = log.Default()
	}
	return &Seeder{store: st, logger: logger}
}

// Run seeds permissions then roles. The two phases are each independently
// idempotent, so a run interrupted between them is safe to resume. Concurrent
// seeders racing against the same store are resolved by the store's unique
// constraints; losing an insert race is treated as already seeded.
func (s *Seeder) Run(defs *Definitions) (*Result, error) {
	res := &Result{}
	if err := s.seedPermissions(defs, res); err != nil {
		return res, err
	}
	if err := s.seedRoles(defs, res); err != nil {
		return res, err
	}
	if res.Changed() {
		s.logger.Printf("seed: created %d permissions, created %d roles, repaired %d roles",
			res.PermissionsCreated, res.RolesCreated, res.RolesRepaired)
	}
	return res, nil
}

func (s *Seeder) seedPermissions(defs *Definitions, res *Result) error {
	existing, err := s.store.Permissions().ListPermissions()
	if err != nil {
		return apperror.Internal(err, "listing permissions")
	}
	existingNames := make(map[string]bool, len(existing))
	for _, p := range existing {
		existingNames[p.Name] = true
	}

	var staged []store.Permission
	for _, def := range defs.Permissions {
		if existingNames[def.Name] {
			continue
		}
		staged = append(staged, store.Permission{
			Name:        def.Name,
			Description: def.Description,
			Group:       def.Group,
		})
	}
	if len(staged) == 0 {
		return nil
	}
	if err := s.store.Permissions().CreatePermissions(staged); err != nil {
		return apperror.Internal(err, "creating permissions")
	}
	res.PermissionsCreated = len(staged)
	return nil
}

func (s *Seeder) seedRoles(defs *Definitions, res *Result) error {
	// Re-read the catalog so just-created permissions are resolvable.
	all, err := s.store.Permissions().ListPermissions()
	if err != nil {
		return apperror.Internal(err, "listing permissions")
	}
	byName := make(map[string]store.Permission, len(all))
	for _, p := range all {
		byName[p.Name] = p
	}

	for _, def := range defs.Roles {
		if err := s.seedRole(def, byName, res); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedRole(def RoleDefinition, byName map[string]store.Permission, res *Result) error {
	// Names that do not resolve are dropped, not errors. The definitions and
	// the catalog can drift when a deployment trims its permission set.
	resolved := make([]store.Permission, 0, len(def.Permissions))
	for _, name := range def.Permissions {
		if p, ok := byName[name]; ok {
			resolved = append(resolved, p)
		} else {
			s.logger.Printf("seed: role %q references unknown permission %q, skipping", def.Name, name)
		}
	}

	existing, err := s.store.Roles().GetRoleByName(def.Name)
	if err != nil {
		return apperror.Internal(err, "getting role")
	}

	if existing == nil {
		role := &store.Role{
			Name:         def.Name,
			Description:  def.Description,
			IsSystemRole: def.SystemRole,
			Permissions:  resolved,
		}
		err := s.store.Roles().CreateRole(role)
		if apperror.IsConflict(err) {
			// Another seeder created it first; fall through to the repair
			// path on the now-existing row.
			existing, err = s.store.Roles().GetRoleByName(def.Name)
			if err != nil {
				return apperror.Internal(err, "getting role")
			}
		} else if err != nil {
			return apperror.Internal(err, "creating role")
		} else {
			res.RolesCreated++
			return nil
		}
	}

	if !def.SystemRole {
		// Non-system roles belong to administrators once they exist.
		return nil
	}
	if existing == nil {
		return nil
	}
	if !permissionSetsDiffer(existing.PermissionNames(), def.Permissions, byName) {
		return nil
	}

	s.logger.Printf("seed: repairing permission set of system role %q", def.Name)
	ids := make([]string, 0, len(resolved))
	for _, p := range resolved {
		ids = append(ids, p.ID)
	}
	if err := s.store.Roles().ReplacePermissions(existing.ID, ids); err != nil {
		return apperror.Internal(err, "repairing role permissions")
	}
	res.RolesRepaired++
	return nil
}

// permissionSetsDiffer compares the role's current permission names against
// the definition's resolvable names, in both directions.
func permissionSetsDiffer(current, required []string, byName map[string]store.Permission) bool {
	currentSet := make(map[string]bool, len(current))
	for _, name := range current {
		currentSet[name] = true
	}
	requiredSet := make(map[string]bool, len(required))
	for _, name := range required {
		if _, ok := byName[name]; ok {
			requiredSet[name] = true
		}
	}
	if len(currentSet) != len(requiredSet) {
		return true
	}
	for name := range requiredSet {
		if !currentSet[name] {
			return true
		}
	}
	return false
}
