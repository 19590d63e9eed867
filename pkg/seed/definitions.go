package seed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/taskhub/rbac/pkg/apperror"
	"github.com/taskhub/rbac/pkg/catalog"
)

// PermissionDefinition is one canonical permission.
type PermissionDefinition struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Group       string `yaml:"group"`
}

// RoleDefinition is one canonical role and the permission names it holds.
type RoleDefinition struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	SystemRole  bool     `yaml:"system_role"`
	Permissions []string `yaml:"permissions"`
}

// Definitions is a full seeding baseline.
type Definitions struct {
	Permissions []PermissionDefinition `yaml:"permissions"`
	Roles       []RoleDefinition       `yaml:"roles"`
}

// Load reads a definitions file, replacing the compiled-in baseline entirely.
func Load(path string) (*Definitions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed definitions: %w", err)
	}
	var defs Definitions
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("parsing seed definitions %s: %w", path, err)
	}
	if err := defs.Validate(); err != nil {
		return nil, err
	}
	return &defs, nil
}

// Validate checks permission name shapes and that role permission lists only
// reference defined permission names. Drift between the two is tolerated at
// seeding time but rejected in an explicitly provided definitions file.
func (d *Definitions) Validate() error {
	names := make(map[string]bool, len(d.Permissions))
	for _, p := range d.Permissions {
		if !catalog.ValidPermissionName(p.Name) {
			return apperror.InvalidInput("seed permission name %q does not match the resource:action pattern", p.Name)
		}
		if names[p.Name] {
			return apperror.InvalidInput("seed permission name %q is defined twice", p.Name)
		}
		names[p.Name] = true
	}
	roleNames := make(map[string]bool, len(d.Roles))
	for _, r := range d.Roles {
		if r.Name == "" {
			return apperror.InvalidInput("seed role with empty name")
		}
		if roleNames[r.Name] {
			return apperror.InvalidInput("seed role %q is defined twice", r.Name)
		}
		roleNames[r.Name] = true
		for _, p := range r.Permissions {
			if !names[p] {
				return apperror.InvalidInput("seed role %q references undefined permission %q", r.Name, p)
			}
		}
	}
	return nil
}
