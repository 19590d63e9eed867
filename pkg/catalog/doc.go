// Package catalog manages the role and permission catalogs.
//
// RoleService and PermissionService enforce the engine's integrity rules:
// unique names, resolvable permission id lists, the resource:action name
// pattern, and the immutability of system roles through the public mutation
// operations. Every mutation runs inside a store transaction; uniqueness
// pre-checks give friendly Conflict errors, and the store's own constraints
// are the backstop under concurrent writers.
package catalog
