// Package seed converges the permission and role catalogs to a canonical
// baseline. Seeding is idempotent: permissions are only ever added, system
// roles are created or repaired to match their canonical permission sets, and
// roles the definitions mark non-system are never modified once they exist.
package seed
