// Package main provides rbacctl, the control tool for the RBAC
// authorization engine.
//
// The engine manages a permission catalog, a role catalog with immutable
// system roles, a sparse workflow-step override matrix and an idempotent
// seeder that converges the catalogs to a canonical baseline.
//
// # Architecture
//
//   - pkg/server: HTTP server and routing
//   - pkg/server/endpoints: admin REST API endpoint handlers
//   - pkg/catalog: role and permission catalog services
//   - pkg/authz: decision service and role/permission gates
//   - pkg/workflow: workflow visualization and step overrides
//   - pkg/seed: idempotent catalog seeder
//   - pkg/store: storage interfaces and GORM implementation
//   - pkg/db: database connection utilities
//   - pkg/audit: audit logging
//   - pkg/config: configuration management
//
// # Quick Start
//
//	# Run database migrations
//	rbacctl db migrate
//
//	# Seed the canonical catalogs
//	rbacctl seed
//
//	# Start the admin API server
//	rbacctl server
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - RBAC_TOKEN_SIGNING_KEY: HMAC key used to verify actor tokens
//   - RBAC_LOG_LEVEL: Log level (debug, info, warn, error)
//   - RBAC_AUDIT_ENABLED: Set to "false" to disable audit logging
//   - AUDIT_DATABASE_URL: Optional database for audit event persistence
//   - PORT: Server port (default: 8000)
package main
