// Package config provides configuration management for the RBAC server.
//
// Configuration is loaded from an optional YAML file layered under
// environment variables, and every attribute remembers which source set it.
//
// # Configuration Sources
//
//   - Environment variables (primary, RBAC_* prefixed)
//   - /etc/rbac/config/rbac.yml (or $RBAC_CONFIG_PATH/rbac.yml)
//   - Compiled-in defaults
//
// # Key Configuration Options
//
//   - RBAC_SUPER_ROLE_NAME: Role name that bypasses role gates
//   - RBAC_SEED_ON_STARTUP: Seed the catalogs when the server starts
//   - RBAC_SEED_DEFINITIONS_PATH: YAML file replacing the seed baseline
//   - RBAC_TOKEN_SIGNING_KEY: HMAC key for actor token verification
//   - RBAC_LOG_LEVEL: Logging verbosity
//   - DATABASE_URL: Database connection
//   - PORT: Server listen port
package config
