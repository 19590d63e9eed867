// Package model contains the database models for the RBAC engine.
//
// Models map 1:1 to tables created by the migrations in db/migrations:
//
//   - Role: a named bundle of permissions, optionally system-protected
//   - Permission: an atomic capability in resource:action form
//   - Workflow / WorkflowStep: an ordered business process used for
//     visualizing step-level permissions
//   - RoleWorkflowStepPermission: a per-(role, step) allow/deny override
//
// Roles and permissions are joined through the role_permissions table.
package model
