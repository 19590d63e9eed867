// Package audit provides audit logging for catalog and authorization
// operations.
//
// Events are emitted in RFC5424 syslog format and optionally persisted to a
// separate audit database (AUDIT_DATABASE_URL).
//
// # Event Types
//
//   - Role catalog mutations (create/update/delete)
//   - Permission catalog mutations
//   - Permission grants and revocations on roles
//   - Workflow step override upserts
//   - Seeding runs
//   - Role and permission gate denials
//
// # Usage
//
//	audit.Log(audit.RoleEvent{
//	    Actor:     actor.Subject,
//	    RoleName:  "Ops",
//	    Operation: "create",
//	    Success:   true,
//	})
package audit
