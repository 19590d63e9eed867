package audit

import "fmt"

// SeedEvent represents a catalog seeding run. Actor is empty for runs
// triggered by process startup rather than a request.
type SeedEvent struct {
	Actor              string
	ClientIP           string
	PermissionsCreated int
	RolesCreated       int
	RolesRepaired      int
	Success            bool
	ErrorMessage       string
}

func (e SeedEvent) MessageID() string {
	return "seed"
}

func (e SeedEvent) Message() string {
	actor := e.Actor
	if actor == "" {
		actor = "startup"
	}
	if e.Success {
		return fmt.Sprintf("%s seeded the catalog: %d permissions created, %d roles created, %d roles repaired",
			actor, e.PermissionsCreated, e.RolesCreated, e.RolesRepaired)
	}
	msg := fmt.Sprintf("%s failed to seed the catalog", actor)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e SeedEvent) Severity() Severity {
	if e.Success {
		return SeverityNotice
	}
	return SeverityError
}

func (e SeedEvent) Facility() int {
	return FacilityAuthPriv
}

func (e SeedEvent) StructuredData() map[string]map[string]string {
	actor := e.Actor
	if actor == "" {
		actor = "startup"
	}
	result := "success"
	if !e.Success {
		result = "failure"
	}
	return map[string]map[string]string{
		SDIDAuth: {
			"user": actor,
		},
		SDIDSubject: {
			"permissions_created": fmt.Sprintf("%d", e.PermissionsCreated),
			"roles_created":       fmt.Sprintf("%d", e.RolesCreated),
			"roles_repaired":      fmt.Sprintf("%d", e.RolesRepaired),
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "seed",
			"result":    result,
		},
	}
}
