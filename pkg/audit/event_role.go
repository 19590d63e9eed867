package audit

import "fmt"

// RoleEvent represents a role catalog mutation audit event
type RoleEvent struct {
	Actor        string
	ClientIP     string
	RoleName     string
	Operation    string // "create", "update", "delete"
	Success      bool
	ErrorMessage string
}

func (e RoleEvent) MessageID() string {
	return "role"
}

func (e RoleEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s %sd role %s", e.Actor, e.Operation, e.RoleName)
	}
	msg := fmt.Sprintf("%s tried to %s role %s", e.Actor, e.Operation, e.RoleName)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e RoleEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e RoleEvent) Facility() int {
	return FacilityAuthPriv
}

func (e RoleEvent) StructuredData() map[string]map[string]string {
	result := "success"
	if !e.Success {
		result = "failure"
	}
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.Actor,
		},
		SDIDSubject: {
			"role": e.RoleName,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": e.Operation,
			"result":    result,
		},
	}
}

// GrantEvent represents granting or revoking one permission on a role
type GrantEvent struct {
	Actor          string
	ClientIP       string
	RoleName       string
	PermissionName string
	Revoke         bool
	Success        bool
	ErrorMessage   string
}

func (e GrantEvent) MessageID() string {
	return "grant"
}

func (e GrantEvent) Message() string {
	verb := "granted"
	preposition := "to"
	if e.Revoke {
		verb = "revoked"
		preposition = "from"
	}
	if e.Success {
		return fmt.Sprintf("%s %s %s %s role %s", e.Actor, verb, e.PermissionName, preposition, e.RoleName)
	}
	verb = "grant"
	if e.Revoke {
		verb = "revoke"
	}
	msg := fmt.Sprintf("%s tried to %s %s on role %s", e.Actor, verb, e.PermissionName, e.RoleName)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e GrantEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e GrantEvent) Facility() int {
	return FacilityAuthPriv
}

func (e GrantEvent) StructuredData() map[string]map[string]string {
	operation := "grant"
	if e.Revoke {
		operation = "revoke"
	}
	result := "success"
	if !e.Success {
		result = "failure"
	}
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.Actor,
		},
		SDIDSubject: {
			"role":       e.RoleName,
			"permission": e.PermissionName,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": operation,
			"result":    result,
		},
	}
}
