package audit

import "fmt"

// PermissionEvent represents a permission catalog mutation audit event
type PermissionEvent struct {
	Actor          string
	ClientIP       string
	PermissionName string
	Operation      string // "create", "update", "delete"
	Success        bool
	ErrorMessage   string
}

func (e PermissionEvent) MessageID() string {
	return "permission"
}

func (e PermissionEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s %sd permission %s", e.Actor, e.Operation, e.PermissionName)
	}
	msg := fmt.Sprintf("%s tried to %s permission %s", e.Actor, e.Operation, e.PermissionName)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e PermissionEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e PermissionEvent) Facility() int {
	return FacilityAuthPriv
}

func (e PermissionEvent) StructuredData() map[string]map[string]string {
	result := "success"
	if !e.Success {
		result = "failure"
	}
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.Actor,
		},
		SDIDSubject: {
			"permission": e.PermissionName,
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
