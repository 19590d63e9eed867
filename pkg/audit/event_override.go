package audit

import "fmt"

// OverrideEvent represents an upsert of a role-workflow-step override
type OverrideEvent struct {
	Actor          string
	ClientIP       string
	RoleID         string
	WorkflowStepID string
	HasPermission  bool
	Success        bool
	ErrorMessage   string
}

func (e OverrideEvent) MessageID() string {
	return "override"
}

func (e OverrideEvent) Message() string {
	decision := "allow"
	if !e.HasPermission {
		decision = "deny"
	}
	if e.Success {
		return fmt.Sprintf("%s set step override for role %s on step %s to %s", e.Actor, e.RoleID, e.WorkflowStepID, decision)
	}
	msg := fmt.Sprintf("%s tried to set step override for role %s on step %s", e.Actor, e.RoleID, e.WorkflowStepID)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e OverrideEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e OverrideEvent) Facility() int {
	return FacilityAuthPriv
}

func (e OverrideEvent) StructuredData() map[string]map[string]string {
	decision := "allow"
	if !e.HasPermission {
		decision = "deny"
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
			"role": e.RoleID,
			"step": e.WorkflowStepID,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "override",
			"decision":  decision,
			"result":    result,
		},
	}
}
