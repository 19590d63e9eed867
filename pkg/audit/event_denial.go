package audit

import (
	"fmt"
	"strings"
)

// DenialEvent represents a role or permission gate denial
type DenialEvent struct {
	Actor    string
	ClientIP string
	RoleName string
	Gate     string // "role" or "permission"
	Required []string
}

func (e DenialEvent) MessageID() string {
	return "denial"
}

func (e DenialEvent) Message() string {
	return fmt.Sprintf("%s (role %s) was denied by the %s gate, required: %s",
		e.Actor, e.RoleName, e.Gate, strings.Join(e.Required, ","))
}

func (e DenialEvent) Severity() Severity {
	return SeverityWarning
}

func (e DenialEvent) Facility() int {
	return FacilityAuthPriv
}

func (e DenialEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.Actor,
			"role": e.RoleName,
		},
		SDIDSubject: {
			"required": strings.Join(e.Required, ","),
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": e.Gate + "-gate",
			"result":    "failure",
		},
	}
}
