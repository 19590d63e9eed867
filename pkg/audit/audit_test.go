package audit

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger()
	logger.SetWriter(&buf)

	event := RoleEvent{
		Actor:     "user:alice",
		ClientIP:  "192.168.1.1",
		RoleName:  "Ops",
		Operation: "create",
		Success:   true,
	}

	logger.Log(event)

	output := buf.String()

	// Check RFC5424 format components
	if !strings.Contains(output, "rbac") {
		t.Error("Expected app name 'rbac' in output")
	}
	if !strings.Contains(output, "role") {
		t.Error("Expected message ID 'role' in output")
	}
	if !strings.Contains(output, "user:alice") {
		t.Error("Expected actor in output")
	}
	if !strings.Contains(output, "192.168.1.1") {
		t.Error("Expected client IP in output")
	}
	if !strings.Contains(output, "created role Ops") {
		t.Error("Expected success message in output")
	}
}

func TestRoleEvent(t *testing.T) {
	tests := []struct {
		name      string
		event     RoleEvent
		wantMsg   string
		wantSev   Severity
		wantFac   int
		wantMsgID string
	}{
		{
			name: "successful delete",
			event: RoleEvent{
				Actor:     "user:alice",
				ClientIP:  "10.0.0.1",
				RoleName:  "Ops",
				Operation: "delete",
				Success:   true,
			},
			wantMsg:   "deleted role Ops",
			wantSev:   SeverityInfo,
			wantFac:   FacilityAuthPriv,
			wantMsgID: "role",
		},
		{
			name: "failed update",
			event: RoleEvent{
				Actor:        "user:alice",
				ClientIP:     "10.0.0.1",
				RoleName:     "admin",
				Operation:    "update",
				Success:      false,
				ErrorMessage: "system role \"admin\" cannot be modified",
			},
			wantMsg:   "tried to update role admin",
			wantSev:   SeverityWarning,
			wantFac:   FacilityAuthPriv,
			wantMsgID: "role",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(tt.event.Message(), tt.wantMsg) {
				t.Errorf("Message() = %q, want to contain %q", tt.event.Message(), tt.wantMsg)
			}
			if tt.event.Severity() != tt.wantSev {
				t.Errorf("Severity() = %v, want %v", tt.event.Severity(), tt.wantSev)
			}
			if tt.event.Facility() != tt.wantFac {
				t.Errorf("Facility() = %v, want %v", tt.event.Facility(), tt.wantFac)
			}
			if tt.event.MessageID() != tt.wantMsgID {
				t.Errorf("MessageID() = %v, want %v", tt.event.MessageID(), tt.wantMsgID)
			}
		})
	}
}

func TestGrantEvent(t *testing.T) {
	tests := []struct {
		name    string
		event   GrantEvent
		wantMsg string
	}{
		{
			name: "grant",
			event: GrantEvent{
				Actor:          "user:alice",
				ClientIP:       "10.0.0.1",
				RoleName:       "Ops",
				PermissionName: "task:create",
				Success:        true,
			},
			wantMsg: "granted task:create to role Ops",
		},
		{
			name: "revoke",
			event: GrantEvent{
				Actor:          "user:alice",
				ClientIP:       "10.0.0.1",
				RoleName:       "Ops",
				PermissionName: "task:create",
				Revoke:         true,
				Success:        true,
			},
			wantMsg: "revoked task:create from role Ops",
		},
		{
			name: "failed grant",
			event: GrantEvent{
				Actor:          "user:alice",
				ClientIP:       "10.0.0.1",
				RoleName:       "Ops",
				PermissionName: "task:create",
				Success:        false,
				ErrorMessage:   "permission not found",
			},
			wantMsg: "tried to grant task:create on role Ops: permission not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(tt.event.Message(), tt.wantMsg) {
				t.Errorf("Message() = %q, want to contain %q", tt.event.Message(), tt.wantMsg)
			}
			if tt.event.MessageID() != "grant" {
				t.Errorf("MessageID() = %v, want 'grant'", tt.event.MessageID())
			}
		})
	}
}

func TestPermissionEvent(t *testing.T) {
	event := PermissionEvent{
		Actor:          "user:alice",
		ClientIP:       "10.0.0.1",
		PermissionName: "task:create",
		Operation:      "create",
		Success:        true,
	}

	if event.MessageID() != "permission" {
		t.Errorf("MessageID() = %v, want 'permission'", event.MessageID())
	}
	if !strings.Contains(event.Message(), "created permission task:create") {
		t.Errorf("Message() = %q, want to contain 'created permission task:create'", event.Message())
	}
	if event.Severity() != SeverityInfo {
		t.Errorf("Severity() = %v, want SeverityInfo", event.Severity())
	}
}

func TestOverrideEvent(t *testing.T) {
	tests := []struct {
		name    string
		event   OverrideEvent
		wantMsg string
	}{
		{
			name: "allow",
			event: OverrideEvent{
				Actor:          "user:alice",
				ClientIP:       "10.0.0.1",
				RoleID:         "role-1",
				WorkflowStepID: "step-3",
				HasPermission:  true,
				Success:        true,
			},
			wantMsg: "to allow",
		},
		{
			name: "deny",
			event: OverrideEvent{
				Actor:          "user:alice",
				ClientIP:       "10.0.0.1",
				RoleID:         "role-1",
				WorkflowStepID: "step-3",
				HasPermission:  false,
				Success:        true,
			},
			wantMsg: "to deny",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(tt.event.Message(), tt.wantMsg) {
				t.Errorf("Message() = %q, want to contain %q", tt.event.Message(), tt.wantMsg)
			}
			if tt.event.MessageID() != "override" {
				t.Errorf("MessageID() = %v, want 'override'", tt.event.MessageID())
			}
		})
	}
}

func TestSeedEvent(t *testing.T) {
	event := SeedEvent{
		PermissionsCreated: 56,
		RolesCreated:       4,
		Success:            true,
	}

	if event.MessageID() != "seed" {
		t.Errorf("MessageID() = %v, want 'seed'", event.MessageID())
	}
	if !strings.Contains(event.Message(), "startup seeded the catalog") {
		t.Errorf("Message() = %q, want to contain 'startup seeded the catalog'", event.Message())
	}
	if event.Severity() != SeverityNotice {
		t.Errorf("Severity() = %v, want SeverityNotice", event.Severity())
	}

	failed := SeedEvent{Actor: "user:alice", Success: false, ErrorMessage: "store down"}
	if !strings.Contains(failed.Message(), "user:alice failed to seed the catalog: store down") {
		t.Errorf("Message() = %q", failed.Message())
	}
	if failed.Severity() != SeverityError {
		t.Errorf("Severity() = %v, want SeverityError", failed.Severity())
	}
}

func TestDenialEvent(t *testing.T) {
	event := DenialEvent{
		Actor:    "user:bob",
		ClientIP: "10.0.0.1",
		RoleName: "user",
		Gate:     "permission",
		Required: []string{"role:edit", "permission:assign"},
	}

	if event.MessageID() != "denial" {
		t.Errorf("MessageID() = %v, want 'denial'", event.MessageID())
	}
	if !strings.Contains(event.Message(), "denied by the permission gate") {
		t.Errorf("Message() = %q, want to contain 'denied by the permission gate'", event.Message())
	}
	if !strings.Contains(event.Message(), "role:edit,permission:assign") {
		t.Errorf("Message() = %q, want to contain the required set", event.Message())
	}
	if event.Severity() != SeverityWarning {
		t.Errorf("Severity() = %v, want SeverityWarning", event.Severity())
	}
}

func TestStructuredData(t *testing.T) {
	event := GrantEvent{
		Actor:          "user:alice",
		ClientIP:       "10.0.0.1",
		RoleName:       "Ops",
		PermissionName: "task:create",
		Success:        true,
	}

	sd := event.StructuredData()

	if sd[SDIDAuth]["user"] != "user:alice" {
		t.Errorf("StructuredData auth.user = %v, want 'user:alice'", sd[SDIDAuth]["user"])
	}
	if sd[SDIDSubject]["role"] != "Ops" {
		t.Errorf("StructuredData subject.role = %v, want 'Ops'", sd[SDIDSubject]["role"])
	}
	if sd[SDIDClient]["ip"] != "10.0.0.1" {
		t.Errorf("StructuredData client.ip = %v, want '10.0.0.1'", sd[SDIDClient]["ip"])
	}
	if sd[SDIDAction]["result"] != "success" {
		t.Errorf("StructuredData action.result = %v, want 'success'", sd[SDIDAction]["result"])
	}
}

func TestAuditToggle(t *testing.T) {
	// Save original state
	originalEnabled := auditEnabled
	defer func() {
		auditEnabled = originalEnabled
	}()

	SetEnabled(false)
	if IsEnabled() {
		t.Error("Expected audit to be disabled")
	}

	SetEnabled(true)
	if !IsEnabled() {
		t.Error("Expected audit to be enabled")
	}
}

func TestEscapeSDValue(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"simple", `"simple"`},
		{`with"quote`, `"with\"quote"`},
		{`with\backslash`, `"with\\backslash"`},
		{`with]bracket`, `"with\]bracket"`},
		{`all"special\chars]`, `"all\"special\\chars\]"`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := escapeSDValue(tt.input)
			if got != tt.want {
				t.Errorf("escapeSDValue(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
