package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cucumber/godog"
	"github.com/golang-jwt/jwt/v5"

	"github.com/taskhub/rbac/pkg/identity"
)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	response     *http.Response
	responseBody []byte
	authToken    string
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{tc: tc}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	// Background steps
	sc.Step(`^an RBAC server is running$`, s.anRBACServerIsRunning)
	sc.Step(`^the catalogs are seeded$`, s.theCatalogsAreSeeded)
	sc.Step(`^I am authenticated as "([^"]*)" with role "([^"]*)"$`, s.iAmAuthenticatedAs)
	sc.Step(`^I am not authenticated$`, s.iAmNotAuthenticated)

	// Catalog steps
	sc.Step(`^I create a role "([^"]*)" with description "([^"]*)"$`, s.iCreateARole)
	sc.Step(`^I create a permission "([^"]*)" in group "([^"]*)"$`, s.iCreateAPermission)
	sc.Step(`^I rename the role "([^"]*)" to "([^"]*)"$`, s.iRenameTheRole)
	sc.Step(`^I delete the role "([^"]*)"$`, s.iDeleteTheRole)
	sc.Step(`^I grant permission "([^"]*)" to role "([^"]*)"$`, s.iGrantPermission)
	sc.Step(`^I revoke permission "([^"]*)" from role "([^"]*)"$`, s.iRevokePermission)
	sc.Step(`^I request the role list$`, s.iRequestTheRoleList)

	// Assertion steps
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^the response should contain "([^"]*)"$`, s.theResponseShouldContain)
	sc.Step(`^role "([^"]*)" should exist$`, s.roleShouldExist)
	sc.Step(`^role "([^"]*)" should not exist$`, s.roleShouldNotExist)
	sc.Step(`^role "([^"]*)" should be a system role$`, s.roleShouldBeSystem)
	sc.Step(`^role "([^"]*)" should have permission "([^"]*)"$`, s.roleShouldHavePermission)
	sc.Step(`^role "([^"]*)" should not have permission "([^"]*)"$`, s.roleShouldNotHavePermission)

	// Seeding steps
	sc.Step(`^I trigger a seeding run$`, s.iTriggerASeedingRun)
	sc.Step(`^the seeding run should report no changes$`, s.theSeedingRunShouldReportNoChanges)
	sc.Step(`^I strip role "([^"]*)" down to permission "([^"]*)"$`, s.iStripRoleDownTo)

	// Workflow steps
	sc.Step(`^workflow "([^"]*)" should have (\d+) steps$`, s.workflowShouldHaveSteps)
	sc.Step(`^I set the override for role "([^"]*)" on step "([^"]*)" to (allow|deny)$`, s.iSetTheOverride)
	sc.Step(`^I request the visualization for workflow "([^"]*)"$`, s.iRequestTheVisualization)
}

// Background steps

func (s *StepsContext) anRBACServerIsRunning() error {
	// Server is already running via TestContext
	return nil
}

func (s *StepsContext) theCatalogsAreSeeded() error {
	if err := s.iAmAuthenticatedAs("seeder", "admin"); err != nil {
		return err
	}
	return s.doRequest("POST", "/seed", nil)
}

func (s *StepsContext) iAmAuthenticatedAs(subject, roleName string) error {
	roleID := s.lookupRoleID(roleName)
	if roleID == "" {
		// The role gate only inspects the name, so an unresolvable id is fine
		// for scenarios that never touch the permission gate.
		roleID = "unknown-" + roleName
	}

	claims := &identity.Claims{
		RoleID:   roleID,
		RoleName: roleName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSigningKey))
	if err != nil {
		return fmt.Errorf("failed to sign token: %w", err)
	}
	s.authToken = signed
	return nil
}

func (s *StepsContext) iAmNotAuthenticated() error {
	s.authToken = ""
	return nil
}

// Catalog steps

func (s *StepsContext) iCreateARole(name, description string) error {
	return s.doRequest("POST", "/roles", map[string]interface{}{
		"name":        name,
		"description": description,
	})
}

func (s *StepsContext) iCreateAPermission(name, group string) error {
	return s.doRequest("POST", "/permissions", map[string]interface{}{
		"name":  name,
		"group": group,
	})
}

func (s *StepsContext) iRenameTheRole(name, newName string) error {
	roleID := s.lookupRoleID(name)
	if roleID == "" {
		return fmt.Errorf("role %q not found", name)
	}
	return s.doRequest("PUT", "/roles/"+roleID, map[string]interface{}{
		"name": newName,
	})
}

func (s *StepsContext) iDeleteTheRole(name string) error {
	roleID := s.lookupRoleID(name)
	if roleID == "" {
		return fmt.Errorf("role %q not found", name)
	}
	return s.doRequest("DELETE", "/roles/"+roleID, nil)
}

func (s *StepsContext) iGrantPermission(permissionName, roleName string) error {
	roleID := s.lookupRoleID(roleName)
	permissionID := s.lookupPermissionID(permissionName)
	if roleID == "" || permissionID == "" {
		return fmt.Errorf("role %q or permission %q not found", roleName, permissionName)
	}
	return s.doRequest("POST", "/roles/"+roleID+"/permissions/"+permissionID, nil)
}

func (s *StepsContext) iRevokePermission(permissionName, roleName string) error {
	roleID := s.lookupRoleID(roleName)
	permissionID := s.lookupPermissionID(permissionName)
	if roleID == "" || permissionID == "" {
		return fmt.Errorf("role %q or permission %q not found", roleName, permissionName)
	}
	return s.doRequest("DELETE", "/roles/"+roleID+"/permissions/"+permissionID, nil)
}

func (s *StepsContext) iRequestTheRoleList() error {
	return s.doRequest("GET", "/roles", nil)
}

// Assertion steps

func (s *StepsContext) theResponseStatusShouldBe(expectedStatus int) error {
	if s.response.StatusCode != expectedStatus {
		return fmt.Errorf("expected status %d, got %d: %s", expectedStatus, s.response.StatusCode, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) theResponseShouldContain(substr string) error {
	if !bytes.Contains(s.responseBody, []byte(substr)) {
		return fmt.Errorf("expected response to contain %q, got %s", substr, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) roleShouldExist(name string) error {
	if s.lookupRoleID(name) == "" {
		return fmt.Errorf("role %q does not exist", name)
	}
	return nil
}

func (s *StepsContext) roleShouldNotExist(name string) error {
	if s.lookupRoleID(name) != "" {
		return fmt.Errorf("role %q should not exist but does", name)
	}
	return nil
}

func (s *StepsContext) roleShouldBeSystem(name string) error {
	var isSystem bool
	if err := s.tc.DB.Raw(`SELECT is_system_role FROM roles WHERE name = ?`, name).Scan(&isSystem).Error; err != nil {
		return err
	}
	if !isSystem {
		return fmt.Errorf("role %q is not a system role", name)
	}
	return nil
}

func (s *StepsContext) roleShouldHavePermission(roleName, permissionName string) error {
	count, err := s.countRolePermission(roleName, permissionName)
	if err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("role %q does not hold permission %q", roleName, permissionName)
	}
	return nil
}

func (s *StepsContext) roleShouldNotHavePermission(roleName, permissionName string) error {
	count, err := s.countRolePermission(roleName, permissionName)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("role %q should not hold permission %q but does", roleName, permissionName)
	}
	return nil
}

// Seeding steps

func (s *StepsContext) iTriggerASeedingRun() error {
	return s.doRequest("POST", "/seed", nil)
}

func (s *StepsContext) theSeedingRunShouldReportNoChanges() error {
	var result struct {
		Changed bool `json:"changed"`
	}
	if err := json.Unmarshal(s.responseBody, &result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	if result.Changed {
		return fmt.Errorf("expected changed=false, got %s", string(s.responseBody))
	}
	return nil
}

// iStripRoleDownTo mutates a role's bundle directly in the database,
// simulating drift that the seeder's repair path must undo.
func (s *StepsContext) iStripRoleDownTo(roleName, permissionName string) error {
	roleID := s.lookupRoleID(roleName)
	permissionID := s.lookupPermissionID(permissionName)
	if roleID == "" || permissionID == "" {
		return fmt.Errorf("role %q or permission %q not found", roleName, permissionName)
	}
	if err := s.tc.DB.Exec(`DELETE FROM role_permissions WHERE role_id = ?`, roleID).Error; err != nil {
		return err
	}
	return s.tc.DB.Exec(`INSERT INTO role_permissions (role_id, permission_id) VALUES (?, ?)`,
		roleID, permissionID).Error
}

// Workflow steps

func (s *StepsContext) workflowShouldHaveSteps(slug string, expected int) error {
	var count int64
	err := s.tc.DB.Raw(`
		SELECT COUNT(*) FROM workflow_steps ws
		JOIN workflows w ON w.id = ws.workflow_id
		WHERE w.slug = ?
	`, slug).Scan(&count).Error
	if err != nil {
		return err
	}
	if int(count) != expected {
		return fmt.Errorf("expected workflow %q to have %d steps, got %d", slug, expected, count)
	}
	return nil
}

func (s *StepsContext) iSetTheOverride(roleName, permissionIdentifier, decision string) error {
	roleID := s.lookupRoleID(roleName)
	if roleID == "" {
		return fmt.Errorf("role %q not found", roleName)
	}
	var stepID string
	if err := s.tc.DB.Raw(`SELECT id FROM workflow_steps WHERE permission_identifier = ?`,
		permissionIdentifier).Scan(&stepID).Error; err != nil {
		return err
	}
	if stepID == "" {
		return fmt.Errorf("workflow step %q not found", permissionIdentifier)
	}
	return s.doRequest("POST", "/workflows/step-permissions", map[string]interface{}{
		"roleId":         roleID,
		"workflowStepId": stepID,
		"hasPermission":  decision == "allow",
	})
}

func (s *StepsContext) iRequestTheVisualization(slug string) error {
	return s.doRequest("GET", "/workflows/"+slug+"/visualization", nil)
}

// Helpers

func (s *StepsContext) doRequest(method, path string, body interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, s.tc.ServerURL+path, reader)
	if err != nil {
		return err
	}
	if s.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.authToken)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	s.response, err = s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}

	s.responseBody, err = io.ReadAll(s.response.Body)
	_ = s.response.Body.Close()
	return err
}

func (s *StepsContext) lookupRoleID(name string) string {
	var id string
	_ = s.tc.DB.Raw(`SELECT id FROM roles WHERE name = ?`, name).Scan(&id).Error
	return id
}

func (s *StepsContext) lookupPermissionID(name string) string {
	var id string
	_ = s.tc.DB.Raw(`SELECT id FROM permissions WHERE name = ?`, name).Scan(&id).Error
	return id
}

func (s *StepsContext) countRolePermission(roleName, permissionName string) (int64, error) {
	var count int64
	err := s.tc.DB.Raw(`
		SELECT COUNT(*) FROM role_permissions rp
		JOIN roles r ON r.id = rp.role_id
		JOIN permissions p ON p.id = rp.permission_id
		WHERE r.name = ? AND p.name = ?
	`, roleName, permissionName).Scan(&count).Error
	return count, err
}
