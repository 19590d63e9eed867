// Package workflow exposes the workflow visualization join and the sparse
// per-step override matrix. Overrides are an axis separate from the main
// role permission bundles: a system role's overrides stay editable even
// though its bundle is locked.
package workflow

import (
	"log"

	"github.com/taskhub/rbac/pkg/apperror"
	"github.com/taskhub/rbac/pkg/store"
)

// DefaultWorkflowSlug names the workflow seeded at startup.
const DefaultWorkflowSlug = "task-creation"

// RoleNode is a role as it appears in a visualization. Permission bundles are
// deliberately not resolved here.
type RoleNode struct {
	ID          string
	Name        string
	Description string
}

// StepNode is one workflow step in a visualization, ordered by StepOrder.
type StepNode struct {
	ID                   string
	Name                 string
	Description          string
	StepOrder            int
	PermissionIdentifier string
}

// Visualization is the read-only join of a workflow's steps, all roles, and
// the override entries touching those steps.
type Visualization struct {
	WorkflowID   string
	WorkflowName string
	WorkflowSlug string
	Steps        []StepNode
	Roles        []RoleNode
	Overrides    []store.StepOverride
}

// Service manages workflows and their override matrix.
type Service struct {
	store  store.Store
	logger *log.Logger
}

// NewService creates a Service. A nil logger falls back to the default logger.
func NewService(st store.Store, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{store: st, logger: logger}
}

// Visualization assembles the read-only view for one workflow.
func (s *Service) Visualization(slug string) (*Visualization, error) {
	wf, err := s.store.Workflows().GetWorkflowBySlug(slug)
	if err != nil {
		return nil, apperror.Internal(err, "getting workflow")
	}
	if wf == nil {
		return nil, apperror.NotFound("workflow with slug %q not found", slug)
	}

	roles, err := s.store.Roles().ListRoles()
	if err != nil {
		return nil, apperror.Internal(err, "listing roles")
	}

	stepIDs := make([]string, 0, len(wf.Steps))
	steps := make([]StepNode, 0, len(wf.Steps))
	for _, step := range wf.Steps {
		stepIDs = append(stepIDs, step.ID)
		steps = append(steps, StepNode{
			ID:                   step.ID,
			Name:                 step.Name,
			Description:          step.Description,
			StepOrder:            step.StepOrder,
			PermissionIdentifier: step.PermissionIdentifier,
		})
	}

	overrides, err := s.store.Overrides().ListOverridesForSteps(stepIDs)
	if err != nil {
		return nil, apperror.Internal(err, "listing overrides")
	}

	roleNodes := make([]RoleNode, 0, len(roles))
	for _, role := range roles {
		roleNodes = append(roleNodes, RoleNode{
			ID:          role.ID,
			Name:        role.Name,
			Description: role.Description,
		})
	}

	return &Visualization{
		WorkflowID:   wf.ID,
		WorkflowName: wf.Name,
		WorkflowSlug: wf.Slug,
		Steps:        steps,
		Roles:        roleNodes,
		Overrides:    overrides,
	}, nil
}

// UpsertOverride records an explicit allow or deny for a (role, step) pair.
// At most one entry per pair ever exists. System roles are allowed here; the
// override matrix is not covered by the bundle immutability rule.
func (s *Service) UpsertOverride(roleID, stepID string, hasPermission bool) (*store.StepOverride, error) {
	role, err := s.store.Roles().GetRole(roleID)
	if err != nil {
		return nil, apperror.Internal(err, "getting role")
	}
	if role == nil {
		return nil, apperror.NotFound("role %q not found", roleID)
	}
	step, err := s.store.Workflows().GetStep(stepID)
	if err != nil {
		return nil, apperror.Internal(err, "getting workflow step")
	}
	if step == nil {
		return nil, apperror.NotFound("workflow step %q not found", stepID)
	}

	o := &store.StepOverride{
		RoleID:         roleID,
		WorkflowStepID: stepID,
		HasPermission:  hasPermission,
	}
	if err := s.store.Overrides().UpsertOverride(o); err != nil {
		return nil, apperror.Internal(err, "upserting override")
	}
	return o, nil
}

// SeedDefaultWorkflow creates the task-creation workflow with its canonical
// steps if it does not exist. Idempotent at the workflow granularity: once
// the workflow exists the step list is never reconciled.
func (s *Service) SeedDefaultWorkflow() error {
	existing, err := s.store.Workflows().GetWorkflowBySlug(DefaultWorkflowSlug)
	if err != nil {
		return apperror.Internal(err, "getting workflow")
	}
	if existing != nil {
		return nil
	}

	s.logger.Printf("seed: creating %q workflow and its steps", DefaultWorkflowSlug)
	wf := &store.Workflow{
		Name:        "Task Creation Workflow",
		Slug:        DefaultWorkflowSlug,
		Description: "Visualizes permissions related to creating and managing tasks.",
		Steps:       defaultWorkflowSteps(),
	}
	err = s.store.Workflows().CreateWorkflow(wf)
	if apperror.IsConflict(err) {
		// Lost the creation race; the winner's steps stand.
		return nil
	}
	if err != nil {
		return apperror.Internal(err, "creating workflow")
	}
	return nil
}

func defaultWorkflowSteps() []store.WorkflowStep {
	return []store.WorkflowStep{
		{Name: "Create Personal Task", PermissionIdentifier: "task:create:personal", StepOrder: 1, Description: "Allows a user to create tasks for themselves."},
		{Name: "Access QuickNotes", PermissionIdentifier: "dashboard:access:quicknote", StepOrder: 2, Description: "Allows a user to access quick notes on the dashboard."},
		{Name: "Assign Task to Users", PermissionIdentifier: "task:assign:user", StepOrder: 3, Description: "Allows assigning tasks to other individual users."},
		{Name: "Assign Task to Departments", PermissionIdentifier: "task:assign:department", StepOrder: 4, Description: "Allows assigning tasks to one or more departments."},
		{Name: "Assign Task to Provincial Depts", PermissionIdentifier: "task:assign:provincial_department", StepOrder: 5, Description: "Allows assigning tasks to departments within specific provinces."},
		{Name: "Delegate Own Task (Dept Member)", PermissionIdentifier: "task:delegate:own_to_department_member", StepOrder: 6, Description: "Can delegate self-created tasks to a member of their own department."},
		{Name: "Delegate Assigned Task (Dept Member)", PermissionIdentifier: "task:delegate:assigned_to_department_member", StepOrder: 7, Description: "Can delegate tasks assigned to them to another member of their own department."},
		{Name: "Delete Own Task", PermissionIdentifier: "task:delete:own", StepOrder: 8, Description: "Can delete tasks they created."},
		{Name: "Delete Task Assigned to Self", PermissionIdentifier: "task:delete:assigned_to_self", StepOrder: 9, Description: "Can delete tasks that are directly assigned to them."},
		{Name: "Delete Task Delegated to Self", PermissionIdentifier: "task:delete:delegated_to_self", StepOrder: 10, Description: "Can delete tasks that were delegated to them."},
		{Name: "View All Department Tasks", PermissionIdentifier: "task:view:department_tasks_all_users", StepOrder: 11, Description: "Can see all tasks within their assigned departments, regardless of assignee."},
		{Name: "View Delegated Department Tasks", PermissionIdentifier: "task:view:department_delegated_tasks", StepOrder: 12, Description: "Can see tasks delegated to their departments."},
	}
}
