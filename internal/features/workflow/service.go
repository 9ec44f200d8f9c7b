package workflow

import (
	"context"
	"errors"
	"strings"
	"time"

	common_models "go-pm/internal/common/models"
	"go-pm/internal/features/alert"
	"go-pm/internal/features/audit"
	"go-pm/internal/features/taxonomy"
	"go-pm/internal/middleware"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrWorkflowNotFound = errors.New("workflow not found")
	ErrStepNotFound     = errors.New("workflow step not found")
	ErrInvalidWorkflow  = errors.New("projectId and at least one step are required")
	ErrWorkflowExists   = errors.New("project already has a workflow")
)

type WorkflowService interface {
	CreateWorkflow(ctx context.Context, wf *ProjectWorkflow) error
	GetProjectWorkflow(ctx context.Context, projectID string) (*ProjectWorkflow, error)
	CompleteStep(ctx context.Context, workflowID, stepID string, input StepCompletionInput) (*StepCompletionResult, error)
	UpdateProjectStep(ctx context.Context, projectID, stepID string, completed bool) (*WorkflowStep, error)
	CompleteLineItem(ctx context.Context, projectID, lineItemID, notes string) error
}

type WorkflowServiceImpl struct {
	Repo         WorkflowRepository
	AlertRepo    alert.AlertRepository
	Taxonomy     taxonomy.Resolver
	AuditService audit.AuditService
	Broadcaster  alert.Broadcaster
	Logger       *zap.Logger
	now          func() time.Time
}

func NewWorkflowService(
	repo WorkflowRepository,
	alertRepo alert.AlertRepository,
	tax *taxonomy.Store,
	auditService audit.AuditService,
	broadcaster alert.Broadcaster,
	logger *zap.Logger,
) WorkflowService {
	return &WorkflowServiceImpl{
		Repo:         repo,
		AlertRepo:    alertRepo,
		Taxonomy:     tax,
		AuditService: auditService,
		Broadcaster:  broadcaster,
		Logger:       logger,
		now:          time.Now,
	}
}

// CreateWorkflow stores a project checklist. Steps get an id when they have
// none and their section and line item from the taxonomy.
func (s *WorkflowServiceImpl) CreateWorkflow(ctx context.Context, wf *ProjectWorkflow) error {
	wf.ProjectID = strings.TrimSpace(wf.ProjectID)
	if wf.ProjectID == "" || len(wf.Steps) == 0 {
		return ErrInvalidWorkflow
	}
	existing, err := s.Repo.FindByProjectID(ctx, wf.ProjectID)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrWorkflowExists
	}

	for i := range wf.Steps {
		step := &wf.Steps[i]
		if step.ID == "" {
			step.ID = uuid.NewString()
		}
		if s.Taxonomy != nil {
			res := s.Taxonomy.Resolve(step.StepName, step.Phase)
			step.Section = res.Section
			step.LineItem = res.LineItem
			step.ResponsibleRole = string(res.ResponsibleRole)
		}
	}
	return s.Repo.Create(ctx, wf)
}

func (s *WorkflowServiceImpl) GetProjectWorkflow(ctx context.Context, projectID string) (*ProjectWorkflow, error) {
	wf, err := s.Repo.FindByProjectID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if wf == nil {
		return nil, ErrWorkflowNotFound
	}
	return wf, nil
}

// CompleteStep marks a step complete, closes the alerts raised for it and
// broadcasts workflow_step_completed. Completing a completed step is not an
// error; the result reports AlreadyCompleted.
func (s *WorkflowServiceImpl) CompleteStep(ctx context.Context, workflowID, stepID string, input StepCompletionInput) (*StepCompletionResult, error) {
	wf, err := s.Repo.FindByID(ctx, workflowID)
	if err != nil {
		return nil, err
	}
	if wf == nil {
		return nil, ErrWorkflowNotFound
	}
	_, step := wf.Step(stepID)
	if step == nil {
		return nil, ErrStepNotFound
	}

	result := &StepCompletionResult{
		WorkflowID: workflowID,
		StepID:     stepID,
		ProjectID:  wf.ProjectID,
		StepName:   step.StepName,
		AlertID:    input.AlertID,
	}

	if step.Completed {
		result.AlreadyCompleted = true
		result.CompletedBy = step.CompletedBy
		if step.CompletedAt != nil {
			result.CompletedAt = *step.CompletedAt
		}
		result.AlertsClosed = s.closeAlerts(ctx, workflowID, stepID, input.AlertID, step.CompletedBy, s.now())
		return result, nil
	}

	now := s.now()
	completedBy := actor(ctx)
	step.Completed = true
	step.CompletedAt = &now
	step.CompletedBy = completedBy
	step.Notes = input.Notes
	if err := s.Repo.SetStepState(ctx, wf.ID, stepID, *step); err != nil {
		return nil, err
	}

	result.CompletedBy = completedBy
	result.CompletedAt = now
	result.AlertsClosed = s.closeAlerts(ctx, workflowID, stepID, input.AlertID, completedBy, now)

	s.audit(ctx, common_models.AuditActionComplete, stepID, map[string]common_models.Change{
		"completed": {Old: false, New: true},
		"workflow":  {Old: nil, New: workflowID},
	})

	if s.Broadcaster != nil {
		s.Broadcaster.Broadcast(EventWorkflowStepCompleted, StepCompletedEvent{
			WorkflowID:  workflowID,
			StepID:      stepID,
			ProjectID:   wf.ProjectID,
			StepName:    step.StepName,
			CompletedBy: completedBy,
			Timestamp:   now.UTC(),
		})
		result.Broadcast = true
	}
	return result, nil
}

// closeAlerts closes the named alert and any other active alert raised for
// the same step. The named alert is left alone unless it is active and
// belongs to this step. Failures are logged; the step itself is already
// complete.
func (s *WorkflowServiceImpl) closeAlerts(ctx context.Context, workflowID, stepID, alertID, completedBy string, at time.Time) int64 {
	var closed int64
	if alertID != "" {
		ok, err := s.AlertRepo.CloseStepAlert(ctx, alertID, workflowID, stepID, completedBy, at)
		switch {
		case err != nil:
			s.log().Warn("Failed to close alert for completed step", zap.String("alertId", alertID), zap.Error(err))
		case ok:
			closed++
		default:
			s.log().Debug("Alert not open for this step", zap.String("alertId", alertID), zap.String("stepId", stepID))
		}
	}
	n, err := s.AlertRepo.CloseForStep(ctx, workflowID, stepID, completedBy, at)
	if err != nil {
		s.log().Warn("Failed to close step alerts", zap.String("workflowId", workflowID), zap.String("stepId", stepID), zap.Error(err))
	}
	return closed + n
}

// UpdateProjectStep sets the checklist flag of a step. Clearing the flag
// also clears who completed it.
func (s *WorkflowServiceImpl) UpdateProjectStep(ctx context.Context, projectID, stepID string, completed bool) (*WorkflowStep, error) {
	wf, err := s.GetProjectWorkflow(ctx, projectID)
	if err != nil {
		return nil, err
	}
	_, step := wf.Step(stepID)
	if step == nil {
		return nil, ErrStepNotFound
	}
	if step.Completed == completed {
		return step, nil
	}

	previous := step.Completed
	if completed {
		now := s.now()
		step.Completed = true
		step.CompletedAt = &now
		step.CompletedBy = actor(ctx)
	} else {
		step.Completed = false
		step.CompletedAt = nil
		step.CompletedBy = ""
	}
	if err := s.Repo.SetStepState(ctx, wf.ID, stepID, *step); err != nil {
		return nil, err
	}

	s.audit(ctx, common_models.AuditActionSync, stepID, map[string]common_models.Change{
		"completed": {Old: previous, New: completed},
	})
	return step, nil
}

// CompleteLineItem completes the step identified by lineItemID within the
// project's workflow.
func (s *WorkflowServiceImpl) CompleteLineItem(ctx context.Context, projectID, lineItemID, notes string) error {
	wf, err := s.GetProjectWorkflow(ctx, projectID)
	if err != nil {
		return err
	}
	_, err = s.CompleteStep(ctx, wf.ID.Hex(), lineItemID, StepCompletionInput{Notes: notes})
	return err
}

func (s *WorkflowServiceImpl) audit(ctx context.Context, action common_models.AuditAction, recordID string, changes map[string]common_models.Change) {
	if s.AuditService == nil {
		return
	}
	if err := s.AuditService.LogChange(ctx, action, audit.ModuleWorkflows, recordID, changes); err != nil {
		s.log().Warn("Failed to write audit log", zap.Error(err))
	}
}

func (s *WorkflowServiceImpl) log() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func actor(ctx context.Context) string {
	if claims, ok := middleware.ClaimsFromContext(ctx); ok {
		return claims.UserID
	}
	return "system"
}
