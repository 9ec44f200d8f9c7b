package alert

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	common_models "go-pm/internal/common/models"
	"go-pm/internal/config"
	"go-pm/internal/features/audit"
	"go-pm/internal/features/notification"
	"go-pm/internal/features/taxonomy"
	"go-pm/internal/middleware"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

var (
	ErrAlertNotFound    = errors.New("alert not found")
	ErrAlertNotActive   = errors.New("alert is no longer active")
	ErrAssigneeRequired = errors.New("assignedTo is required")
	ErrLineItemRequired = errors.New("projectId and lineItemId are required")
	ErrInvalidAlert     = errors.New("phase and stepName are required")
	ErrInvalidPriority  = errors.New("priority must be low, medium or high")
	ErrNotesTooLong     = errors.New("notes exceed the allowed length")
)

// LineItemCompleter completes the project checklist entry behind an alert.
// The workflow service provides it.
type LineItemCompleter interface {
	CompleteLineItem(ctx context.Context, projectID, lineItemID, notes string) error
}

// Broadcaster pushes an event to connected realtime clients.
type Broadcaster interface {
	Broadcast(event string, payload any)
}

type AlertService interface {
	CreateAlert(ctx context.Context, alert *WorkflowAlert) error
	ListAlerts(ctx context.Context, filter AlertFilter) ([]WorkflowAlert, error)
	GetAlert(ctx context.Context, id string) (*WorkflowAlert, error)
	Acknowledge(ctx context.Context, id string) error
	Dismiss(ctx context.Context, id string) error
	Assign(ctx context.Context, id, userID string) (*WorkflowAlert, error)
	Complete(ctx context.Context, id string, input CompleteInput) error
	ExportAlerts(ctx context.Context, filter AlertFilter) ([]byte, string, error)
	PurgeClosed(ctx context.Context, olderThan time.Duration) (int64, error)
}

type AlertServiceImpl struct {
	Repo          AlertRepository
	Taxonomy      taxonomy.Resolver
	Completer     LineItemCompleter
	Notifications notification.NotificationService
	AuditService  audit.AuditService
	Broadcaster   Broadcaster
	Logger        *zap.Logger
	NoteLimit     int
	now           func() time.Time
}

func NewAlertService(
	repo AlertRepository,
	tax *taxonomy.Store,
	completer LineItemCompleter,
	notifications notification.NotificationService,
	auditService audit.AuditService,
	broadcaster Broadcaster,
	cfg *config.Config,
	logger *zap.Logger,
) AlertService {
	return &AlertServiceImpl{
		Repo:          repo,
		Taxonomy:      tax,
		Completer:     completer,
		Notifications: notifications,
		AuditService:  auditService,
		Broadcaster:   broadcaster,
		Logger:        logger,
		NoteLimit:     cfg.CompletionNoteLimit,
		now:           time.Now,
	}
}

// CreateAlert stores a new active alert. Missing top-level workflow and step
// ids are taken from metadata, then from the data bag, so the per-step close
// finds the alert. Top-level ids are mirrored into metadata, where clients
// look first.
func (s *AlertServiceImpl) CreateAlert(ctx context.Context, alert *WorkflowAlert) error {
	alert.Phase = strings.TrimSpace(alert.Phase)
	alert.StepName = strings.TrimSpace(alert.StepName)
	if alert.Phase == "" || alert.StepName == "" {
		return ErrInvalidAlert
	}
	if alert.Priority == "" {
		alert.Priority = AlertPriorityMedium
	}
	if !alert.Priority.Valid() {
		return ErrInvalidPriority
	}
	alert.Status = AlertStatusActive
	alert.Acknowledged = false

	if alert.Metadata == nil {
		alert.Metadata = map[string]interface{}{}
	}
	if alert.WorkflowID == "" {
		alert.WorkflowID = bagString("workflowId", alert.Metadata, alert.Data)
	}
	if alert.StepID == "" {
		alert.StepID = bagString("stepId", alert.Metadata, alert.Data)
	}
	if alert.WorkflowID != "" {
		if _, ok := alert.Metadata["workflowId"]; !ok {
			alert.Metadata["workflowId"] = alert.WorkflowID
		}
	}
	if alert.StepID != "" {
		if _, ok := alert.Metadata["stepId"]; !ok {
			alert.Metadata["stepId"] = alert.StepID
		}
	}

	if err := s.Repo.Create(ctx, alert); err != nil {
		return err
	}
	s.enrich(alert)

	s.audit(ctx, common_models.AuditActionCreate, alert.ID.Hex(), map[string]common_models.Change{
		"stepName": {Old: nil, New: alert.StepName},
	})
	return nil
}

func (s *AlertServiceImpl) ListAlerts(ctx context.Context, filter AlertFilter) ([]WorkflowAlert, error) {
	alerts, err := s.Repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range alerts {
		s.enrich(&alerts[i])
	}
	return alerts, nil
}

func (s *AlertServiceImpl) GetAlert(ctx context.Context, id string) (*WorkflowAlert, error) {
	alert, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if alert == nil {
		return nil, ErrAlertNotFound
	}
	s.enrich(alert)
	return alert, nil
}

func (s *AlertServiceImpl) Acknowledge(ctx context.Context, id string) error {
	found, err := s.Repo.Update(ctx, id, bson.M{"acknowledged": true})
	if err != nil {
		return err
	}
	if !found {
		return ErrAlertNotFound
	}
	s.audit(ctx, common_models.AuditActionAcknowledge, id, map[string]common_models.Change{
		"acknowledged": {Old: false, New: true},
	})
	return nil
}

func (s *AlertServiceImpl) Dismiss(ctx context.Context, id string) error {
	alert, err := s.activeAlert(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.Repo.Update(ctx, id, bson.M{"status": AlertStatusDismissed}); err != nil {
		return err
	}
	s.audit(ctx, common_models.AuditActionDismiss, id, map[string]common_models.Change{
		"status": {Old: alert.Status, New: AlertStatusDismissed},
	})
	return nil
}

// Assign hands the alert to userID, notifies the assignee and pushes an
// alert_assigned event.
func (s *AlertServiceImpl) Assign(ctx context.Context, id, userID string) (*WorkflowAlert, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrAssigneeRequired
	}
	alert, err := s.activeAlert(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := alert.AssignedTo
	if _, err := s.Repo.Update(ctx, id, bson.M{"assigned_to": userID}); err != nil {
		return nil, err
	}
	alert.AssignedTo = userID
	s.enrich(alert)

	s.audit(ctx, common_models.AuditActionAssign, id, map[string]common_models.Change{
		"assignedTo": {Old: previous, New: userID},
	})

	assignedBy := "system"
	if claims, ok := middleware.ClaimsFromContext(ctx); ok {
		assignedBy = claims.UserID
	}

	if s.Notifications != nil {
		err := s.Notifications.CreateNotification(ctx, notification.Notification{
			UserID:  userID,
			Title:   "Workflow task assigned",
			Message: fmt.Sprintf("You have been assigned %q (%s)", alert.StepName, alert.Phase),
			Type:    notification.NotificationTypeAssignment,
			Link:    fmt.Sprintf("/tasks?alert=%s", id),
			AlertID: id,
		})
		if err != nil {
			s.log().Warn("Failed to notify assignee", zap.String("alertId", id), zap.String("userId", userID), zap.Error(err))
		}
	}

	if s.Broadcaster != nil {
		s.Broadcaster.Broadcast(EventAlertAssigned, AssignedEvent{
			AlertID:    id,
			AssignedTo: userID,
			AssignedBy: assignedBy,
			StepName:   alert.StepName,
			ProjectID:  alert.ProjectID,
			Timestamp:  s.now().UTC(),
		})
	}
	return alert, nil
}

// Complete completes the project line item behind the alert and closes it.
func (s *AlertServiceImpl) Complete(ctx context.Context, id string, input CompleteInput) error {
	alert, err := s.activeAlert(ctx, id)
	if err != nil {
		return err
	}
	if input.ProjectID == "" {
		input.ProjectID = alert.ProjectID
	}
	if input.ProjectID == "" || input.LineItemID == "" {
		return ErrLineItemRequired
	}
	if s.NoteLimit > 0 && len(input.Notes) > s.NoteLimit {
		return ErrNotesTooLong
	}

	if err := s.Completer.CompleteLineItem(ctx, input.ProjectID, input.LineItemID, input.Notes); err != nil {
		return err
	}

	completedBy := "system"
	if claims, ok := middleware.ClaimsFromContext(ctx); ok {
		completedBy = claims.UserID
	}
	now := s.now()
	if _, err := s.Repo.Update(ctx, id, bson.M{
		"status":       AlertStatusCompleted,
		"completed_at": now,
		"completed_by": completedBy,
	}); err != nil {
		return err
	}

	s.audit(ctx, common_models.AuditActionComplete, id, map[string]common_models.Change{
		"status":     {Old: alert.Status, New: AlertStatusCompleted},
		"lineItemId": {Old: nil, New: input.LineItemID},
	})
	return nil
}

// PurgeClosed deletes dismissed and completed alerts not touched for olderThan.
func (s *AlertServiceImpl) PurgeClosed(ctx context.Context, olderThan time.Duration) (int64, error) {
	n, err := s.Repo.DeleteClosedBefore(ctx, s.now().Add(-olderThan))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.audit(ctx, common_models.AuditActionPurge, "", map[string]common_models.Change{
			"deleted": {Old: nil, New: n},
		})
	}
	return n, nil
}

func (s *AlertServiceImpl) activeAlert(ctx context.Context, id string) (*WorkflowAlert, error) {
	alert, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if alert == nil {
		return nil, ErrAlertNotFound
	}
	if alert.Status != AlertStatusActive {
		return nil, ErrAlertNotActive
	}
	return alert, nil
}

func (s *AlertServiceImpl) enrich(alert *WorkflowAlert) {
	if s.Taxonomy == nil {
		return
	}
	res := s.Taxonomy.Resolve(alert.StepName, alert.Phase)
	alert.Section = res.Section
	alert.LineItem = res.LineItem
	alert.ResponsibleRole = string(res.ResponsibleRole)
}

func (s *AlertServiceImpl) audit(ctx context.Context, action common_models.AuditAction, recordID string, changes map[string]common_models.Change) {
	if s.AuditService == nil {
		return
	}
	if err := s.AuditService.LogChange(ctx, action, audit.ModuleAlerts, recordID, changes); err != nil {
		s.log().Warn("Failed to write audit log", zap.String("action", string(action)), zap.Error(err))
	}
}

func (s *AlertServiceImpl) log() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// bagString returns the first non-empty string stored under key.
func bagString(key string, bags ...map[string]interface{}) string {
	for _, bag := range bags {
		if v, ok := bag[key].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
