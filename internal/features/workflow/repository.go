package workflow

import (
	"context"
	"errors"
	"time"

	"go-pm/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type WorkflowRepository interface {
	Create(ctx context.Context, wf *ProjectWorkflow) error
	FindByID(ctx context.Context, id string) (*ProjectWorkflow, error)
	FindByProjectID(ctx context.Context, projectID string) (*ProjectWorkflow, error)
	// SetStepState updates one step of a workflow in place.
	SetStepState(ctx context.Context, workflowID primitive.ObjectID, stepID string, step WorkflowStep) error
	EnsureIndexes(ctx context.Context) error
}

type WorkflowRepositoryImpl struct {
	collection *mongo.Collection
}

func NewWorkflowRepository(db *database.MongodbDB) WorkflowRepository {
	return &WorkflowRepositoryImpl{
		collection: db.DB.Collection("project_workflows"),
	}
}

// EnsureIndexes makes project_id unique; a project has one checklist.
func (r *WorkflowRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "project_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *WorkflowRepositoryImpl) Create(ctx context.Context, wf *ProjectWorkflow) error {
	if wf.ID.IsZero() {
		wf.ID = primitive.NewObjectID()
	}
	now := time.Now()
	wf.CreatedAt = now
	wf.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, wf)
	return err
}

func (r *WorkflowRepositoryImpl) FindByID(ctx context.Context, id string) (*ProjectWorkflow, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *WorkflowRepositoryImpl) FindByProjectID(ctx context.Context, projectID string) (*ProjectWorkflow, error) {
	return r.findOne(ctx, bson.M{"project_id": projectID})
}

func (r *WorkflowRepositoryImpl) findOne(ctx context.Context, filter bson.M) (*ProjectWorkflow, error) {
	var wf ProjectWorkflow
	err := r.collection.FindOne(ctx, filter).Decode(&wf)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &wf, nil
}

func (r *WorkflowRepositoryImpl) SetStepState(ctx context.Context, workflowID primitive.ObjectID, stepID string, step WorkflowStep) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": workflowID, "steps.id": stepID},
		bson.M{"$set": bson.M{
			"steps.$.completed":    step.Completed,
			"steps.$.completed_at": step.CompletedAt,
			"steps.$.completed_by": step.CompletedBy,
			"steps.$.notes":        step.Notes,
			"updated_at":           time.Now(),
		}},
	)
	return err
}
