package alert

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

type AlertRepository interface {
	Create(ctx context.Context, alert *WorkflowAlert) error
	FindByID(ctx context.Context, id string) (*WorkflowAlert, error)
	List(ctx context.Context, filter AlertFilter) ([]WorkflowAlert, error)
	Update(ctx context.Context, id string, set bson.M) (bool, error)
	// CloseForStep marks every active alert of a workflow step completed.
	CloseForStep(ctx context.Context, workflowID, stepID, completedBy string, at time.Time) (int64, error)
	// CloseStepAlert completes one alert, only while it is active and raised
	// for the given workflow step.
	CloseStepAlert(ctx context.Context, id, workflowID, stepID, completedBy string, at time.Time) (bool, error)
	DeleteClosedBefore(ctx context.Context, cutoff time.Time) (int64, error)
	EnsureIndexes(ctx context.Context) error
}

type AlertRepositoryImpl struct {
	collection *mongo.Collection
}

func NewAlertRepository(db *database.MongodbDB) AlertRepository {
	return &AlertRepositoryImpl{
		collection: db.DB.Collection("workflow_alerts"),
	}
}

// EnsureIndexes covers the active list (newest first), the per-step close
// and the retention sweep.
func (r *AlertRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "workflow_id", Value: 1}, {Key: "step_id", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "assigned_to", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "updated_at", Value: 1}}},
	})
	return err
}

func (r *AlertRepositoryImpl) Create(ctx context.Context, alert *WorkflowAlert) error {
	if alert.ID.IsZero() {
		alert.ID = primitive.NewObjectID()
	}
	now := time.Now()
	alert.CreatedAt = now
	alert.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, alert)
	return err
}

func (r *AlertRepositoryImpl) FindByID(ctx context.Context, id string) (*WorkflowAlert, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var alert WorkflowAlert
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&alert)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &alert, nil
}

func (r *AlertRepositoryImpl) List(ctx context.Context, filter AlertFilter) ([]WorkflowAlert, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.UserID != "" {
		query["assigned_to"] = filter.UserID
	}
	if filter.ProjectID != "" {
		query["project_id"] = filter.ProjectID
	}
	if filter.Priority != "" {
		query["priority"] = filter.Priority
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	alerts := []WorkflowAlert{}
	if err = cursor.All(ctx, &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

func (r *AlertRepositoryImpl) Update(ctx context.Context, id string, set bson.M) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	set["updated_at"] = time.Now()

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *AlertRepositoryImpl) CloseForStep(ctx context.Context, workflowID, stepID, completedBy string, at time.Time) (int64, error) {
	res, err := r.collection.UpdateMany(ctx,
		bson.M{
			"status":      AlertStatusActive,
			"workflow_id": workflowID,
			"step_id":     stepID,
		},
		bson.M{"$set": bson.M{
			"status":       AlertStatusCompleted,
			"completed_at": at,
			"completed_by": completedBy,
			"updated_at":   at,
		}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *AlertRepositoryImpl) CloseStepAlert(ctx context.Context, id, workflowID, stepID, completedBy string, at time.Time) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}

	// Older alerts may carry the step ids only in metadata or data.
	res, err := r.collection.UpdateOne(ctx,
		bson.M{
			"_id":    oid,
			"status": AlertStatusActive,
			"$or": bson.A{
				bson.M{"workflow_id": workflowID, "step_id": stepID},
				bson.M{"metadata.workflowId": workflowID, "metadata.stepId": stepID},
				bson.M{"data.workflowId": workflowID, "data.stepId": stepID},
			},
		},
		bson.M{"$set": bson.M{
			"status":       AlertStatusCompleted,
			"completed_at": at,
			"completed_by": completedBy,
			"updated_at":   at,
		}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

func (r *AlertRepositoryImpl) DeleteClosedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{
		"status":     bson.M{"$ne": AlertStatusActive},
		"updated_at": bson.M{"$lt": cutoff},
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
