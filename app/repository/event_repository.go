package repository

import (
	"context"
	"time"

	"complaint-tracker-backend/app/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const eventCollection = "complaint_events"

// EventRepository menyimpan timeline complaint (append-only) di MongoDB.
type EventRepository interface {
	Append(ctx context.Context, ev *model.ComplaintEvent) error
	// ListByComplaint mengembalikan event urut dari yang paling lama.
	ListByComplaint(ctx context.Context, complaintID string) ([]model.ComplaintEvent, error)
}

type eventRepository struct {
	mongo *mongo.Database
}

// NewEventRepository membuat repository timeline. mongoDB nil => timeline dinonaktifkan.
func NewEventRepository(mongoDB *mongo.Database) EventRepository {
	if mongoDB == nil {
		return noopEventRepository{}
	}
	return &eventRepository{mongo: mongoDB}
}

// EnsureEventIndexes membuat index (complaintId, createdAt). Aman dipanggil berulang.
func EnsureEventIndexes(ctx context.Context, mongoDB *mongo.Database) error {
	_, err := mongoDB.Collection(eventCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "complaintId", Value: 1}, {Key: "createdAt", Value: 1}},
	})
	return err
}

func (r *eventRepository) Append(ctx context.Context, ev *model.ComplaintEvent) error {
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}
	_, err := r.mongo.Collection(eventCollection).InsertOne(ctx, ev)
	return err
}

func (r *eventRepository) ListByComplaint(ctx context.Context, complaintID string) ([]model.ComplaintEvent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.mongo.Collection(eventCollection).Find(ctx, bson.M{"complaintId": complaintID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	events := make([]model.ComplaintEvent, 0)
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// noopEventRepository dipakai saat MONGO_URI kosong.
type noopEventRepository struct{}

func (noopEventRepository) Append(context.Context, *model.ComplaintEvent) error {
	return nil
}

func (noopEventRepository) ListByComplaint(context.Context, string) ([]model.ComplaintEvent, error) {
	return []model.ComplaintEvent{}, nil
}
