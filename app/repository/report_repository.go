package repository

import (
	"context"
	"time"

	"complaint-tracker-backend/app/model"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ReportFilter membatasi rentang waktu event (createdAt). Nil berarti tanpa batas.
type ReportFilter struct {
	From *time.Time
	To   *time.Time
}

// WorkerScore adalah agregat aktivitas per worker.
type WorkerScore struct {
	WorkerID string `json:"workerId"`
	Accepted int64  `json:"accepted"`
	Resolved int64  `json:"resolved"`
}

// ActivityReport adalah hasil agregasi timeline complaint.
type ActivityReport struct {
	TotalEvents int64                       `json:"totalEvents"`
	ByAction    map[model.EventAction]int64 `json:"byAction"`
	ByPeriod    map[string]int64            `json:"byPeriod"` // key: "YYYY-MM"
	TopWorkers  []WorkerScore               `json:"topWorkers"`
}

// ReportRepository menjalankan query statistik aktivitas ke MongoDB.
type ReportRepository interface {
	Activity(ctx context.Context, filter ReportFilter) (*ActivityReport, error)
}

const topWorkersLimit = 10

type reportRepository struct {
	coll *mongo.Collection
}

// NewReportRepository: tanpa Mongo, laporan selalu kosong.
func NewReportRepository(mongoDB *mongo.Database) ReportRepository {
	if mongoDB == nil {
		return noopReportRepository{}
	}
	return &reportRepository{coll: mongoDB.Collection(eventCollection)}
}

func emptyReport() *ActivityReport {
	return &ActivityReport{
		ByAction:   make(map[model.EventAction]int64),
		ByPeriod:   make(map[string]int64),
		TopWorkers: []WorkerScore{},
	}
}

// buildMatchFilter membentuk filter $match berdasarkan rentang createdAt.
func buildMatchFilter(filter ReportFilter) bson.M {
	match := bson.M{}
	created := bson.M{}
	if filter.From != nil {
		created["$gte"] = *filter.From
	}
	if filter.To != nil {
		created["$lte"] = *filter.To
	}
	if len(created) > 0 {
		match["createdAt"] = created
	}
	return match
}

type countRow struct {
	ID    string `bson:"_id"`
	Count int64  `bson:"count"`
}

func (r *reportRepository) groupCount(ctx context.Context, pipeline mongo.Pipeline) ([]countRow, error) {
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var rows []countRow
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Activity menjalankan beberapa agregasi: total event, per action,
// per bulan (YYYY-MM), dan worker paling aktif.
func (r *reportRepository) Activity(ctx context.Context, filter ReportFilter) (*ActivityReport, error) {
	match := buildMatchFilter(filter)
	result := emptyReport()

	total, err := r.coll.CountDocuments(ctx, match)
	if err != nil {
		return nil, errors.Wrap(err, "count events")
	}
	result.TotalEvents = total

	rows, err := r.groupCount(ctx, mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{"_id": "$action", "count": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, errors.Wrap(err, "group by action")
	}
	for _, row := range rows {
		result.ByAction[model.EventAction(row.ID)] = row.Count
	}

	rows, err = r.groupCount(ctx, mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"$dateToString": bson.M{"format": "%Y-%m", "date": "$createdAt"}},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	})
	if err != nil {
		return nil, errors.Wrap(err, "group by period")
	}
	for _, row := range rows {
		if row.ID == "" {
			row.ID = "unknown"
		}
		result.ByPeriod[row.ID] = row.Count
	}

	workerMatch := bson.M{"actorRole": model.RoleWorker}
	for k, v := range match {
		workerMatch[k] = v
	}
	cur, err := r.coll.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: workerMatch}},
		{{Key: "$group", Value: bson.M{
			"_id": "$actorId",
			"accepted": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$action", model.ActionAccepted}}, 1, 0},
			}},
			"resolved": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$toStatus", model.StatusResolved}}, 1, 0},
			}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "resolved", Value: -1}, {Key: "accepted", Value: -1}}}},
		{{Key: "$limit", Value: topWorkersLimit}},
	})
	if err != nil {
		return nil, errors.Wrap(err, "top workers")
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var row struct {
			ID       string `bson:"_id"`
			Accepted int64  `bson:"accepted"`
			Resolved int64  `bson:"resolved"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, errors.Wrap(err, "decode top worker")
		}
		if row.ID == "" {
			continue
		}
		result.TopWorkers = append(result.TopWorkers, WorkerScore{WorkerID: row.ID, Accepted: row.Accepted, Resolved: row.Resolved})
	}
	return result, cur.Err()
}

type noopReportRepository struct{}

func (noopReportRepository) Activity(context.Context, ReportFilter) (*ActivityReport, error) {
	return emptyReport(), nil
}
