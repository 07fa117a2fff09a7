// File: database/repository/schedule/crud.go
package scheduleRepo

import (
	"context"
	"fmt"
	"time"

	"viyarschedule/database"
	"viyarschedule/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoScheduleRepo) DeleteByDates(ctx context.Context, dates []time.Time) (int64, error) {
	if len(dates) == 0 {
		return 0, nil
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.coll.DeleteMany(ctx, bson.M{"date": bson.M{"$in": dates}})
	if err != nil {
		return 0, fmt.Errorf("failed to delete schedules by date: %w", database.Classify(err))
	}
	return res.DeletedCount, nil
}

func (r *mongoScheduleRepo) Upsert(ctx context.Context, entry models.Schedule) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	now := time.Now().UTC()
	filter := bson.M{"employee": entry.EmployeeID, "date": entry.Date}
	update := bson.M{
		"$set": bson.M{
			"action":     entry.Action,
			"department": entry.Department,
			"duty":       entry.Duty,
			"updatedAt":  now,
		},
		"$setOnInsert": bson.M{"createdAt": now},
	}

	if _, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("failed to upsert schedule for %s: %w", entry.Date.Format("2006-01-02"), database.Classify(err))
	}
	return nil
}

func (r *mongoScheduleRepo) find(ctx context.Context, filter bson.M) ([]models.Schedule, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedules: %w", database.Classify(err))
	}
	defer cursor.Close(ctx)

	var out []models.Schedule
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("error decoding schedules: %w", database.Classify(err))
	}
	return out, nil
}
