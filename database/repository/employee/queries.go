// File: database/repository/employee/queries.go
package employeeRepo

import (
	"context"
	"fmt"
	"regexp"

	"viyarschedule/database"
	"viyarschedule/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoEmployeeRepo) Search(ctx context.Context, query string, limit int) ([]models.EmployeeSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	filter := bson.M{"name": primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}}
	opts := options.Find().
		SetProjection(bson.M{"_id": 0, "name": 1, "position": 1}).
		SetSort(bson.D{{Key: "name", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search employees: %w", database.Classify(err))
	}
	defer cursor.Close(ctx)

	var out []models.EmployeeSummary
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("error decoding employees: %w", database.Classify(err))
	}
	return out, nil
}
